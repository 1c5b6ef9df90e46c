// Package driver implements component I: the linear pipeline composition
// that turns `.nc` source into clock-free `.nc` source. Grounded on the
// overall shape of the teacher's semantic.Analyzer.Analyze →
// ir.Builder.Build hand-off (one struct per stage, explicit ordered calls
// from a thin orchestrator), generalized from two stages to the full
// parse → annotate → setbuilder → scheduler → reverse → recover → print
// chain.
package driver

import (
	"context"

	"noclock/internal/annotate"
	"noclock/internal/ast"
	"noclock/internal/diagnostics"
	"noclock/internal/errors"
	recoverpkg "noclock/internal/recover"
	"noclock/internal/reverse"
	"noclock/internal/scheduler"
	"noclock/internal/setbuilder"
	"noclock/internal/parser"
)

// Config controls one run of the pipeline.
type Config struct {
	// Filename attributes parse errors and is shown in -->-style
	// diagnostics. Required.
	Filename string
	// Source is the `.nc` program text.
	Source string
	// Params is the program's free parameter names, threaded into
	// internal/setbuilder and used by Scheduler when it needs them
	// (SubprocessScheduler passes them in Request.Params).
	Params []string
	// Scheduler is the external scheduler to hand the built sets to. If
	// nil, Run uses a StubScheduler built from the annotated program's
	// own concrete instances (see enumerateInstances): this only
	// succeeds for programs with no free parameters and no non-constant
	// loop bounds, exactly the limitation spec.md §4.F documents for a
	// from-scratch scheduler stand-in.
	Scheduler scheduler.Scheduler
	// Formatter controls how the recovered program is printed. Nil uses
	// ast.NewFormatter()'s defaults.
	Formatter *ast.Formatter
}

// Run executes one full pipeline pass and returns the pretty-printed
// clock-free program. Every failure is a *errors.CompilerError tagged
// with which stage raised it, per spec.md §7.
func Run(ctx context.Context, cfg Config) (string, error) {
	list, err := parser.ParseString(cfg.Filename, cfg.Source)
	if err != nil {
		return "", err
	}

	annotate.Annotate(list, cfg.Params)

	union, table := setbuilder.Build(list, cfg.Params)

	sched := cfg.Scheduler
	if sched == nil {
		instances, err := enumerateInstances(list, table)
		if err != nil {
			return "", err
		}
		sched = &scheduler.StubScheduler{Instances: instances}
		diagnostics.Verbosef("driver: no scheduler configured, falling back to StubScheduler with %d concrete instance(s)\n", len(instances))
	}

	node, err := sched.Schedule(ctx, scheduler.Request{SetText: union.String(), Params: cfg.Params})
	if err != nil {
		return "", errors.NewScheduler("scheduling failed: %v", err).WithNote(union.String())
	}

	scheduled := reverse.Translate(node)

	recovered, err := recoverpkg.Recover(scheduled, table)
	if err != nil {
		return "", err
	}

	f := cfg.Formatter
	if f == nil {
		f = ast.NewFormatter()
	}
	return ast.Format(recovered, f), nil
}
