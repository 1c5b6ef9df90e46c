// Package main is the noclock CLI (component N): read a `.nc` program,
// run the clock-elimination pipeline, write the clock-free result. Flags
// grounded on spec.md §6's CLI surface; parse-error reporting grounded on
// the teacher's cmd/kanso-cli/main.go reportParseError, retargeted at this
// module's own internal/parser and internal/errors.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"noclock/internal/ast"
	"noclock/internal/diagnostics"
	"noclock/internal/driver"
	"noclock/internal/errors"
	"noclock/internal/scheduler"
	"noclock/repl"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("noclock", flag.ContinueOnError)

	out := fs.String("o", "", "output file path (default: stdout)")
	color := fs.Bool("color", false, "colorize the output")
	indentStyle := fs.String("indent", "spaces", "indentation style: spaces|tabs")
	indentWidth := fs.Int("indent-width", 4, "spaces per indentation level (ignored for -indent=tabs)")
	verbose := fs.Bool("verbose", false, "enable verbose diagnostics on stderr")
	debug := fs.Bool("debug", false, "enable debug diagnostics on stderr")
	params := fs.String("params", "", "comma-separated list of free program parameters")
	schedulerPath := fs.String("scheduler", "", "path to an external scheduler binary")
	noScheduler := fs.Bool("no-scheduler", false, "use the in-process stub scheduler instead of an external binary")
	interactive := fs.Bool("repl", false, "start an interactive REPL instead of compiling a file")

	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: noclock [flags] <input.nc>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *verbose {
		diagnostics.EnableVerbose()
	}
	if *debug {
		diagnostics.EnableDebug()
	}

	if *interactive {
		repl.Start(os.Stdin, os.Stdout)
		return 0
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	inputPath := fs.Arg(0)

	source, err := os.ReadFile(inputPath)
	if err != nil {
		reportResourceError(fmt.Errorf("reading %s: %w", inputPath, err))
		return 1
	}

	// driver.Run falls back to the stub scheduler whenever Scheduler is
	// nil, so -no-scheduler only has to keep it nil: it is nil by default,
	// only -scheduler sets it, and -no-scheduler wins over -scheduler.
	var sched scheduler.Scheduler
	if *schedulerPath != "" && !*noScheduler {
		sched = &scheduler.SubprocessScheduler{Path: *schedulerPath}
	}

	style := ast.Spaces
	if strings.EqualFold(*indentStyle, "tabs") {
		style = ast.Tabs
	}
	formatter := &ast.Formatter{UseColor: *color, IndentStyle: style, IndentWidth: *indentWidth}

	cfg := driver.Config{
		Filename:  inputPath,
		Source:    string(source),
		Params:    splitParams(*params),
		Scheduler: sched,
		Formatter: formatter,
	}

	result, err := driver.Run(context.Background(), cfg)
	if err != nil {
		reportError(inputPath, string(source), err)
		return 1
	}

	if *out == "" {
		fmt.Println(result)
		return 0
	}
	if err := os.WriteFile(*out, []byte(result+"\n"), 0o644); err != nil {
		reportResourceError(fmt.Errorf("writing %s: %w", *out, err))
		return 1
	}
	return 0
}

func splitParams(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func reportError(filename, source string, err error) {
	ce, ok := err.(*errors.CompilerError)
	if !ok {
		fmt.Fprintf(os.Stderr, "noclock: %s\n", err)
		return
	}
	fmt.Fprint(os.Stderr, errors.NewReporter(filename, source).Format(ce))
}

func reportResourceError(err error) {
	fmt.Fprint(os.Stderr, errors.NewReporter("", "").Format(errors.NewResource("%s", err)))
}
