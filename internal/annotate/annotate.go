// Package annotate implements component D of the pipeline: the top-down
// walk that decorates every instruction with its lexical level path, its
// accumulated loop-bound boundary string, and its symbolic date.
package annotate

import (
	"strconv"

	"noclock/internal/ast"
	"noclock/internal/expr"
)

// Annotate decorates every instruction reachable from list, in place. params
// is accepted for symmetry with the rest of the pipeline (internal/setbuilder
// needs it too) even though the annotator itself never inspects it; loop
// bounds and conditions may reference parameters as free identifiers.
func Annotate(list ast.InstructionList, params []string) {
	decorateLevels(list, "", "")
	computeDates(list, nil, "")
}

////////////////////////////////////////////////////////////////////////////
// Level and boundary assignment.
////////////////////////////////////////////////////////////////////////////

func own(prefix string, position int) string {
	if prefix == "" {
		return strconv.Itoa(position)
	}
	return prefix + "," + strconv.Itoa(position)
}

// decorateLevels assigns Level and Boundary top-down. prefix is the
// accumulated level path of the enclosing scope (excluding this list's own
// position digits, which are computed per element below); boundary is the
// Presburger conjunction accumulated across enclosing For loops.
//
// This recurses into both branches of If/IfElse with the branch's own level
// (no suffix is appended entering an if, matching spec.md's omission of one)
// and the unchanged boundary (conditions are deliberately not folded into
// boundaries, per spec.md's explicit text) so that every Call reachable
// through a branch still receives a level and boundary — the literal
// original decorator skips If/IfElse recursion entirely, which would leave
// such calls unannotated and violates the "every Call has a level" property;
// this implementation recurses, which is the only change from the ground
// truth in `instruction_list.c`'s `instruction_list_decorate`.
func decorateLevels(list ast.InstructionList, prefix string, boundary string) {
	position := 0
	for _, instr := range list {
		level := own(prefix, position)
		ann := instr.GetAnnotation()
		ann.Boundary = boundary

		switch x := instr.(type) {
		case *ast.Call:
			ann.Level = level + ",d"
		case *ast.For:
			ann.Level = level
			childPrefix := level + "," + x.Iterator
			childBoundary := forBoundary(boundary, x)
			decorateLevels(x.Body, childPrefix, childBoundary)
		case *ast.If:
			ann.Level = level
			decorateLevels(x.Then, level, boundary)
		case *ast.IfElse:
			ann.Level = level
			decorateLevels(x.Then, level, boundary)
			decorateLevels(x.Else, level, boundary)
		case *ast.Advance:
			ann.Level = level
		case *ast.Finish:
			ann.Level = level
			decorateLevels(x.Body, level+",f", boundary)
		case *ast.ClockedFinish:
			ann.Level = level
			decorateLevels(x.Body, level+",f", boundary)
		case *ast.Async:
			ann.Level = level
			decorateLevels(x.Body, level+",a", boundary)
		case *ast.ClockedAsync:
			ann.Level = level
			decorateLevels(x.Body, level+",a", boundary)
		}

		if _, isAdvance := instr.(*ast.Advance); !isAdvance {
			position++
		}
	}
}

func forBoundary(boundary string, f *ast.For) string {
	constraint := expr.AsString(f.Left) + " <= " + f.Iterator + " <= " + expr.AsString(f.Right)
	if boundary == "" {
		return constraint
	}
	return boundary + " and " + constraint
}

////////////////////////////////////////////////////////////////////////////
// Advance counting.
////////////////////////////////////////////////////////////////////////////

// advanceCount computes A(L): the number of advances one pass of list issues,
// per spec.md's recursive definition. A For loop contributes (r-l+1)*A(body)
// — the *total* count across every iteration of the loop, inclusive bounds.
func advanceCount(list ast.InstructionList) expr.Expr {
	count := expr.Expr(expr.FromNumber(0))
	for _, instr := range list {
		switch x := instr.(type) {
		case *ast.Advance:
			count = expr.Add(count, expr.FromNumber(1))
		case *ast.For:
			left := expr.Clone(x.Left)
			right := expr.Clone(x.Right)
			bounds := expr.Sub(right, left)
			total := expr.Add(bounds, expr.FromNumber(1))
			inner := advanceCount(x.Body)
			count = expr.Add(count, expr.Mul(total, inner))
		}
	}
	return count
}

// runningTotalStep is the per-element contribution a For makes to the
// running total of advances seen so far among *siblings* of the loop: this
// is spec.md's explicitly-flagged asymmetry, (r-l)*A(body) rather than
// (r-l+1)*A(body). It is a distinct function from advanceCount (not a
// shared helper with an off-by-one parameter) precisely so the asymmetry
// stays visible at each call site; see SPEC_FULL.md §9.1 for why both
// formulas are correct for what they each compute.
func runningTotalStep(f *ast.For) expr.Expr {
	left := expr.Clone(f.Left)
	right := expr.Clone(f.Right)
	bounds := expr.Sub(right, left)
	inner := advanceCount(f.Body)
	return expr.Mul(bounds, inner)
}

////////////////////////////////////////////////////////////////////////////
// Date computation.
////////////////////////////////////////////////////////////////////////////

// computeDates is the two-phase walk: first every element gets a base date
// (ι×A(L) if inside a for loop, else 0, plus the inherited base date e),
// then a second pass adds the running total of advances/for-loop contributions
// seen among preceding siblings. Finally it recurses into every structural
// child, passing the appropriate inherited base date and iterator.
func computeDates(list ast.InstructionList, e expr.Expr, identifier string) {
	count := advanceCount(list)

	for _, instr := range list {
		ann := instr.GetAnnotation()

		var date expr.Expr
		if identifier == "" {
			date = expr.FromNumber(0)
		} else {
			idExpr := expr.FromIdentifier(identifier)
			factor := expr.Clone(count)
			date = expr.Mul(idExpr, factor)
		}

		if e != nil {
			date = expr.Add(date, expr.Clone(e))
		}

		ann.Date = date
	}

	running := expr.Expr(expr.FromNumber(0))
	for _, instr := range list {
		ann := instr.GetAnnotation()
		ann.Date = expr.Add(ann.Date, expr.Clone(running))

		switch x := instr.(type) {
		case *ast.Advance:
			running = expr.Add(running, expr.FromNumber(1))
		case *ast.For:
			running = expr.Add(running, runningTotalStep(x))
		}
	}

	for _, instr := range list {
		switch x := instr.(type) {
		case *ast.For:
			base := expr.Sub(expr.Clone(x.Ann.Date), expr.Clone(x.Left))
			computeDates(x.Body, base, x.Iterator)
		case *ast.If:
			computeDates(x.Then, x.Ann.Date, identifier)
		case *ast.IfElse:
			computeDates(x.Then, x.Ann.Date, identifier)
			computeDates(x.Else, x.Ann.Date, identifier)
		case *ast.Finish:
			computeDates(x.Body, x.Ann.Date, "")
		case *ast.Async:
			computeDates(x.Body, x.Ann.Date, "")
		case *ast.ClockedFinish:
			computeDates(x.Body, x.Ann.Date, "")
		case *ast.ClockedAsync:
			computeDates(x.Body, x.Ann.Date, "")
		}
	}
}
