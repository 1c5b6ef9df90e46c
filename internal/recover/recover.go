// Package recover implements component H: restoring plain finish/async
// nesting from a scheduled, name-erased instruction tree.
//
// Grounded on expression_list.c (expression_list_strip_coords,
// expression_list_strip_first, expression_list_strip_keywords,
// expression_list_strip) for argument cleaning, and on the wrapping pass
// driven by instruction_list_fill / instruction_list_wrap /
// instruction_list_find_parent / instruction_list_is_indirect_parent in
// instruction_list.c.
//
// expression_list_strip_coords as written keeps even-indexed cells and
// deletes odd-indexed ones (0-based): it walks the list two cells at a
// time, always splicing out "current->next". spec.md's prose describes the
// opposite parity ("delete every expression at even index"), but that
// parity cannot be correct for this module's own coordinate layout: a
// call's shifted tuple is [date, c0, ..., c(n-1), tag], and its level path
// (excluding the trailing "d") always has odd length n = 2*D+1, where D is
// the call's nesting depth under For/Finish/Async/ClockedFinish/
// ClockedAsync — every enclosing level contributes exactly one position
// digit plus one marker or iterator-name token, except the innermost list
// holding the call, which contributes only its own position digit. That
// makes the full tuple length n+2 odd, which puts the tag at an even index
// (L-1 with L odd). Deleting every even index would delete the tag, and
// there would be nothing left to look a name back up by. Keeping even
// indices instead leaves the date as the new first survivor (matching
// spec.md's own claim that "strip first" removes "the first remaining
// expression, the date") and leaves the tag as the new last survivor. This
// package relies on that same layout (date first, tag last) but does not
// strip cells by index: cleanArgs drops the leading date and the trailing
// tag, then keeps only the "f"/"a" identifiers, so position digits and
// iterator names are discarded whatever their parity.
//
// No driver/main.c establishing the original call order between argument
// cleaning and the wrapping pass was recovered alongside expression_list.c
// and instruction_list.c, so the composition below — clean every call's
// arguments down to its surviving f/a marker trail first, then run the
// wrapping pass against those cleaned trails — is this package's own
// design decision, not a transcription.
//
// The wrapping pass looks for an existing structural ancestor before
// introducing a new wrapper (isWrapperOfKind below), so calls that a real
// scheduler hands back still nested under a reconstructed For or If share
// the finish/async that already wraps that node, rather than each getting
// its own. Calls that arrive as flat siblings with no such ancestor — the
// only shape StubScheduler ever produces, and also what a real scheduler
// produces for calls with no dependency forcing a shared loop or
// conditional around them — always get one wrapper each. A marker trail by
// itself cannot tell "these two calls were always siblings under one
// source-level finish" apart from "these are separate clock phases that
// happen to carry the same trail after erasure", so this is a real
// limitation of coordinate-only structure recovery, not a defect specific
// to this implementation: it falls out of scheduling away the distinction
// between a finish block and the flat statement order of whatever sits
// inside it.
package recover

import (
	"noclock/internal/ast"
	"noclock/internal/errors"
	"noclock/internal/expr"
	"noclock/internal/setbuilder"
)

// Recover restores finish/async nesting in root, in place, and returns the
// restructured list. Every Call's arguments are reduced to nothing (its
// name is restored from table) and every Advance, ClockedFinish, and
// ClockedAsync is gone from the input by construction: the scheduler never
// emits them, since internal/setbuilder builds sets only for Call
// instances and the scheduler's output AST has no node kind for the other
// three.
func Recover(root ast.InstructionList, table *setbuilder.StringTable) (ast.InstructionList, error) {
	calls := collectCalls(root)

	for _, c := range calls {
		markers, err := cleanArgs(c, table)
		if err != nil {
			return nil, err
		}
		wrapCall(&root, c, markers)
	}

	return root, nil
}

// collectCalls gathers every *ast.Call reachable from list, in the order
// that appears in a subsequent scheduled tree (for/if/block structure from
// a real scheduler, or a flat block from StubScheduler). The list is
// walked before any wrapping happens, so the returned pointers remain
// valid identifiers of "this specific call instance" even after root is
// mutated: wrapping only ever replaces list *cells*, never the Call values
// themselves.
func collectCalls(list ast.InstructionList) []*ast.Call {
	var out []*ast.Call
	for _, instr := range list {
		switch x := instr.(type) {
		case *ast.Call:
			out = append(out, x)
		case *ast.For:
			out = append(out, collectCalls(x.Body)...)
		case *ast.If:
			out = append(out, collectCalls(x.Then)...)
		case *ast.IfElse:
			out = append(out, collectCalls(x.Then)...)
			out = append(out, collectCalls(x.Else)...)
		case *ast.Finish:
			out = append(out, collectCalls(x.Body)...)
		case *ast.Async:
			out = append(out, collectCalls(x.Body)...)
		}
	}
	return out
}

// cleanArgs strips a scheduled call's coordinate-shifted argument list down
// to its surviving f/a marker trail, and restores the call's original name
// by looking its trailing tag up in table. It mutates c in place (renaming
// it and clearing its argument list) and returns the ordered marker trail,
// outermost first.
func cleanArgs(c *ast.Call, table *setbuilder.StringTable) ([]string, error) {
	args := c.Args
	if len(args) < 2 {
		return nil, errors.NewScheduler("recover: call at %s has %d argument(s), too few to carry a date and a tag", c.Position, len(args))
	}

	// strip-first: the date is always the leading argument.
	args = args[1:]

	// the trailing argument is always the string-table tag.
	tagExpr := args[len(args)-1]
	args = args[:len(args)-1]

	num, ok := tagExpr.(*expr.Number)
	if !ok {
		return nil, errors.NewScheduler("recover: call at %s has a non-integer tag %s", c.Position, expr.AsString(tagExpr))
	}

	tag := int(num.Value)
	name := table.Name(tag)
	if name == "" {
		return nil, errors.NewScheduler("recover: call at %s carries tag %d, out of range for the string table", c.Position, tag)
	}
	c.Name = name

	// strip-coords, strip-keywords: the remaining cells are position
	// digits, iterator names, and f/a markers interleaved; only the
	// markers shape finish/async nesting, so everything else is dropped.
	var markers []string
	for _, a := range args {
		if id, ok := a.(*expr.Ident); ok && (id.Name == "f" || id.Name == "a") {
			markers = append(markers, id.Name)
		}
	}

	c.Args = nil
	return markers, nil
}

// wrapCall reconstructs the finish/async nesting implied by c's marker
// trail. scope starts at the root of the tree and narrows, marker by
// marker, to the body of whichever wrapper each marker introduces (or, if
// a wrapper of the right kind is already present, to its existing body):
// markers are recorded outermost first, matching how internal/annotate
// builds level paths top-down, so the walk below processes them in that
// same order.
func wrapCall(root *ast.InstructionList, c *ast.Call, markers []string) {
	scope := root
	for _, marker := range markers {
		idx := findContainingIndex(*scope, c)
		if idx < 0 {
			return
		}
		anchor := (*scope)[idx]
		wantFinish := marker == "f"

		if isWrapperOfKind(anchor, wantFinish) {
			body := bodyOf(anchor)
			if body == nil {
				return
			}
			scope = body
			continue
		}

		var wrapper ast.Instruction
		if wantFinish {
			wrapper = &ast.Finish{Position: anchor.Pos(), Body: ast.InstructionList{anchor}}
		} else {
			wrapper = &ast.Async{Position: anchor.Pos(), Body: ast.InstructionList{anchor}}
		}
		(*scope)[idx] = wrapper
		scope = bodyOf(wrapper)
	}
}

// findContainingIndex returns the index of list's direct child that is, or
// structurally contains, target, or -1 if none does.
func findContainingIndex(list ast.InstructionList, target ast.Instruction) int {
	for i, instr := range list {
		if instr == target {
			return i
		}
		if containsIndirect(instr, target) {
			return i
		}
	}
	return -1
}

// containsIndirect reports whether target is reachable from instr's body,
// then-branch, or else-branch. Mirrors instruction_list_is_indirect_parent's
// recursive containment check through For bodies and both If/IfElse
// branches.
func containsIndirect(instr ast.Instruction, target ast.Instruction) bool {
	switch x := instr.(type) {
	case *ast.For:
		return containsInList(x.Body, target)
	case *ast.If:
		return containsInList(x.Then, target)
	case *ast.IfElse:
		return containsInList(x.Then, target) || containsInList(x.Else, target)
	case *ast.Finish:
		return containsInList(x.Body, target)
	case *ast.Async:
		return containsInList(x.Body, target)
	default:
		return false
	}
}

func containsInList(list ast.InstructionList, target ast.Instruction) bool {
	for _, instr := range list {
		if instr == target || containsIndirect(instr, target) {
			return true
		}
	}
	return false
}

// isWrapperOfKind reports whether instr is already a Finish (when
// wantFinish) or an Async (when !wantFinish), so wrapCall can skip
// introducing a redundant wrapper.
func isWrapperOfKind(instr ast.Instruction, wantFinish bool) bool {
	switch instr.(type) {
	case *ast.Finish:
		return wantFinish
	case *ast.Async:
		return !wantFinish
	default:
		return false
	}
}

// bodyOf returns a pointer to instr's nested instruction list, so wrapCall
// can narrow its scope into it. Defined for every kind a marker walk can
// land on: the four block kinds plus For and If/IfElse (reached via
// containsIndirect when a call sits beneath a loop or conditional the
// scheduler reconstructed).
func bodyOf(instr ast.Instruction) *ast.InstructionList {
	switch x := instr.(type) {
	case *ast.Finish:
		return &x.Body
	case *ast.Async:
		return &x.Body
	case *ast.For:
		return &x.Body
	case *ast.If:
		return &x.Then
	case *ast.IfElse:
		return &x.Then
	default:
		return nil
	}
}
