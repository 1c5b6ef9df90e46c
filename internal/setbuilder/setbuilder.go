// Package setbuilder implements component E: turning an annotated
// instruction tree into the parametric integer sets the external scheduler
// consumes, one set per Call, plus the append-only table that recovers call
// names after scheduling.
//
// Grounded on instruction_to_set.c's instruction_to_set_list (per-call set
// construction and the coordinate-shift map _shift_map) and
// union_set_list/program_to_set_list (the union driving the walk). Unlike
// the original, this walk also descends into If and IfElse bodies: the
// original's switch has no case for INSTR_IF/INSTR_IF_ELSE and so never
// reaches calls nested under a bare conditional, which would silently drop
// them from the schedule. spec.md's set-builder description talks about
// "every Call reachable from the program", so the branches are walked here.
//
// An if condition never enters a set's constraints: a call's boundary is
// only the conjunction of its enclosing loop bounds, so calls in opposite
// branches of the same if can describe overlapping instance-set regions.
package setbuilder

import (
	"fmt"
	"strconv"
	"strings"

	"noclock/internal/ast"
	"noclock/internal/diagnostics"
	"noclock/internal/expr"
)

// StringTable is the append-only table mapping call names to stable integer
// tags. Scheduling strips names down to these tags (sets are pure integer
// tuples); internal/recover looks them back up afterward. Indices are
// assigned on first sight and never reused, matching the original's
// string_table_index semantics (property: same name always yields the same
// tag, distinct names never collide).
type StringTable struct {
	names []string
	index map[string]int
}

// NewStringTable returns an empty table.
func NewStringTable() *StringTable {
	return &StringTable{index: make(map[string]int)}
}

// IndexOf returns name's tag, assigning a fresh one the first time name is
// seen.
func (t *StringTable) IndexOf(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	i := len(t.names)
	t.names = append(t.names, name)
	t.index[name] = i
	return i
}

// Name returns the call name associated with tag, or "" if tag is out of
// range.
func (t *StringTable) Name(tag int) string {
	if tag < 0 || tag >= len(t.names) {
		return ""
	}
	return t.names[tag]
}

// Len returns the number of distinct names recorded so far.
func (t *StringTable) Len() int { return len(t.names) }

// Set is the textual parametric set for one Call: its shifted tuple puts
// the date coordinate first and the call's string-table tag last, per
// _shift_map's map { [x0,...,xn,x] -> [x,x0,...,xn,tag] } applied to the
// raw level-path tuple.
type Set struct {
	CallName string
	Tag      int
	Text     string
}

// Union is every set built from one program, alongside the parameter list
// threaded into each set's declaration.
type Union struct {
	Params []string
	Sets   []Set
}

// String concatenates every set's text, one per line, mirroring
// union_set_list's accumulation into a single isl_union_set string.
func (u Union) String() string {
	var sb strings.Builder
	for _, s := range u.Sets {
		sb.WriteString(s.Text)
		sb.WriteString("\n")
	}
	return sb.String()
}

// Build walks every instruction reachable from root and returns the union of
// per-call sets plus the string table recording their names. A Call with no
// annotation (internal/annotate never having run) is a program error: Build
// panics rather than emit a malformed set, since there is no recoverable
// textual representation for an unannotated call.
func Build(root ast.InstructionList, params []string) (Union, *StringTable) {
	table := NewStringTable()
	u := Union{Params: append([]string{}, params...)}
	walk(root, params, &u, table)
	return u, table
}

func walk(list ast.InstructionList, params []string, u *Union, table *StringTable) {
	for _, instr := range list {
		switch x := instr.(type) {
		case *ast.Call:
			set, ok := buildSet(x, params, table)
			if !ok {
				diagnostics.Verbosef("setbuilder: skipping call %q: malformed level %q\n", x.Name, x.Ann.Level)
				continue
			}
			u.Sets = append(u.Sets, set)
		case *ast.For:
			walk(x.Body, params, u, table)
		case *ast.If:
			walk(x.Then, params, u, table)
		case *ast.IfElse:
			walk(x.Then, params, u, table)
			walk(x.Else, params, u, table)
		case *ast.Finish:
			walk(x.Body, params, u, table)
		case *ast.Async:
			walk(x.Body, params, u, table)
		case *ast.ClockedFinish:
			walk(x.Body, params, u, table)
		case *ast.ClockedAsync:
			walk(x.Body, params, u, table)
		}
	}
}

// buildSet constructs one Call's set. level is a comma-separated path such
// as "0,f,0,i,2,d": the last component is always the literal marker "d",
// standing in for the call's own date dimension, and is also the name used
// in the "d = date" constraint appended below it — there is no separate
// rename step, the level path's final token already *is* the fresh date
// variable, distinguishing it from every sibling coordinate and marker.
//
// _shift_map renames the isl_set's anonymous dimensions to x0..xn positionally
// and applies { [x0,...,xn,x] -> [x,x0,...,xn,tag] }; this builds the
// equivalent shifted tuple directly as text, since nothing downstream
// actually parses it as ISL within this module (the external scheduler does
// that). The date coordinate moves to the front, the original coordinates
// keep their relative order, and the call's string-table tag is appended
// last.
func buildSet(c *ast.Call, params []string, table *StringTable) (Set, bool) {
	if !c.Ann.Annotated() {
		panic(fmt.Sprintf("setbuilder: call %q has no annotation", c.Name))
	}

	parts := strings.Split(c.Ann.Level, ",")
	if len(parts) == 0 || parts[len(parts)-1] != "d" {
		return Set{}, false
	}

	dateVar := parts[len(parts)-1]
	coords := parts[:len(parts)-1]

	tag := table.IndexOf(c.Name)

	shifted := make([]string, 0, len(parts)+1)
	shifted = append(shifted, dateVar)
	shifted = append(shifted, coords...)
	shifted = append(shifted, strconv.Itoa(tag))

	constraint := expr.AsString(c.Ann.Date)
	dateConstraint := dateVar + " = " + constraint
	body := dateConstraint
	if c.Ann.Boundary != "" {
		body = c.Ann.Boundary + " and " + dateConstraint
	}

	text := fmt.Sprintf("[%s] -> { [%s] : %s }", strings.Join(params, ", "), strings.Join(shifted, ", "), body)

	return Set{CallName: c.Name, Tag: tag, Text: text}, true
}
