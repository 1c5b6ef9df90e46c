package ast

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"noclock/internal/expr"
)

// IndentStyle selects how Formatter renders one indentation level.
type IndentStyle int

const (
	// Spaces renders IndentWidth spaces per level.
	Spaces IndentStyle = iota
	// Tabs renders one tab character per level, ignoring IndentWidth.
	Tabs
)

// Formatter is the "process-wide mutable formatter configuration" of the
// original implementation (colour state, indentation level, indentation
// style), reified as an explicit value threaded through Format calls
// instead of global state, per the design notes.
type Formatter struct {
	UseColor    bool
	IndentStyle IndentStyle
	IndentWidth int

	level int
}

// NewFormatter returns a Formatter with the default style: no color,
// 4-space indentation.
func NewFormatter() *Formatter {
	return &Formatter{IndentStyle: Spaces, IndentWidth: 4}
}

func (f *Formatter) indentUnit() string {
	if f.IndentStyle == Tabs {
		return "\t"
	}
	width := f.IndentWidth
	if width <= 0 {
		width = 4
	}
	return strings.Repeat(" ", width)
}

func (f *Formatter) indent(sb *strings.Builder) {
	sb.WriteString(strings.Repeat(f.indentUnit(), f.level))
}

var (
	keywordColor = color.New(color.FgBlue).SprintFunc()
	specialColor = color.New(color.FgMagenta).SprintFunc()
	callColor    = color.New(color.FgCyan).SprintFunc()
	yellowColor  = color.New(color.FgYellow).SprintFunc()
	greenColor   = color.New(color.FgGreen).SprintFunc()
)

func init() {
	// internal/expr has no dependency on github.com/fatih/color itself;
	// it borrows these two render functions so expr.Format(_, true) and
	// ast.Format agree on identifier/constant coloring.
	expr.SetColorFuncs(
		func(s string) string { return yellowColor(s) },
		func(s string) string { return greenColor(s) },
	)
}

func (f *Formatter) keyword(s string) string {
	if f.UseColor {
		return keywordColor(s)
	}
	return s
}

func (f *Formatter) special(s string) string {
	if f.UseColor {
		return specialColor(s)
	}
	return s
}

func (f *Formatter) call(s string) string {
	if f.UseColor {
		return callColor(s)
	}
	return s
}

// Format renders list in the NoClock surface syntax using f. The top-level
// entry point for pretty-printing an InstructionList.
func Format(list InstructionList, f *Formatter) string {
	var sb strings.Builder
	writeList(&sb, list, f)
	return sb.String()
}

// String renders list with default formatting (no color, 4-space indent).
// Kept for ad hoc debugging; production output goes through Format with an
// explicit Formatter so color/indent preferences are never process-global.
func (list InstructionList) String() string {
	return Format(list, NewFormatter())
}

func writeList(sb *strings.Builder, list InstructionList, f *Formatter) {
	for _, instr := range list {
		writeInstruction(sb, instr, f)
		if _, ok := instr.(*Call); ok {
			sb.WriteString(";\n")
		} else if _, ok := instr.(*Advance); ok {
			sb.WriteString(";\n")
		}
	}
}

func writeInstruction(sb *strings.Builder, instr Instruction, f *Formatter) {
	switch x := instr.(type) {
	case *Call:
		f.indent(sb)
		writeCall(sb, x, f)
	case *For:
		writeFor(sb, x, f)
	case *If:
		writeIf(sb, x.Condition, x.Then, nil, false, f)
	case *IfElse:
		writeIf(sb, x.Condition, x.Then, x.Else, true, f)
	case *Advance:
		f.indent(sb)
		sb.WriteString(f.special("advance"))
	case *Finish:
		f.indent(sb)
		writeBlock(sb, "finish", x.Body, f)
	case *Async:
		f.indent(sb)
		writeBlock(sb, "async", x.Body, f)
	case *ClockedFinish:
		f.indent(sb)
		sb.WriteString(f.keyword("clocked") + " ")
		writeBlock(sb, "finish", x.Body, f)
	case *ClockedAsync:
		f.indent(sb)
		sb.WriteString(f.keyword("clocked") + " ")
		writeBlock(sb, "async", x.Body, f)
	}
}

func writeCall(sb *strings.Builder, c *Call, f *Formatter) {
	sb.WriteString(f.call(c.Name) + f.call(" ("))
	for i, a := range c.Args {
		if i > 0 {
			sb.WriteString(f.call(", "))
		}
		sb.WriteString(expr.Format(a, f.UseColor))
	}
	sb.WriteString(f.call(")"))
}

func writeBlock(sb *strings.Builder, keyword string, body InstructionList, f *Formatter) {
	sb.WriteString(f.special(keyword) + "\n")
	braces := len(body) > 1
	if braces {
		f.indent(sb)
		sb.WriteString("{\n")
	}
	f.level++
	writeList(sb, body, f)
	f.level--
	if braces {
		f.indent(sb)
		sb.WriteString("}\n")
	}
}

func writeIf(sb *strings.Builder, cond expr.Expr, then, els InstructionList, hasElse bool, f *Formatter) {
	f.indent(sb)
	sb.WriteString(f.keyword("if") + " (")
	sb.WriteString(expr.Format(cond, f.UseColor))
	sb.WriteString(")\n")

	braces := len(then) > 1
	if braces {
		f.indent(sb)
		sb.WriteString("{\n")
	}
	f.level++
	writeList(sb, then, f)
	f.level--
	if braces {
		f.indent(sb)
		sb.WriteString("}\n")
	}

	if !hasElse {
		return
	}

	f.indent(sb)
	sb.WriteString(f.keyword("else") + "\n")

	braces = len(els) > 1
	if braces {
		f.indent(sb)
		sb.WriteString("{\n")
	}
	f.level++
	writeList(sb, els, f)
	f.level--
	if braces {
		f.indent(sb)
		sb.WriteString("}\n")
	}
}

func writeFor(sb *strings.Builder, x *For, f *Formatter) {
	f.indent(sb)
	sb.WriteString(fmt.Sprintf("%s %s %s (", f.keyword("for"), x.Iterator, f.keyword("in")))
	sb.WriteString(expr.Format(x.Left, f.UseColor))
	sb.WriteString(f.keyword(".."))
	sb.WriteString(expr.Format(x.Right, f.UseColor))
	sb.WriteString(")\n")

	braces := len(x.Body) > 1
	if braces {
		f.indent(sb)
		sb.WriteString("{\n")
	}
	f.level++
	writeList(sb, x.Body, f)
	f.level--
	if braces {
		f.indent(sb)
		sb.WriteString("}\n")
	}
}

// Instruction-level String() methods, used by debuggers and tests; they
// wrap a single instruction in a one-element list so brace/indent rules
// stay identical to the list printer.
func (c *Call) String() string          { return Format(InstructionList{c}, NewFormatter()) }
func (x *For) String() string           { return Format(InstructionList{x}, NewFormatter()) }
func (x *If) String() string            { return Format(InstructionList{x}, NewFormatter()) }
func (x *IfElse) String() string        { return Format(InstructionList{x}, NewFormatter()) }
func (x *Advance) String() string       { return Format(InstructionList{x}, NewFormatter()) }
func (x *Finish) String() string        { return Format(InstructionList{x}, NewFormatter()) }
func (x *Async) String() string         { return Format(InstructionList{x}, NewFormatter()) }
func (x *ClockedFinish) String() string { return Format(InstructionList{x}, NewFormatter()) }
func (x *ClockedAsync) String() string  { return Format(InstructionList{x}, NewFormatter()) }
