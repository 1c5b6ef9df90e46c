// Package ast defines the NoClock instruction tree (component B of the
// pipeline) and its pretty printer (component C). An Instruction is one of
// Call, For, If, IfElse, Advance, Finish, Async, ClockedFinish, or
// ClockedAsync; each carries an Annotation populated by internal/annotate.
package ast

import (
	"noclock/internal/expr"
	"noclock/token"
)

// Node is implemented by every AST node: instructions and (indirectly,
// through internal/expr) expressions.
type Node interface {
	Pos() token.Position
	String() string
}

// Annotation holds the three fields the annotator (internal/annotate)
// decorates every instruction with: its lexical level path, the accumulated
// loop-bound conjunction, and its logical date. The zero value is the
// "unannotated" state of the annotation state machine described in the
// design notes; Annotated reports whether the annotator has run on this
// node yet.
type Annotation struct {
	Level    string
	Boundary string
	Date     expr.Expr
}

// Annotated reports whether Annotate (internal/annotate) has populated this
// annotation. A Level of "" is only ever the unannotated state: even the
// first top-level instruction receives level "0".
func (a Annotation) Annotated() bool { return a.Level != "" }

// Instruction is implemented by every task-level statement.
type Instruction interface {
	Node
	isInstruction()
	GetAnnotation() *Annotation
}

// InstructionList is an ordered, finite sequence of instructions. Go's
// garbage collector makes the original's "soft free" (drop list spine,
// keep instructions) and "deep free" (drop everything) distinction moot;
// the named helpers below exist for parity with the teacher's explicit
// list-manipulation idiom and because internal/recover and internal/reverse
// build and rewrite lists element-by-element the same way the original
// instruction_list.c does.
type InstructionList []Instruction

// Append returns list with i appended.
func Append(list InstructionList, i Instruction) InstructionList {
	return append(list, i)
}

// Concat returns the concatenation of a and b. Neither argument is mutated.
func Concat(a, b InstructionList) InstructionList {
	out := make(InstructionList, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// Len returns the number of instructions in list.
func Len(list InstructionList) int { return len(list) }

// Nth returns the instruction at position n, or nil if n is out of range.
func Nth(list InstructionList, n int) Instruction {
	if n < 0 || n >= len(list) {
		return nil
	}
	return list[n]
}

// Call is a task/function invocation: name(args...).
type Call struct {
	Position token.Position
	Name     string
	Args     []expr.Expr
	Ann      Annotation
}

// For is a bounded loop: for Iterator in (Left..Right) { Body }. Bounds are
// inclusive on both ends and must not depend on Iterator.
type For struct {
	Position token.Position
	Iterator string
	Left     expr.Expr
	Right    expr.Expr
	Body     InstructionList
	Ann      Annotation
}

// If is a conditional with no else branch.
type If struct {
	Position  token.Position
	Condition expr.Expr
	Then      InstructionList
	Ann       Annotation
}

// IfElse is a conditional with both branches present.
type IfElse struct {
	Position  token.Position
	Condition expr.Expr
	Then      InstructionList
	Else      InstructionList
	Ann       Annotation
}

// Advance is a clock barrier; it carries no payload.
type Advance struct {
	Position token.Position
	Ann      Annotation
}

// Finish is a plain (unclocked) finish block.
type Finish struct {
	Position token.Position
	Body     InstructionList
	Ann      Annotation
}

// Async is a plain (unclocked) async block.
type Async struct {
	Position token.Position
	Body     InstructionList
	Ann      Annotation
}

// ClockedFinish is a finish block that opens a new clock scope.
type ClockedFinish struct {
	Position token.Position
	Body     InstructionList
	Ann      Annotation
}

// ClockedAsync is an async block registered on the enclosing clock.
type ClockedAsync struct {
	Position token.Position
	Body     InstructionList
	Ann      Annotation
}

func (*Call) isInstruction()          {}
func (*For) isInstruction()           {}
func (*If) isInstruction()            {}
func (*IfElse) isInstruction()        {}
func (*Advance) isInstruction()       {}
func (*Finish) isInstruction()        {}
func (*Async) isInstruction()         {}
func (*ClockedFinish) isInstruction() {}
func (*ClockedAsync) isInstruction()  {}

func (c *Call) Pos() token.Position          { return c.Position }
func (f *For) Pos() token.Position           { return f.Position }
func (i *If) Pos() token.Position            { return i.Position }
func (i *IfElse) Pos() token.Position        { return i.Position }
func (a *Advance) Pos() token.Position       { return a.Position }
func (f *Finish) Pos() token.Position        { return f.Position }
func (a *Async) Pos() token.Position         { return a.Position }
func (f *ClockedFinish) Pos() token.Position { return f.Position }
func (a *ClockedAsync) Pos() token.Position  { return a.Position }

func (c *Call) GetAnnotation() *Annotation          { return &c.Ann }
func (f *For) GetAnnotation() *Annotation           { return &f.Ann }
func (i *If) GetAnnotation() *Annotation            { return &i.Ann }
func (i *IfElse) GetAnnotation() *Annotation        { return &i.Ann }
func (a *Advance) GetAnnotation() *Annotation       { return &a.Ann }
func (f *Finish) GetAnnotation() *Annotation        { return &f.Ann }
func (a *Async) GetAnnotation() *Annotation         { return &a.Ann }
func (f *ClockedFinish) GetAnnotation() *Annotation { return &f.Ann }
func (a *ClockedAsync) GetAnnotation() *Annotation  { return &a.Ann }

// IdentifierOf returns the name carried by Call or For instructions. It is
// undefined (ok=false) for every other kind, matching the original's
// "defined only on Call and For" contract.
func IdentifierOf(i Instruction) (string, bool) {
	switch x := i.(type) {
	case *Call:
		return x.Name, true
	case *For:
		return x.Iterator, true
	default:
		return "", false
	}
}

// BodyOf returns the inner instruction list of i: For's body, the
// then-branch of If/IfElse, or the block body of Finish/Async/
// ClockedFinish/ClockedAsync. It is undefined (ok=false) for Call and
// Advance.
func BodyOf(i Instruction) (InstructionList, bool) {
	switch x := i.(type) {
	case *For:
		return x.Body, true
	case *If:
		return x.Then, true
	case *IfElse:
		return x.Then, true
	case *Finish:
		return x.Body, true
	case *Async:
		return x.Body, true
	case *ClockedFinish:
		return x.Body, true
	case *ClockedAsync:
		return x.Body, true
	default:
		return nil, false
	}
}

// IsBlock reports whether i is one of the four block kinds (Finish, Async,
// ClockedFinish, ClockedAsync).
func IsBlock(i Instruction) bool {
	switch i.(type) {
	case *Finish, *Async, *ClockedFinish, *ClockedAsync:
		return true
	default:
		return false
	}
}

// IsClocked reports whether i is a ClockedFinish or ClockedAsync.
func IsClocked(i Instruction) bool {
	switch i.(type) {
	case *ClockedFinish, *ClockedAsync:
		return true
	default:
		return false
	}
}
