// Package grammar is the surface lexer and struct-tag grammar for the
// `.nc` task language (component J). spec.md places lexing/parsing
// explicitly out of scope ("described only where the core consumes or
// exposes an interface"); this package is the one concrete instance of
// that interface a runnable repository needs. Cut down from the teacher's
// grammar/lexer.go, grammar/grammar.go, and grammar/parser.go — Kanso's
// Move/Solidity-flavored contract surface — to NoClock's much smaller
// for/if-else/finish/async/clocked/advance/call syntax.
package grammar

import "github.com/alecthomas/participle/v2/lexer"

// Program is the root of a parsed `.nc` file: a flat sequence of
// instructions, the surface-syntax counterpart of ast.InstructionList.
type Program struct {
	Instructions []*Instruction `@@*`
}

// Instruction is exactly one of the task language's nine statement forms.
// Pos is populated automatically by participle (any field of type
// lexer.Position is filled in with the token position the match started
// at), giving internal/parser a source location for every lowered node
// without threading one through by hand.
type Instruction struct {
	Pos lexer.Position

	For           *ForStmt           `  @@`
	If            *IfStmt            `| @@`
	ClockedFinish *ClockedFinishStmt `| @@`
	ClockedAsync  *ClockedAsyncStmt  `| @@`
	Finish        *FinishStmt        `| @@`
	Async         *AsyncStmt         `| @@`
	Advance       *AdvanceStmt       `| @@`
	Call          *CallStmt          `| @@`
}

// Block is a brace-delimited instruction sequence: a for/if/finish/async
// body.
type Block struct {
	Instructions []*Instruction `"{" @@* "}"`
}

// ForStmt is `for <iterator> in (<left>..<right>) { <body> }`. Bounds are
// inclusive on both ends, per spec.md §3.
type ForStmt struct {
	Iterator string `"for" @Ident "in" "("`
	Left     *Expr  `@@ Range`
	Right    *Expr  `@@ ")"`
	Body     *Block `@@`
}

// IfStmt is `if (<condition>) { <then> } [ else { <else> } ]`.
type IfStmt struct {
	Condition *Expr  `"if" "(" @@ ")"`
	Then      *Block `@@`
	Else      *Block `[ "else" @@ ]`
}

// FinishStmt is a plain (unclocked) finish block.
type FinishStmt struct {
	Body *Block `"finish" @@`
}

// AsyncStmt is a plain (unclocked) async block.
type AsyncStmt struct {
	Body *Block `"async" @@`
}

// ClockedFinishStmt is a finish block that opens a new clock scope.
type ClockedFinishStmt struct {
	Body *Block `"clocked" "finish" @@`
}

// ClockedAsyncStmt is an async block registered on the enclosing clock.
type ClockedAsyncStmt struct {
	Body *Block `"clocked" "async" @@`
}

// AdvanceStmt is a bare clock barrier: `advance;`.
type AdvanceStmt struct {
	Keyword string `@"advance" ";"`
}

// CallStmt is a task invocation: `name(arg, arg, ...);`.
type CallStmt struct {
	Name string  `@Ident "("`
	Args []*Expr `[ @@ { "," @@ } ] ")" ";"`
}

////////////////////////////////////////////////////////////////////////////
// Expressions. Unlike the teacher's single flat BinaryExpr (one precedence
// level for every operator from "||" to "%"), NoClock's date and boundary
// arithmetic needs real operator precedence, so this reuses the teacher's
// "Left + trailing Ops" chain shape at one layer per precedence level
// instead of one layer for everything.
////////////////////////////////////////////////////////////////////////////

// Expr is the entry point of the precedence chain: logical or.
type Expr struct {
	Left *AndExpr `@@`
	Ops  []*OrOp  `{ @@ }`
}

type OrOp struct {
	Right *AndExpr `"||" @@`
}

// AndExpr is logical and.
type AndExpr struct {
	Left *CmpExpr `@@`
	Ops  []*AndOp `{ @@ }`
}

type AndOp struct {
	Right *CmpExpr `"&&" @@`
}

// CmpExpr is a single, non-chaining comparison: "a < b", never "a < b < c".
type CmpExpr struct {
	Left     *AddExpr `@@`
	Operator *string  `[ @("==" | "!=" | "<=" | ">=" | "<" | ">")`
	Right    *AddExpr `  @@ ]`
}

// AddExpr is addition and subtraction.
type AddExpr struct {
	Left *MulExpr `@@`
	Ops  []*AddOp `{ @@ }`
}

type AddOp struct {
	Operator string   `@("+" | "-")`
	Right    *MulExpr `@@`
}

// MulExpr is multiplication and division.
type MulExpr struct {
	Left *UnaryExpr `@@`
	Ops  []*MulOp   `{ @@ }`
}

type MulOp struct {
	Operator string     `@("*" | "/")`
	Right    *UnaryExpr `@@`
}

// UnaryExpr is a single prefix negation or logical not.
type UnaryExpr struct {
	Operator *string      `[ @("-" | "!") ]`
	Value    *PrimaryExpr `@@`
}

// PrimaryExpr is a min/max call, a literal, an identifier, or a
// parenthesized expression.
type PrimaryExpr struct {
	MinMax *MinMaxExpr `  @@`
	Number *string     `| @Integer`
	Bool   *string     `| @("true" | "false")`
	Ident  *string     `| @Ident`
	Parens *Expr       `| "(" @@ ")"`
}

// MinMaxExpr is `min(a, b)` or `max(a, b)`, the only call-syntax forms
// this language's expression grammar admits (task calls are statements
// only, never expressions).
type MinMaxExpr struct {
	Operator string `@("min" | "max") "("`
	Left     *Expr  `@@ ","`
	Right    *Expr  `@@ ")"`
}
