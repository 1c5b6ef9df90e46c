// Package expr implements the symbolic integer/boolean expression algebra
// that the annotator (internal/annotate) and set builder (internal/setbuilder)
// use to compute and render task dates.
//
// An Expr is a small tagged tree: Number, Bool, Ident, Unary, Binary. The
// arithmetic binary constructors fold constants eagerly and attempt the recursive
// additive/multiplicative fold described below, so that date expressions
// accumulated across many nested loops stay readable instead of growing into
// deep chains of "x + 0 + (y + 1) + ...".
package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is a binary operator.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMin Op = "min"
	OpMax Op = "max"
	OpAnd Op = "&&"
	OpOr  Op = "||"
	OpLt  Op = "<"
	OpLe  Op = "<="
	OpGt  Op = ">"
	OpGe  Op = ">="
	OpEq  Op = "=="
	OpNe  Op = "!="
)

// UnaryOp is a unary operator.
type UnaryOp string

const (
	UnaryNeg UnaryOp = "-"
	UnaryNot UnaryOp = "!"
)

// Expr is implemented by Number, Bool, Ident, Unary, and Binary.
type Expr interface {
	isExpr()
	String() string
}

// Number is an integer constant.
type Number struct {
	Value int64
}

// Bool is a boolean constant.
type Bool struct {
	Value bool
}

// Ident is a free symbolic name: a loop iterator, a program parameter, or a
// value threaded through from a surface-language identifier expression.
type Ident struct {
	Name string
}

// Unary owns a single operand.
type Unary struct {
	Op UnaryOp
	X  Expr
}

// Binary owns two operands.
type Binary struct {
	Op   Op
	X, Y Expr
}

func (*Number) isExpr() {}
func (*Bool) isExpr()   {}
func (*Ident) isExpr()  {}
func (*Unary) isExpr()  {}
func (*Binary) isExpr() {}

func (n *Number) String() string { return Format(n, false) }
func (b *Bool) String() string   { return Format(b, false) }
func (i *Ident) String() string  { return Format(i, false) }
func (u *Unary) String() string  { return Format(u, false) }
func (b *Binary) String() string { return Format(b, false) }

////////////////////////////////////////////////////////////////////////////
// Constructors.
////////////////////////////////////////////////////////////////////////////

// FromNumber builds an integer constant.
func FromNumber(n int64) Expr { return &Number{Value: n} }

// FromIdentifier builds an identifier reference.
func FromIdentifier(name string) Expr { return &Ident{Name: name} }

// FromBoolean builds a boolean constant.
func FromBoolean(b bool) Expr { return &Bool{Value: b} }

////////////////////////////////////////////////////////////////////////////
// Predicates.
////////////////////////////////////////////////////////////////////////////

// IsNumber reports whether e is an integer constant.
func IsNumber(e Expr) bool {
	if e == nil {
		return false
	}
	_, ok := e.(*Number)
	return ok
}

// IsIdentifier reports whether e is an identifier.
func IsIdentifier(e Expr) bool {
	if e == nil {
		return false
	}
	_, ok := e.(*Ident)
	return ok
}

// IsBoolean reports whether e is a boolean constant.
func IsBoolean(e Expr) bool {
	if e == nil {
		return false
	}
	_, ok := e.(*Bool)
	return ok
}

// IsZero reports whether e is the integer constant 0.
func IsZero(e Expr) bool {
	n, ok := e.(*Number)
	return ok && n.Value == 0
}

// IsOne reports whether e is the integer constant 1.
func IsOne(e Expr) bool {
	n, ok := e.(*Number)
	return ok && n.Value == 1
}

// IsTrue reports whether e is the boolean constant true.
func IsTrue(e Expr) bool {
	b, ok := e.(*Bool)
	return ok && b.Value
}

// IsFalse reports whether e is the boolean constant false.
func IsFalse(e Expr) bool {
	b, ok := e.(*Bool)
	return ok && !b.Value
}

////////////////////////////////////////////////////////////////////////////
// Recursive folding.
////////////////////////////////////////////////////////////////////////////

// attemptFold looks for a Number leaf reachable from target through a chain
// of Binary nodes all sharing op, and mutates it in place by combining it
// with n. It reports whether it found one. This mirrors attempt_to_fold in
// the original implementation: it mutates the tree rather than rebuilding
// it, so a failed attempt leaves target's shape untouched.
func attemptFold(n int64, target Expr, op Op) bool {
	b, ok := target.(*Binary)
	if !ok || b.Op != op {
		return false
	}

	if num, ok := b.X.(*Number); ok {
		combineInto(num, n, op)
		return true
	}
	if attemptFold(n, b.X, op) {
		return true
	}

	if num, ok := b.Y.(*Number); ok {
		combineInto(num, n, op)
		return true
	}
	return attemptFold(n, b.Y, op)
}

func combineInto(num *Number, n int64, op Op) {
	switch op {
	case OpAdd:
		num.Value += n
	case OpMul:
		num.Value *= n
	}
}

// foldOrBuild implements fold_or_operation: when exactly one operand is a
// constant and the other is a Binary of the same op, attemptFold is tried
// first; otherwise a fresh Binary node is built.
func foldOrBuild(a, b Expr, op Op) Expr {
	if na, ok := a.(*Number); ok {
		if attemptFold(na.Value, b, op) {
			return b
		}
	} else if nb, ok := b.(*Number); ok {
		if attemptFold(nb.Value, a, op) {
			return a
		}
	}
	return &Binary{Op: op, X: a, Y: b}
}

////////////////////////////////////////////////////////////////////////////
// Combinators.
////////////////////////////////////////////////////////////////////////////

// nilTolerant returns (result, true) if either operand is nil, handling the
// "null operand" rule shared by every binary combinator.
func nilTolerant(a, b Expr) (Expr, bool) {
	if a == nil {
		return b, true
	}
	if b == nil {
		return a, true
	}
	return nil, false
}

func bothNumbers(a, b Expr, combine func(x, y int64) int64) Expr {
	na, nb := a.(*Number), b.(*Number)
	return &Number{Value: combine(na.Value, nb.Value)}
}

// Add builds a + b, simplifying `0 + x`, `x + 0`, constant folding, and
// recursive additive folding.
func Add(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	if IsZero(a) {
		return b
	}
	if IsZero(b) {
		return a
	}
	if IsNumber(a) && IsNumber(b) {
		return bothNumbers(a, b, func(x, y int64) int64 { return x + y })
	}
	return foldOrBuild(a, b, OpAdd)
}

// Sub builds a - b, simplifying `x - 0`, constant folding, and — unlike the
// original algebra's expression_sub, which never folds a subtracted
// constant into an existing additive chain — collapsing a trailing additive
// constant down to zero, e.g. `((i + 2) - 2)` simplifies to `i` rather than
// `(i + 0)`. This is needed for spec.md's own worked example (date
// simplification scenario 5), which the original's never-fold-Sub behavior
// does not actually produce.
func Sub(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	if IsZero(b) {
		return a
	}
	if IsNumber(a) && IsNumber(b) {
		return bothNumbers(a, b, func(x, y int64) int64 { return x - y })
	}
	if nb, ok := b.(*Number); ok {
		return collapseZero(Add(a, &Number{Value: -nb.Value}))
	}
	return &Binary{Op: OpSub, X: a, Y: b}
}

// collapseZero drops a trailing "+ 0" an additive fold can leave behind.
func collapseZero(e Expr) Expr {
	b, ok := e.(*Binary)
	if !ok || b.Op != OpAdd {
		return e
	}
	if IsZero(b.Y) {
		return b.X
	}
	if IsZero(b.X) {
		return b.Y
	}
	return e
}

// Mul builds a * b, simplifying `0 * x`, `x * 0`, `1 * x`, `x * 1`, constant
// folding, and recursive multiplicative folding.
func Mul(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	if IsZero(a) {
		return a
	}
	if IsZero(b) {
		return b
	}
	if IsOne(a) {
		return b
	}
	if IsOne(b) {
		return a
	}
	if IsNumber(a) && IsNumber(b) {
		return bothNumbers(a, b, func(x, y int64) int64 { return x * y })
	}
	return foldOrBuild(a, b, OpMul)
}

// Div builds a / b (truncated toward zero), simplifying `0 / x` and `x / 1`.
func Div(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	if IsZero(a) {
		return a
	}
	if IsOne(b) {
		return a
	}
	if IsNumber(a) && IsNumber(b) {
		return bothNumbers(a, b, func(x, y int64) int64 { return x / y })
	}
	return &Binary{Op: OpDiv, X: a, Y: b}
}

// Min builds min(a, b), constant-folding when both operands are numbers.
func Min(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	if IsNumber(a) && IsNumber(b) {
		return bothNumbers(a, b, func(x, y int64) int64 {
			if x < y {
				return x
			}
			return y
		})
	}
	return &Binary{Op: OpMin, X: a, Y: b}
}

// Max builds max(a, b), constant-folding when both operands are numbers.
func Max(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	if IsNumber(a) && IsNumber(b) {
		return bothNumbers(a, b, func(x, y int64) int64 {
			if x > y {
				return x
			}
			return y
		})
	}
	return &Binary{Op: OpMax, X: a, Y: b}
}

// And builds a && b unconditionally (no simplification rule applies).
func And(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpAnd, X: a, Y: b}
}

// Or builds a || b unconditionally.
func Or(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpOr, X: a, Y: b}
}

// Lt builds a < b unconditionally.
func Lt(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpLt, X: a, Y: b}
}

// Le builds a <= b unconditionally.
func Le(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpLe, X: a, Y: b}
}

// Gt builds a > b unconditionally.
func Gt(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpGt, X: a, Y: b}
}

// Ge builds a >= b unconditionally.
func Ge(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpGe, X: a, Y: b}
}

// Eq builds a == b unconditionally.
func Eq(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpEq, X: a, Y: b}
}

// Ne builds a != b unconditionally.
func Ne(a, b Expr) Expr {
	if r, ok := nilTolerant(a, b); ok {
		return r
	}
	return &Binary{Op: OpNe, X: a, Y: b}
}

// Neg builds arithmetic negation. A nil operand is tolerated and returned
// unchanged (as nil), matching the tolerance of the binary combinators.
func Neg(x Expr) Expr {
	if x == nil {
		return nil
	}
	return &Unary{Op: UnaryNeg, X: x}
}

// Not builds logical negation. A nil operand is tolerated and returned
// unchanged (as nil).
func Not(x Expr) Expr {
	if x == nil {
		return nil
	}
	return &Unary{Op: UnaryNot, X: x}
}

////////////////////////////////////////////////////////////////////////////
// Structural equality and cloning.
////////////////////////////////////////////////////////////////////////////

// Equal reports whether a and b denote structurally identical trees.
func Equal(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.Value == y.Value
	case *Ident:
		y, ok := b.(*Ident)
		return ok && x.Name == y.Name
	case *Unary:
		y, ok := b.(*Unary)
		return ok && x.Op == y.Op && Equal(x.X, y.X)
	case *Binary:
		y, ok := b.(*Binary)
		return ok && x.Op == y.Op && Equal(x.X, y.X) && Equal(x.Y, y.Y)
	default:
		return false
	}
}

// Clone returns a deep copy of e. Every date computation in internal/annotate
// clones its inputs before folding so that two calls never share a subtree:
// a later in-place fold on one call's date (see attemptFold above) would
// otherwise silently corrupt a sibling call's date.
func Clone(e Expr) Expr {
	if e == nil {
		return nil
	}
	switch x := e.(type) {
	case *Number:
		c := *x
		return &c
	case *Bool:
		c := *x
		return &c
	case *Ident:
		c := *x
		return &c
	case *Unary:
		return &Unary{Op: x.Op, X: Clone(x.X)}
	case *Binary:
		return &Binary{Op: x.Op, X: Clone(x.X), Y: Clone(x.Y)}
	default:
		return nil
	}
}

////////////////////////////////////////////////////////////////////////////
// Pretty-printing.
////////////////////////////////////////////////////////////////////////////

var minMax = map[Op]bool{OpMin: true, OpMax: true}

// Format renders e in the surface syntax. Binary nodes are fully
// parenthesized except min/max, which use call syntax; unary is prefix.
// Colors (yellow identifiers, green constants) are emitted only when
// useColor is true. Format is total: it never fails, and a nil Expr renders
// as the empty string (so callers building boundary/date text do not need to
// special-case an absent expression).
func Format(e Expr, useColor bool) string {
	if e == nil {
		return ""
	}

	switch x := e.(type) {
	case *Ident:
		if useColor {
			return yellow(x.Name)
		}
		return x.Name
	case *Number:
		s := strconv.FormatInt(x.Value, 10)
		if useColor {
			return green(s)
		}
		return s
	case *Bool:
		s := "false"
		if x.Value {
			s = "true"
		}
		if useColor {
			return green(s)
		}
		return s
	case *Unary:
		return string(x.Op) + Format(x.X, useColor)
	case *Binary:
		if minMax[x.Op] {
			return fmt.Sprintf("%s(%s, %s)", x.Op, Format(x.X, useColor), Format(x.Y, useColor))
		}
		return fmt.Sprintf("(%s %s %s)", Format(x.X, useColor), x.Op, Format(x.Y, useColor))
	default:
		return ""
	}
}

// yellow and green are overridden by internal/ast's init at process start
// and used only when Format is called with useColor; kept here, rather than importing
// github.com/fatih/color directly, so internal/expr stays a pure algebra
// package with no printer dependency of its own.
var (
	yellowFunc func(string) string = func(s string) string { return s }
	greenFunc  func(string) string = func(s string) string { return s }
)

func yellow(s string) string { return yellowFunc(s) }
func green(s string) string  { return greenFunc(s) }

// SetColorFuncs installs the color-rendering functions used when Format is
// called with useColor=true. internal/ast calls this once during init with
// github.com/fatih/color-backed functions.
func SetColorFuncs(yellowFn, greenFn func(string) string) {
	if yellowFn != nil {
		yellowFunc = yellowFn
	}
	if greenFn != nil {
		greenFunc = greenFn
	}
}

// AsString mirrors the spec's total to-string function, useful for call
// sites that don't care about color.
func AsString(e Expr) string { return strings.TrimSpace(Format(e, false)) }
