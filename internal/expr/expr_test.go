package expr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"noclock/internal/expr"
)

func TestAddSimplifiesIdentityAndNil(t *testing.T) {
	x := expr.FromIdentifier("x")

	assert.Same(t, x, expr.Add(expr.FromNumber(0), x))
	assert.Same(t, x, expr.Add(x, expr.FromNumber(0)))
	assert.Same(t, x, expr.Add(nil, x))
	assert.Same(t, x, expr.Add(x, nil))
}

func TestAddFoldsConstants(t *testing.T) {
	got := expr.Add(expr.FromNumber(2), expr.FromNumber(3))
	assert.True(t, expr.IsNumber(got))
	n, ok := got.(*expr.Number)
	assert.True(t, ok)
	assert.Equal(t, int64(5), n.Value)
}

func TestMulSimplifiesIdentityAndZero(t *testing.T) {
	x := expr.FromIdentifier("x")

	assert.Same(t, x, expr.Mul(expr.FromNumber(1), x))
	assert.Same(t, x, expr.Mul(x, expr.FromNumber(1)))
	assert.True(t, expr.IsZero(expr.Mul(expr.FromNumber(0), x)))
	assert.True(t, expr.IsZero(expr.Mul(x, expr.FromNumber(0))))
}

// Property: recursive additive folding. Adding a second constant to an
// expression that already has one buried under a chain of additions folds
// the new constant into the existing one in place rather than growing a new
// outer Binary node, mirroring attempt_to_fold in the original algebra.
func TestAddRecursiveFold(t *testing.T) {
	x := expr.FromIdentifier("x")
	once := expr.Add(x, expr.FromNumber(1))     // (x + 1)
	twice := expr.Add(once, expr.FromNumber(2)) // folds into (x + 3), not ((x + 1) + 2)

	b, ok := twice.(*expr.Binary)
	assert.True(t, ok)
	assert.Equal(t, expr.OpAdd, b.Op)
	assert.Same(t, x, b.X)
	n, ok := b.Y.(*expr.Number)
	assert.True(t, ok)
	assert.Equal(t, int64(3), n.Value)
}

func TestMulRecursiveFold(t *testing.T) {
	x := expr.FromIdentifier("x")
	once := expr.Mul(x, expr.FromNumber(2))
	twice := expr.Mul(once, expr.FromNumber(3)) // folds into (x * 6)

	b, ok := twice.(*expr.Binary)
	assert.True(t, ok)
	assert.Equal(t, expr.OpMul, b.Op)
	n, ok := b.Y.(*expr.Number)
	assert.True(t, ok)
	assert.Equal(t, int64(6), n.Value)
}

// Property: structural equality ignores identity.
func TestEqualIgnoresIdentity(t *testing.T) {
	a := expr.Add(expr.FromIdentifier("x"), expr.FromNumber(1))
	b := expr.Add(expr.FromIdentifier("x"), expr.FromNumber(1))
	assert.False(t, a == b)
	assert.True(t, expr.Equal(a, b))
}

func TestEqualDistinguishesDifferentTrees(t *testing.T) {
	a := expr.Add(expr.FromIdentifier("x"), expr.FromNumber(1))
	b := expr.Add(expr.FromIdentifier("y"), expr.FromNumber(1))
	assert.False(t, expr.Equal(a, b))
}

// Property: Clone produces an equal but independent tree, so folding one
// does not mutate the other.
func TestCloneIsIndependent(t *testing.T) {
	original := expr.Add(expr.FromIdentifier("x"), expr.FromNumber(1))
	cloned := expr.Clone(original)

	assert.True(t, expr.Equal(original, cloned))
	assert.False(t, original == cloned)

	// Folding a new constant into cloned must not affect original's value.
	folded := expr.Add(cloned, expr.FromNumber(1))
	assert.False(t, expr.Equal(original, folded))

	ob := original.(*expr.Binary)
	n := ob.Y.(*expr.Number)
	assert.Equal(t, int64(1), n.Value, "folding the clone must not mutate the original's Number leaf")
}

func TestFormatNilIsEmptyString(t *testing.T) {
	assert.Equal(t, "", expr.Format(nil, false))
}

func TestFormatMinMaxUsesCallSyntax(t *testing.T) {
	m := expr.Min(expr.FromIdentifier("x"), expr.FromNumber(1))
	assert.Equal(t, "min(x, 1)", expr.Format(m, false))
}

func TestFormatBinaryIsFullyParenthesized(t *testing.T) {
	b := expr.Add(expr.FromIdentifier("x"), expr.FromNumber(1))
	assert.Equal(t, "(x + 1)", expr.Format(b, false))
}

func TestDivSimplifiesZeroNumeratorAndUnitDenominator(t *testing.T) {
	x := expr.FromIdentifier("x")
	assert.True(t, expr.IsZero(expr.Div(expr.FromNumber(0), x)))
	assert.Same(t, x, expr.Div(x, expr.FromNumber(1)))
}
