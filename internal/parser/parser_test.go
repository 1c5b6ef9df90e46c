package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noclock/internal/ast"
	"noclock/internal/errors"
	"noclock/internal/expr"
	"noclock/internal/parser"
)

func TestLowerClockedFinishWithAdvance(t *testing.T) {
	src := `
clocked finish {
  S(i);
  advance;
  T(i);
}
`
	list, err := parser.ParseString("t.nc", src)
	require.NoError(t, err)
	require.Len(t, list, 1)

	cf, ok := list[0].(*ast.ClockedFinish)
	require.True(t, ok)
	require.Len(t, cf.Body, 3)

	call0, ok := cf.Body[0].(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "S", call0.Name)
	require.Len(t, call0.Args, 1)
	assert.Equal(t, "i", expr.AsString(call0.Args[0]))

	_, ok = cf.Body[1].(*ast.Advance)
	assert.True(t, ok)
}

func TestLowerForLoopBoundsAndMinMax(t *testing.T) {
	src := `
for i in (0..min(N, 10)) {
  S(i);
}
`
	list, err := parser.ParseString("t.nc", src)
	require.NoError(t, err)
	require.Len(t, list, 1)

	f, ok := list[0].(*ast.For)
	require.True(t, ok)
	assert.Equal(t, "i", f.Iterator)
	assert.Equal(t, "0", expr.AsString(f.Left))
	assert.Contains(t, expr.AsString(f.Right), "min")
}

func TestLowerIfElse(t *testing.T) {
	src := `
if (x <= 3) {
  S();
} else {
  T();
}
`
	list, err := parser.ParseString("t.nc", src)
	require.NoError(t, err)
	require.Len(t, list, 1)

	ie, ok := list[0].(*ast.IfElse)
	require.True(t, ok)
	assert.Equal(t, "(x <= 3)", expr.AsString(ie.Condition))
	require.Len(t, ie.Then, 1)
	require.Len(t, ie.Else, 1)
}

func TestLowerArithmeticPrecedence(t *testing.T) {
	src := `S(1 + 2 * 3);`
	list, err := parser.ParseString("t.nc", src)
	require.NoError(t, err)

	call := list[0].(*ast.Call)
	require.Len(t, call.Args, 1)
	// constant folding in internal/expr collapses this to a single number.
	assert.Equal(t, "7", expr.AsString(call.Args[0]))
}

func TestParseErrorReportsPosition(t *testing.T) {
	_, err := parser.ParseString("t.nc", `finish { garbage`)
	require.Error(t, err)

	var ce *errors.CompilerError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, errors.Parse, ce.Kind)
	assert.Equal(t, 1, ce.Position.Line)
}
