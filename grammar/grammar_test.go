package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noclock/grammar"
)

func TestParseSimpleCall(t *testing.T) {
	program, err := grammar.ParseString("t.nc", `S(1, 2);`)
	require.NoError(t, err)
	require.Len(t, program.Instructions, 1)

	call := program.Instructions[0].Call
	require.NotNil(t, call)
	assert.Equal(t, "S", call.Name)
	assert.Len(t, call.Args, 2)
}

func TestParseClockedFinishWithAdvance(t *testing.T) {
	src := `
clocked finish {
  S(i);
  advance;
  T(i);
}
`
	program, err := grammar.ParseString("t.nc", src)
	require.NoError(t, err)
	require.Len(t, program.Instructions, 1)

	cf := program.Instructions[0].ClockedFinish
	require.NotNil(t, cf)
	require.Len(t, cf.Body.Instructions, 3)
	assert.NotNil(t, cf.Body.Instructions[0].Call)
	assert.NotNil(t, cf.Body.Instructions[1].Advance)
	assert.NotNil(t, cf.Body.Instructions[2].Call)
}

func TestParseForLoop(t *testing.T) {
	src := `
for i in (0..N) {
  S(i);
}
`
	program, err := grammar.ParseString("t.nc", src)
	require.NoError(t, err)
	require.Len(t, program.Instructions, 1)

	f := program.Instructions[0].For
	require.NotNil(t, f)
	assert.Equal(t, "i", f.Iterator)
	require.Len(t, f.Body.Instructions, 1)
}

func TestParseIfElse(t *testing.T) {
	src := `
if (x <= 3) {
  S();
} else {
  T();
}
`
	program, err := grammar.ParseString("t.nc", src)
	require.NoError(t, err)
	require.Len(t, program.Instructions, 1)

	ifStmt := program.Instructions[0].If
	require.NotNil(t, ifStmt)
	require.NotNil(t, ifStmt.Else)
}

func TestParseMinMaxExpression(t *testing.T) {
	src := `S(min(1, 2), max(a, b));`
	program, err := grammar.ParseString("t.nc", src)
	require.NoError(t, err)

	call := program.Instructions[0].Call
	require.Len(t, call.Args, 2)
	primary := call.Args[0].Left.Left.Left.Left.Left.Value
	require.NotNil(t, primary)
	assert.NotNil(t, primary.MinMax)
	assert.Equal(t, "min", primary.MinMax.Operator)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := grammar.ParseString("t.nc", `finish { this is not valid`)
	assert.Error(t, err)

	_, _, ok := grammar.ParseErrorPosition(err)
	assert.True(t, ok, "a participle syntax error should report a position")
}
