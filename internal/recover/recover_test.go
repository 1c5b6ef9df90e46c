package recover_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noclock/internal/ast"
	"noclock/internal/expr"
	recoverpkg "noclock/internal/recover"
	"noclock/internal/setbuilder"
)

func scheduledCall(date int64, coords []string, tag int64) *ast.Call {
	args := make([]expr.Expr, 0, len(coords)+2)
	args = append(args, expr.FromNumber(date))
	for _, c := range coords {
		args = append(args, expr.FromIdentifier(c))
	}
	args = append(args, expr.FromNumber(tag))
	return &ast.Call{Name: "S", Args: args}
}

// Three independent clocked calls, each one marker deep ("f"), arriving as
// a flat block the way StubScheduler emits them: structure recovery must
// rebuild three separate finish blocks, one per call. This is also the
// reason two calls that genuinely belonged to the same source-level finish
// block, with no loop or advance between them, cannot be told apart from
// this case once they reach this package as flat siblings with identical
// marker trails and no shared structural ancestor: a marker trail alone
// cannot distinguish "these were always siblings" from "these are separate
// clock phases that happen to look alike after erasure." See
// TestRecoverForLoopSharesOneFinish for the case this package does recover
// correctly, where the shared ancestor survives as a real *ast.For node.
func TestRecoverThreeSiblingFinishes(t *testing.T) {
	table := setbuilder.NewStringTable()
	tagS := int64(table.IndexOf("S"))
	tagT := int64(table.IndexOf("T"))
	tagU := int64(table.IndexOf("U"))

	callS := scheduledCall(0, []string{"0", "f", "0"}, tagS)
	callT := scheduledCall(1, []string{"0", "f", "1"}, tagT)
	callU := scheduledCall(2, []string{"0", "f", "2"}, tagU)
	callS.Name, callT.Name, callU.Name = "S_scheduled", "T_scheduled", "U_scheduled"

	root := ast.InstructionList{callS, callT, callU}

	out, err := recoverpkg.Recover(root, table)
	require.NoError(t, err)
	require.Len(t, out, 3)

	for i, name := range []string{"S", "T", "U"} {
		f, ok := out[i].(*ast.Finish)
		require.True(t, ok, "element %d should be a Finish", i)
		require.Len(t, f.Body, 1)
		call, ok := f.Body[0].(*ast.Call)
		require.True(t, ok)
		assert.Equal(t, name, call.Name)
		assert.Empty(t, call.Args)
	}
}

// Two calls that already sit inside a shared *ast.For — the shape a real
// scheduler's own loop reconstruction hands to this package, as opposed to
// StubScheduler's flat block — must land inside one shared finish wrapping
// that whole loop, not one finish per call. Both calls carry the same
// single "f" marker, matching what internal/annotate assigns to a call one
// level under a clocked finish with no intervening advance: see the "flat
// siblings" limitation noted on TestRecoverThreeSiblingFinishes.
func TestRecoverForLoopSharesOneFinish(t *testing.T) {
	table := setbuilder.NewStringTable()
	tag0 := int64(table.IndexOf("S"))

	call0 := scheduledCall(0, []string{"0", "f", "0"}, tag0)
	call1 := scheduledCall(1, []string{"0", "f", "0"}, tag0)
	call0.Name, call1.Name = "scheduled0", "scheduled1"

	loop := &ast.For{Iterator: "i", Left: expr.FromNumber(0), Right: expr.FromNumber(1), Body: ast.InstructionList{call0, call1}}
	root := ast.InstructionList{loop}

	out, err := recoverpkg.Recover(root, table)
	require.NoError(t, err)
	require.Len(t, out, 1)

	f, ok := out[0].(*ast.Finish)
	require.True(t, ok)
	require.Len(t, f.Body, 1)
	gotLoop, ok := f.Body[0].(*ast.For)
	require.True(t, ok, "the finish should wrap the for loop itself, not its individual calls")
	assert.Same(t, loop, gotLoop)
	require.Len(t, gotLoop.Body, 2)
}

// A call with no "f"/"a" marker at all is left unwrapped, with its name
// restored and its arguments cleared.
func TestRecoverNoMarker(t *testing.T) {
	table := setbuilder.NewStringTable()
	tag := int64(table.IndexOf("Plain"))

	call := scheduledCall(0, []string{"0"}, tag)
	call.Name = "scheduled"

	root := ast.InstructionList{call}
	out, err := recoverpkg.Recover(root, table)
	require.NoError(t, err)
	require.Len(t, out, 1)

	c, ok := out[0].(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "Plain", c.Name)
	assert.Empty(t, c.Args)
}

// An async marker nested inside a finish marker produces a finish wrapping
// an async.
func TestRecoverNestedFinishAsync(t *testing.T) {
	table := setbuilder.NewStringTable()
	tag := int64(table.IndexOf("Leaf"))

	call := scheduledCall(0, []string{"0", "f", "0", "a", "0"}, tag)
	call.Name = "scheduled"

	root := ast.InstructionList{call}
	out, err := recoverpkg.Recover(root, table)
	require.NoError(t, err)
	require.Len(t, out, 1)

	f, ok := out[0].(*ast.Finish)
	require.True(t, ok)
	require.Len(t, f.Body, 1)
	a, ok := f.Body[0].(*ast.Async)
	require.True(t, ok)
	require.Len(t, a.Body, 1)
	c, ok := a.Body[0].(*ast.Call)
	require.True(t, ok)
	assert.Equal(t, "Leaf", c.Name)
}

// A call with too few arguments to carry both a date and a tag is a fatal,
// reported error rather than a panic.
func TestRecoverTooFewArgs(t *testing.T) {
	table := setbuilder.NewStringTable()
	call := &ast.Call{Name: "broken", Args: []expr.Expr{expr.FromNumber(0)}}

	_, err := recoverpkg.Recover(ast.InstructionList{call}, table)
	assert.Error(t, err)
}

// An out-of-range tag is a fatal error, not a silent no-op rename.
func TestRecoverUnknownTag(t *testing.T) {
	table := setbuilder.NewStringTable()
	call := scheduledCall(0, nil, 99)

	_, err := recoverpkg.Recover(ast.InstructionList{call}, table)
	assert.Error(t, err)
}
