package setbuilder_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noclock/internal/annotate"
	"noclock/internal/ast"
	"noclock/internal/expr"
	"noclock/internal/setbuilder"
)

// Property 8: a call's shifted tuple puts the literal date marker first,
// the call-name tag last, and one more level of for-nesting — contributing
// both the for loop's own position digit and its iterator name — adds
// exactly two more coordinates between date and tag.
func TestBuildSetTupleShapeGrowsPerForLevel(t *testing.T) {
	top := &ast.Call{Name: "S"}
	nested := &ast.Call{Name: "T"}
	inner := &ast.For{
		Iterator: "i",
		Left:     expr.FromNumber(0),
		Right:    expr.FromNumber(1),
		Body:     ast.InstructionList{nested},
	}
	root := ast.InstructionList{top, inner}
	annotate.Annotate(root, nil)

	u, _ := setbuilder.Build(root, nil)
	require.Len(t, u.Sets, 2)

	byName := map[string]setbuilder.Set{}
	for _, s := range u.Sets {
		byName[s.CallName] = s
	}

	topTuple := tupleOf(t, byName["S"].Text)
	nestedTuple := tupleOf(t, byName["T"].Text)

	assert.Equal(t, "d", topTuple[0], "the date coordinate comes first")
	assert.Equal(t, "d", nestedTuple[0], "the date coordinate comes first")
	assert.Len(t, nestedTuple, len(topTuple)+2, "one more for-level adds its position digit and its iterator name")
	assert.Equal(t, strconv.Itoa(byName["S"].Tag), topTuple[len(topTuple)-1], "the tag must be the last tuple element")
	assert.Equal(t, strconv.Itoa(byName["T"].Tag), nestedTuple[len(nestedTuple)-1], "the tag must be the last tuple element")
}

// Property 9: the string table is append-only, and the index assigned to a
// name is stable across repeated lookups.
func TestStringTableIsAppendOnlyAndStable(t *testing.T) {
	table := setbuilder.NewStringTable()

	first := table.IndexOf("S")
	again := table.IndexOf("S")
	second := table.IndexOf("T")

	assert.Equal(t, first, again, "looking up the same name twice must return the same tag")
	assert.NotEqual(t, first, second, "distinct names must receive distinct tags")
	assert.Equal(t, "S", table.Name(first))
	assert.Equal(t, "T", table.Name(second))
	assert.Equal(t, 2, table.Len())

	table.IndexOf("U")
	assert.Equal(t, first, table.IndexOf("S"), "a name's tag must never shift once assigned")
}

// tupleOf extracts the comma-separated tuple components from a rendered set
// of the form "[params] -> { [a, b, c] : constraints }".
func tupleOf(t *testing.T, text string) []string {
	t.Helper()
	base := strings.Index(text, "{")
	require.GreaterOrEqual(t, base, 0)
	rel := strings.Index(text[base:], "[")
	require.GreaterOrEqual(t, rel, 0)
	start := base + rel + 1
	end := strings.Index(text[start:], "]")
	require.GreaterOrEqual(t, end, 0)

	parts := strings.Split(text[start:start+end], ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
