package errors_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noclock/internal/errors"
	"noclock/token"
)

func TestErrorStringWithoutPosition(t *testing.T) {
	err := errors.NewResource("scheduler binary %q not found", "isl-sched")
	assert.Equal(t, `resource: scheduler binary "isl-sched" not found`, err.Error())
}

func TestErrorStringWithPosition(t *testing.T) {
	pos := token.Position{Filename: "t.nc", Line: 3, Column: 5}
	err := errors.NewParse(pos, "unexpected token %q", "}")
	assert.Equal(t, `t.nc:3:5: parse: unexpected token "}"`, err.Error())
}

func TestWithNoteChains(t *testing.T) {
	err := errors.NewScheduler("bad tuple").WithNote("tag 7 out of range").WithNote("table had 3 entries")
	require.Len(t, err.Notes, 2)
	assert.Equal(t, "tag 7 out of range", err.Notes[0])
	assert.Equal(t, "table had 3 entries", err.Notes[1])
}

func TestReporterFormatShowsCaretAtSourceLine(t *testing.T) {
	src := "finish {\n  garbage\n}\n"
	pos := token.Position{Filename: "t.nc", Line: 2, Column: 3}
	err := errors.NewShape(pos, "unknown instruction")

	out := errors.NewReporter("t.nc", src).Format(err)

	assert.Contains(t, out, "shape: unknown instruction")
	assert.Contains(t, out, "t.nc:2:3")
	assert.Contains(t, out, "garbage")
	assert.True(t, strings.Contains(out, "^"))
}

func TestReporterFormatWithoutSourceSkipsCaret(t *testing.T) {
	err := errors.NewResource("no such file")
	out := errors.NewReporter("t.nc", "").Format(err)

	assert.Contains(t, out, "resource: no such file")
	assert.NotContains(t, out, "^")
}

func TestReporterFormatIncludesNotes(t *testing.T) {
	err := errors.NewScheduler("set union failed").WithNote("see stderr above")
	out := errors.NewReporter("t.nc", "").Format(err)

	assert.Contains(t, out, "note:")
	assert.Contains(t, out, "see stderr above")
}
