package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/similigh/assign-merged-prs/internal/core/state"
	"github.com/similigh/assign-merged-prs/internal/runner"
)

func TestPlain_Line(t *testing.T) {
	var buf bytes.Buffer
	p := NewPlain(&buf)

	p.Line(42, "Assign PR #42 to MERGER bob")
	p.Line(0, "second")

	assert.Equal(t, "Assign PR #42 to MERGER bob\nsecond\n", buf.String())
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	rep := &runner.Report{
		Processed:       6,
		Qualified:       3,
		Assigned:        2,
		Labeled:         2,
		SkippedAssignee: 1,
		Errors:          []string{"#44: fake github failure"},
		Authors:         []state.Entry{{Login: "alice", Count: 2}, {Login: "carol", Count: 1}},
		Assignees:       []state.Entry{{Login: "bob", Count: 1}},
	}

	require.NoError(t, Render(&buf, rep))
	out := buf.String()

	authors := strings.Index(out, "PR authors")
	assignees := strings.Index(out, "Assignees")
	require.NotEqual(t, -1, authors)
	require.NotEqual(t, -1, assignees)
	assert.Less(t, authors, assignees)

	assert.Less(t, strings.Index(out, "alice"), strings.Index(out, "carol"))
	assert.Contains(t, out, "Qualified:")
	assert.Contains(t, out, "#44: fake github failure")
	assert.NotContains(t, out, "Dry run")
}

func TestRender_EmptyDryRun(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Render(&buf, &runner.Report{DryRun: true}))

	assert.Contains(t, buf.String(), "(none)")
	assert.Contains(t, buf.String(), "Dry run")
}
