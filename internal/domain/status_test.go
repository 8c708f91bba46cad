package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", StatusTodo},
		{"   ", StatusTodo},
		{"todo", StatusTodo},
		{"Backlog", StatusTodo},
		{"doing", StatusInProgress},
		{"in-progress", StatusInProgress},
		{"QA", StatusReview},
		{"Done", StatusCompleted},
		{"closed", StatusCompleted},
		{"Blocked", "Blocked"},
		{" waiting on vendor ", "waiting on vendor"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, RawStatus(tt.input))
		})
	}
}

func TestIsBuiltinStatus(t *testing.T) {
	assert.True(t, IsBuiltinStatus("review"))
	assert.False(t, IsBuiltinStatus("done"))
}

func TestFieldValue(t *testing.T) {
	v, err := FieldValue(FieldTags, "a, b,,c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, v)

	v, err = FieldValue(FieldStatus, "done")
	require.NoError(t, err)
	assert.Equal(t, "completed", *v.(*string))

	v, err = FieldValue(FieldPriority, "")
	require.NoError(t, err)
	assert.Nil(t, v.(*string))

	v, err = FieldValue(FieldArchivedAt, "2026-01-02T03:04:05Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), *v.(*time.Time))
}

func TestFieldValue_Rejections(t *testing.T) {
	_, err := FieldValue("title", "x")
	assert.ErrorIs(t, err, ErrFieldNotMutable)

	_, err = FieldValue(FieldStatus, nil)
	assert.Error(t, err)

	_, err = FieldValue(FieldSource, "svn")
	assert.Error(t, err)

	_, err = FieldValue(FieldArchivedAt, "yesterday")
	assert.Error(t, err)

	_, err = FieldValue(FieldAssignee, 42)
	assert.Error(t, err)
}

func TestApplyField(t *testing.T) {
	m := NewPlanMetadata("a.md", "", time.Now())
	assert.Equal(t, SourceMarkdown, m.Source)
	assert.Equal(t, StatusTodo, m.Status)

	v, err := FieldValue(FieldAssignee, "ana")
	require.NoError(t, err)
	m.ApplyField(FieldAssignee, v)
	require.NotNil(t, m.Assignee)
	assert.Equal(t, "ana", *m.Assignee)

	v, err = FieldValue(FieldTags, []string{"x"})
	require.NoError(t, err)
	m.ApplyField(FieldTags, v)
	assert.Equal(t, []string{"x"}, m.Tags)
}

func TestSubtaskProgress(t *testing.T) {
	assert.Equal(t, Progress{}, SubtaskProgress(nil))

	subtasks := []Subtask{{Status: SubtaskDone}, {Status: SubtaskTodo}, {Status: SubtaskDone}}
	assert.Equal(t, Progress{Done: 2, Total: 3, Percentage: 67}, SubtaskProgress(subtasks))
}

func TestParseSubtaskStatus(t *testing.T) {
	s, err := ParseSubtaskStatus("")
	require.NoError(t, err)
	assert.Equal(t, SubtaskTodo, s)

	s, err = ParseSubtaskStatus("done")
	require.NoError(t, err)
	assert.Equal(t, SubtaskDone, s)
	assert.Equal(t, SubtaskTodo, s.Toggle())

	_, err = ParseSubtaskStatus("blocked")
	assert.Error(t, err)
}
