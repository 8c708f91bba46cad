package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentity_AcceptsSafeNames(t *testing.T) {
	for _, id := range []string{"plan.md", "my-plan.md", "a_b-1.md", "UPPER.md", "codex-plan-abc.md"} {
		t.Run(id, func(t *testing.T) {
			assert.NoError(t, ValidateIdentity(id))
		})
	}
}

func TestValidateIdentity_RejectsUnsafeNames(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{"empty", "", "empty"},
		{"parent traversal", "../secret.md", "path traversal"},
		{"embedded dots", "a..b.md", "path traversal"},
		{"separator", "dir/plan.md", "path traversal"},
		{"backslash", `dir\plan.md`, "path traversal"},
		{"encoded traversal", "%2e%2e%2fsecret.md", "path traversal"},
		{"double encoded traversal", "%252e%252e%252fsecret.md", "path traversal"},
		{"encoded letters", "%41bc.md", "encoded characters"},
		{"malformed escape", "%zz.md", "malformed escape"},
		{"wrong extension", "plan.txt", "must match [a-zA-Z0-9_-]+.md"},
		{"space", "my plan.md", "must match [a-zA-Z0-9_-]+.md"},
		{"no stem", ".md", "must match [a-zA-Z0-9_-]+.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentity(tt.input)
			require.ErrorIs(t, err, ErrInvalidIdentity)

			var idErr *IdentityError
			require.ErrorAs(t, err, &idErr)
			assert.Equal(t, tt.input, idErr.Identity)
			assert.Equal(t, tt.reason, idErr.Reason)
		})
	}
}

func TestValidateNewIdentity_RejectsReservedPrefix(t *testing.T) {
	err := ValidateNewIdentity("codex-plan-0123456789abcdef.md")
	assert.ErrorIs(t, err, ErrInvalidIdentity)

	assert.NoError(t, ValidateNewIdentity("codex-notes.md"))
}

func TestIsVirtualIdentity(t *testing.T) {
	assert.True(t, IsVirtualIdentity("codex-plan-abc.md"))
	assert.False(t, IsVirtualIdentity("plan.md"))
	assert.False(t, IsVirtualIdentity("my-codex-plan-abc.md"))
}

func TestNormalizeIdentity(t *testing.T) {
	assert.Equal(t, "plan.md", NormalizeIdentity("plan"))
	assert.Equal(t, "plan.md", NormalizeIdentity(" plan.md "))
	assert.Equal(t, "", NormalizeIdentity(""))
}

func TestGeneratePlanName_IsValidIdentity(t *testing.T) {
	for range 50 {
		name := GeneratePlanName()
		assert.NoError(t, ValidateNewIdentity(name), name)
	}
}

func TestErrorTypes_MatchSentinels(t *testing.T) {
	assert.ErrorIs(t, NotFoundError("a.md"), ErrNotFound)
	assert.ErrorIs(t, ReadOnlyError("a.md"), ErrReadOnly)

	conflict := &ConflictError{Identity: "a.md"}
	assert.ErrorIs(t, conflict, ErrConflict)
	assert.Contains(t, conflict.Error(), "a.md")
}
