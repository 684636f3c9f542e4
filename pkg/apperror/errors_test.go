package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindForbidden, KindOf(Forbidden("Unauthorized")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("lookup: %w", NotFound("Document not found"))))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
}

func TestInternalKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "internal server error", err.Message)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Conflict("Username already taken"), KindConflict))
	assert.False(t, Is(nil, KindConflict))
	assert.False(t, Is(Validation("bad"), KindConflict))
}
