package serviceerror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomServiceError_MatchesBase(t *testing.T) {
	err := CustomServiceError(DuplicateRequest, "Request already exists with status: PENDING")

	assert.True(t, errors.Is(err, DuplicateRequest))
	assert.False(t, errors.Is(err, NotFound))
	assert.Equal(t, "Request already exists with status: PENDING", err.Description)
	assert.Equal(t, DuplicateRequest.Code, err.Code)
}

func TestWrap_KeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(PersistenceError, cause, "failed to load consent")

	assert.True(t, errors.Is(err, PersistenceError))
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFrom(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", CustomServiceError(AccessDenied, "no consent"))
	se := From(wrapped)
	assert.Equal(t, AccessDenied.Code, se.Code)

	plain := From(errors.New("boom"))
	assert.Equal(t, InternalError.Code, plain.Code)
	assert.Equal(t, InternalError.Description, plain.Description)
}
