package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	apperrors "pinstack/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrapsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := apperrors.NewInfrastructureError("mongo write failed").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "mongo write failed")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestAppErrorBuilders(t *testing.T) {
	err := apperrors.NewValidationError("name is required").
		WithCode("BOARD_NAME_REQUIRED").
		WithComponent("boards").
		WithDetail("field", "name")

	assert.Equal(t, apperrors.ErrorTypeValidation, err.Type)
	assert.Equal(t, http.StatusBadRequest, err.HTTPCode)
	assert.Equal(t, "BOARD_NAME_REQUIRED", err.Code)
	assert.Equal(t, "boards", err.Component)
	assert.Equal(t, "name", err.Details["field"])
}

func TestPredicatesCoverSentinels(t *testing.T) {
	notFound := []error{
		apperrors.ErrNotFound,
		apperrors.ErrBoardNotFound,
		apperrors.ErrPinNotFound,
		apperrors.ErrCollaboratorNotFound,
		apperrors.ErrUserNotFound,
	}
	for _, err := range notFound {
		assert.True(t, apperrors.IsNotFound(err), "expected IsNotFound for %v", err)
	}

	conflicts := []error{
		apperrors.ErrConflict,
		apperrors.ErrCollaboratorExists,
		apperrors.ErrPinAlreadyOnBoard,
		apperrors.ErrPinAlreadySaved,
	}
	for _, err := range conflicts {
		assert.True(t, apperrors.IsConflict(err), "expected IsConflict for %v", err)
	}

	forbidden := []error{
		apperrors.ErrForbidden,
		apperrors.ErrNotBoardOwner,
		apperrors.ErrBoardAccessDenied,
	}
	for _, err := range forbidden {
		assert.True(t, apperrors.IsAuthorization(err), "expected IsAuthorization for %v", err)
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("resolving access: %w", apperrors.ErrBoardNotFound)
	assert.True(t, apperrors.IsNotFound(wrapped))
	assert.False(t, apperrors.IsConflict(wrapped))
}

func TestFeedUnavailableIsNotNotFound(t *testing.T) {
	// An empty feed and a broken feed must stay distinguishable.
	assert.False(t, apperrors.IsNotFound(apperrors.ErrFeedUnavailable))
	assert.False(t, apperrors.IsValidation(apperrors.ErrFeedUnavailable))
}

func TestValidationErrorsAggregate(t *testing.T) {
	ve := apperrors.NewValidationErrors().
		Add("email", "is required", nil).
		Add("password", "too short", "abc")

	require.True(t, ve.HasErrors())

	appErr := ve.ToAppError()
	assert.Equal(t, apperrors.ErrorTypeValidation, appErr.Type)
	assert.True(t, apperrors.IsValidation(appErr))
}

func TestWrapError(t *testing.T) {
	base := stderrors.New("boom")
	err := apperrors.WrapError(base, "saving pin")

	assert.ErrorIs(t, err, base)
	assert.Contains(t, err.Error(), "saving pin")
}
