package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_ErrorString(t *testing.T) {
	e := NotFound("user", "u-1")
	assert.Contains(t, e.Error(), "NOT_FOUND")
	assert.Contains(t, e.Error(), "u-1")

	wrapped := &AppError{Code: "X", Message: "msg", Status: 500, Err: errors.New("boom")}
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestAppError_Unwrap(t *testing.T) {
	assert.True(t, errors.Is(NotFound("user", "u-1"), ErrNotFound))
	assert.True(t, errors.Is(AlreadyExists("user", "email", "a@x.com"), ErrAlreadyExists))
	assert.True(t, errors.Is(InvalidInput("bad"), ErrInvalidInput))
	assert.True(t, errors.Is(Unauthorized("no"), ErrUnauthorized))
	assert.True(t, errors.Is(Forbidden("no"), ErrForbidden))
	assert.True(t, errors.Is(Locked("locked"), ErrLocked))
	assert.True(t, errors.Is(InvalidToken("expired"), ErrInvalidToken))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrConflict, http.StatusConflict},
		{ErrInvalidInput, http.StatusBadRequest},
		{ErrInvalidToken, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrLocked, http.StatusLocked},
		{errors.New("anything else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), "error: %v", tt.err)
	}
}

func TestHTTPStatus_WrappedSentinel(t *testing.T) {
	err := fmt.Errorf("login: %w", ErrLocked)
	assert.Equal(t, http.StatusLocked, HTTPStatus(err))
}

func TestHTTPStatus_AppErrorTakesPrecedence(t *testing.T) {
	err := fmt.Errorf("outer: %w", Locked("account is temporarily locked"))
	assert.Equal(t, http.StatusLocked, HTTPStatus(err))

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "ACCOUNT_LOCKED", appErr.Code)
}

func TestWrap(t *testing.T) {
	base := errors.New("db down")
	err := Wrap(base, "load user")
	assert.EqualError(t, err, "load user: db down")
	assert.True(t, errors.Is(err, base))
}
