package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "conflict passes through", err: NewConflict("email already registered", nil), wantStatus: http.StatusConflict, wantCode: "CONFLICT"},
		{name: "wrapped domain error", err: fmt.Errorf("register: %w", NewForbidden("locked")), wantStatus: http.StatusForbidden, wantCode: "FORBIDDEN"},
		{name: "no rows becomes not found", err: fmt.Errorf("lookup: %w", pgx.ErrNoRows), wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "anything else is internal", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToDomainError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantStatus, got.HTTPStatus)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}

	assert.Nil(t, ToDomainError(nil))
}

func TestDomainErrorUnwrap(t *testing.T) {
	cause := errors.New("insert rejected")
	err := NewBadRequest("post not stored", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "post not stored: insert rejected", err.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(pgx.ErrNoRows))
	assert.True(t, IsNotFound(fmt.Errorf("x: %w", NewNotFound("post", nil))))
	assert.False(t, IsNotFound(NewConflict("dup", nil)))
	assert.False(t, IsNotFound(nil))
}
