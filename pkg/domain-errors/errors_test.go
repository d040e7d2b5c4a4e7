package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error", func(t *testing.T) {
		err := New(CodeNotFound, "identity not found")
		assert.True(t, HasCode(err, CodeNotFound))
		assert.False(t, HasCode(err, CodeInternal))
	})

	t.Run("wrapped by fmt", func(t *testing.T) {
		err := fmt.Errorf("lookup: %w", New(CodeInvalidInput, "bad id"))
		assert.True(t, HasCode(err, CodeInvalidInput))
	})

	t.Run("plain error has no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	})
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "activity provider unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "activity provider unavailable: connection refused", err.Error())
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(CodeOf(err)))
}
