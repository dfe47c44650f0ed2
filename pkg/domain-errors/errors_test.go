package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorChain(t *testing.T) {
	t.Run("Is matches the code anywhere in the chain", func(t *testing.T) {
		inner := New(CodeNotFound, "contract not found")
		outer := fmt.Errorf("loading aggregate: %w", inner)

		assert.True(t, Is(outer, CodeNotFound))
		assert.False(t, Is(outer, CodeValidation))
		assert.False(t, Is(errors.New("plain"), CodeNotFound))
		assert.False(t, Is(nil, CodeNotFound))
	})

	t.Run("Wrap preserves the cause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := Wrap(CodeInternal, "failed to persist", cause)

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "failed to persist", err.Error())
	})

	t.Run("CodeOf defaults untagged errors to internal", func(t *testing.T) {
		assert.Equal(t, CodeNotFound, CodeOf(New(CodeNotFound, "gone")))
		assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
	})
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidation, http.StatusBadRequest},
		{CodeInvalidSignatureFormat, http.StatusBadRequest},
		{CodeDecode, http.StatusBadRequest},
		{CodeInvalidState, http.StatusConflict},
		{CodeNotFound, http.StatusNotFound},
		{CodeAuthRequired, http.StatusUnauthorized},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeUploadFailed, http.StatusBadGateway},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unknown"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.code))
		})
	}
}

func TestViolationList(t *testing.T) {
	t.Run("empty list yields no error", func(t *testing.T) {
		var l ViolationList
		assert.True(t, l.Empty())
		assert.NoError(t, l.Err("should not appear"))
	})

	t.Run("accumulates every violation into one error", func(t *testing.T) {
		var l ViolationList
		l.Add("field-1", "assigned email is empty")
		l.Addf("field-2", "unknown signer role %q", "witness")

		err := l.Err("fields are not ready")
		require.Error(t, err)
		assert.True(t, Is(err, CodeValidation))

		var dErr *Error
		require.ErrorAs(t, err, &dErr)
		require.Len(t, dErr.Violations, 2)
		assert.Equal(t, "field-1", dErr.Violations[0].Field)
		assert.Contains(t, err.Error(), "fields are not ready")
		assert.Contains(t, err.Error(), "field-1: assigned email is empty")
		assert.Contains(t, err.Error(), `unknown signer role "witness"`)
	})
}
