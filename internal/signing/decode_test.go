package signing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "plansign/pkg/domain-errors"
)

// A 1x1 transparent PNG is overkill; the PNG magic bytes alone are enough for
// content sniffing.
const pngPayload = "data:image/png;base64,iVBORw0KGgo="

func TestValidatePayload(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid png data url", pngPayload, false},
		{"valid jpeg data url", "data:image/jpeg;base64,aGk=", false},
		{"empty payload", "", true},
		{"whitespace payload", "   ", true},
		{"raw text", "not-an-image", true},
		{"wrong scheme", "https://example.com/sig.png", true},
		{"non-image data url", "data:text/plain;base64,aGk=", true},
		{"missing base64 marker", "data:image/png,rawbytes", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePayload(tt.payload)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.Is(err, dErrors.CodeInvalidSignatureFormat))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	t.Run("decodes a png data url", func(t *testing.T) {
		artifact, err := decodePayload(pngPayload)
		require.NoError(t, err)
		assert.Equal(t, "image/png", artifact.ContentType)
		assert.Equal(t, "signature.png", artifact.FileName)
		assert.NotEmpty(t, artifact.Data)
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		_, err := decodePayload("data:image/png;base64,!!!not-base64!!!")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeDecode))
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		_, err := decodePayload("data:image/png;base64,")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeDecode))
	})

	t.Run("rejects bytes that are not an image", func(t *testing.T) {
		// "hello world"
		_, err := decodePayload("data:image/png;base64,aGVsbG8gd29ybGQ=")
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeDecode))
	})
}

func TestExtensionFor(t *testing.T) {
	assert.Equal(t, ".png", extensionFor("image/png"))
	assert.Equal(t, ".jpg", extensionFor("image/jpeg"))
	assert.Equal(t, ".svg", extensionFor("image/svg+xml"))
	assert.Equal(t, ".webp", extensionFor("image/webp"))
	assert.Equal(t, ".bin", extensionFor("image/unknown"))
}
