package signing

import (
	"encoding/base64"
	"net/http"
	"strings"

	"plansign/internal/signing/storage"
	dErrors "plansign/pkg/domain-errors"
)

// Captured signatures arrive as data URLs (data:image/png;base64,...), the
// form canvas and file captures produce. Format checks and decoding are
// separate steps with separate failure codes: a payload that is not a data
// URL at all is an input-format problem, a data URL whose body will not
// decode is a decode problem.

const dataURLPrefix = "data:image/"

func validatePayload(payload string) error {
	if strings.TrimSpace(payload) == "" {
		return dErrors.New(dErrors.CodeInvalidSignatureFormat, "signature payload is empty")
	}
	if !strings.HasPrefix(payload, dataURLPrefix) {
		return dErrors.New(dErrors.CodeInvalidSignatureFormat, "signature payload must be an image data URL")
	}
	if !strings.Contains(payload, ";base64,") {
		return dErrors.New(dErrors.CodeInvalidSignatureFormat, "signature payload must be base64 encoded")
	}
	return nil
}

func decodePayload(payload string) (storage.Artifact, error) {
	meta, encoded, _ := strings.Cut(payload, ";base64,")
	declared := strings.TrimPrefix(meta, "data:")

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return storage.Artifact{}, dErrors.Wrap(dErrors.CodeDecode, "signature payload is not valid base64", err)
	}
	if len(data) == 0 {
		return storage.Artifact{}, dErrors.New(dErrors.CodeDecode, "signature payload decoded to zero bytes")
	}
	if sniffed := http.DetectContentType(data); !strings.HasPrefix(sniffed, "image/") {
		return storage.Artifact{}, dErrors.Newf(dErrors.CodeDecode, "signature payload decoded to %s, expected an image", sniffed)
	}

	return storage.Artifact{
		Data:        data,
		ContentType: declared,
		FileName:    "signature" + extensionFor(declared),
	}, nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/svg+xml":
		return ".svg"
	case "image/webp":
		return ".webp"
	default:
		return ".bin"
	}
}
