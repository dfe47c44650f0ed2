package signing

import (
	"time"

	"plansign/internal/contract/models"
	dErrors "plansign/pkg/domain-errors"
)

// DisplayRecord is what views render for a signed field.
type DisplayRecord struct {
	// Value is either the durable URL or the inline data fallback.
	Value      string    `json:"value"`
	Source     string    `json:"source"` // "url" or "data"
	SignerName string    `json:"signerName"`
	SignedAt   time.Time `json:"signedAt"`
}

// Display prepares a render record from a stored audit record, preferring the
// durable URL and falling back to inline data. Returns nil when neither is
// present; the caller renders a placeholder, a value is never fabricated.
func Display(rec models.SignatureAudit) *DisplayRecord {
	switch {
	case rec.SignatureURL != "":
		return &DisplayRecord{Value: rec.SignatureURL, Source: "url", SignerName: rec.SignerName, SignedAt: rec.SignedAt}
	case rec.SignatureData != "":
		return &DisplayRecord{Value: rec.SignatureData, Source: "data", SignerName: rec.SignerName, SignedAt: rec.SignedAt}
	default:
		return nil
	}
}

// ValidateAudit checks a candidate audit record before it is persisted. Every
// missing item is reported, not just the first.
func ValidateAudit(rec models.SignatureAudit) error {
	var violations dErrors.ViolationList
	if !rec.HasArtifact() {
		violations.Add("signature", "at least one of signatureUrl or signatureData is required")
	}
	if rec.SignerName == "" {
		violations.Add("signerName", "signer name is required")
	}
	if rec.SignerEmail == "" {
		violations.Add("signerEmail", "signer email is required")
	}
	if rec.SignedAt.IsZero() {
		violations.Add("signedAt", "signing timestamp is required")
	}
	return violations.Err("audit record is incomplete")
}
