package models

import "time"

// StorageMethod records where the signature artifact lives.
type StorageMethod string

const (
	StorageRemote StorageMethod = "remote"
	StorageInline StorageMethod = "inline"
)

// SignatureAudit is the durable proof that a specific field was signed, by
// whom, and when. At least one of SignatureURL/SignatureData must be present;
// the URL is preferred for display and the inline data is a fallback only.
// A record is immutable once created except for full replacement: re-signing
// overwrites, never merges.
type SignatureAudit struct {
	FieldID       string        `json:"fieldId"`
	SignerRole    SignerRole    `json:"signerRole"`
	SignerID      string        `json:"signerId"`
	SignatureURL  string        `json:"signatureUrl,omitempty"`
	SignatureData string        `json:"signatureData,omitempty"`
	SignerName    string        `json:"signerName"`
	SignerEmail   string        `json:"signerEmail"`
	SignedAt      time.Time     `json:"signedAt"`
	StorageMethod StorageMethod `json:"storageMethod"`
	Device        string        `json:"device,omitempty"`
}

// HasArtifact reports whether the record carries any signature artifact.
func (a SignatureAudit) HasArtifact() bool {
	return a.SignatureURL != "" || a.SignatureData != ""
}
