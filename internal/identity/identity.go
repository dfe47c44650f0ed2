// Package identity is the boundary to the authenticated identity provider.
// The core treats signer ids and credentials as opaque strings; the JWT
// implementation here is one provider, tests substitute fakes.
package identity

import "context"

// Identity describes an authenticated signer.
type Identity struct {
	SignerID string
	Name     string
	Email    string
}

// Verifier validates a short-lived bearer credential and resolves the signer
// behind it.
type Verifier interface {
	Verify(ctx context.Context, credential string) (Identity, error)
}
