package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"plansign/internal/identity"
)

type contextKeyIdentity struct{}
type contextKeyCredential struct{}

// GetIdentity retrieves the authenticated signer from the context.
func GetIdentity(ctx context.Context) (identity.Identity, bool) {
	id, ok := ctx.Value(contextKeyIdentity{}).(identity.Identity)
	return id, ok
}

// GetCredential retrieves the raw bearer credential. The signing pipeline
// forwards it to the storage collaborator for the authenticated upload.
func GetCredential(ctx context.Context) string {
	cred, ok := ctx.Value(contextKeyCredential{}).(string)
	if !ok {
		return ""
	}
	return cred
}

// RequireAuth validates the bearer credential and stashes the signer identity
// plus the raw credential in the request context.
func RequireAuth(verifier identity.Verifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			id, err := verifier.Verify(ctx, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", GetRequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, contextKeyIdentity{}, id)
			ctx = context.WithValue(ctx, contextKeyCredential{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
