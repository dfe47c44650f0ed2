package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plansign/internal/identity"
	"plansign/internal/platform/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID(t *testing.T) {
	t.Run("assigns an id and echoes it", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rr.Header().Get("X-Request-ID"))
	})

	t.Run("honors a caller-provided id", func(t *testing.T) {
		var seen string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = GetRequestID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "upstream-id")
		handler.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, "upstream-id", seen)
	})

	t.Run("empty without the middleware", func(t *testing.T) {
		assert.Empty(t, GetRequestID(context.Background()))
	})
}

func TestRecovery(t *testing.T) {
	handler := Recovery(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"error":"internal"}`, rr.Body.String())
}

func TestTimeout(t *testing.T) {
	var deadline bool
	handler := Timeout(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, deadline = r.Context().Deadline()
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, deadline)
}

func TestLatency(t *testing.T) {
	t.Run("labels by route pattern, not raw path", func(t *testing.T) {
		m := metrics.New()
		r := chi.NewRouter()
		r.Use(Latency(m))
		r.Get("/contracts/{contractID}", func(w http.ResponseWriter, r *http.Request) {})

		for _, id := range []string{uuid.NewString(), uuid.NewString()} {
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/contracts/"+id, nil))
		}

		// Distinct contract ids collapse into a single series under the pattern.
		assert.Equal(t, 1, promtestutil.CollectAndCount(m.RequestDuration))
	})

	t.Run("falls back to the raw path outside a chi router", func(t *testing.T) {
		m := metrics.New()
		handler := Latency(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, 1, promtestutil.CollectAndCount(m.RequestDuration))
	})
}

type verifierFunc func(ctx context.Context, credential string) (identity.Identity, error)

func (f verifierFunc) Verify(ctx context.Context, credential string) (identity.Identity, error) {
	return f(ctx, credential)
}

func TestRequireAuth(t *testing.T) {
	signer := identity.Identity{SignerID: "signer-1", Name: "Jane Vendor", Email: "jane@vendor.example"}
	verifier := verifierFunc(func(_ context.Context, credential string) (identity.Identity, error) {
		if credential != "good-token" {
			return identity.Identity{}, errors.New("invalid credential")
		}
		return signer, nil
	})

	newHandler := func(gotIdentity *identity.Identity, gotCredential *string) http.Handler {
		return RequireAuth(verifier, discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, ok := GetIdentity(r.Context()); ok {
				*gotIdentity = id
			}
			*gotCredential = GetCredential(r.Context())
		}))
	}

	t.Run("stashes identity and credential on success", func(t *testing.T) {
		var gotIdentity identity.Identity
		var gotCredential string

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rr := httptest.NewRecorder()
		newHandler(&gotIdentity, &gotCredential).ServeHTTP(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, signer, gotIdentity)
		assert.Equal(t, "good-token", gotCredential)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		var gotIdentity identity.Identity
		var gotCredential string

		rr := httptest.NewRecorder()
		newHandler(&gotIdentity, &gotCredential).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, gotCredential)
	})

	t.Run("rejects a bad scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rr := httptest.NewRecorder()

		var gotIdentity identity.Identity
		var gotCredential string
		newHandler(&gotIdentity, &gotCredential).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("rejects a failed verification", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer expired-token")
		rr := httptest.NewRecorder()

		var gotIdentity identity.Identity
		var gotCredential string
		newHandler(&gotIdentity, &gotCredential).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
