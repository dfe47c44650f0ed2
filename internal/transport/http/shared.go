package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "plansign/pkg/domain-errors"
)

type errorResponse struct {
	Error      string              `json:"error"`
	Message    string              `json:"message"`
	Violations []violationResponse `json:"violations,omitempty"`
}

type violationResponse struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// WriteError centralizes domain error translation so every handler produces
// the same JSON envelope. The full violation list rides along for validation
// failures so callers get every problem at once, never just the first.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := errorResponse{Error: string(code), Message: err.Error()}

	var de *dErrors.Error
	if errors.As(err, &de) {
		resp.Message = de.Message
		for _, v := range de.Violations {
			resp.Violations = append(resp.Violations, violationResponse{Field: v.Field, Message: v.Message})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(dErrors.ToHTTPStatus(code))
	_ = json.NewEncoder(w).Encode(resp)
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
