package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"plansign/internal/platform/middleware"
	"plansign/internal/signing"
	dErrors "plansign/pkg/domain-errors"
)

type signRequest struct {
	// SignatureData is the captured signature image as a data URL.
	SignatureData string `json:"signatureData"`
}

type signResponse struct {
	Contract any `json:"contract"`
	Record   any `json:"record"`
}

// handleSign is the upload pipeline entry point. The credential captured by
// the auth middleware rides through to the storage collaborator.
func (h *Handler) handleSign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req signRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.pipeline.Sign(ctx, signing.CaptureRequest{
		ContractID: chi.URLParam(r, "contractID"),
		FieldID:    chi.URLParam(r, "fieldID"),
		Payload:    req.SignatureData,
		Credential: middleware.GetCredential(ctx),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		h.logFailure(r, "sign field", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, signResponse{Contract: result.Contract, Record: result.Record})
}

// handleDisplay prepares the render record for a signed field: the durable
// URL when present, the inline fallback otherwise, 204 when the field has no
// audit record at all.
func (h *Handler) handleDisplay(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Get(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	fieldID := chi.URLParam(r, "fieldID")
	if contract.FieldByID(fieldID) == nil {
		WriteError(w, dErrors.New(dErrors.CodeNotFound, "field not found"))
		return
	}
	record, ok := contract.Audit(fieldID)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	display := signing.Display(record)
	if display == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	WriteJSON(w, http.StatusOK, display)
}
