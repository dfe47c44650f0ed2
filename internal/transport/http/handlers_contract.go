package httptransport

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"plansign/internal/audit"
	"plansign/internal/contract/models"
	contractsvc "plansign/internal/contract/service"
	"plansign/internal/platform/middleware"
	"plansign/internal/signing"
	dErrors "plansign/pkg/domain-errors"
)

// Handler is the thin HTTP layer over the four component APIs: field CRUD,
// workflow transitions, the upload pipeline entry point, and status queries.
type Handler struct {
	contracts *contractsvc.Service
	pipeline  *signing.Pipeline
	auditor   *audit.Publisher
	logger    *slog.Logger
}

func NewHandler(contracts *contractsvc.Service, pipeline *signing.Pipeline, auditor *audit.Publisher, logger *slog.Logger) *Handler {
	return &Handler{contracts: contracts, pipeline: pipeline, auditor: auditor, logger: logger}
}

type createContractRequest struct {
	EventID      string `json:"eventId"`
	FileName     string `json:"fileName"`
	ContractURL  string `json:"contractUrl"`
	IsElectronic bool   `json:"isElectronic"`
}

func (h *Handler) handleCreateContract(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	contract, err := h.contracts.Create(ctx, contractsvc.CreateParams{
		EventID:      req.EventID,
		FileName:     req.FileName,
		ContractURL:  req.ContractURL,
		IsElectronic: req.IsElectronic,
	}, h.actor(r))
	if err != nil {
		h.logFailure(r, "create contract", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, contract)
}

func (h *Handler) handleGetContract(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Get(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, contract)
}

func (h *Handler) handleDeleteContract(w http.ResponseWriter, r *http.Request) {
	if err := h.contracts.Delete(r.Context(), chi.URLParam(r, "contractID"), h.actor(r)); err != nil {
		h.logFailure(r, "delete contract", err)
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListByEvent(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.contracts.ListByEvent(r.Context(), chi.URLParam(r, "eventID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	if contracts == nil {
		contracts = []*models.Contract{}
	}
	WriteJSON(w, http.StatusOK, contracts)
}

type addFieldRequest struct {
	Type       models.FieldType  `json:"type"`
	SignerRole models.SignerRole `json:"signerRole"`
}

func (h *Handler) handleAddField(w http.ResponseWriter, r *http.Request) {
	var req addFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	field, err := h.contracts.AddField(r.Context(), chi.URLParam(r, "contractID"), req.Type, req.SignerRole, h.actor(r))
	if err != nil {
		h.logFailure(r, "add field", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, field)
}

func (h *Handler) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	var patch models.FieldPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	field, err := h.contracts.UpdateField(r.Context(), chi.URLParam(r, "contractID"), chi.URLParam(r, "fieldID"), patch, h.actor(r))
	if err != nil {
		h.logFailure(r, "update field", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, field)
}

func (h *Handler) handleRemoveField(w http.ResponseWriter, r *http.Request) {
	err := h.contracts.RemoveField(r.Context(), chi.URLParam(r, "contractID"), chi.URLParam(r, "fieldID"), h.actor(r))
	if err != nil {
		h.logFailure(r, "remove field", err)
		WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Save(r.Context(), chi.URLParam(r, "contractID"), h.actor(r))
	if err != nil {
		h.logFailure(r, "save contract", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, contract)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Send(r.Context(), chi.URLParam(r, "contractID"), h.actor(r))
	if err != nil {
		h.logFailure(r, "send contract", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, contract)
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Cancel(r.Context(), chi.URLParam(r, "contractID"), h.actor(r))
	if err != nil {
		h.logFailure(r, "cancel contract", err)
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, contract)
}

type statusResponse struct {
	Badge        models.StatusBadge `json:"badge"`
	SignedByRole map[string]bool    `json:"signedByRole"`
	FieldsSigned map[string]bool    `json:"fieldsSigned"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	contract, err := h.contracts.Get(r.Context(), chi.URLParam(r, "contractID"))
	if err != nil {
		WriteError(w, err)
		return
	}
	resp := statusResponse{
		Badge: models.StatusDisplay(contract.Workflow.Status),
		SignedByRole: map[string]bool{
			string(models.RoleVendor):  contract.SignedByRole(models.RoleVendor),
			string(models.RoleClient):  contract.SignedByRole(models.RoleClient),
			string(models.RolePlanner): contract.SignedByRole(models.RolePlanner),
		},
		FieldsSigned: make(map[string]bool, len(contract.Fields)),
	}
	for _, f := range contract.Fields {
		resp.FieldsSigned[f.ID] = contract.IsFieldSigned(f.ID)
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleAuditTrail(w http.ResponseWriter, r *http.Request) {
	contractID := chi.URLParam(r, "contractID")
	if _, err := h.contracts.Get(r.Context(), contractID); err != nil {
		WriteError(w, err)
		return
	}
	events, err := h.auditor.List(r.Context(), contractID)
	if err != nil {
		WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "failed to list audit events", err))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	WriteJSON(w, http.StatusOK, events)
}

func (h *Handler) actor(r *http.Request) string {
	if id, ok := middleware.GetIdentity(r.Context()); ok {
		return id.SignerID
	}
	return ""
}

func (h *Handler) logFailure(r *http.Request, op string, err error) {
	h.logger.WarnContext(r.Context(), op+" failed",
		"request_id", middleware.GetRequestID(r.Context()),
		"error", err.Error(),
	)
}
