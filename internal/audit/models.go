package audit

import "time"

// Action enumerates the lifecycle events recorded on the trail.
const (
	ActionContractCreated   = "contract_created"
	ActionContractSaved     = "contract_saved"
	ActionContractSent      = "contract_sent"
	ActionContractCancelled = "contract_cancelled"
	ActionContractDeleted   = "contract_deleted"
	ActionFieldAdded        = "field_added"
	ActionFieldUpdated      = "field_updated"
	ActionFieldRemoved      = "field_removed"
	ActionSignatureCaptured = "signature_captured"
	ActionSignatureReplaced = "signature_replaced"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"timestamp"`
	ContractID string    `json:"contractId"`
	FieldID    string    `json:"fieldId,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	Action     string    `json:"action"`
	Detail     string    `json:"detail,omitempty"`
}
