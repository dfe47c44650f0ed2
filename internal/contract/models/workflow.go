package models

// WorkflowState is the coarse-grained lifecycle stage of a contract's signing
// process. It is a closed enumeration; transition legality lives in the
// transitions table below, never in ad hoc string comparisons.
type WorkflowState string

const (
	WorkflowDraft           WorkflowState = "draft"
	WorkflowSaved           WorkflowState = "saved"
	WorkflowSent            WorkflowState = "sent"
	WorkflowPartiallySigned WorkflowState = "partially_signed"
	WorkflowCompleted       WorkflowState = "completed"
	WorkflowCancelled       WorkflowState = "cancelled"
)

// transitions is the single source of truth for legal forward moves. The
// machine never transitions backward; completed and cancelled are terminal.
var transitions = map[WorkflowState][]WorkflowState{
	WorkflowDraft:           {WorkflowSaved, WorkflowCancelled},
	WorkflowSaved:           {WorkflowSent, WorkflowCancelled},
	WorkflowSent:            {WorkflowPartiallySigned, WorkflowCompleted, WorkflowCancelled},
	WorkflowPartiallySigned: {WorkflowPartiallySigned, WorkflowCompleted, WorkflowCancelled},
	WorkflowCompleted:       nil,
	WorkflowCancelled:       nil,
}

// Valid reports whether s is a member of the closed enumeration.
func (s WorkflowState) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// Terminal reports whether no further transitions exist from s.
func (s WorkflowState) Terminal() bool {
	return s == WorkflowCompleted || s == WorkflowCancelled
}

// CanTransition reports whether s -> to is a legal move.
func (s WorkflowState) CanTransition(to WorkflowState) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// SignatureWorkflow is the workflow facet of a contract. Contracts with
// IsElectronic false are managed manually outside this system: their state is
// not tracked and their audit trail stays empty.
type SignatureWorkflow struct {
	IsElectronic bool          `json:"isElectronic"`
	Status       WorkflowState `json:"workflowStatus"`
}
