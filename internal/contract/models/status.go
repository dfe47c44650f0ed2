package models

// Status derivation: total, pure functions of (fields, auditTrail,
// workflowStatus) so views can be tested without rendering concerns.

// Severity classifies a status badge for presentation.
type Severity string

const (
	SeverityNeutral Severity = "neutral"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
)

// StatusBadge is the presentation tuple for a workflow state.
type StatusBadge struct {
	Label    string   `json:"label"`
	Severity Severity `json:"severity"`
}

// StatusDisplay maps a workflow state to its badge. Pure function of the
// state, with no additional inputs.
func StatusDisplay(s WorkflowState) StatusBadge {
	switch s {
	case WorkflowDraft:
		return StatusBadge{Label: "Draft", Severity: SeverityNeutral}
	case WorkflowSaved:
		return StatusBadge{Label: "Ready to Send", Severity: SeverityInfo}
	case WorkflowSent:
		return StatusBadge{Label: "Awaiting Signatures", Severity: SeverityWarning}
	case WorkflowPartiallySigned:
		return StatusBadge{Label: "Partially Signed", Severity: SeverityWarning}
	case WorkflowCompleted:
		return StatusBadge{Label: "Completed", Severity: SeveritySuccess}
	case WorkflowCancelled:
		return StatusBadge{Label: "Cancelled", Severity: SeverityDanger}
	}
	return StatusBadge{Label: string(s), Severity: SeverityNeutral}
}

// IsFieldSigned reports whether an audit record exists for the field.
func (c *Contract) IsFieldSigned(fieldID string) bool {
	_, ok := c.AuditTrail[fieldID]
	return ok
}

// SignedByRole reports whether every field assigned to role has an audit
// record. Vacuously true when the contract has no fields for that role.
func (c *Contract) SignedByRole(role SignerRole) bool {
	for _, f := range c.Fields {
		if f.SignerRole != role {
			continue
		}
		if !c.IsFieldSigned(f.ID) {
			return false
		}
	}
	return true
}

// RequiredUnsigned counts required fields that still lack an audit record.
func (c *Contract) RequiredUnsigned() int {
	n := 0
	for _, f := range c.Fields {
		if f.Required && !c.IsFieldSigned(f.ID) {
			n++
		}
	}
	return n
}

// NextStateForAudit derives the state the workflow lands in after an audit
// record is added: completed when no required field remains unsigned,
// otherwise partially_signed. Callers gate on the contract being in a
// signable state first.
func (c *Contract) NextStateForAudit() WorkflowState {
	if c.RequiredUnsigned() == 0 {
		return WorkflowCompleted
	}
	return WorkflowPartiallySigned
}
