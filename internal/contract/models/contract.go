package models

import "time"

// Contract is the aggregate root for the signature workflow, owned by an
// event. Fields keep insertion order; the audit trail holds at most one record
// per field id.
type Contract struct {
	ID          string                    `json:"id"`
	EventID     string                    `json:"eventId"`
	FileName    string                    `json:"fileName"`
	ContractURL string                    `json:"contractUrl"`
	LastEdited  time.Time                 `json:"lastEdited"`
	Fields      []SignatureField          `json:"fields"`
	Workflow    SignatureWorkflow         `json:"signatureWorkflow"`
	AuditTrail  map[string]SignatureAudit `json:"auditTrail"`
}

// FieldByID returns a pointer into Fields, or nil when absent.
func (c *Contract) FieldByID(id string) *SignatureField {
	for i := range c.Fields {
		if c.Fields[i].ID == id {
			return &c.Fields[i]
		}
	}
	return nil
}

// Audit returns the audit record for a field, if any.
func (c *Contract) Audit(fieldID string) (SignatureAudit, bool) {
	rec, ok := c.AuditTrail[fieldID]
	return rec, ok
}

// Clone deep-copies the aggregate so stores can hand out values without
// sharing the field slice or audit map with callers.
func (c *Contract) Clone() *Contract {
	out := *c
	out.Fields = make([]SignatureField, len(c.Fields))
	copy(out.Fields, c.Fields)
	out.AuditTrail = make(map[string]SignatureAudit, len(c.AuditTrail))
	for k, v := range c.AuditTrail {
		out.AuditTrail[k] = v
	}
	return &out
}
