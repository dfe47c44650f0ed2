package models

// FieldType enumerates what a placed field captures.
type FieldType string

const (
	FieldSignature FieldType = "signature"
	FieldDate      FieldType = "date"
	FieldText      FieldType = "text"
)

func (t FieldType) Valid() bool {
	switch t {
	case FieldSignature, FieldDate, FieldText:
		return true
	}
	return false
}

// SignerRole identifies which party is responsible for completing a field.
type SignerRole string

const (
	RoleVendor  SignerRole = "vendor"
	RoleClient  SignerRole = "client"
	RolePlanner SignerRole = "planner"
)

func (r SignerRole) Valid() bool {
	switch r {
	case RoleVendor, RoleClient, RolePlanner:
		return true
	}
	return false
}

// SignatureField is a placeable signature/date/text field on a contract
// document. Placement is a 2-D position on a rendered page; no rotation.
// Display order is insertion order within the contract.
type SignatureField struct {
	ID            string     `json:"id"`
	Type          FieldType  `json:"type"`
	Page          int        `json:"page"`
	X             float64    `json:"x"`
	Y             float64    `json:"y"`
	SignerRole    SignerRole `json:"signerRole"`
	Required      bool       `json:"required"`
	AssignedEmail string     `json:"assignedEmail"`
}

// FieldPatch carries a partial field update; nil pointers leave the
// corresponding field untouched.
type FieldPatch struct {
	Type          *FieldType  `json:"type,omitempty"`
	Page          *int        `json:"page,omitempty"`
	X             *float64    `json:"x,omitempty"`
	Y             *float64    `json:"y,omitempty"`
	SignerRole    *SignerRole `json:"signerRole,omitempty"`
	Required      *bool       `json:"required,omitempty"`
	AssignedEmail *string     `json:"assignedEmail,omitempty"`
}
