package service

import (
	"plansign/internal/contract/models"
	dErrors "plansign/pkg/domain-errors"
	"plansign/pkg/email"
)

// validateFieldsForSave checks the draft -> saved preconditions: at least one
// field, every field assigned a syntactically valid email, every role known.
// Violations accumulate so the caller can surface the complete list.
func validateFieldsForSave(c *models.Contract) error {
	if len(c.Fields) == 0 {
		return dErrors.New(dErrors.CodeValidation, "contract has no fields to save")
	}
	var violations dErrors.ViolationList
	for _, f := range c.Fields {
		if f.AssignedEmail == "" {
			violations.Add(f.ID, "assigned email is empty")
		} else if !email.Valid(f.AssignedEmail) {
			violations.Addf(f.ID, "assigned email %q is not a valid address", f.AssignedEmail)
		}
		if !f.SignerRole.Valid() {
			violations.Addf(f.ID, "unknown signer role %q", f.SignerRole)
		}
	}
	return violations.Err("contract fields are not ready to save")
}
