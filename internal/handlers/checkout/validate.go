package checkout

import (
	"net/mail"
	"strings"
)

// Form is the buyer contact input collected at checkout.
type Form struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
}

// ValidationResult is the explicit outcome of validating a Form. A result
// with no Errors is valid and carries the normalized fields; otherwise
// Errors maps field name to message and no order may be created.
type ValidationResult struct {
	Form   Form              `json:"form"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (v ValidationResult) Valid() bool {
	return len(v.Errors) == 0
}

func Validate(f Form) ValidationResult {
	res := ValidationResult{
		Form: Form{
			FullName: strings.TrimSpace(f.FullName),
			Email:    strings.TrimSpace(f.Email),
		},
		Errors: map[string]string{},
	}

	if res.Form.FullName == "" {
		res.Errors["full_name"] = "full name is required"
	}

	if res.Form.Email == "" {
		res.Errors["email"] = "email is required"
	} else if addr, err := mail.ParseAddress(res.Form.Email); err != nil || addr.Address != res.Form.Email {
		res.Errors["email"] = "email is not valid"
	}

	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res
}
