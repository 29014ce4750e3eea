package validation

import (
	"fmt"

	"github.com/sarmadcodes/fbarea-admin-panel/internal/domain"
)

// FieldError is one rejected form field. Field is the form name the template
// looks it up by; Rule is the failing validate tag. Submitted values are not
// kept so passwords never reach a log line.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationErrors are the field errors of one submitted form, in field order.
type ValidationErrors []*FieldError

func (e ValidationErrors) Error() string {
	switch len(e) {
	case 0:
		return ""
	case 1:
		return e[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", e[0].Error(), len(e)-1)
}

// Unwrap lets errors.Is match domain.ErrInvalidInput.
func (e ValidationErrors) Unwrap() error {
	return domain.ErrInvalidInput
}

// Add records a failed rule for field.
func (e *ValidationErrors) Add(field, rule, message string) {
	*e = append(*e, &FieldError{Field: field, Rule: rule, Message: message})
}

func (e ValidationErrors) HasErrors() bool {
	return len(e) > 0
}

// For returns the message for field, or "" when the field is valid. Only the
// first failing rule of a field is reported.
func (e ValidationErrors) For(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err returns e as an error, or nil when there are no errors.
func (e ValidationErrors) Err() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}
