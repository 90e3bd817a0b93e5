package validation

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator wraps the go-playground validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{
		validate: validator.New(),
	}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

// FirstMissingField returns the lowercased name of the first field that
// failed a `required` check, or "" when the error is not a validation error.
// Fields are reported in struct declaration order, so the resulting
// "<field> is required" message matches the order clients have always seen.
func FirstMissingField(err error) string {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ""
	}

	for _, e := range validationErrs {
		if e.Tag() == "required" {
			return strings.ToLower(e.Field())
		}
	}

	return ""
}

// SanitizeString removes potentially dangerous characters
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")
	// Trim whitespace
	s = strings.TrimSpace(s)
	return s
}
