package usecase

import (
	"errors"
	"strings"
)

// ErrLeadNotFound is returned when a lead does not exist or belongs to another user.
var ErrLeadNotFound = errors.New("lead not found")

// ValidationError reports client input that cannot be stored.
type ValidationError struct {
	Message string
	// Fields names the offending JSON fields.
	Fields []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func missingFields(fields []string) *ValidationError {
	return &ValidationError{
		Message: "Please provide all required fields: " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Message: message, Fields: []string{field}}
}
