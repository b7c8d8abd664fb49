package template

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTemplateID is returned when registering a template without an ID.
	ErrMissingTemplateID = errors.New("template ID is required")

	// ErrInvalidChannel is returned when registering a template for an unknown channel.
	ErrInvalidChannel = errors.New("template channel is not a known delivery channel")
)

// TemplateNotFoundError indicates a render or lookup against an unknown template ID.
type TemplateNotFoundError struct {
	TemplateID string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("template %q not found", e.TemplateID)
}

func NewTemplateNotFoundError(id string) *TemplateNotFoundError {
	return &TemplateNotFoundError{TemplateID: id}
}

func IsTemplateNotFoundError(err error) bool {
	var e *TemplateNotFoundError
	return errors.As(err, &e)
}

// MissingVariableError indicates input data lacking a declared required variable.
// Rejecting the send beats delivering literal {placeholder} text to a recipient.
type MissingVariableError struct {
	TemplateID string
	Name       string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template %q: missing required variable %q", e.TemplateID, e.Name)
}

func NewMissingVariableError(templateID, name string) *MissingVariableError {
	return &MissingVariableError{TemplateID: templateID, Name: name}
}

func IsMissingVariableError(err error) bool {
	var e *MissingVariableError
	return errors.As(err, &e)
}
