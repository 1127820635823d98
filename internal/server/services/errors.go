package services

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/stockwatch/internal/common"
)

// Form field names used as ValidationError keys.
const (
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirm_password"
)

const (
	MsgRequired         = "This field is required."
	MsgInvalidEmail     = "Enter a valid email address."
	MsgDuplicateEmail   = "A user with this email already exists."
	MsgPasswordMismatch = "Passwords do not match."
)

// ValidationError collects per-field messages. It matches
// common.ErrorValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) empty() bool { return len(e.Fields) == 0 }

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + e.Fields[k]
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }
