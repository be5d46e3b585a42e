package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/secdesk/internal/common"
)

// NonFieldErrors is the key of errors that belong to no single field.
const NonFieldErrors = "non_field_errors"

// ValidationError lists the problems of a request body per field.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Err returns e when it holds at least one problem.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], ", "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return common.ErrorValidation }

func fieldError(field, msg string) error {
	e := &ValidationError{}
	e.Add(field, msg)
	return e
}

// Failure is an error whose Message is shown to the operator as is. Kind
// selects the response status.
type Failure struct {
	Kind    error
	Message string
}

func (f *Failure) Error() string { return f.Message }
func (f *Failure) Unwrap() error { return f.Kind }

func fail(kind error, msg string) error {
	return &Failure{Kind: kind, Message: msg}
}
