package apierr

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind is the closed set of failure classes.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindAuth
	KindForbidden
	KindNotFound
	KindTooLarge
	KindUnsupported
	KindRateLimited
	KindNetwork
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindTooLarge:
		return "too_large"
	case KindUnsupported:
		return "unsupported"
	case KindRateLimited:
		return "rate_limited"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// FieldError is one field-level validation message, as sent.
type FieldError struct {
	Field   string
	Message string
}

// Error is a classified API failure.
type Error struct {
	Kind   Kind
	Status int

	// Fields keeps the server's key order.
	Fields   []FieldError
	NonField []string

	// Detail, ErrorText and MessageText mirror the "detail", "error" and
	// "message" keys of the body.
	Detail      string
	ErrorText   string
	MessageText string

	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.Kind == KindNetwork && e.Err != nil {
		return fmt.Sprintf("api %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("api %s: status %d", e.Kind, e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

// IsSessionFatal reports whether the error ends the session (401/403).
func (e *Error) IsSessionFatal() bool {
	return e.Kind == KindAuth || e.Kind == KindForbidden
}

// KindFor maps an HTTP status to a Kind.
func KindFor(status int) Kind {
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return KindValidation
	case status == http.StatusUnauthorized:
		return KindAuth
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusRequestEntityTooLarge:
		return KindTooLarge
	case status == http.StatusUnsupportedMediaType:
		return KindUnsupported
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// FromResponse classifies a non-2xx response.
func FromResponse(status int, body []byte) *Error {
	e := &Error{Kind: KindFor(status), Status: status, Body: body}
	parseBody(e, body)
	return e
}

// Network wraps a transport failure (no response at all).
func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Err: err}
}

// As extracts *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, KindUnknown when it is not an *Error.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindUnknown
}

func parseBody(e *Error, body []byte) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return
	}

	keys, values, err := orderedObject(body)
	if err != nil {
		return
	}

	for i, key := range keys {
		raw := values[i]
		switch key {
		case "detail":
			e.Detail = stringValue(raw)
		case "error":
			e.ErrorText = stringValue(raw)
		case "message":
			e.MessageText = stringValue(raw)
		case "non_field_errors":
			e.NonField = append(e.NonField, stringList(raw)...)
		default:
			for _, msg := range stringList(raw) {
				e.Fields = append(e.Fields, FieldError{Field: key, Message: msg})
			}
		}
	}
}

// orderedObject decodes a JSON object keeping its key order.
func orderedObject(body []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}

	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, errors.New("non-string key")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, raw)
	}
	return keys, values, nil
}

func stringValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return ""
}

// stringList accepts ["a", "b"] only; other shapes are not field errors.
func stringList(raw json.RawMessage) []string {
	var list []any
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
