// Package apperror defines the tagged failure type shared by the store, token,
// validation and service layers. The HTTP error mapper dispatches on Kind.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindBadRequest
	KindUnauthenticated
	KindTokenInvalid
	KindTokenExpired
	KindForbidden
	KindNotFound
	KindConflict
	KindForeignKey
	KindInvalidData
)

var kindNames = map[Kind]string{
	KindInternal:        "ServerError",
	KindValidation:      "ValidationError",
	KindBadRequest:      "BadRequestError",
	KindUnauthenticated: "AuthenticationError",
	KindTokenInvalid:    "AuthenticationError",
	KindTokenExpired:    "TokenExpiredError",
	KindForbidden:       "AuthorizationError",
	KindNotFound:        "NotFoundError",
	KindConflict:        "DuplicateError",
	KindForeignKey:      "ForeignKeyError",
	KindInvalidData:     "ValidationError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "ServerError"
}

// Status is the HTTP status a Kind maps to when no explicit status is set.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadRequest, KindForeignKey, KindInvalidData:
		return http.StatusBadRequest
	case KindUnauthenticated, KindTokenInvalid, KindTokenExpired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// FieldError is one violated constraint, addressed by dotted path.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Status  int
	Message string
	// Field names the offending column for Conflict errors.
	Field  string
	Fields []FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode returns the explicit status, or the one implied by Kind.
func (e *Error) StatusCode() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Kind.Status()
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithStatus builds an error that carries an explicit status code.
func WithStatus(status int, message string) *Error {
	return &Error{Kind: KindInternal, Status: status, Message: message}
}

func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Message: "Validation error", Fields: fields}
}

func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error       { return New(KindForbidden, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }

func Conflict(field string, err error) *Error {
	if field == "" {
		field = "field"
	}
	return &Error{
		Kind:    KindConflict,
		Message: "A record with this " + field + " already exists",
		Field:   field,
		Err:     err,
	}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the Kind of err, KindInternal for untagged errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == kind
}
