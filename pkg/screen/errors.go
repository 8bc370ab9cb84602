package screen

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrorKind classifies every failure the dispatcher can report.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindInvalidParams
	KindValidation
	KindBus
	KindUnavailable
	KindBusy
)

var kindNames = map[ErrorKind]string{
	KindInternal:      "internal",
	KindInvalidParams: "invalid-params",
	KindValidation:    "validation",
	KindBus:           "bus",
	KindUnavailable:   "unavailable",
	KindBusy:          "busy",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Violation is one field constraint a write request failed.
type Violation struct {
	Field   string `json:"field"`
	Allowed string `json:"allowed"`
	Value   any    `json:"value"`
}

func (v Violation) String() string {
	switch v.Field {
	case FieldFont:
		return fmt.Sprintf("%v is not an accepted font size (%s)", v.Value, v.Allowed)
	case FieldText:
		return fmt.Sprintf("%s is %v characters long, at most %s allowed", v.Field, v.Value, strings.TrimPrefix(v.Allowed, "0-"))
	}
	return fmt.Sprintf("%s out of range %s: %v", v.Field, v.Allowed, v.Value)
}

type Error struct {
	Kind       ErrorKind
	Violations []Violation
	Detail     string
	Err        error
}

func (e *Error) Error() string {
	switch {
	case len(e.Violations) > 0:
		return fmt.Sprintf("%s: %s", e.Kind, joinViolations(e.Violations))
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("%s: %s", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Cause() error {
	return e.Err
}

var (
	ErrUnavailable = &Error{Kind: KindUnavailable, Detail: "display disabled after bus fault"}
	ErrBusy        = &Error{Kind: KindBusy, Detail: "too many pending commands"}
)

func InvalidParams(detail string) error {
	return &Error{Kind: KindInvalidParams, Detail: detail}
}

func ValidationFailed(vs []Violation) error {
	return &Error{Kind: KindValidation, Violations: vs}
}

func BusError(err error) error {
	return &Error{Kind: KindBus, Err: err}
}

func Internal(err error) error {
	return &Error{Kind: KindInternal, Err: err}
}

// KindOf reports the kind of err. Errors that did not come from this
// package are internal.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// ViolationsOf returns the field violations carried by err, if any.
func ViolationsOf(err error) []Violation {
	var e *Error
	if errors.As(err, &e) {
		return e.Violations
	}
	return nil
}
