package screen

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Error codes reported to RPC callers. Each kind has exactly one.
const (
	CodeValidation    = 1
	CodeBus           = 2
	CodeUnavailable   = 3
	CodeBusy          = 4
	CodeInvalidParams = -32602
	CodeInternal      = -32603
)

// Fault is the caller-facing form of an error.
type Fault struct {
	Code    int
	Message string
	Data    any
}

func Translate(err error) Fault {
	var e *Error
	if !errors.As(err, &e) {
		return Fault{Code: CodeInternal, Message: "Internal error"}
	}

	switch e.Kind {
	case KindInvalidParams:
		return Fault{Code: CodeInvalidParams, Message: "invalid params", Data: e.Detail}
	case KindValidation:
		return Fault{
			Code:    CodeValidation,
			Message: "Validation error: " + joinViolations(e.Violations) + ".",
			Data:    e.Violations,
		}
	case KindBus:
		return Fault{Code: CodeBus, Message: "bus error", Data: causeText(e)}
	case KindUnavailable:
		return Fault{Code: CodeUnavailable, Message: "display unavailable", Data: causeText(e)}
	case KindBusy:
		return Fault{Code: CodeBusy, Message: "display busy", Data: e.Detail}
	}

	return Fault{Code: CodeInternal, Message: "Internal error"}
}

func causeText(e *Error) any {
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Detail != "" {
		return e.Detail
	}
	return nil
}

func joinViolations(vs []Violation) string {
	return strings.Join(lo.Map(vs, func(v Violation, _ int) string {
		return v.String()
	}), "; ")
}
