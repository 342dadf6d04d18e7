package query

import "fmt"

// ErrorCode classifies a query-construction failure.
type ErrorCode string

const (
	ErrInvalidConnectivity ErrorCode = "InvalidConnectivity"
	ErrUnknownSelector     ErrorCode = "UnknownSelector"
	ErrInvalidLimits       ErrorCode = "InvalidLimits"
)

// Error is the structured, eager query-construction error spec.md §4.4
// requires: "Invalid queries ... fail eagerly with an error that
// identifies the offending subterm." Grounded on
// other_examples/2082416a_SimplyLiz-CodeMCP__internal-query-architecture.go.go's
// structured query error type, generalized to this engine's own error
// codes.
type Error struct {
	Code    ErrorCode
	Message string
	Subterm string
}

func NewError(code ErrorCode, message, subterm string) *Error {
	return &Error{Code: code, Message: message, Subterm: subterm}
}

func (e *Error) Error() string {
	return fmt.Sprintf("query: %s: %s (at %s)", e.Code, e.Message, e.Subterm)
}
