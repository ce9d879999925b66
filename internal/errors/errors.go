// internal/errors/errors.go
package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// Bind-time errors. Fatal to the binding, never retried.
	SignatureError         ErrorType = "SignatureError"
	VarargsShapeError      ErrorType = "VarargsShapeError"
	ConstructorReturnError ErrorType = "ConstructorReturnError"
	OverloadAmbiguityError ErrorType = "OverloadAmbiguityError"

	// Call-time errors. Propagate synchronously as guest-visible exceptions.
	IncompatibleReceiverError ErrorType = "IncompatibleReceiverError"
	WrappedHostError          ErrorType = "WrappedHostError"

	// CodeGenerationFailure is caught inside the thunk generator and turned
	// into a fallback to the reflective path; it never reaches a caller.
	CodeGenerationFailure ErrorType = "CodeGenerationFailure"
)

// BridgeError is an error raised by the host-function bridge.
type BridgeError struct {
	Type     ErrorType
	Message  string
	Function string // exposed name of the binding involved, if any
	Cause    error
}

// Error implements the error interface
func (e *BridgeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Function != "" {
		msg += fmt.Sprintf(" (function %q)", e.Function)
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(": %v", e.Cause)
	}
	return msg
}

// Unwrap exposes the original cause for errors.Is/As chains.
func (e *BridgeError) Unwrap() error { return e.Cause }

// New creates a bridge error of the given type.
func New(t ErrorType, format string, args ...interface{}) *BridgeError {
	return &BridgeError{Type: t, Message: fmt.Sprintf(format, args...)}
}

// WithFunction tags the error with the exposed name of the binding.
func (e *BridgeError) WithFunction(name string) *BridgeError {
	e.Function = name
	return e
}

// WithCause attaches the original host failure, wrapped so the cause keeps
// its own message and stack.
func (e *BridgeError) WithCause(cause error) *BridgeError {
	e.Cause = pkgerrors.Wrap(cause, string(e.Type))
	return e
}

// WrapHost wraps an uncaught host failure as a guest-visible error.
func WrapHost(name string, cause error) *BridgeError {
	return New(WrappedHostError, "host routine failed").WithFunction(name).WithCause(cause)
}

// IsType reports whether err is a BridgeError of the given type.
func IsType(err error, t ErrorType) bool {
	be, ok := err.(*BridgeError)
	return ok && be.Type == t
}
