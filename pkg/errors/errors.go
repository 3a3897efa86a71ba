// Package errors provides the unified error type and factory functions for the
// MarketEdge-Intelligence engine. Every layer (domain, application,
// infrastructure, interfaces) uses AppError as the single carrier for
// structured error information, enabling consistent API responses, logging,
// and monitoring.
package errors

import (
	"errors"
	"fmt"
)

// AppError is the single structured error type used throughout the engine.
// It satisfies the standard error interface and supports Go 1.13+ error
// wrapping so that errors.Is / errors.As / errors.Unwrap work transparently
// across all layers.
type AppError struct {
	// Code is the typed error code identifying the failure category.
	Code ErrorCode

	// Message is the primary human-readable description of the error.
	Message string

	// Cause is the underlying error that triggered this AppError, enabling
	// errors.Is / errors.As traversal of the full chain.
	Cause error
}

// Error implements the standard error interface.
// Format: "[<code>] <message>" or "[<code>] <message>: <cause>".
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf constructs a fresh AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an AppError that wraps an existing error. If err is nil,
// Wrap returns nil so it can be used inline:
//
//	return errors.Wrap(repo.FindByID(ctx, id), errors.ErrCodeDatabaseError, "query failed")
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Cause: err}
}

// Format-style convenience factories. Call sites read naturally:
//
//	return errors.NewNotFound("product %s not found", id)
//	return errors.NewValidation("analysis type %q is not supported", t)

// NewValidation constructs an ErrCodeValidation AppError.
func NewValidation(format string, args ...any) *AppError {
	return Newf(ErrCodeValidation, format, args...)
}

// NewNotFound constructs an ErrCodeNotFound AppError.
func NewNotFound(format string, args ...any) *AppError {
	return Newf(ErrCodeNotFound, format, args...)
}

// NewInternal constructs an ErrCodeInternal AppError.
func NewInternal(format string, args ...any) *AppError {
	return Newf(ErrCodeInternal, format, args...)
}

// NewExternal constructs an ErrCodeExternalService AppError, used when a
// collaborator (graph store, oracle, AI generator) fails.
func NewExternal(format string, args ...any) *AppError {
	return Newf(ErrCodeExternalService, format, args...)
}

// NewSerialization constructs an ErrCodeSerialization AppError. Deserialization
// failures of persisted JSON properties are store-corruption errors, not
// recoverable defaults, so they carry their own code.
func NewSerialization(format string, args ...any) *AppError {
	return Newf(ErrCodeSerialization, format, args...)
}

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// IsNotFound reports whether any error in err's chain carries a not-found code.
func IsNotFound(err error) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) {
			switch ae.Code {
			case ErrCodeNotFound, ErrCodeProductNotFound, ErrCodeAnalysisNotFound, ErrCodeReportNotFound:
				return true
			}
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError in err's chain.
// If no *AppError is present, ErrCodeInternal is returned; a nil error maps
// to the empty code.
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ErrCodeInternal
}
