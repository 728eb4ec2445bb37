// Package errors provides the structured error type used across the
// consensus core. Every fallible operation returns a *Error carrying an
// ERR code so callers can match on failure category with errors.Is/As
// instead of string-matching messages.
package errors

import (
	"errors"
	"fmt"
	"reflect"
)

// ERR identifies a category of failure. Codes are stable and may be
// logged or compared across process boundaries.
type ERR int32

const (
	ERR_UNKNOWN ERR = iota
	ERR_ERROR
	ERR_INVALID_ARGUMENT
	ERR_NOT_FOUND
	ERR_PROCESSING
	ERR_STORAGE
	ERR_THRESHOLD_EXCEEDED
	ERR_CONFIGURATION
	ERR_CONTEXT_CANCELED
	ERR_STATE_INITIALIZATION
	ERR_BLOCK_INVALID
	ERR_BLOCK_NOT_FOUND
	ERR_BLOCK_EXISTS
	ERR_TX_INVALID
	ERR_TX_NOT_FOUND
	ERR_TX_ALREADY_EXISTS
	ERR_TX_LOCK_TIME
)

var errName = map[ERR]string{
	ERR_UNKNOWN:              "UNKNOWN",
	ERR_ERROR:                "ERROR",
	ERR_INVALID_ARGUMENT:     "INVALID_ARGUMENT",
	ERR_NOT_FOUND:            "NOT_FOUND",
	ERR_PROCESSING:           "PROCESSING",
	ERR_STORAGE:              "STORAGE",
	ERR_THRESHOLD_EXCEEDED:   "THRESHOLD_EXCEEDED",
	ERR_CONFIGURATION:        "CONFIGURATION",
	ERR_CONTEXT_CANCELED:     "CONTEXT_CANCELED",
	ERR_STATE_INITIALIZATION: "STATE_INITIALIZATION",
	ERR_BLOCK_INVALID:        "BLOCK_INVALID",
	ERR_BLOCK_NOT_FOUND:      "BLOCK_NOT_FOUND",
	ERR_BLOCK_EXISTS:         "BLOCK_EXISTS",
	ERR_TX_INVALID:           "TX_INVALID",
	ERR_TX_NOT_FOUND:         "TX_NOT_FOUND",
	ERR_TX_ALREADY_EXISTS:    "TX_ALREADY_EXISTS",
	ERR_TX_LOCK_TIME:         "TX_LOCK_TIME",
}

func (c ERR) String() string {
	if n, ok := errName[c]; ok {
		return n
	}
	return "UNKNOWN"
}

// ErrData lets callers attach a secondary error-shaped payload (for
// example, the store-specific cause of a storage failure).
type ErrData interface {
	Error() string
}

type Error struct {
	Code       ERR
	Message    string
	WrappedErr error
	Data       ErrData
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}

	dataMsg := ""
	if e.Data != nil {
		dataMsg = e.Data.Error()
	}

	if e.WrappedErr == nil {
		if dataMsg == "" {
			return fmt.Sprintf("%s: %s", e.Code, e.Message)
		}
		return fmt.Sprintf("%s: %s, data: %s", e.Code, e.Message, dataMsg)
	}

	if dataMsg == "" {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.WrappedErr)
	}

	return fmt.Sprintf("%s: %s: %v, data: %s", e.Code, e.Message, e.WrappedErr, dataMsg)
}

// Is reports whether error codes match, unwrapping through nested
// *Error chains.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}

	var ue *Error
	if errors.As(target, &ue) {
		if e.Code == ue.Code {
			return true
		}

		if e.WrappedErr == nil {
			return false
		}
	}

	if unwrapped := errors.Unwrap(e); unwrapped != nil {
		if ue, ok := unwrapped.(*Error); ok {
			return ue.Is(target)
		}
	}

	return false
}

func (e *Error) As(target interface{}) bool {
	if e == nil {
		return false
	}

	if targetErr, ok := target.(**Error); ok {
		*targetErr = e
		return true
	}

	if e.Data != nil {
		if data, ok := e.Data.(error); ok {
			return errors.As(data, target)
		}
	}

	if e.WrappedErr != nil {
		if reflect.ValueOf(e.WrappedErr).IsNil() {
			return false
		}
		return errors.As(e.WrappedErr, target)
	}

	if unwrapped := errors.Unwrap(e); unwrapped != nil {
		return errors.As(unwrapped, target)
	}

	return false
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.WrappedErr
}

// New builds an *Error, extracting a trailing error/*Error param as
// the wrapped cause the same way fmt.Errorf treats a trailing %w.
func New(code ERR, message string, params ...interface{}) *Error {
	var wErr *Error

	if len(params) > 0 {
		lastParam := params[len(params)-1]

		if err, ok := lastParam.(*Error); ok {
			wErr = err
			params = params[:len(params)-1]
		} else if err, ok := lastParam.(error); ok {
			wErr = &Error{Message: err.Error()}
			params = params[:len(params)-1]
		}
	}

	if len(params) > 0 {
		message = fmt.Sprintf(message, params...)
	}

	return &Error{
		Code:       code,
		Message:    message,
		WrappedErr: wErr,
	}
}

func Join(errs ...error) error {
	var msgs []string
	for _, err := range errs {
		if err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(fmt.Sprint(msgs))
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}
