// Package errs provides the coded error taxonomy shared by the ticket pipeline,
// the provider client and the webhook parser.
package errs

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeMissingAsset   Code = "MISSING_ASSET"
	CodeEncoding       Code = "ENCODING_FAILED"
	CodeTransport      Code = "TRANSPORT_FAILED"
	CodeMalformedEvent Code = "MALFORMED_EVENT"
	CodeLayout         Code = "TICKET_LAYOUT_INVALID"
	CodeInvalidAction  Code = "INVALID_ACTION"
	CodeNotConfigured  Code = "NOT_CONFIGURED"
)

// Error is a structured failure carrying a Code plus an optional cause.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// CodeOf returns the Code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HasCode reports whether err's chain contains an *Error with the given code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// MissingAsset is returned when a frame or other asset cannot be read.
func MissingAsset(path string, err error) *Error {
	return &Error{
		Code:    CodeMissingAsset,
		Message: "asset not readable",
		Details: path,
		Err:     err,
	}
}

// Encoding is returned when a QR payload is empty or too large.
func Encoding(details string, err error) *Error {
	return &Error{
		Code:    CodeEncoding,
		Message: "qr encoding failed",
		Details: details,
		Err:     err,
	}
}

// Transport is returned when an outbound provider call fails.
func Transport(details string, err error) *Error {
	return &Error{
		Code:    CodeTransport,
		Message: "provider call failed",
		Details: details,
		Err:     err,
	}
}

// MalformedEvent is returned when an inbound payload carries no usable message.
func MalformedEvent(details string) *Error {
	return &Error{
		Code:    CodeMalformedEvent,
		Message: "no extractable message",
		Details: details,
	}
}

// Layout is returned when a QR footprint does not fit inside the frame canvas.
func Layout(details string) *Error {
	return &Error{
		Code:    CodeLayout,
		Message: "qr does not fit frame",
		Details: details,
	}
}

// InvalidAction is returned for actions the dispatcher cannot execute.
func InvalidAction(details string) *Error {
	return &Error{
		Code:    CodeInvalidAction,
		Message: "invalid action",
		Details: details,
	}
}

// NotConfigured is returned when a required setting such as provider credentials is missing.
func NotConfigured(details string) *Error {
	return &Error{
		Code:    CodeNotConfigured,
		Message: "not configured",
		Details: details,
	}
}
