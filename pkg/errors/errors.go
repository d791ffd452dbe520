package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents the failure classes reported by the VK and Yandex.Disk clients
type ErrorType string

const (
	// ErrorTypeTransport is a non-success HTTP status or a broken connection
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeDomain is a business error reported by the provider itself
	ErrorTypeDomain ErrorType = "domain"
	// ErrorTypeProtocol is a success status with a body we cannot make sense of
	ErrorTypeProtocol ErrorType = "protocol"

	// Upload (phase 2) failures
	ErrorTypePreconditionFailed  ErrorType = "precondition_failed"
	ErrorTypePayloadTooLarge     ErrorType = "payload_too_large"
	ErrorTypeServerUnavailable   ErrorType = "server_unavailable"
	ErrorTypeInsufficientStorage ErrorType = "insufficient_storage"
	ErrorTypeUnknownUpload       ErrorType = "unknown_upload"
)

// Error represents an API error with type information
type Error struct {
	Type ErrorType
	// Service names the remote API ("vk", "yadisk")
	Service string
	// Code is the HTTP status or, for VK domain errors, the VK error_code
	Code int
	// ProviderCode is the symbolic error reported by the provider, if any
	ProviderCode string
	Message      string
	Err          error
}

func (e *Error) Error() string {
	prefix := string(e.Type)
	if e.Service != "" {
		prefix = e.Service + " " + prefix
	}
	msg := e.Message
	if e.ProviderCode != "" {
		msg = fmt.Sprintf("(%s) %s", e.ProviderCode, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return fmt.Sprintf("%s error (code %d): %s", prefix, e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transport builds a transport error for the given service and status
func Transport(service string, status int, message string, err error) *Error {
	return &Error{Type: ErrorTypeTransport, Service: service, Code: status, Message: message, Err: err}
}

// Domain builds a provider-reported error
func Domain(service string, code int, providerCode, message string) *Error {
	return &Error{Type: ErrorTypeDomain, Service: service, Code: code, ProviderCode: providerCode, Message: message}
}

// Protocol builds an error for a malformed success body
func Protocol(service string, status int, message string, err error) *Error {
	return &Error{Type: ErrorTypeProtocol, Service: service, Code: status, Message: message, Err: err}
}

// TypeOf returns the ErrorType carried by err, or "" when err is not an *Error
func TypeOf(err error) ErrorType {
	var apiErr *Error
	if stderrors.As(err, &apiErr) {
		return apiErr.Type
	}
	return ""
}

// Is reports whether err is an *Error of the given type
func Is(err error, errorType ErrorType) bool {
	return err != nil && TypeOf(err) == errorType
}

// UploadStatusError maps the status of an upload PUT to an error.
// Every 2xx is success and yields nil; unmapped codes fall back to
// ErrorTypeUnknownUpload.
func UploadStatusError(service string, status int) *Error {
	if status >= 200 && status < 300 {
		return nil
	}

	var errorType ErrorType
	switch status {
	case http.StatusPreconditionFailed:
		errorType = ErrorTypePreconditionFailed
	case http.StatusRequestEntityTooLarge:
		errorType = ErrorTypePayloadTooLarge
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		errorType = ErrorTypeServerUnavailable
	case http.StatusInsufficientStorage:
		errorType = ErrorTypeInsufficientStorage
	default:
		return &Error{
			Type:    ErrorTypeUnknownUpload,
			Service: service,
			Code:    status,
			Message: fmt.Sprintf("unexpected upload status %d", status),
		}
	}

	return &Error{
		Type:    errorType,
		Service: service,
		Code:    status,
		Message: fmt.Sprintf("%d %s", status, http.StatusText(status)),
	}
}
