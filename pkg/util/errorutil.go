package util

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewBadRequest(message string, details map[string]any) error {
	return NewDomainError(http.StatusText(http.StatusBadRequest), message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(http.StatusText(http.StatusUnauthorized), message, http.StatusUnauthorized, nil)
}

func NewNotFound(message string) error {
	return NewDomainError(http.StatusText(http.StatusNotFound), message, http.StatusNotFound, nil)
}

func NewTooManyRequests(message string) error {
	return NewDomainError(http.StatusText(http.StatusTooManyRequests), message, http.StatusTooManyRequests, nil)
}

// NewBadGateway wraps upstream failures without exposing their internals.
func NewBadGateway(message string, err error) error {
	return &DomainError{
		Code:       http.StatusText(http.StatusBadGateway),
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

func NewServiceUnavailable(message string, details map[string]any) error {
	return NewDomainError(http.StatusText(http.StatusServiceUnavailable), message, http.StatusServiceUnavailable, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       http.StatusText(http.StatusInternalServerError),
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       http.StatusText(http.StatusInternalServerError),
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
