package attendance

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ===== Error model (shared by the attendance and reports domains) =====

type Code string

const (
	CodeUnauthenticated   Code = "UNAUTHENTICATED"
	CodeForbidden         Code = "FORBIDDEN"
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeAlreadyCheckedIn  Code = "ALREADY_CHECKED_IN"
	CodeAlreadyCheckedOut Code = "ALREADY_CHECKED_OUT"
	CodeNoCheckIn         Code = "NO_CHECK_IN"
	CodeUnavailable       Code = "UNAVAILABLE"
	CodeInternal          Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrUnauthenticated(msg string) *APIError {
	return &APIError{Code: CodeUnauthenticated, Message: msg}
}
func ErrForbidden(msg string) *APIError { return &APIError{Code: CodeForbidden, Message: msg} }
func ErrInvalid(msg string) *APIError   { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError  { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError  { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError  { return &APIError{Code: CodeInternal, Message: msg} }

func ErrAlreadyCheckedIn() *APIError {
	return &APIError{Code: CodeAlreadyCheckedIn, Message: "already checked in today"}
}
func ErrAlreadyCheckedOut() *APIError {
	return &APIError{Code: CodeAlreadyCheckedOut, Message: "already checked out today"}
}
func ErrNoCheckIn() *APIError {
	return &APIError{Code: CodeNoCheckIn, Message: "check-in required before checkout"}
}

// StoreErr classifies a record-store failure. Bad connections and deadlines
// are UNAVAILABLE (safe for the caller to retry); everything else is INTERNAL.
func StoreErr(err error) *APIError {
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Code: CodeUnavailable, Message: "record store unavailable"}
	}
	return &APIError{Code: CodeInternal, Message: "record store error"}
}

// isDuplicate detects a unique-key violation from either the MySQL driver
// (error 1062 "Duplicate entry") or sqlite ("UNIQUE constraint failed").
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint")
}

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeUnauthenticated:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound, CodeNoCheckIn:
			return http.StatusNotFound
		case CodeConflict, CodeAlreadyCheckedIn, CodeAlreadyCheckedOut:
			return http.StatusConflict
		case CodeUnavailable:
			return http.StatusServiceUnavailable
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

func APIErrFrom(err error) *APIError {
	var api *APIError
	if errors.As(err, &api) {
		return api
	}
	return &APIError{Code: CodeInternal, Message: "internal error"}
}
