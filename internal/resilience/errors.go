// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package resilience provides error classification and retry primitives for
// calls to the recognition service. Classification decides whether a failed
// call is worth retrying on the same endpoint, worth moving to a fallback
// endpoint, or terminal for the whole request.
package resilience

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
)

// ErrorType buckets recognition failures by handling strategy.
type ErrorType int

const (
	ErrorTypeUnknown     ErrorType = iota
	ErrorTypeTransient             // connection drops, temporary service hiccups
	ErrorTypeTimeout               // the service did not answer in time
	ErrorTypeAuth                  // rejected credentials; retrying cannot help
	ErrorTypeQuota                 // exhausted account quota; terminal for the day
	ErrorTypeBadResponse           // the service answered with an unusable payload
)

func (et ErrorType) String() string {
	switch et {
	case ErrorTypeTransient:
		return "Transient"
	case ErrorTypeTimeout:
		return "Timeout"
	case ErrorTypeAuth:
		return "Auth"
	case ErrorTypeQuota:
		return "Quota"
	case ErrorTypeBadResponse:
		return "BadResponse"
	default:
		return "Unknown"
	}
}

// ClassifiedError wraps an error with its handling strategy.
type ClassifiedError struct {
	Original  error
	Type      ErrorType
	Message   string
	Retryable bool
}

func (e *ClassifiedError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Original.Error()
}

func (e *ClassifiedError) Unwrap() error {
	return e.Original
}

func (e *ClassifiedError) IsRetryable() bool {
	return e.Retryable
}

// ClassifyError categorizes a recognition call failure. Auth and quota
// failures are terminal: they fail the same way on every endpoint, so
// neither retry nor endpoint fallback is attempted for them.
func ClassifyError(err error) *ClassifiedError {
	if err == nil {
		return nil
	}

	var classified *ClassifiedError
	if errors.As(err, &classified) {
		return classified
	}

	if isTimeoutError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTimeout,
			Message:   fmt.Sprintf("recognition timeout: %v", err),
			Retryable: true,
		}
	}

	if isNetworkError(err) {
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTransient,
			Message:   fmt.Sprintf("network error: %v", err),
			Retryable: true,
		}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "invalid api key") || strings.Contains(errStr, "unauthorized") ||
		strings.Contains(errStr, "forbidden") || strings.Contains(errStr, "access denied"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeAuth,
			Message:   fmt.Sprintf("authentication rejected: %v", err),
			Retryable: false,
		}

	case strings.Contains(errStr, "quota") || strings.Contains(errStr, "limit exceeded") ||
		strings.Contains(errStr, "too many requests"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeQuota,
			Message:   fmt.Sprintf("quota exhausted: %v", err),
			Retryable: false,
		}

	case strings.Contains(errStr, "service unavailable") || strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeTransient,
			Message:   fmt.Sprintf("service unavailable: %v", err),
			Retryable: true,
		}

	case strings.Contains(errStr, "unexpected response") || strings.Contains(errStr, "malformed") ||
		strings.Contains(errStr, "decode"):
		return &ClassifiedError{
			Original:  err,
			Type:      ErrorTypeBadResponse,
			Message:   fmt.Sprintf("unusable response: %v", err),
			Retryable: true,
		}
	}

	return &ClassifiedError{
		Original:  err,
		Type:      ErrorTypeUnknown,
		Message:   fmt.Sprintf("recognition error: %v", err),
		Retryable: false,
	}
}

func isNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH)
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// NewTransientError creates a retryable error.
func NewTransientError(message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      ErrorTypeTransient,
		Message:   message,
		Retryable: true,
	}
}

// NewTerminalError creates a non-retryable error of the given type.
func NewTerminalError(t ErrorType, message string, cause error) *ClassifiedError {
	return &ClassifiedError{
		Original:  cause,
		Type:      t,
		Message:   message,
		Retryable: false,
	}
}
