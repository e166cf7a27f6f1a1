// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"errors"

	"idscan/internal/resilience"
)

// Kind buckets recognition failures for the caller.
type Kind int

const (
	KindTimeout Kind = iota
	KindNetwork
	KindAuth
	KindQuotaExhausted
	KindInvalidResponse
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "Timeout"
	case KindNetwork:
		return "Network"
	case KindAuth:
		return "Auth"
	case KindQuotaExhausted:
		return "QuotaExhausted"
	case KindInvalidResponse:
		return "InvalidResponse"
	default:
		return "Unknown"
	}
}

// RecognitionError is the only error type Recognize returns.
type RecognitionError struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *RecognitionError) Error() string {
	if e.cause != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.cause.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *RecognitionError) Unwrap() error {
	return e.cause
}

// Terminal reports whether the failure also fails every other endpoint,
// making retry and fallback pointless.
func (e *RecognitionError) Terminal() bool {
	return e.Kind == KindAuth || e.Kind == KindQuotaExhausted
}

// classified wraps the error for the retry loop, carrying retryability
// explicitly so classification never falls back to message matching.
func (e *RecognitionError) classified() *resilience.ClassifiedError {
	return &resilience.ClassifiedError{
		Original:  e,
		Type:      e.errorType(),
		Message:   e.Message,
		Retryable: !e.Terminal(),
	}
}

func (e *RecognitionError) errorType() resilience.ErrorType {
	switch e.Kind {
	case KindTimeout:
		return resilience.ErrorTypeTimeout
	case KindNetwork:
		return resilience.ErrorTypeTransient
	case KindAuth:
		return resilience.ErrorTypeAuth
	case KindQuotaExhausted:
		return resilience.ErrorTypeQuota
	case KindInvalidResponse:
		return resilience.ErrorTypeBadResponse
	}
	return resilience.ErrorTypeUnknown
}

// AsRecognitionError extracts a *RecognitionError from an error chain, or
// returns nil when there is none.
func AsRecognitionError(err error) *RecognitionError {
	var recErr *RecognitionError
	if errors.As(err, &recErr) {
		return recErr
	}
	return nil
}
