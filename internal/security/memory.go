// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package security holds the recognition API key in a scrubbable buffer so
// the raw key spends as little time as possible in reachable memory.
package security

// Secret wraps a sensitive value with best-effort scrubbing on Clear.
//
// Go's garbage collector may move or copy memory at any time, and every
// Reveal call creates an immutable string copy that cannot be zeroed.
// Clear narrows the window of exposure; it is not a guarantee.
type Secret struct {
	data []byte
}

// NewSecret copies s into a mutable buffer.
func NewSecret(s string) *Secret {
	data := make([]byte, len(s))
	copy(data, s)
	return &Secret{data: data}
}

// Reveal returns the value. Call at the point of use, not earlier.
func (s *Secret) Reveal() string {
	return string(s.data)
}

// Empty reports whether no value is held.
func (s *Secret) Empty() bool {
	return len(s.data) == 0
}

// Clear zeroes the buffer and releases it. The Secret is empty afterwards.
func (s *Secret) Clear() {
	for i := range s.data {
		s.data[i] = 0
	}
	s.data = nil
}
