// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// DebugObserver traces pipeline stages step by step for the -debug flag.
// Nested steps indent under their parent; a step is closed by calling the
// function StartStep returns.
type DebugObserver struct {
	*StandardObserver
	indent int
}

// NewDebugObserver creates a step tracer writing to the given writer.
func NewDebugObserver(writer io.Writer) *DebugObserver {
	return &DebugObserver{
		StandardObserver: NewStandardObserver(ObservabilityDebug, writer),
	}
}

// StartStep opens a traced step and returns its closer.
func (d *DebugObserver) StartStep(component, step, input string) func(success bool, details string) {
	start := time.Now()
	prefix := strings.Repeat("  ", d.indent)

	if input != "" {
		fmt.Fprintf(d.writer, "%s> %s: %s (%s)\n", prefix, component, step, input)
	} else {
		fmt.Fprintf(d.writer, "%s> %s: %s\n", prefix, component, step)
	}
	d.indent++

	return func(success bool, details string) {
		d.indent--
		prefix := strings.Repeat("  ", d.indent)
		status := "ok"
		if !success {
			status = "failed"
		}
		if details != "" {
			details = " " + details
		}
		fmt.Fprintf(d.writer, "%s< %s: %s %s (%dms)%s\n",
			prefix, component, step, status, time.Since(start).Milliseconds(), details)
	}
}

// LogDetail records a note inside the current step.
func (d *DebugObserver) LogDetail(component, detail string) {
	prefix := strings.Repeat("  ", d.indent)
	fmt.Fprintf(d.writer, "%s  %s: %s\n", prefix, component, detail)
}
