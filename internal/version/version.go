// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package version exposes build identification for the -version flag.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set at build time via -ldflags.
var (
	Version   = "0.0.0-development"
	GitCommit = ""
	BuildDate = "unknown"
)

// Info returns the one-line version string printed by the CLI.
func Info() string {
	return fmt.Sprintf("idscan %s (commit: %s, built: %s, go: %s, platform: %s/%s)",
		Version, commit(), BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number.
func Short() string {
	return Version
}

// commit prefers the ldflags value and falls back to the VCS revision
// stamped into the build info.
func commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
