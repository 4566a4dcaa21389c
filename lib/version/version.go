// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// Package version exposes the build version stamped into generated
// minutes footers and the --version flag.
package version

import "fmt"

// Version is the meetingology release version. Overridden at build
// time with -ldflags "-X .../lib/version.Version=...".
var Version = "0.2.0-dev"

// Print writes the standard version line for a binary.
func Print(binary string) {
	fmt.Printf("%s %s\n", binary, Version)
}
