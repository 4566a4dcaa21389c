// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock abstracts the time source for testability. Production
// code injects Real(); tests inject a Fake with deterministic time
// control. Session timestamps, filename patterns, and store bookkeeping
// all flow through a Clock so replayed meetings and tests never depend
// on the wall clock.
package clock

import "time"

// Clock is the time source used by sessions and stores. Code that
// needs the current time should accept a Clock (or be a method on a
// struct with a Clock field) instead of calling time.Now directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the system clock.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
