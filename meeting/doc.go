// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// Package meeting implements the meeting state machine: command
// dispatch, the transcript, minute items, chair and voter rosters, and
// voting rounds. A Session consumes conversation lines one at a time
// and exposes an immutable Minutes view for the render pipeline.
//
// Sessions serialize all mutation on an internal mutex. The Registry
// maps (channel, network) keys to live sessions with an atomic
// get-or-create, so concurrent traffic for different meetings
// proceeds in parallel while each meeting stays single-threaded.
package meeting
