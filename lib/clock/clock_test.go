// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"
)

func TestFake(t *testing.T) {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	fake := NewFake(start)

	if !fake.Now().Equal(start) {
		t.Errorf("Now = %v", fake.Now())
	}
	fake.Advance(90 * time.Second)
	if want := start.Add(90 * time.Second); !fake.Now().Equal(want) {
		t.Errorf("after advance: %v, want %v", fake.Now(), want)
	}
	later := start.Add(time.Hour)
	fake.Set(later)
	if !fake.Now().Equal(later) {
		t.Errorf("after set: %v", fake.Now())
	}
}

func TestReal(t *testing.T) {
	before := time.Now()
	now := Real().Now()
	if now.Before(before) {
		t.Errorf("real clock went backwards: %v < %v", now, before)
	}
}
