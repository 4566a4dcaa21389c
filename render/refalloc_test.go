// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "testing"

func TestAlphaSuffix(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "a"},
		{1, "b"},
		{25, "z"},
		{26, "aa"},
		{27, "ab"},
		{51, "az"},
		{52, "ba"},
		{701, "zz"},
		{702, "aaa"},
	}
	for _, tc := range cases {
		if got := alphaSuffix(tc.in); got != tc.want {
			t.Errorf("alphaSuffix(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRefAllocator(t *testing.T) {
	a := newRefAllocator()

	if got := a.allocate("alice", "10:00", "log#l-1"); got != "alice-10:00" {
		t.Errorf("first = %q", got)
	}
	if got := a.allocate("alice", "10:00", "log#l-2"); got != "alice-10:00a" {
		t.Errorf("first collision = %q", got)
	}
	if got := a.allocate("alice", "10:00", "log#l-3"); got != "alice-10:00b" {
		t.Errorf("second collision = %q", got)
	}

	// A different minute is a different base, no suffix needed.
	if got := a.allocate("alice", "10:01", "log#l-4"); got != "alice-10:01" {
		t.Errorf("new minute = %q", got)
	}

	// Nicks ending in an underscore take no extra separator.
	if got := a.allocate("bob_", "10:00", "log#l-5"); got != "bob_10:00" {
		t.Errorf("underscore nick = %q", got)
	}

	if len(a.refs) != 5 {
		t.Fatalf("recorded %d refs", len(a.refs))
	}
	if a.refs[1].name != "alice-10:00a" || a.refs[1].target != "log#l-2" {
		t.Errorf("ref record = %+v", a.refs[1])
	}
}
