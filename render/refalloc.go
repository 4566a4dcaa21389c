// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "strings"

// refAllocator hands out unique reference names for link-style output
// formats. Names derive from the author nick; collisions within one
// render pass get a base-26 suffix. The allocator is per-pass scratch
// state, so re-rendering the same minutes yields the same names.
type refAllocator struct {
	taken map[string]bool

	// refs records every allocated name with its target, in
	// allocation order, for the reference block at the document foot.
	refs []reference
}

type reference struct {
	name   string
	target string
}

func newRefAllocator() *refAllocator {
	return &refAllocator{taken: make(map[string]bool)}
}

// allocate returns a unique reference name for an item and records
// its target. The base name is the author nick, a separator, and the
// item's display time; nicks already ending in "_" take no extra
// separator character. Two items by one nick in the same minute
// collide and get suffixes.
func (a *refAllocator) allocate(nick, displayTime, target string) string {
	sep := "-"
	if strings.HasSuffix(nick, "_") {
		sep = ""
	}
	base := nick + sep + displayTime

	name := base
	for i := 0; a.taken[name]; i++ {
		name = base + alphaSuffix(i)
	}
	a.taken[name] = true
	a.refs = append(a.refs, reference{name: name, target: target})
	return name
}

// alphaSuffix converts a collision counter to a lowercase alphabetic
// suffix: 0 is "a", 25 is "z", 26 is "aa".
func alphaSuffix(i int) string {
	s := ""
	for {
		s = string(rune('a'+i%26)) + s
		i = i/26 - 1
		if i < 0 {
			return s
		}
	}
}
