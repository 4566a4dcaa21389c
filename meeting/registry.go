// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import "sync"

// Key identifies one tracked meeting. The same channel name on two
// networks is two independent meetings.
type Key struct {
	Channel string
	Network string
}

// Registry tracks live sessions and a bounded history of ended ones.
// Get-or-create is a single atomic step so two racing start commands
// for the same key observe one winner and one loser, never two
// sessions.
type Registry struct {
	mu      sync.Mutex
	active  map[Key]*Session
	recent  []*Session
	maxKept int
}

// recentLimit bounds the ended-meeting history.
const recentLimit = 10

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		active:  make(map[Key]*Session),
		maxKept: recentLimit,
	}
}

// Acquire returns the session for key, creating one via create when
// none exists. created reports whether this call created it.
func (r *Registry) Acquire(key Key, create func() *Session) (session *Session, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.active[key]; ok {
		return session, false
	}
	session = create()
	r.active[key] = session
	return session, true
}

// Lookup returns the live session for key, or nil.
func (r *Registry) Lookup(key Key) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active[key]
}

// Evict removes the session for key from the active set and appends it
// to the recent history, evicting the oldest entry past the cap.
// No-op when the key is not active.
func (r *Registry) Evict(key Key) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.active[key]
	if !ok {
		return
	}
	delete(r.active, key)
	r.recent = append(r.recent, session)
	if len(r.recent) > r.maxKept {
		r.recent = r.recent[len(r.recent)-r.maxKept:]
	}
}

// Recent returns the ended sessions, oldest first.
func (r *Registry) Recent() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*Session(nil), r.recent...)
}

// Active returns the number of live sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
