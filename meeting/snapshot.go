// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import (
	"fmt"
	"sort"
	"time"

	"github.com/hellomouse/meetingology/lib/codec"
)

// snapshot is the serialized session state. Encoded with deterministic
// CBOR, so identical state yields identical bytes and the store can
// skip rewriting unchanged snapshots.
type snapshot struct {
	Channel      string          `cbor:"channel"`
	Network      string          `cbor:"network"`
	Owner        string          `cbor:"owner"`
	OldTopic     string          `cbor:"old_topic,omitempty"`
	CurrentTopic string          `cbor:"current_topic,omitempty"`
	Title        string          `cbor:"title,omitempty"`
	MeetingName  string          `cbor:"meeting_name,omitempty"`
	Chairs       []string        `cbor:"chairs,omitempty"`
	Voters       []string        `cbor:"voters,omitempty"`
	Attendees    []Attendee      `cbor:"attendees,omitempty"`
	Lines        []string        `cbor:"lines,omitempty"`
	Items        []Item          `cbor:"items,omitempty"`
	Votes        []VoteRecord    `cbor:"votes,omitempty"`
	Round        *roundSnapshot  `cbor:"round,omitempty"`
	VotesNeeded  int             `cbor:"votes_required,omitempty"`
	StartTime    time.Time       `cbor:"start_time"`
	EndTime      time.Time       `cbor:"end_time,omitempty"`
	Started      bool            `cbor:"started"`
	Over         bool            `cbor:"over"`
	Lurk         bool            `cbor:"lurk,omitempty"`
	RestrictLogs bool            `cbor:"restrict_logs,omitempty"`
}

// roundSnapshot preserves an open voting round across restarts.
type roundSnapshot struct {
	Proposal    string            `cbor:"proposal"`
	Ballots     map[string]string `cbor:"ballots,omitempty"`
	PublicCasts []string          `cbor:"public_casts,omitempty"`
	StartLine   int               `cbor:"start_line"`
}

// Snapshot serializes the full session state for crash recovery.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		Channel:      s.channel,
		Network:      s.network,
		Owner:        s.owner,
		OldTopic:     s.oldTopic,
		CurrentTopic: s.currentTopic,
		Title:        s.title,
		MeetingName:  s.meetingName,
		Chairs:       sortedKeys(s.chairs),
		Voters:       sortedKeys(s.voters),
		Lines:        s.lines,
		Items:        s.items,
		Votes:        s.votes,
		VotesNeeded:  s.votesRequired,
		StartTime:    s.startTime,
		EndTime:      s.endTime,
		Started:      s.started,
		Over:         s.over,
		Lurk:         s.lurk,
		RestrictLogs: s.restrictLogs,
	}
	for _, nick := range s.attendeeOrder {
		snap.Attendees = append(snap.Attendees, Attendee{Nick: nick, Lines: s.attendees[nick]})
	}
	if s.round != nil {
		snap.Round = &roundSnapshot{
			Proposal:    s.round.proposal,
			Ballots:     s.round.ballots,
			PublicCasts: s.round.publicCasts,
			StartLine:   s.round.startLine,
		}
	}

	data, err := codec.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("meeting: encoding snapshot: %w", err)
	}
	return data, nil
}

// Restore rebuilds a session from a snapshot. The options supply the
// runtime wiring (config, clock, callbacks); all meeting state comes
// from the snapshot, including the key fields.
func Restore(data []byte, opts Options) (*Session, error) {
	var snap snapshot
	if err := codec.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("meeting: decoding snapshot: %w", err)
	}

	opts.Channel = snap.Channel
	opts.Network = snap.Network
	opts.Owner = snap.Owner
	opts.OldTopic = snap.OldTopic
	s := NewSession(opts)

	s.currentTopic = snap.CurrentTopic
	s.title = snap.Title
	s.meetingName = snap.MeetingName
	for _, nick := range snap.Chairs {
		s.chairs[nick] = true
	}
	for _, nick := range snap.Voters {
		s.voters[nick] = true
	}
	for _, a := range snap.Attendees {
		s.attendeeOrder = append(s.attendeeOrder, a.Nick)
		s.attendees[a.Nick] = a.Lines
	}
	s.lines = snap.Lines
	s.items = snap.Items
	s.votes = snap.Votes
	s.votesRequired = snap.VotesNeeded
	s.startTime = snap.StartTime
	s.endTime = snap.EndTime
	s.started = snap.Started
	s.over = snap.Over
	s.lurk = snap.Lurk
	s.restrictLogs = snap.RestrictLogs
	if snap.Round != nil {
		ballots := snap.Round.Ballots
		if ballots == nil {
			ballots = make(map[string]string)
		}
		s.round = &voteRound{
			proposal:    snap.Round.Proposal,
			ballots:     ballots,
			publicCasts: snap.Round.PublicCasts,
			startLine:   snap.Round.StartLine,
		}
	}
	return s, nil
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
