// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"regexp"
	"sort"
	"strings"

	"github.com/hellomouse/meetingology/meeting"
)

// unassignedLabel heads the bucket of action items no attendee's nick
// appears in.
const unassignedLabel = "UNASSIGNED"

// actionGroup is the action items attributed to one person.
type actionGroup struct {
	// Nick is an attendee nick, or unassignedLabel.
	Nick  string
	Items []meeting.Item
}

// actionItems returns the action items in minute order.
func actionItems(m *meeting.Minutes) []meeting.Item {
	var actions []meeting.Item
	for _, item := range m.Items {
		if item.Kind == meeting.KindAction {
			actions = append(actions, item)
		}
	}
	return actions
}

// attributeActions groups action items per attendee by whole-word,
// case-insensitive nick match against the item text. One item may
// appear under several attendees; items matching nobody form the
// trailing unassigned group. Attribution is a pure set computation
// over the immutable items. Empty groups are omitted; the unassigned
// group appears whenever it is non-empty.
func attributeActions(m *meeting.Minutes) []actionGroup {
	actions := actionItems(m)
	if len(actions) == 0 {
		return nil
	}

	nicks := make([]string, 0, len(m.Attendees))
	for _, a := range m.Attendees {
		nicks = append(nicks, a.Nick)
	}
	sort.Slice(nicks, func(i, j int) bool {
		return strings.ToLower(nicks[i]) < strings.ToLower(nicks[j])
	})

	assigned := make(map[int]bool)
	var groups []actionGroup
	for _, nick := range nicks {
		re, err := nickWordRE(nick)
		if err != nil {
			continue
		}
		var mine []meeting.Item
		for i, item := range actions {
			if re.MatchString(item.Text) {
				mine = append(mine, item)
				assigned[i] = true
			}
		}
		if len(mine) > 0 {
			groups = append(groups, actionGroup{Nick: nick, Items: mine})
		}
	}

	var orphans []meeting.Item
	for i, item := range actions {
		if !assigned[i] {
			orphans = append(orphans, item)
		}
	}
	if len(orphans) > 0 {
		groups = append(groups, actionGroup{Nick: unassignedLabel, Items: orphans})
	}
	return groups
}

// nickWordRE matches the nick as a whole word, case-insensitively.
// "bob" must not match inside "bobby".
func nickWordRE(nick string) (*regexp.Regexp, error) {
	return regexp.Compile(`(?i)\b` + regexp.QuoteMeta(nick) + `\b`)
}

// presentByActivity returns the attendees sorted by attributed line
// count, most talkative first. The sort is stable over registration
// order, so equal counts keep first-seen order.
func presentByActivity(m *meeting.Minutes) []meeting.Attendee {
	attendees := append([]meeting.Attendee(nil), m.Attendees...)
	sort.SliceStable(attendees, func(i, j int) bool {
		return attendees[i].Lines > attendees[j].Lines
	})
	return attendees
}
