// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the closed set of minute item variants. The
// rendering layer switches exhaustively on Kind; adding a variant
// means extending every per-format dispatch table.
type Kind uint8

const (
	// KindTopic opens a new discussion group in the summary.
	KindTopic Kind = iota
	// KindSubtopic opens a nested list under the current topic.
	KindSubtopic
	// KindInfo is an informational note.
	KindInfo
	// KindIdea records an idea.
	KindIdea
	// KindAgreed records an agreement reached.
	KindAgreed
	// KindAccepted records an accepted proposal.
	KindAccepted
	// KindRejected records a rejected proposal.
	KindRejected
	// KindAction records an action item, later grouped per attendee.
	KindAction
	// KindHelp records a call for help.
	KindHelp
	// KindDone records a completed item.
	KindDone
	// KindVoteResult records the outcome of a closed voting round.
	KindVoteResult
	// KindLink records a URL with optional trailing description.
	KindLink
)

// String returns the label rendered in front of the item text. These
// labels appear verbatim in every output document, so they are part of
// the format contract.
func (k Kind) String() string {
	switch k {
	case KindTopic:
		return "TOPIC"
	case KindSubtopic:
		return "SUBTOPIC"
	case KindInfo:
		return "INFO"
	case KindIdea:
		return "IDEA"
	case KindAgreed:
		return "AGREED"
	case KindAccepted:
		return "ACCEPTED"
	case KindRejected:
		return "REJECTED"
	case KindAction:
		return "ACTION"
	case KindHelp:
		return "HELP"
	case KindDone:
		return "DONE"
	case KindVoteResult:
		return "VOTE"
	case KindLink:
		return "LINK"
	default:
		return fmt.Sprintf("KIND(%d)", k)
	}
}

// Item is one minute entry. Items are immutable after creation:
// renderers compute any per-pass bookkeeping (assignment, reference
// names) in their own scratch state, never on the item.
type Item struct {
	// Kind discriminates the variant.
	Kind Kind `cbor:"kind"`

	// Nick is the author of the originating line.
	Nick string `cbor:"nick"`

	// LineNum is the 1-based transcript line the item came from. It
	// anchors the item's cross-reference into the published log
	// ("l-<LineNum>").
	LineNum int `cbor:"line_num"`

	// Time is the HH:MM display time of the originating line.
	Time string `cbor:"time"`

	// Text is the raw payload. For KindLink it is the remainder after
	// the URL; escaping happens at render time only.
	Text string `cbor:"text"`

	// URL is set for KindLink only.
	URL string `cbor:"url,omitempty"`
}

// newItem builds a minute item for the given line. KindLink payloads
// are split into URL and remainder on the first whitespace run; the
// remainder is empty when the payload has no whitespace.
func newItem(kind Kind, nick, payload string, lineNum int, at time.Time) Item {
	item := Item{
		Kind:    kind,
		Nick:    nick,
		LineNum: lineNum,
		Time:    at.Format("15:04"),
		Text:    payload,
	}
	if kind == KindLink {
		item.URL, item.Text = splitLink(payload)
	}
	return item
}

// splitLink separates a link payload into the URL and the rest of the
// line on the first whitespace run.
func splitLink(payload string) (url, rest string) {
	index := strings.IndexAny(payload, " \t")
	if index < 0 {
		return payload, ""
	}
	return payload[:index], strings.TrimSpace(payload[index:])
}

// Anchor is the fragment name of the item's originating line in the
// published transcript.
func (i Item) Anchor() string {
	return fmt.Sprintf("l-%d", i.LineNum)
}
