// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import (
	"fmt"
	"regexp"
)

// Ballot classification. A ballot counts as exactly one of for,
// against or abstain; anything else in the ballot line is ignored.
var (
	forRE     = regexp.MustCompile(`^\+1\b`)
	againstRE = regexp.MustCompile(`^-1\b`)
	abstainRE = regexp.MustCompile(`^[+-]?0\b`)
)

// Outcome is the decision of a closed voting round.
type Outcome uint8

const (
	// Carried means the motion passed its margin.
	Carried Outcome = iota
	// Denied means the motion failed its margin.
	Denied
	// Deadlock means a tie under a zero margin.
	Deadlock
)

// String returns the phrase used in channel messages and minutes.
func (o Outcome) String() string {
	switch o {
	case Carried:
		return "Motion carried"
	case Denied:
		return "Motion denied"
	case Deadlock:
		return "Motion deadlocked"
	default:
		return fmt.Sprintf("OUTCOME(%d)", o)
	}
}

// voteRound is the state of one open voting round. One round is open
// at a time; a new #vote while a round is open is refused.
type voteRound struct {
	proposal string

	// ballots maps nick to latest ballot line. Re-voting replaces.
	ballots map[string]string

	// publicCasts lists every in-channel cast in arrival order,
	// including superseded re-votes. Only the channel's own view;
	// private ballots never appear here.
	publicCasts []string

	// startLine is the transcript length when the round opened, so the
	// minutes can link the round to the discussion that preceded it.
	startLine int
}

// tally counts the round's ballots. Each ballot contributes to at most
// one bucket; unparseable ballots (which castBallot never stores)
// would contribute to none.
func (r *voteRound) tally() (voteFor, voteAgainst, abstain int) {
	for _, ballot := range r.ballots {
		switch {
		case forRE.MatchString(ballot):
			voteFor++
		case againstRE.MatchString(ballot):
			voteAgainst++
		case abstainRE.MatchString(ballot):
			abstain++
		}
	}
	return voteFor, voteAgainst, abstain
}

// decide resolves the round under the given margin. The margin is the
// minimum lead of for over against; a zero margin ties resolve as
// deadlock rather than carried.
func decide(voteFor, voteAgainst, margin int) Outcome {
	delta := voteFor - voteAgainst
	switch {
	case delta >= margin && !(margin == 0 && delta == 0):
		return Carried
	case delta < margin:
		return Denied
	default:
		return Deadlock
	}
}

// VoteRecord is the permanent record of a closed voting round, kept
// for the minutes after the round state is discarded.
type VoteRecord struct {
	// Proposal is the motion text as given to #vote.
	Proposal string `cbor:"proposal"`

	// Summary is the outcome sentence, e.g.
	// "Motion carried (For: 3, Against: 0, Abstained: 1)".
	Summary string `cbor:"summary"`

	// StartLine is the transcript length when the round opened.
	StartLine int `cbor:"start_line"`

	// PublicVoters lists in-channel casts in arrival order.
	PublicVoters []string `cbor:"public_voters,omitempty"`
}

// castBallot records a ballot for the open round. Silently ignored
// when no round is open or the nick is outside a restricted voter
// roster. Caller holds the session lock.
func (s *Session) castBallot(nick, ballot string, private bool) {
	if s.round == nil {
		return
	}
	if len(s.voters) > 0 && !s.voters[nick] {
		return
	}
	s.round.ballots[nick] = ballot
	if !private {
		s.round.publicCasts = append(s.round.publicCasts, nick)
		s.reply(fmt.Sprintf("%s received from %s", ballot, nick))
	}
}

// closeRound tallies and records the open round, returning the record.
// Caller holds the session lock and has checked a round is open.
func (s *Session) closeRound(at commandLine) VoteRecord {
	round := s.round
	s.round = nil

	voteFor, voteAgainst, abstain := round.tally()
	outcome := decide(voteFor, voteAgainst, s.votesRequired)
	summary := fmt.Sprintf("%s (For: %d, Against: %d, Abstained: %d)",
		outcome, voteFor, voteAgainst, abstain)

	s.reply("Voting ended on: " + round.proposal)
	s.reply(fmt.Sprintf("Votes for: %d, Votes against: %d, Abstentions: %d",
		voteFor, voteAgainst, abstain))
	s.reply(summary)
	if outcome == Deadlock {
		s.reply("Deadlock, casting vote may be used")
	}

	record := VoteRecord{
		Proposal:     round.proposal,
		Summary:      summary,
		StartLine:    round.startLine,
		PublicVoters: round.publicCasts,
	}
	s.votes = append(s.votes, record)

	var verdict string
	switch outcome {
	case Carried:
		verdict = "Carried"
	case Denied:
		verdict = "Denied"
	default:
		verdict = "Deadlock"
	}
	s.addItem(newItem(KindVoteResult, at.nick,
		fmt.Sprintf("%s (%s)", round.proposal, verdict), at.lineNum, at.at))

	return record
}
