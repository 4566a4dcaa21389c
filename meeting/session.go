// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import (
	"io"
	"log/slog"
	"path"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/hellomouse/meetingology/lib/clock"
	"github.com/hellomouse/meetingology/lib/config"
	"github.com/hellomouse/meetingology/lib/version"
)

// urlProtocols are the schemes that make a bare line an implicit
// #link command. Matched against the prefix up to the first "//".
var urlProtocols = map[string]bool{
	"http:":   true,
	"https:":  true,
	"irc:":    true,
	"ftp:":    true,
	"mailto:": true,
	"ssh:":    true,
}

// ballotRE matches payloads that count as ballots during an open
// voting round, independent of command or link classification.
var ballotRE = regexp.MustCompile(`^([+-]1|[+-]?0)\b`)

// Callbacks connect a session to its channel. All callbacks are
// optional; a nil callback degrades to a debug log line. Callbacks are
// invoked while the session lock is held and must not call back into
// the session.
type Callbacks struct {
	// Reply sends a message to the channel.
	Reply func(message string)

	// PrivateReply sends a message to a single nick.
	PrivateReply func(nick, message string)

	// SetTopic changes the channel topic. Only invoked when BotIsOp.
	SetTopic func(topic string)

	// ChannelNicks returns the nicks currently present, used to warn
	// when a chair or voter token names someone absent. Nil disables
	// the warning.
	ChannelNicks func() []string

	// BotIsOp reports whether the bot may change the channel topic.
	BotIsOp bool
}

// SaveFunc receives an immutable view of the session for rendering and
// persistence. realtime is true for the per-line incremental saves and
// false for full saves (#save, meeting end).
type SaveFunc func(minutes *Minutes, realtime bool)

// Options configures a new session.
type Options struct {
	// Channel and Network form the session key. Required.
	Channel string
	Network string

	// Owner is the nick that started the meeting. May be empty for
	// replay sessions; the first #startmeeting author becomes owner.
	Owner string

	// BotNick is excluded from attendee line counts.
	BotNick string

	// OldTopic is the channel topic to restore when the meeting ends.
	OldTopic string

	// Config is required.
	Config *config.Config

	// Clock supplies timestamps for lines that arrive without one.
	// Defaults to the system clock.
	Clock clock.Clock

	// Logger receives debug output for suppressed channel traffic.
	// Defaults to a discard logger.
	Logger *slog.Logger

	// Callbacks connect the session to its channel.
	Callbacks Callbacks

	// OnSave is invoked after lines that require output updates, with
	// the session lock released. Nil disables saving.
	OnSave SaveFunc
}

// Session is the state machine for one tracked meeting. All exported
// methods serialize on an internal mutex: transcript numbering, vote
// rounds, and item ordering are non-commutative, so one session is one
// logical thread of control. Distinct sessions are fully independent.
type Session struct {
	mu sync.Mutex

	cfg    *config.Config
	clock  clock.Clock
	logger *slog.Logger
	cb     Callbacks
	onSave SaveFunc

	channel  string
	network  string
	owner    string
	botNick  string
	oldTopic string

	currentTopic string
	title        string // meeting topic, included in all topics
	meetingName  string

	chairs map[string]bool
	voters map[string]bool

	attendees     map[string]int
	attendeeOrder []string

	lines []string
	items []Item

	round         *voteRound
	votes         []VoteRecord
	votesRequired int

	startTime time.Time
	endTime   time.Time

	started      bool
	over         bool
	aborted      bool
	lurk         bool
	restrictLogs bool
	operator     bool // op flag of the line being processed

	commandRE *regexp.Regexp

	saveRequested bool
}

// NewSession creates a session in the Open state.
func NewSession(opts Options) *Session {
	clk := opts.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	sigil := cfg.CommandSigil
	if sigil == "" {
		sigil = "#"
	}
	return &Session{
		cfg:       cfg,
		clock:     clk,
		logger:    logger,
		cb:        opts.Callbacks,
		onSave:    opts.OnSave,
		channel:   opts.Channel,
		network:   opts.Network,
		owner:     opts.Owner,
		botNick:   opts.BotNick,
		oldTopic:  opts.OldTopic,
		chairs:    make(map[string]bool),
		voters:    make(map[string]bool),
		attendees: make(map[string]int),
		commandRE: regexp.MustCompile(`^` + regexp.QuoteMeta(sigil) + `(\w+)(?:\s+(.*?)|)\s*$`),
	}
}

// AddLine records one conversation line and interprets it: command
// dispatch, implicit link detection, and ballot casting. Exactly one
// transcript entry is appended per call. Pass the zero time to use the
// session clock. No-op once the meeting is over.
func (s *Session) AddLine(nick, text string, isOperator bool, at time.Time) {
	s.mu.Lock()
	if s.over {
		s.mu.Unlock()
		return
	}
	if at.IsZero() {
		at = s.clock.Now()
	}
	text = strings.Trim(text, "\x01") // ACTION framing

	lineNum := s.appendLine(nick, text, at)
	s.operator = isOperator

	// Command lines register the speaker but are not speech; only their
	// payload is eligible as a ballot.
	ballotText := text
	if match := s.commandRE.FindStringSubmatch(text); match != nil {
		ballotText = match[2]
		name := strings.ToLower(match[1])
		if handler, ok := commandHandlers[name]; ok {
			handler(s, commandLine{
				nick:    nick,
				payload: match[2],
				lineNum: lineNum,
				at:      at,
			})
		}
	} else {
		s.addNick(nick, 1)
		if scheme, _, found := strings.Cut(text, "//"); found && urlProtocols[scheme] {
			s.handleLink(commandLine{nick: nick, payload: text, lineNum: lineNum, at: at})
		}
	}

	realtime := !s.saveRequested
	minutes := s.pendingMinutes(realtime)

	if ballotRE.MatchString(ballotText) {
		s.castBallot(nick, ballotText, false)
	}
	s.mu.Unlock()

	if minutes != nil {
		s.onSave(minutes, realtime)
	}
}

// AddRawLine records a transcript entry without interpretation, for
// bot-echo or trusted external logging lines.
func (s *Session) AddRawLine(nick, text string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.over {
		return
	}
	if at.IsZero() {
		at = s.clock.Now()
	}
	s.appendLine(nick, strings.Trim(text, "\x01"), at)
	s.addNick(nick, 1)
}

// CastVote registers a ballot outside the normal line flow, e.g. a
// private-message vote. Private ballots do not appear in the round's
// public cast list.
func (s *Session) CastVote(nick, ballot string, private bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ballotRE.MatchString(ballot) {
		return
	}
	s.castBallot(nick, ballot, private)
}

// appendLine registers the speaker (without crediting speech) and
// appends the formatted transcript line. Caller holds the lock.
// Returns the 1-based line number.
func (s *Session) appendLine(nick, text string, at time.Time) int {
	s.addNick(nick, 0)
	var logLine string
	if rest, ok := strings.CutPrefix(text, "ACTION "); ok {
		logLine = at.Format("15:04") + " * " + nick + " " + strings.TrimLeft(rest, " ")
	} else {
		logLine = at.Format("15:04") + " <" + nick + "> " + text
	}
	s.lines = append(s.lines, logLine)
	return len(s.lines)
}

// addNick credits a nick with spoken lines, registering it on first
// sight. lines is 0 for command lines and roster registrations (#nick,
// #chair, #voters). The bot's own traffic never counts as attendance.
func (s *Session) addNick(nick string, lines int) {
	if nick == s.botNick || nick == "" {
		return
	}
	if _, seen := s.attendees[nick]; !seen {
		s.attendeeOrder = append(s.attendeeOrder, nick)
	}
	s.attendees[nick] += lines
}

// isChair reports whether the nick may use chair-only commands. The
// owner is always an implicit chair; channel operators qualify via the
// per-line operator flag.
func (s *Session) isChair(nick string) bool {
	return nick == s.owner || s.chairs[nick] || s.operator
}

// addItem appends a minute item. Caller holds the lock.
func (s *Session) addItem(item Item) {
	s.items = append(s.items, item)
}

// reply sends to the channel, or logs when lurking or unwired.
func (s *Session) reply(message string) {
	if s.cb.Reply != nil && !s.lurk {
		s.cb.Reply(message)
		return
	}
	s.logger.Debug("reply suppressed", "channel", s.channel, "message", message)
}

// privateReply sends to a single nick, or drops the message when
// lurking or unwired.
func (s *Session) privateReply(nick, message string) {
	if s.cb.PrivateReply != nil && !s.lurk {
		s.cb.PrivateReply(nick, message)
	}
}

// setChannelTopic pushes a topic change when the bot is able to.
func (s *Session) setChannelTopic(topic string) {
	if s.cb.SetTopic != nil && !s.lurk && s.cb.BotIsOp {
		s.cb.SetTopic(topic)
		return
	}
	s.logger.Debug("topic suppressed", "channel", s.channel, "topic", topic)
}

// refreshTopic recomputes the externally visible topic string from the
// session fields and pushes it. Pure function of oldTopic, title and
// currentTopic.
func (s *Session) refreshTopic() {
	var b strings.Builder
	if s.oldTopic != "" {
		b.WriteString(s.oldTopic)
		b.WriteString(" | ")
	}
	if s.title != "" {
		b.WriteString(s.title)
		if !strings.Contains(strings.ToLower(s.title), "meeting") {
			b.WriteString(" meeting")
		}
		b.WriteString(" | Current topic: ")
	}
	b.WriteString(s.currentTopic)
	s.setChannelTopic(b.String())
}

// inPresenceSet reports whether the nick is currently in the channel.
// True when no presence callback is wired (no warning possible).
func (s *Session) inPresenceSet(nick string) bool {
	if s.cb.ChannelNicks == nil {
		return true
	}
	for _, present := range s.cb.ChannelNicks() {
		if present == nick {
			return true
		}
	}
	return false
}

// splitRoster tokenizes a roster payload on commas and whitespace,
// dropping empty tokens.
func splitRoster(payload string) []string {
	return strings.FieldsFunc(payload, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
}

// pendingMinutes builds the view handed to OnSave, or nil when no save
// should happen. Caller holds the lock; the returned view shares
// nothing mutable with the session.
func (s *Session) pendingMinutes(realtime bool) *Minutes {
	if s.onSave == nil || !s.started || s.aborted {
		return nil
	}
	if realtime && !s.cfg.IsRealtime() {
		s.saveRequested = false
		return nil
	}
	s.saveRequested = false
	return s.minutesLocked()
}

// Minutes returns an immutable view of the session for rendering and
// persistence.
func (s *Session) Minutes() *Minutes {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minutesLocked()
}

func (s *Session) minutesLocked() *Minutes {
	m := &Minutes{
		Channel:      s.channel,
		Network:      s.network,
		Owner:        s.owner,
		Title:        s.title,
		MeetingName:  s.meetingName,
		TimeZone:     s.cfg.TimeZone,
		InfoURL:      s.cfg.InfoURL,
		Version:      version.Version,
		StartTime:    s.startTime,
		EndTime:      s.endTime,
		Started:      s.started,
		Over:         s.over,
		RestrictLogs: s.restrictLogs,
		MoinFullLogs: s.cfg.MoinFullLogs,
		Lines:        append([]string(nil), s.lines...),
		Items:        append([]Item(nil), s.items...),
		Votes:        make([]VoteRecord, len(s.votes)),
	}
	for i, record := range s.votes {
		m.Votes[i] = record
		m.Votes[i].PublicVoters = append([]string(nil), record.PublicVoters...)
	}
	for _, nick := range s.attendeeOrder {
		m.Attendees = append(m.Attendees, Attendee{Nick: nick, Lines: s.attendees[nick]})
	}
	stem := s.cfg.PathStem(s.channel, s.network, s.meetingName, s.startTime)
	m.PathStem = stem
	m.URLStem = s.cfg.URLStem(stem)
	return m
}

// Attendee is one registered nick with its attributed line count.
// Registration order is preserved for stable tie-breaking.
type Attendee struct {
	Nick  string `cbor:"nick"`
	Lines int    `cbor:"lines"`
}

// Minutes is the read-only session view consumed by the render
// pipeline, the output writer and the snapshot store. It shares no
// mutable state with the session that produced it.
type Minutes struct {
	Channel      string
	Network      string
	Owner        string
	Title        string
	MeetingName  string
	TimeZone     string
	InfoURL      string
	Version      string
	StartTime    time.Time
	EndTime      time.Time
	Started      bool
	Over         bool
	RestrictLogs bool
	MoinFullLogs bool
	Lines        []string
	Items        []Item
	Attendees    []Attendee
	Votes        []VoteRecord

	// PathStem is the per-meeting file stem relative to the log
	// directory; URLStem is its public URL form.
	PathStem string
	URLStem  string
}

// PageTitle derives the document title from the channel and the
// meeting title, appending "meeting" unless the title already
// contains the word.
func (m *Minutes) PageTitle() string {
	if m.Title == "" {
		return m.Channel + " meeting"
	}
	title := m.Channel + ": " + m.Title
	if !strings.Contains(strings.ToLower(m.Title), "meeting") {
		title += " meeting"
	}
	return title
}

// LogHTMLName is the relative filename of the published highlighted
// transcript, used for in-document cross references.
func (m *Minutes) LogHTMLName() string {
	return path.Base(m.PathStem) + ".log.html"
}

// LogHTMLURL is the absolute URL of the published highlighted
// transcript.
func (m *Minutes) LogHTMLURL() string {
	return m.URLStem + ".log.html"
}

// IsOver reports whether the meeting has ended or been aborted.
func (s *Session) IsOver() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.over
}

// Channel returns the session's channel key component.
func (s *Session) Channel() string { return s.channel }

// Network returns the session's network key component.
func (s *Session) Network() string { return s.network }

// StartTime returns the meeting start time (zero until started).
func (s *Session) StartTime() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startTime
}
