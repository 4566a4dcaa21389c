// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hellomouse/meetingology/lib/version"
)

// commandLine carries one parsed command through its handler.
type commandLine struct {
	nick    string
	payload string
	lineNum int
	at      time.Time
}

type handlerFunc func(s *Session, c commandLine)

// commandHandlers maps command names (lowercased, sigil stripped) to
// handlers. Aliases share the canonical handler. Unknown commands are
// plain conversation and get no entry here. Populated in init because
// handleCommands enumerates the map.
var commandHandlers map[string]handlerFunc

func init() {
	commandHandlers = map[string]handlerFunc{
		"startmeeting":  (*Session).handleStartMeeting,
		"endmeeting":    (*Session).handleEndMeeting,
		"abortmeeting":  (*Session).handleAbortMeeting,
		"topic":         (*Session).handleTopic,
		"subtopic":      (*Session).handleSubtopic,
		"progress":      (*Session).handleSubtopic,
		"meetingtopic":  (*Session).handleMeetingTopic,
		"meetingname":   (*Session).handleMeetingName,
		"save":          (*Session).handleSave,
		"agreed":        (*Session).handleAgreed,
		"agree":         (*Session).handleAgreed,
		"accepted":      (*Session).handleAccepted,
		"accept":        (*Session).handleAccepted,
		"rejected":      (*Session).handleRejected,
		"reject":        (*Session).handleRejected,
		"done":          (*Session).handleDone,
		"action":        (*Session).handleAction,
		"info":          (*Session).handleInfo,
		"idea":          (*Session).handleIdea,
		"help":          (*Session).handleHelp,
		"halp":          (*Session).handleHelp,
		"link":          (*Session).handleLink,
		"nick":          (*Session).handleNick,
		"chair":         (*Session).handleChair,
		"unchair":       (*Session).handleUnchair,
		"undo":          (*Session).handleUndo,
		"vote":          (*Session).handleVote,
		"votesrequired": (*Session).handleVotesRequired,
		"endvote":       (*Session).handleEndVote,
		"voters":        (*Session).handleVoters,
		"restrictlogs":  (*Session).handleRestrictLogs,
		"lurk":          (*Session).handleLurk,
		"unlurk":        (*Session).handleUnlurk,
		"commands":      (*Session).handleCommands,
	}
}

// Channel message templates. %(name)s tokens are filled from the
// session's replacement map; lines are sent as separate messages.
const (
	startMeetingMessage = "Meeting started at %(starttime)s %(timezone)s. " +
		"The chair is %(chair)s. Information about MeetBot at %(infourl)s\n" +
		"Available commands: action, commands, idea, info, link, nick"

	endMeetingMessage = "Meeting ended at %(endtime)s %(timezone)s. " +
		"Information about MeetBot at %(infourl)s (v %(version)s)\n" +
		"Minutes:        %(urlbasename)s.html\n" +
		"Minutes (text): %(urlbasename)s.txt\n" +
		"Log:            %(urlbasename)s.log.html"

	voteInstructions = "Public votes can be registered by saying +1, -1 or +0 in channel " +
		"(for private voting, private message me with 'vote +1|-1|+0 #channelname')"

	chairCommandList = "Commands for chairs: action agreed accepted chair endmeeting " +
		"endvote info idea link lurk meetingname meetingtopic nick rejected " +
		"restrictlogs save subtopic topic unchair undo unlurk vote voters votesrequired"
)

// replacements builds the token map for channel message templates.
// Caller holds the lock.
func (s *Session) replacements() map[string]string {
	chair := s.owner
	if chair == "" {
		chair = "(unknown)"
	}
	return map[string]string{
		"chair":       chair,
		"channel":     s.channel,
		"starttime":   s.startTime.Format("15:04:05"),
		"endtime":     s.endTime.Format("15:04:05"),
		"timezone":    s.cfg.TimeZone,
		"infourl":     s.cfg.InfoURL,
		"urlbasename": s.cfg.URLStem(s.cfg.PathStem(s.channel, s.network, s.meetingName, s.startTime)),
		"version":     version.Version,
	}
}

// expandMessage substitutes %(name)s tokens from the replacement map.
// Unknown tokens pass through unchanged.
func expandMessage(template string, repl map[string]string) string {
	for name, value := range repl {
		template = strings.ReplaceAll(template, "%("+name+")s", value)
	}
	return template
}

// replyTemplate expands a multi-line template and sends each line.
func (s *Session) replyTemplate(template string) {
	expanded := expandMessage(template, s.replacements())
	for _, line := range strings.Split(expanded, "\n") {
		s.reply(line)
	}
}

func (s *Session) handleStartMeeting(c commandLine) {
	if s.started {
		s.reply("Can't start another meeting, one is in progress.")
		return
	}
	s.started = true
	s.startTime = c.at
	if s.owner == "" {
		s.owner = c.nick
	}
	s.replyTemplate(startMeetingMessage)
	s.privateReply(s.owner, chairCommandList)
	if c.payload != "" {
		s.handleMeetingTopic(c)
	}
}

func (s *Session) handleEndMeeting(c commandLine) {
	if !s.isChair(c.nick) || !s.started {
		return
	}
	if s.round != nil {
		s.closeRound(c)
	}
	s.endTime = c.at
	s.over = true
	s.setChannelTopic(s.oldTopic)
	s.replyTemplate(endMeetingMessage)
	urlStem := s.cfg.URLStem(s.cfg.PathStem(s.channel, s.network, s.meetingName, s.startTime))
	for _, nick := range s.cfg.EndNotifyNicks {
		s.privateReply(nick, fmt.Sprintf("Meeting in %s ended: %s.html", s.channel, urlStem))
	}
	s.saveRequested = true
}

// handleAbortMeeting ends the meeting without publishing anything:
// any open vote is discarded and no save happens for this or any
// later line.
func (s *Session) handleAbortMeeting(c commandLine) {
	if !s.isChair(c.nick) || !s.started {
		return
	}
	s.round = nil
	s.endTime = c.at
	s.over = true
	s.aborted = true
	s.setChannelTopic(s.oldTopic)
	s.reply("Meeting ended without saving its logs")
}

func (s *Session) handleTopic(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	s.currentTopic = c.payload
	s.addItem(newItem(KindTopic, c.nick, c.payload, c.lineNum, c.at))
	s.refreshTopic()
}

func (s *Session) handleSubtopic(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	s.addItem(newItem(KindSubtopic, c.nick, c.payload, c.lineNum, c.at))
}

func (s *Session) handleMeetingTopic(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	switch strings.ToLower(c.payload) {
	case "", "none", "unset":
		s.title = ""
	default:
		s.title = c.payload
	}
	s.refreshTopic()
}

func (s *Session) handleMeetingName(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	name := strings.ReplaceAll(c.payload, "/", "")
	s.meetingName = strings.ToLower(strings.Join(strings.Fields(name), "_"))
	s.reply(fmt.Sprintf("The meeting name has been set to '%s'", s.meetingName))
}

func (s *Session) handleSave(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	s.endTime = c.at
	s.saveRequested = true
}

func (s *Session) handleAgreed(c commandLine) {
	s.chairItem(KindAgreed, c)
}

func (s *Session) handleAccepted(c commandLine) {
	s.chairItem(KindAccepted, c)
}

func (s *Session) handleRejected(c commandLine) {
	s.chairItem(KindRejected, c)
}

func (s *Session) handleDone(c commandLine) {
	s.chairItem(KindDone, c)
}

// chairItem records a chair-only decision item and echoes it.
func (s *Session) chairItem(kind Kind, c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	s.addItem(newItem(kind, c.nick, c.payload, c.lineNum, c.at))
	if s.cfg.IsNoisy() {
		s.reply(kind.String() + ": " + c.payload)
	}
}

func (s *Session) handleAction(c commandLine) {
	s.addItem(newItem(KindAction, c.nick, c.payload, c.lineNum, c.at))
	if s.cfg.IsNoisy() {
		s.reply("ACTION: " + c.payload)
	}
}

func (s *Session) handleInfo(c commandLine) {
	s.addItem(newItem(KindInfo, c.nick, c.payload, c.lineNum, c.at))
}

func (s *Session) handleIdea(c commandLine) {
	s.addItem(newItem(KindIdea, c.nick, c.payload, c.lineNum, c.at))
	if s.cfg.IsNoisy() {
		s.reply("IDEA: " + c.payload)
	}
}

func (s *Session) handleHelp(c commandLine) {
	s.addItem(newItem(KindHelp, c.nick, c.payload, c.lineNum, c.at))
	if s.cfg.IsNoisy() {
		s.reply("HELP: " + c.payload)
	}
}

func (s *Session) handleLink(c commandLine) {
	s.addItem(newItem(KindLink, c.nick, c.payload, c.lineNum, c.at))
}

func (s *Session) handleNick(c commandLine) {
	for _, nick := range splitRoster(c.payload) {
		s.addNick(nick, 0)
	}
}

func (s *Session) handleChair(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	for _, nick := range splitRoster(c.payload) {
		if !s.inPresenceSet(nick) {
			s.reply(fmt.Sprintf("Warning: '%s' not in channel", nick))
		}
		s.addNick(nick, 0)
		if !s.chairs[nick] {
			s.chairs[nick] = true
			s.privateReply(nick, chairCommandList)
		}
	}
	s.replyChairs()
}

func (s *Session) handleUnchair(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	for _, nick := range splitRoster(c.payload) {
		delete(s.chairs, nick)
	}
	s.replyChairs()
}

// replyChairs announces the current chair set, owner included.
func (s *Session) replyChairs() {
	set := map[string]bool{s.owner: true}
	for nick := range s.chairs {
		set[nick] = true
	}
	chairs := make([]string, 0, len(set))
	for nick := range set {
		chairs = append(chairs, nick)
	}
	sort.Strings(chairs)
	s.reply("Current chairs: " + strings.Join(chairs, " "))
}

func (s *Session) handleUndo(c commandLine) {
	if !s.isChair(c.nick) || len(s.items) == 0 {
		return
	}
	last := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	s.reply(fmt.Sprintf("Removing item from minutes: %s", last.Kind))
}

func (s *Session) handleVote(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	if s.round != nil {
		s.reply("Voting still open on: " + s.round.proposal)
		return
	}
	s.round = &voteRound{
		proposal:  c.payload,
		ballots:   make(map[string]string),
		startLine: len(s.lines),
	}
	s.reply("Please vote on: " + c.payload)
	s.reply(voteInstructions)
}

func (s *Session) handleVotesRequired(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(c.payload))
	if err != nil {
		n = 0
	}
	s.votesRequired = n
	s.reply(fmt.Sprintf("Votes now need %d to be passed", n))
}

func (s *Session) handleEndVote(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	if s.round == nil {
		s.reply("No vote in progress")
		return
	}
	s.closeRound(c)
}

func (s *Session) handleVoters(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	tokens := splitRoster(c.payload)
	for _, token := range tokens {
		switch strings.ToLower(token) {
		case "everyone", "everybody", "all":
			s.voters = make(map[string]bool)
			s.reply("Everyone can now vote")
			return
		}
	}
	for _, nick := range tokens {
		s.voters[nick] = true
		s.addNick(nick, 0)
	}
	voters := make([]string, 0, len(s.voters))
	for nick := range s.voters {
		voters = append(voters, nick)
	}
	sort.Strings(voters)
	s.reply("Current voters: " + strings.Join(voters, " "))
}

func (s *Session) handleRestrictLogs(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	s.restrictLogs = true
}

func (s *Session) handleLurk(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	s.lurk = true
}

func (s *Session) handleUnlurk(c commandLine) {
	if !s.isChair(c.nick) {
		return
	}
	s.lurk = false
}

func (s *Session) handleCommands(c commandLine) {
	names := make([]string, 0, len(commandHandlers))
	for name := range commandHandlers {
		names = append(names, name)
	}
	sort.Strings(names)
	s.reply("Available commands: " + strings.Join(names, " "))
}
