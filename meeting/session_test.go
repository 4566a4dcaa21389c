// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import (
	"strings"
	"testing"
	"time"

	"github.com/hellomouse/meetingology/lib/clock"
	"github.com/hellomouse/meetingology/lib/config"
)

// testEnv wraps a session with captured channel traffic.
type testEnv struct {
	s       *Session
	clock   *clock.Fake
	replies []string
	topics  []string
	saves   []*Minutes
}

func newTestSession(t *testing.T, opts Options) *testEnv {
	t.Helper()
	env := &testEnv{
		clock: clock.NewFake(time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)),
	}
	if opts.Channel == "" {
		opts.Channel = "#test"
	}
	if opts.Network == "" {
		opts.Network = "testnet"
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	opts.Clock = env.clock
	opts.Callbacks = Callbacks{
		Reply:    func(msg string) { env.replies = append(env.replies, msg) },
		SetTopic: func(topic string) { env.topics = append(env.topics, topic) },
		BotIsOp:  true,
	}
	opts.OnSave = func(m *Minutes, realtime bool) { env.saves = append(env.saves, m) }
	env.s = NewSession(opts)
	return env
}

// say feeds a line at the fake clock's current time and advances it a
// minute.
func (env *testEnv) say(nick, text string) {
	env.s.AddLine(nick, text, false, env.clock.Now())
	env.clock.Advance(time.Minute)
}

func (env *testEnv) hasReply(t *testing.T, substr string) {
	t.Helper()
	for _, reply := range env.replies {
		if strings.Contains(reply, substr) {
			return
		}
	}
	t.Fatalf("no reply containing %q in %q", substr, env.replies)
}

func (env *testEnv) noReply(t *testing.T, substr string) {
	t.Helper()
	for _, reply := range env.replies {
		if strings.Contains(reply, substr) {
			t.Fatalf("unexpected reply containing %q: %q", substr, reply)
		}
	}
}

func TestTranscriptNumbering(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")
	env.say("bob", "hello")
	env.say("carol", "ACTION waves")

	m := env.s.Minutes()
	if len(m.Lines) != 3 {
		t.Fatalf("expected 3 transcript lines, got %d", len(m.Lines))
	}
	if m.Lines[0] != "10:00 <alice> #startmeeting" {
		t.Errorf("line 1 = %q", m.Lines[0])
	}
	if m.Lines[1] != "10:01 <bob> hello" {
		t.Errorf("line 2 = %q", m.Lines[1])
	}
	if m.Lines[2] != "10:02 * carol waves" {
		t.Errorf("action line = %q", m.Lines[2])
	}
}

func TestStartAndEndMeeting(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting weekly sync")
	env.hasReply(t, "Meeting started at 10:00:00 UTC")
	env.hasReply(t, "The chair is alice")

	m := env.s.Minutes()
	if !m.Started {
		t.Fatal("meeting not started")
	}
	if m.Title != "weekly sync" {
		t.Errorf("title = %q", m.Title)
	}

	env.say("alice", "#startmeeting again")
	env.hasReply(t, "Can't start another meeting")

	env.say("alice", "#endmeeting")
	env.hasReply(t, "Meeting ended at")
	if !env.s.IsOver() {
		t.Fatal("meeting not over")
	}

	// Lines after the end are dropped entirely.
	env.say("bob", "too late")
	if got := len(env.s.Minutes().Lines); got != 3 {
		t.Errorf("expected 3 lines after close, got %d", got)
	}
}

func TestChairPolicy(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")

	t.Run("non-chair command is a silent no-op", func(t *testing.T) {
		before := len(env.replies)
		env.say("mallory", "#topic hijack")
		if got := len(env.s.Minutes().Items); got != 0 {
			t.Fatalf("expected no items, got %d", got)
		}
		if len(env.replies) != before {
			t.Fatalf("unexpected replies: %q", env.replies[before:])
		}
		// The line itself still lands in the transcript.
		if got := len(env.s.Minutes().Lines); got != 2 {
			t.Fatalf("expected 2 lines, got %d", got)
		}
	})

	t.Run("owner may set topics", func(t *testing.T) {
		env.say("alice", "#topic planning")
		items := env.s.Minutes().Items
		if len(items) != 1 || items[0].Kind != KindTopic || items[0].Text != "planning" {
			t.Fatalf("items = %+v", items)
		}
	})

	t.Run("chair grant extends the set", func(t *testing.T) {
		env.say("alice", "#chair bob, carol")
		env.hasReply(t, "Current chairs: alice bob carol")
		env.say("bob", "#topic bob's topic")
		items := env.s.Minutes().Items
		if items[len(items)-1].Text != "bob's topic" {
			t.Fatalf("bob's topic missing: %+v", items)
		}
	})

	t.Run("operator flag qualifies", func(t *testing.T) {
		env.s.AddLine("opnick", "#topic op topic", true, env.clock.Now())
		items := env.s.Minutes().Items
		if items[len(items)-1].Text != "op topic" {
			t.Fatalf("operator topic missing: %+v", items)
		}
	})

	t.Run("unchair revokes", func(t *testing.T) {
		env.say("alice", "#unchair bob")
		before := len(env.s.Minutes().Items)
		env.say("bob", "#topic not anymore")
		if got := len(env.s.Minutes().Items); got != before {
			t.Fatalf("revoked chair added an item")
		}
	})
}

func TestAnyoneItems(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")
	env.say("bob", "#action bob will file the report")
	env.say("carol", "#idea ship it")
	env.say("dave", "#info builds are green")
	env.say("erin", "#halp need reviewers")

	kinds := []Kind{}
	for _, item := range env.s.Minutes().Items {
		kinds = append(kinds, item.Kind)
	}
	want := []Kind{KindAction, KindIdea, KindInfo, KindHelp}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("item %d kind = %v, want %v", i, kinds[i], want[i])
		}
	}
	env.hasReply(t, "ACTION: bob will file the report")
}

func TestImplicitLink(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")
	env.say("bob", "https://example.org/spec the draft")
	env.say("carol", "ftp://mirror.example.org/iso")
	env.say("dave", "nothing://to/see")
	env.say("erin", "see https://example.org later") // not at line start

	items := env.s.Minutes().Items
	if len(items) != 2 {
		t.Fatalf("expected 2 link items, got %+v", items)
	}
	if items[0].URL != "https://example.org/spec" || items[0].Text != "the draft" {
		t.Errorf("link split = %q / %q", items[0].URL, items[0].Text)
	}
	if items[1].URL != "ftp://mirror.example.org/iso" || items[1].Text != "" {
		t.Errorf("bare link = %q / %q", items[1].URL, items[1].Text)
	}
}

func TestUndo(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")
	env.say("alice", "#topic one")
	env.say("alice", "#info keep me")
	env.say("alice", "#undo")
	env.hasReply(t, "Removing item from minutes: INFO")

	items := env.s.Minutes().Items
	if len(items) != 1 || items[0].Kind != KindTopic {
		t.Fatalf("items after undo = %+v", items)
	}

	// Undo on an empty list stays silent.
	env.say("alice", "#undo")
	env.say("alice", "#undo")
	if got := len(env.s.Minutes().Items); got != 0 {
		t.Fatalf("items = %d", got)
	}
}

func TestMeetingName(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")
	env.say("alice", "#meetingname Release Planning Board")
	env.hasReply(t, "The meeting name has been set to 'release_planning_board'")
	if got := env.s.Minutes().MeetingName; got != "release_planning_board" {
		t.Errorf("meeting name = %q", got)
	}
}

func TestAttendance(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice", BotNick: "meetbot"})
	env.say("alice", "#startmeeting")
	env.say("alice", "morning all")
	env.say("bob", "hi")
	env.say("bob", "hi again")
	env.say("meetbot", "I am the bot")
	env.say("alice", "#nick lurker")

	m := env.s.Minutes()
	counts := map[string]int{}
	for _, a := range m.Attendees {
		counts[a.Nick] = a.Lines
	}
	// Command lines register their author but do not count as speech:
	// alice's #startmeeting and #nick leave her at one spoken line.
	if counts["alice"] != 1 || counts["bob"] != 2 {
		t.Errorf("counts = %v", counts)
	}
	if got, ok := counts["lurker"]; !ok || got != 0 {
		t.Errorf("lurker count = %d, registered=%v", got, ok)
	}
	if _, ok := counts["meetbot"]; ok {
		t.Error("bot nick counted as attendee")
	}
}

func TestCommandsList(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")
	env.say("bob", "#commands")
	env.hasReply(t, "Available commands: abortmeeting accept accepted action "+
		"agree agreed chair commands done endmeeting endvote halp help idea "+
		"info link lurk meetingname meetingtopic nick progress reject rejected "+
		"restrictlogs save startmeeting subtopic topic unchair undo unlurk "+
		"vote voters votesrequired")
}

func TestTopicRecomputation(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice", OldTopic: "general chat"})
	env.say("alice", "#startmeeting")
	env.say("alice", "#meetingtopic Quarterly Review")
	env.say("alice", "#topic budget")

	last := env.topics[len(env.topics)-1]
	want := "general chat | Quarterly Review meeting | Current topic: budget"
	if last != want {
		t.Errorf("topic = %q, want %q", last, want)
	}

	env.say("alice", "#endmeeting")
	if got := env.topics[len(env.topics)-1]; got != "general chat" {
		t.Errorf("topic after end = %q", got)
	}
}

func TestAbortMeeting(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice", OldTopic: "general chat"})
	env.say("alice", "#startmeeting")
	env.say("alice", "#topic doomed")

	env.say("bob", "#abortmeeting") // not a chair
	env.noReply(t, "without saving")
	saves := len(env.saves)

	env.say("alice", "#abortmeeting")
	env.hasReply(t, "Meeting ended without saving its logs")
	if !env.s.IsOver() {
		t.Fatal("meeting not over after abort")
	}
	if got := env.topics[len(env.topics)-1]; got != "general chat" {
		t.Errorf("topic after abort = %q", got)
	}
	if len(env.saves) != saves {
		t.Errorf("abort triggered %d saves", len(env.saves)-saves)
	}
}

func TestSaveHook(t *testing.T) {
	env := newTestSession(t, Options{Owner: "alice"})
	env.say("alice", "#startmeeting")
	if len(env.saves) == 0 {
		t.Fatal("no realtime save after start")
	}
	env.say("alice", "#topic t")
	env.say("alice", "#endmeeting")

	final := env.saves[len(env.saves)-1]
	if !final.Over {
		t.Error("final save not marked over")
	}
	if final.PathStem == "" {
		t.Error("final save missing path stem")
	}

	// The view is a snapshot: later activity must not leak into it.
	lines := len(final.Lines)
	env.s.AddRawLine("x", "y", time.Time{})
	if len(final.Lines) != lines {
		t.Error("minutes view aliased session state")
	}
}
