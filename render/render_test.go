// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"
	"testing"
	"time"

	"github.com/hellomouse/meetingology/lib/config"
	"github.com/hellomouse/meetingology/meeting"
)

// minutesFixture builds a small but representative meeting: a
// prologue item, two topics, a subtopic with a child, actions for
// attribution, and a recorded vote.
func minutesFixture() *meeting.Minutes {
	start := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	item := func(kind meeting.Kind, nick, text string, line int) meeting.Item {
		return meeting.Item{
			Kind:    kind,
			Nick:    nick,
			LineNum: line,
			Time:    "10:0" + string(rune('0'+line%10)),
			Text:    text,
		}
	}
	return &meeting.Minutes{
		Channel:   "#infra",
		Network:   "libera",
		Owner:     "alice",
		Title:     "infra sync",
		TimeZone:  "UTC",
		InfoURL:   "https://wiki.example.org/meetingology",
		Version:   "0.2.0-test",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
		Started:   true,
		Over:      true,
		Lines: []string{
			"10:00 <alice> #startmeeting infra sync",
			"10:01 <alice> #info early note",
			"10:02 <alice> #topic backups",
			"10:03 <bob> #action bob checks the tapes",
			"10:04 <alice> #subtopic offsite",
			"10:05 <carol> #action ship drives to the vault",
			"10:06 <alice> #topic upgrades",
			"10:07 <bob> https://example.org/plan the plan",
			"10:08 <alice> #endmeeting",
		},
		Items: []meeting.Item{
			item(meeting.KindInfo, "alice", "early note", 2),
			item(meeting.KindTopic, "alice", "backups", 3),
			item(meeting.KindAction, "bob", "bob checks the tapes", 4),
			item(meeting.KindSubtopic, "alice", "offsite", 5),
			item(meeting.KindAction, "carol", "ship drives to the vault", 6),
			item(meeting.KindTopic, "alice", "upgrades", 7),
			{Kind: meeting.KindLink, Nick: "bob", LineNum: 8, Time: "10:07",
				URL: "https://example.org/plan", Text: "the plan"},
		},
		Attendees: []meeting.Attendee{
			{Nick: "alice", Lines: 6},
			{Nick: "bob", Lines: 2},
			{Nick: "carol", Lines: 1},
		},
		Votes: []meeting.VoteRecord{{
			Proposal:     "buy more tapes",
			Summary:      "Motion carried (For: 2, Against: 0, Abstained: 1)",
			StartLine:    5,
			PublicVoters: []string{"bob", "carol", "bob"},
		}},
		PathStem: "#infra/2026/#infra.2026-08-28-10.00",
		URLStem:  "https://meetbot.example.org/#infra/2026/#infra.2026-08-28-10.00",
	}
}

func TestPipelineOrder(t *testing.T) {
	cfg := config.Default()
	pipeline, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := pipeline.Render(minutesFixture())
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != len(cfg.Outputs) {
		t.Fatalf("got %d documents, want %d", len(docs), len(cfg.Outputs))
	}
	if docs[0].Name != "log.txt" {
		t.Fatalf("first document = %s, want log.txt", docs[0].Name)
	}
	for _, doc := range docs {
		if doc.Content == "" {
			t.Errorf("%s rendered empty", doc.Name)
		}
	}
}

func TestPipelineRejectsUnknownOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Outputs = []string{"log.txt", "pdf"}
	if _, err := New(cfg); err == nil {
		t.Fatal("unknown output accepted")
	}
}

func TestRawLogFirstEvenWhenDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Outputs = []string{"txt"}
	pipeline, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	docs, err := pipeline.Render(minutesFixture())
	if err != nil {
		t.Fatal(err)
	}
	if docs[0].Name != "log.txt" {
		t.Fatalf("first document = %s", docs[0].Name)
	}
}

func TestRawLog(t *testing.T) {
	m := minutesFixture()
	content, err := rawLog{}.Render(m)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if len(lines) != len(m.Lines) {
		t.Fatalf("got %d lines, want %d", len(lines), len(m.Lines))
	}
	if lines[0] != m.Lines[0] {
		t.Errorf("line 1 = %q", lines[0])
	}
}

func TestPlainText(t *testing.T) {
	content, err := plainText{}.Render(minutesFixture())
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"#infra: infra sync meeting",
		"Meeting started by alice at 10:00:00 UTC.",
		"Meeting summary",
		"* Prologue",
		"  * early note  (alice, 10:02)",
		"* backups  (alice, 10:03)",
		"  * ACTION: bob checks the tapes  (bob, 10:04)",
		"  * offsite  (alice, 10:05)",
		"    * ACTION: ship drives to the vault  (carol, 10:06)",
		"Meeting ended at 10:30:00 UTC.",
		"Motion carried (For: 2, Against: 0, Abstained: 1)",
		"Action items, by person",
		"People present (lines said)",
		"* alice (6)",
		"Generated by Meetingology 0.2.0-test",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("text output missing %q\n%s", want, content)
		}
	}
}
