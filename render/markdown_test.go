// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"
	"testing"

	"github.com/hellomouse/meetingology/meeting"
)

func TestMarkdown(t *testing.T) {
	content, err := markdown{}.Render(minutesFixture())
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		"# #infra: infra sync meeting",
		"## Meeting summary",
		"* **backups**  ([alice-10:03])",
		"* **Prologue**",
		"## Action items, by person",
		"## People present (lines said)",
		"1. alice (6)",
		"[alice-10:02]: #infra.2026-08-28-10.00.log.html#l-2",
		"[alice-10:03]: #infra.2026-08-28-10.00.log.html#l-3",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("markdown missing %q\n%s", want, content)
		}
	}

	// Reference definitions live at the foot, after the generator
	// line.
	if strings.Index(content, "Generated by Meetingology") > strings.Index(content, "[alice-10:02]:") {
		t.Error("reference definitions precede the footer")
	}
}

func TestMarkdownCollidingReferences(t *testing.T) {
	m := minutesFixture()
	// Two items by the same nick in the same minute share a base name
	// and get alphabetic suffixes.
	m.Items = []meeting.Item{
		{Kind: meeting.KindInfo, Nick: "alice", LineNum: 1, Time: "10:00", Text: "one"},
		{Kind: meeting.KindInfo, Nick: "alice", LineNum: 2, Time: "10:00", Text: "two"},
		{Kind: meeting.KindInfo, Nick: "alice", LineNum: 3, Time: "10:00", Text: "three"},
	}
	content, err := markdown{}.Render(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{"[alice-10:00]:", "[alice-10:00a]:", "[alice-10:00b]:"} {
		if !strings.Contains(content, ref) {
			t.Errorf("missing reference definition %s", ref)
		}
	}
}

func TestMarkdownEscaping(t *testing.T) {
	m := minutesFixture()
	m.Items = []meeting.Item{{
		Kind: meeting.KindInfo, Nick: "alice", LineNum: 1, Time: "10:00",
		Text: "watch *out* for _markup_",
	}}
	content, err := markdown{}.Render(m)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(content, `watch \*out\* for \_markup\_`) {
		t.Errorf("markup not escaped:\n%s", content)
	}
}

func TestMarkdownHTML(t *testing.T) {
	r := &markdownHTML{}
	content, err := r.Render(minutesFixture())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"<h1>#infra: infra sync meeting</h1>",
		"<h2>Meeting summary</h2>",
		"<strong>backups</strong>",
		`<a href="#infra.2026-08-28-10.00.log.html#l-3">`,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("converted HTML missing %q", want)
		}
	}
}

func TestMediaWiki(t *testing.T) {
	content, err := mediaWiki{}.Render(minutesFixture())
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"== #infra: infra sync meeting ==",
		"* backups  (alice, 10:03)",
		"** ACTION: bob checks the tapes  (bob, 10:04)",
		"*** ACTION: ship drives to the vault  (carol, 10:06)",
		"== People present (lines said) ==",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("mediawiki missing %q", want)
		}
	}
}

func TestMoinMoin(t *testing.T) {
	m := minutesFixture()
	m.MoinFullLogs = true
	content, err := moinMoin{}.Render(m)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"== #infra: infra sync meeting ==",
		"=== backups ===",
		"Discussion started by alice at 10:03.",
		" * '''offsite'''  (alice, 10:05)",
		"== Vote results ==",
		" * buy more tapes",
		"   * Motion carried (For: 2, Against: 0, Abstained: 1)",
		"   * Voters: bob, carol, bob",
		"== Full log ==",
		"{{{",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("moin missing %q", want)
		}
	}

	m.MoinFullLogs = false
	content, err = moinMoin{}.Render(m)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(content, "== Full log ==") {
		t.Error("full log rendered when disabled")
	}
}
