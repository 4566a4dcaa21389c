// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/hellomouse/meetingology/meeting"
)

// markdown renders the minutes as Markdown with reference-style
// links: every item carries a short named reference into the
// published transcript, and the reference definitions collect at the
// document foot. Reference names derive from author nicks via the
// per-pass allocator, so a re-render produces identical output.
type markdown struct{}

func (markdown) Name() string { return "md" }

func (markdown) Render(m *meeting.Minutes) (string, error) {
	var b strings.Builder
	refs := newRefAllocator()

	b.WriteString("# " + escapeMarkdown(m.PageTitle()) + "\n\n")
	b.WriteString(wrapText(
		"Meeting started by "+escapeMarkdown(m.Owner)+" at "+m.StartTime.Format("15:04:05")+
			" "+m.TimeZone+". The full logs are available at <"+m.LogHTMLURL()+">.",
		"", ""))
	b.WriteString("\n\n")

	b.WriteString("## Meeting summary\n\n")
	for _, section := range summarize(m.Items) {
		if section.topic != nil {
			b.WriteString(wrapItem(markdownItemBody(*section.topic, m, refs), 0) + "\n")
		} else {
			b.WriteString(wrapItem("**"+prologueLabel+"**", 0) + "\n")
		}
		for _, node := range section.nodes {
			b.WriteString(wrapItem(markdownItemBody(node.item, m, refs), 2) + "\n")
			for _, child := range node.children {
				b.WriteString(wrapItem(markdownItemBody(child, m, refs), 4) + "\n")
			}
		}
	}
	b.WriteString("\n")

	if !m.EndTime.IsZero() {
		b.WriteString("Meeting ended at " + m.EndTime.Format("15:04:05") + " " + m.TimeZone + ".\n\n")
	}

	if len(m.Votes) > 0 {
		b.WriteString("## Vote results\n\n")
		for _, vote := range m.Votes {
			b.WriteString(wrapItem(escapeMarkdown(vote.Proposal)+" -- "+escapeMarkdown(vote.Summary), 0) + "\n")
			if len(vote.PublicVoters) > 0 {
				b.WriteString(wrapItem("Voters: "+escapeMarkdown(strings.Join(vote.PublicVoters, ", ")), 2) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Action items\n\n")
	actions := actionItems(m)
	if len(actions) == 0 {
		b.WriteString("* (none)\n")
	}
	for _, item := range actions {
		b.WriteString(wrapItem(escapeMarkdown(item.Text), 0) + "\n")
	}
	b.WriteString("\n")

	if groups := attributeActions(m); len(groups) > 0 {
		b.WriteString("## Action items, by person\n\n")
		for _, group := range groups {
			b.WriteString(wrapItem(escapeMarkdown(group.Nick), 0) + "\n")
			for _, item := range group.Items {
				b.WriteString(wrapItem(escapeMarkdown(item.Text), 2) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## People present (lines said)\n\n")
	for i, a := range presentByActivity(m) {
		b.WriteString(strconv.Itoa(i+1) + ". " + escapeMarkdown(a.Nick) + " (" + strconv.Itoa(a.Lines) + ")\n")
	}
	b.WriteString("\n")

	b.WriteString("Generated by Meetingology " + m.Version + "\n")

	if len(refs.refs) > 0 {
		b.WriteString("\n")
		for _, ref := range refs.refs {
			b.WriteString("[" + ref.name + "]: " + ref.target + "\n")
		}
	}
	return b.String(), nil
}

// markdownItemBody formats one item with its transcript reference.
func markdownItemBody(item meeting.Item, m *meeting.Minutes, refs *refAllocator) string {
	name := refs.allocate(item.Nick, item.Time, m.LogHTMLName()+"#"+item.Anchor())
	ref := "  ([" + name + "])"
	switch item.Kind {
	case meeting.KindTopic:
		return "**" + escapeMarkdown(item.Text) + "**" + ref
	case meeting.KindSubtopic:
		return "*" + escapeMarkdown(item.Text) + "*" + ref
	case meeting.KindInfo:
		return escapeMarkdown(item.Text) + ref
	case meeting.KindLink:
		body := "<" + item.URL + ">"
		if item.Text != "" {
			body += " " + escapeMarkdown(item.Text)
		}
		return body + ref
	default:
		return "*" + item.Kind.String() + "*: " + escapeMarkdown(item.Text) + ref
	}
}

// markdownHTML converts the Markdown minutes to a standalone HTML
// page.
type markdownHTML struct {
	once sync.Once
	md   goldmark.Markdown
}

func (*markdownHTML) Name() string { return "md.html" }

func (r *markdownHTML) Render(m *meeting.Minutes) (string, error) {
	r.once.Do(func() {
		r.md = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})

	source, err := markdown{}.Render(m)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return htmlPage(m.PageTitle(), buf.String()), nil
}
