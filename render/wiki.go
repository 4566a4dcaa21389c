// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strconv"
	"strings"

	"github.com/hellomouse/meetingology/meeting"
)

// mediaWiki renders the minutes as MediaWiki markup.
type mediaWiki struct{}

func (mediaWiki) Name() string { return "mw.txt" }

func (mediaWiki) Render(m *meeting.Minutes) (string, error) {
	var b strings.Builder

	b.WriteString("== " + m.PageTitle() + " ==\n\n")
	b.WriteString("Meeting started by " + m.Owner + " at " + m.StartTime.Format("15:04:05") +
		" " + m.TimeZone + ". The full logs are available at " + m.LogHTMLURL() + " .\n\n")

	b.WriteString("== Meeting summary ==\n")
	for _, section := range summarize(m.Items) {
		if section.topic != nil {
			b.WriteString("* " + textItemBody(*section.topic) + "\n")
		} else {
			b.WriteString("* " + prologueLabel + "\n")
		}
		for _, node := range section.nodes {
			b.WriteString("** " + textItemBody(node.item) + "\n")
			for _, child := range node.children {
				b.WriteString("*** " + textItemBody(child) + "\n")
			}
		}
	}
	b.WriteString("\n")

	if !m.EndTime.IsZero() {
		b.WriteString("Meeting ended at " + m.EndTime.Format("15:04:05") + " " + m.TimeZone + ".\n\n")
	}

	b.WriteString("== Action items ==\n")
	actions := actionItems(m)
	if len(actions) == 0 {
		b.WriteString("* (none)\n")
	}
	for _, item := range actions {
		b.WriteString("* " + item.Text + "\n")
	}
	b.WriteString("\n")

	if groups := attributeActions(m); len(groups) > 0 {
		b.WriteString("== Action items, by person ==\n")
		for _, group := range groups {
			b.WriteString("* " + group.Nick + "\n")
			for _, item := range group.Items {
				b.WriteString("** " + item.Text + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("== People present (lines said) ==\n")
	for _, a := range presentByActivity(m) {
		b.WriteString("* " + a.Nick + " (" + strconv.Itoa(a.Lines) + ")\n")
	}
	b.WriteString("\n")

	b.WriteString("Generated by Meetingology " + m.Version + "\n")
	return b.String(), nil
}

// moinMoin renders the minutes as MoinMoin markup. Topics become
// sections of their own; vote rounds and done items get dedicated
// sections, and the full transcript is appended when configured.
type moinMoin struct{}

func (moinMoin) Name() string { return "moin.txt" }

func (moinMoin) Render(m *meeting.Minutes) (string, error) {
	var b strings.Builder

	b.WriteString("== " + m.PageTitle() + " ==\n\n")
	b.WriteString("Meeting started by " + m.Owner + " at " + m.StartTime.Format("15:04:05") +
		" " + m.TimeZone + ". The full logs are available at " + m.LogHTMLURL() + " .\n\n")

	for _, section := range summarize(m.Items) {
		if section.topic != nil {
			b.WriteString("=== " + section.topic.Text + " ===\n\n")
			b.WriteString("Discussion started by " + section.topic.Nick +
				" at " + section.topic.Time + ".\n\n")
		} else {
			b.WriteString("=== " + prologueLabel + " ===\n\n")
		}
		for _, node := range section.nodes {
			if node.item.Kind == meeting.KindSubtopic {
				b.WriteString(" * '''" + node.item.Text + "'''  (" + node.item.Nick +
					", " + node.item.Time + ")\n")
			} else {
				b.WriteString(" * " + textItemBody(node.item) + "\n")
			}
			for _, child := range node.children {
				b.WriteString("   * " + textItemBody(child) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if !m.EndTime.IsZero() {
		b.WriteString("Meeting ended at " + m.EndTime.Format("15:04:05") + " " + m.TimeZone + ".\n\n")
	}

	if len(m.Votes) > 0 {
		b.WriteString("== Vote results ==\n")
		for _, vote := range m.Votes {
			b.WriteString(" * " + vote.Proposal + "\n")
			b.WriteString("   * " + vote.Summary + "\n")
			if len(vote.PublicVoters) > 0 {
				b.WriteString("   * Voters: " + strings.Join(vote.PublicVoters, ", ") + "\n")
			}
		}
		b.WriteString("\n")
	}

	if done := doneItems(m); len(done) > 0 {
		b.WriteString("== Done items ==\n")
		for _, item := range done {
			b.WriteString(" * " + item.Text + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("== Action items ==\n")
	actions := actionItems(m)
	if len(actions) == 0 {
		b.WriteString(" * (none)\n")
	}
	for _, item := range actions {
		b.WriteString(" * " + item.Text + "\n")
	}
	b.WriteString("\n")

	if groups := attributeActions(m); len(groups) > 0 {
		b.WriteString("== Action items, by person ==\n")
		for _, group := range groups {
			b.WriteString(" * " + group.Nick + "\n")
			for _, item := range group.Items {
				b.WriteString("   * " + item.Text + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("== People present (lines said) ==\n")
	for _, a := range presentByActivity(m) {
		b.WriteString(" * " + a.Nick + " (" + strconv.Itoa(a.Lines) + ")\n")
	}
	b.WriteString("\n")

	if m.MoinFullLogs && len(m.Lines) > 0 {
		b.WriteString("== Full log ==\n\n{{{\n")
		b.WriteString(strings.Join(m.Lines, "\n"))
		b.WriteString("\n}}}\n\n")
	}

	b.WriteString("Generated by Meetingology " + m.Version + "\n")
	return b.String(), nil
}

// doneItems returns the DONE items in minute order.
func doneItems(m *meeting.Minutes) []meeting.Item {
	var done []meeting.Item
	for _, item := range m.Items {
		if item.Kind == meeting.KindDone {
			done = append(done, item)
		}
	}
	return done
}
