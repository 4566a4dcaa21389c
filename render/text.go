// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strconv"
	"strings"

	"github.com/hellomouse/meetingology/meeting"
)

// rawLog renders the verbatim transcript. It is the first output of
// every save: as long as the transcript exists, the meeting can be
// replayed even when a summary writer fails.
type rawLog struct{}

func (rawLog) Name() string { return "log.txt" }

func (rawLog) Render(m *meeting.Minutes) (string, error) {
	if len(m.Lines) == 0 {
		return "", nil
	}
	return strings.Join(m.Lines, "\n") + "\n", nil
}

// plainText renders the minutes as wrapped plain text.
type plainText struct{}

func (plainText) Name() string { return "txt" }

func (plainText) Render(m *meeting.Minutes) (string, error) {
	var b strings.Builder

	bar := strings.Repeat("=", len(m.PageTitle()))
	b.WriteString(bar + "\n" + m.PageTitle() + "\n" + bar + "\n\n")

	b.WriteString(wrapText(
		"Meeting started by "+m.Owner+" at "+m.StartTime.Format("15:04:05")+
			" "+m.TimeZone+". The full logs are available at "+m.LogHTMLURL()+" .",
		"", ""))
	b.WriteString("\n\n")

	b.WriteString(textHeading("Meeting summary"))
	for _, section := range summarize(m.Items) {
		if section.topic != nil {
			b.WriteString(wrapItem(textItemBody(*section.topic), 0) + "\n")
		} else {
			b.WriteString(wrapItem(prologueLabel, 0) + "\n")
		}
		for _, node := range section.nodes {
			b.WriteString(wrapItem(textItemBody(node.item), 2) + "\n")
			for _, child := range node.children {
				b.WriteString(wrapItem(textItemBody(child), 4) + "\n")
			}
		}
	}
	b.WriteString("\n")

	if !m.EndTime.IsZero() {
		b.WriteString("Meeting ended at " + m.EndTime.Format("15:04:05") + " " + m.TimeZone + ".\n\n")
	}

	if votes := votesText(m); votes != "" {
		b.WriteString(textHeading("Vote results"))
		b.WriteString(votes)
		b.WriteString("\n")
	}

	b.WriteString(textHeading("Action items"))
	actions := actionItems(m)
	if len(actions) == 0 {
		b.WriteString("* (none)\n")
	}
	for _, item := range actions {
		b.WriteString(wrapItem(item.Text, 0) + "\n")
	}
	b.WriteString("\n")

	if groups := attributeActions(m); len(groups) > 0 {
		b.WriteString(textHeading("Action items, by person"))
		for _, group := range groups {
			b.WriteString(wrapItem(group.Nick, 0) + "\n")
			for _, item := range group.Items {
				b.WriteString(wrapItem(item.Text, 2) + "\n")
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(textHeading("People present (lines said)"))
	for _, a := range presentByActivity(m) {
		b.WriteString(wrapItem(a.Nick+" ("+strconv.Itoa(a.Lines)+")", 0) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Generated by Meetingology " + m.Version + "\n")
	return b.String(), nil
}

// textHeading renders a section heading with its underline.
func textHeading(name string) string {
	return name + "\n" + strings.Repeat("-", len(name)) + "\n"
}

// textItemBody formats one item's text for the plain formats. Info
// items carry no label; links lead with the URL.
func textItemBody(item meeting.Item) string {
	details := "  (" + item.Nick + ", " + item.Time + ")"
	switch item.Kind {
	case meeting.KindTopic, meeting.KindSubtopic, meeting.KindInfo:
		return item.Text + details
	case meeting.KindLink:
		body := item.URL
		if item.Text != "" {
			body += " " + item.Text
		}
		return body + details
	default:
		return item.Kind.String() + ": " + item.Text + details
	}
}

// votesText renders the recorded vote rounds as a bullet list, one
// proposal with its outcome sentence per bullet.
func votesText(m *meeting.Minutes) string {
	if len(m.Votes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, vote := range m.Votes {
		b.WriteString(wrapItem(vote.Proposal+" -- "+vote.Summary, 0) + "\n")
		if len(vote.PublicVoters) > 0 {
			b.WriteString(wrapItem("Voters: "+strings.Join(vote.PublicVoters, ", "), 2) + "\n")
		}
	}
	return b.String()
}
