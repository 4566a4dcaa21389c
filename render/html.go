// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strconv"
	"strings"

	"github.com/hellomouse/meetingology/meeting"
)

// htmlShell is the standalone page wrapper shared by the HTML
// outputs.
const htmlShell = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>%TITLE%</title>
<link rel="stylesheet" href="https://maxcdn.bootstrapcdn.com/bootstrap/3.3.5/css/bootstrap.min.css">
%HEAD%</head>
<body>
<div class="container">
%BODY%
</div>
</body>
</html>
`

func htmlPage(title, body string) string {
	return htmlPageHead(title, "", body)
}

func htmlPageHead(title, head, body string) string {
	page := strings.Replace(htmlShell, "%TITLE%", escapeHTML(title), 1)
	page = strings.Replace(page, "%HEAD%", head, 1)
	return strings.Replace(page, "%BODY%", body, 1)
}

// pageHTML renders the minutes as a standalone HTML page with nested
// ordered lists for the summary.
type pageHTML struct{}

func (pageHTML) Name() string { return "html" }

func (pageHTML) Render(m *meeting.Minutes) (string, error) {
	var b strings.Builder

	b.WriteString("<h1>" + escapeHTML(m.PageTitle()) + "</h1>\n")
	b.WriteString(`<p><span class="details">Meeting started by ` + escapeHTML(m.Owner) +
		" at " + m.StartTime.Format("15:04:05") + " " + escapeHTML(m.TimeZone) +
		`. The <a href="` + escapeAttr(m.LogHTMLName()) + `">full logs</a> are available.</span></p>` + "\n\n")

	b.WriteString("<h3>Meeting summary</h3>\n")
	b.WriteString("<ol>\n")
	for _, section := range summarize(m.Items) {
		if section.topic != nil {
			b.WriteString("  <li>" + htmlItemBody(*section.topic, m) + "\n")
		} else {
			b.WriteString(`  <li><b class="TOPIC">` + prologueLabel + "</b>\n")
		}
		if len(section.nodes) > 0 {
			b.WriteString("    <ol type=\"a\">\n")
			for _, node := range section.nodes {
				if len(node.children) == 0 {
					b.WriteString("      <li>" + htmlItemBody(node.item, m) + "</li>\n")
					continue
				}
				b.WriteString("      <li>" + htmlItemBody(node.item, m) + "\n")
				b.WriteString("        <ol type=\"i\">\n")
				for _, child := range node.children {
					b.WriteString("          <li>" + htmlItemBody(child, m) + "</li>\n")
				}
				b.WriteString("        </ol>\n")
				b.WriteString("      </li>\n")
			}
			b.WriteString("    </ol>\n")
		}
		b.WriteString("  </li>\n")
	}
	b.WriteString("</ol>\n\n")

	if !m.EndTime.IsZero() {
		b.WriteString(`<p><span class="details">Meeting ended at ` + m.EndTime.Format("15:04:05") +
			" " + escapeHTML(m.TimeZone) + ".</span></p>\n\n")
	}

	b.WriteString("<h3>Action items</h3>\n<ol>\n")
	actions := actionItems(m)
	if len(actions) == 0 {
		b.WriteString("  <li>(none)</li>\n")
	}
	for _, item := range actions {
		b.WriteString("  <li>" + escapeHTML(item.Text) + "</li>\n")
	}
	b.WriteString("</ol>\n\n")

	if groups := attributeActions(m); len(groups) > 0 {
		b.WriteString("<h3>Action items, by person</h3>\n<ol>\n")
		for _, group := range groups {
			b.WriteString("  <li>" + escapeHTML(group.Nick) + "\n    <ol>\n")
			for _, item := range group.Items {
				b.WriteString("      <li>" + escapeHTML(item.Text) + "</li>\n")
			}
			b.WriteString("    </ol>\n  </li>\n")
		}
		b.WriteString("</ol>\n\n")
	}

	b.WriteString("<h3>People present (lines said)</h3>\n<ol>\n")
	for _, a := range presentByActivity(m) {
		b.WriteString("  <li>" + escapeHTML(a.Nick) + " (" + strconv.Itoa(a.Lines) + ")</li>\n")
	}
	b.WriteString("</ol>\n\n")

	b.WriteString(`<p><span class="details">Generated by <a href="` + escapeAttr(m.InfoURL) +
		`">Meetingology</a> ` + escapeHTML(m.Version) + ".</span></p>\n")

	return htmlPage(m.PageTitle(), b.String()), nil
}

// htmlItemBody formats one item with its label, styling class and
// transcript link.
func htmlItemBody(item meeting.Item, m *meeting.Minutes) string {
	details := ` <span class="details">(` + escapeHTML(item.Nick) +
		`, <a href="` + escapeAttr(m.LogHTMLName()+"#"+item.Anchor()) + `">` +
		item.Time + "</a>)</span>"
	kind := item.Kind.String()
	switch item.Kind {
	case meeting.KindTopic:
		return `<b class="TOPIC">` + escapeHTML(item.Text) + "</b>" + details
	case meeting.KindSubtopic:
		return `<b class="SUBTOPIC">` + escapeHTML(item.Text) + "</b>" + details
	case meeting.KindInfo:
		return `<span class="INFO">` + escapeHTML(item.Text) + "</span>" + details
	case meeting.KindAccepted:
		return `<span class="text-success"><i class="itemtype">` + kind + `</i>: <span class="` +
			kind + `">` + escapeHTML(item.Text) + "</span></span>" + details
	case meeting.KindRejected:
		return `<span class="text-danger"><i class="itemtype">` + kind + `</i>: <span class="` +
			kind + `">` + escapeHTML(item.Text) + "</span></span>" + details
	case meeting.KindLink:
		href := strings.ReplaceAll(item.URL, `"`, "%22")
		body := `<a href="` + escapeAttr(href) + `">` + escapeHTML(item.URL) + "</a>"
		if item.Text != "" {
			body += " " + escapeHTML(item.Text)
		}
		return body + details
	default:
		return `<i class="itemtype">` + kind + `</i>: <span class="` + kind + `">` +
			escapeHTML(item.Text) + "</span>" + details
	}
}
