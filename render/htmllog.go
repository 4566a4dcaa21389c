// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/hellomouse/meetingology/meeting"
)

// logHTML renders the transcript as a highlighted HTML page. Every
// line carries an anchor the minutes link into; colors come from the
// configured chroma style so deployments can restyle the transcript
// without touching templates.
type logHTML struct {
	style string
	sigil string
}

func (*logHTML) Name() string { return "log.html" }

var (
	logSpokenRE = regexp.MustCompile(`^(\d\d:\d\d(?::\d\d)?) <([^>]+)> (.*)$`)
	logActionRE = regexp.MustCompile(`^(\d\d:\d\d(?::\d\d)?) \* (\S+) ?(.*)$`)
)

func (r *logHTML) Render(m *meeting.Minutes) (string, error) {
	sigil := r.sigil
	if sigil == "" {
		sigil = "#"
	}

	var b strings.Builder
	b.WriteString("<h1>" + escapeHTML(m.PageTitle()) + "</h1>\n")
	b.WriteString("<pre class=\"irclog\">\n")
	for i, line := range m.Lines {
		anchor := fmt.Sprintf("l-%d", i+1)
		b.WriteString(`<a href="#` + anchor + `" name="` + anchor + `"></a>`)

		if match := logSpokenRE.FindStringSubmatch(line); match != nil {
			tm, nick, text := match[1], match[2], match[3]
			b.WriteString(`<span class="tm">` + tm + `</span> <span class="nk">&lt;` +
				escapeHTML(nick) + "&gt;</span> ")
			b.WriteString(spokenLineHTML(text, sigil))
		} else if match := logActionRE.FindStringSubmatch(line); match != nil {
			tm, nick, text := match[1], match[2], match[3]
			b.WriteString(`<span class="tm">` + tm + `</span> <span class="nka">* ` +
				escapeHTML(nick) + `</span> <span class="ac">` + escapeHTML(text) + "</span>")
		} else {
			b.WriteString(escapeHTML(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("</pre>\n")

	head := "<style type=\"text/css\">\n" + logStylesheet(r.style) + "</style>\n"
	return htmlPageHead(m.PageTitle(), head, b.String()), nil
}

// spokenLineHTML classifies the message part of a spoken line:
// topic-setting commands, other commands, and plain chatter each get
// their own span classes.
func spokenLineHTML(text, sigil string) string {
	if !strings.HasPrefix(text, sigil) {
		return `<span class="hi">` + escapeHTML(text) + "</span>"
	}
	command, rest, _ := strings.Cut(text, " ")
	cmdClass, lineClass := "cmd", "cmdline"
	if strings.TrimPrefix(command, sigil) == "topic" {
		cmdClass, lineClass = "topic", "topicline"
	}
	out := `<span class="` + cmdClass + `">` + escapeHTML(command) + "</span>"
	if rest != "" {
		out += ` <span class="` + lineClass + `">` + escapeHTML(rest) + "</span>"
	}
	return out
}

// logStylesheet derives the transcript span colors from a chroma
// style. Unknown style names fall back to chroma's default.
func logStylesheet(name string) string {
	style := styles.Get(name)

	rules := []struct {
		selector string
		token    chroma.TokenType
		extra    string
	}{
		{".tm", chroma.Comment, ""},
		{".nk", chroma.NameVariable, "font-weight: bold;"},
		{".nka", chroma.NameAttribute, "font-weight: bold;"},
		{".ac", chroma.LiteralString, ""},
		{".hi", chroma.Text, ""},
		{".cmd", chroma.Keyword, "font-weight: bold;"},
		{".cmdline", chroma.KeywordType, ""},
		{".topic", chroma.NameFunction, "font-weight: bold;"},
		{".topicline", chroma.NameClass, ""},
	}

	var b strings.Builder
	background := style.Get(chroma.Background)
	if background.Background.IsSet() {
		b.WriteString(fmt.Sprintf("pre.irclog { background: %s; padding: 1em; }\n",
			background.Background.String()))
	}
	for _, rule := range rules {
		entry := style.Get(rule.token)
		var props []string
		if entry.Colour.IsSet() {
			props = append(props, "color: "+entry.Colour.String()+";")
		}
		if rule.extra != "" {
			props = append(props, rule.extra)
		}
		if len(props) == 0 {
			continue
		}
		b.WriteString(rule.selector + " { " + strings.Join(props, " ") + " }\n")
	}
	return b.String()
}
