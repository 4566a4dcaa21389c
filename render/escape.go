// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "strings"

// Escaping is per-format and applied at render time only; items carry
// raw payload text.

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// escapeHTML escapes the three characters that change HTML structure.
// Quotes are left alone in text context; attribute values go through
// escapeAttr.
func escapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// escapeAttr escapes text for a double-quoted HTML attribute value.
func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"`", "\\`",
)

// escapeMarkdown escapes inline Markdown markup so chat text renders
// literally. URLs are emitted outside escaped spans and stay intact.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// escapeNone is the identity escaper for the plain text, MediaWiki and
// MoinMoin formats, which take chat lines as-is.
func escapeNone(s string) string {
	return s
}
