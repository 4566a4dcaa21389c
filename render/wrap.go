// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "strings"

// wrapWidth is the column the text-like formats wrap at.
const wrapWidth = 72

// wrapItem lays out one list item: the first line carries the bullet
// at the given indent, continuation lines indent two further columns.
// Words longer than the width are never broken; a word that does not
// fit goes on a line of its own.
func wrapItem(text string, indent int) string {
	bullet := strings.Repeat(" ", indent) + "* "
	cont := strings.Repeat(" ", indent+2)
	return wrapText(text, bullet, cont)
}

// wrapText greedy-wraps text to wrapWidth with the given first-line
// and continuation prefixes. Text that already fits passes through
// untouched, interior spacing included.
func wrapText(text, first, cont string) string {
	if len(first)+len(text) <= wrapWidth {
		return strings.TrimRight(first+text, " ")
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return strings.TrimRight(first, " ")
	}

	var b strings.Builder
	line := first + words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > wrapWidth {
			b.WriteString(line)
			b.WriteByte('\n')
			line = cont + word
			continue
		}
		line += " " + word
	}
	b.WriteString(line)
	return b.String()
}
