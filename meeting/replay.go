// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package meeting

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Replay line grammars. Timestamps may be bare or bracketed; the nick
// may carry a single IRC mode sigil which is dropped.
var (
	spokenLineRE = regexp.MustCompile(`^\[?([0-9:]+)\]?\s*<[@%&+ ]?([^>]+)>\s*(.*?)\s*$`)
	actionLineRE = regexp.MustCompile(`^\[?([0-9:]+)\]?\s*\*\s*(\S+)\s*(.*?)\s*$`)
)

// Replay feeds a previously captured channel log through the session,
// line by line, as if the conversation were happening now. base
// supplies the calendar date and zone; each line's clock-of-day is
// combined with it. Lines that match neither grammar are skipped, so a
// log polluted with joins, parts and mode changes replays cleanly.
func (s *Session) Replay(r io.Reader, base time.Time) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if match := spokenLineRE.FindStringSubmatch(line); match != nil {
			at, ok := replayTime(match[1], base)
			if !ok {
				continue
			}
			s.AddLine(match[2], match[3], false, at)
		} else if match := actionLineRE.FindStringSubmatch(line); match != nil {
			at, ok := replayTime(match[1], base)
			if !ok {
				continue
			}
			s.AddLine(match[2], "ACTION "+match[3], false, at)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("meeting: reading replay log: %w", err)
	}
	return nil
}

// replayTime combines a HH:MM or HH:MM:SS clock reading with the base
// date and zone.
func replayTime(clock string, base time.Time) (time.Time, bool) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, false
	}
	fields := make([]int, 3)
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return time.Time{}, false
		}
		fields[i] = n
	}
	return time.Date(base.Year(), base.Month(), base.Day(),
		fields[0], fields[1], fields[2], 0, base.Location()), true
}
