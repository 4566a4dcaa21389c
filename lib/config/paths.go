// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"path/filepath"
	"strings"
	"time"
)

// PathStem expands the filename pattern into the per-meeting file stem
// relative to LogDir. The pattern is first expanded as a Go time
// layout against the meeting start time, then the {channel}, {network}
// and {meetingname} placeholders are substituted. Substitution runs
// second so nick- or channel-derived text is never misread as layout
// elements.
func (c *Config) PathStem(channel, network, meetingName string, start time.Time) string {
	pattern := c.FilenamePattern
	for _, special := range c.SpecialChannels {
		if channel == special {
			pattern = c.SpecialChannelPattern
			break
		}
	}

	stem := start.Format(pattern)

	if meetingName == "" {
		meetingName = channel
	}
	stem = strings.ReplaceAll(stem, "{channel}", cleanPathComponent(channel))
	stem = strings.ReplaceAll(stem, "{network}", cleanPathComponent(network))
	stem = strings.ReplaceAll(stem, "{meetingname}", cleanPathComponent(meetingName))
	return stem
}

// FilePath joins a stem produced by PathStem with the log directory.
func (c *Config) FilePath(stem string) string {
	return filepath.Join(c.LogDir, filepath.FromSlash(stem))
}

// URLStem forms the public URL of a meeting's documents, minus the
// per-format extension.
func (c *Config) URLStem(stem string) string {
	return strings.TrimSuffix(c.URLPrefix, "/") + "/" + stem
}

// cleanPathComponent strips characters that could escape the log
// directory or confuse URL construction. The leading "#" of channel
// names is kept; it is part of the published layout.
func cleanPathComponent(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '#' || r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ".")
}
