// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for meetingology.
//
// Configuration starts from compiled-in defaults, merges a YAML file
// over them, and finally applies the file's site section — an explicit
// ordered merge with documented precedence (site overrides beat file
// values beat defaults, field by field). There is no dynamic
// configuration synthesis and no environment-variable override; the
// file is the single auditable source of truth.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for a meetingology deployment.
type Config struct {
	// LogDir is the directory under which all meeting documents are
	// written, joined with the expanded filename pattern.
	LogDir string `yaml:"log_dir"`

	// URLPrefix is prepended to the expanded filename pattern to form
	// the public URL of the published documents.
	URLPrefix string `yaml:"url_prefix"`

	// FilenamePattern names the per-meeting file stem. It may contain
	// {channel}, {network} and {meetingname} placeholders plus Go
	// time layout elements expanded against the meeting start time.
	FilenamePattern string `yaml:"filename_pattern"`

	// SpecialChannels always save under SpecialChannelPattern so test
	// channels do not proliferate dated files.
	SpecialChannels       []string `yaml:"special_channels"`
	SpecialChannelPattern string   `yaml:"special_channel_pattern"`

	// InfoURL is the "more information" link spoken at meeting start
	// and printed in minutes footers.
	InfoURL string `yaml:"info_url"`

	// TimeZone is the zone name rendered after times in documents and
	// channel messages. Informational only; timestamps are taken from
	// the injected clock.
	TimeZone string `yaml:"time_zone"`

	// CommandSigil is the character introducing commands. Single
	// character; default "#".
	CommandSigil string `yaml:"command_sigil"`

	// HighlightStyle names the chroma style whose colors drive the
	// highlighted transcript stylesheet.
	HighlightStyle string `yaml:"highlight_style"`

	// Noisy controls whether recognized items are echoed back to the
	// channel (ACTION: ..., AGREED: ..., and so on).
	Noisy *bool `yaml:"noisy"`

	// RealtimeUpdate rewrites realtime outputs (the raw transcript)
	// after every line once the meeting has started.
	RealtimeUpdate *bool `yaml:"realtime_update"`

	// MoinFullLogs appends the full transcript to the MoinMoin output.
	MoinFullLogs bool `yaml:"moin_full_logs"`

	// Outputs lists the enabled output names. Valid names: log.txt,
	// log.html, html, md, md.html, txt, mw.txt, moin.txt.
	Outputs []string `yaml:"outputs"`

	// RestrictMode is the permission mask stripped from written files
	// after a #restrictlogs. Octal string, e.g. "0077" to zero group
	// and other bits.
	RestrictMode string `yaml:"restrict_mode"`

	// Archive configures compressed raw-log archiving on final save.
	Archive ArchiveConfig `yaml:"archive"`

	// Store configures the session snapshot database.
	Store StoreConfig `yaml:"store"`

	// EndNotifyNicks receive a private message when a meeting ends.
	EndNotifyNicks []string `yaml:"end_notify_nicks"`

	// Site contains site-local overrides applied after the base file,
	// field by field. This replaces editing the shipped defaults.
	Site *Overrides `yaml:"site,omitempty"`
}

// ArchiveConfig configures the compressed copy of the raw transcript
// written alongside the plain one on final save.
type ArchiveConfig struct {
	// Enabled turns archiving on.
	Enabled bool `yaml:"enabled"`

	// Algorithm is "none", "lz4" or "zstd".
	Algorithm string `yaml:"algorithm"`
}

// StoreConfig configures snapshot persistence.
type StoreConfig struct {
	// Path is the SQLite database file. Empty disables persistence.
	Path string `yaml:"path"`

	// PoolSize is the connection pool size. Defaults to 2.
	PoolSize int `yaml:"pool_size"`
}

// Overrides holds the fields a site section may override. Pointer and
// slice fields distinguish "not set" from zero values.
type Overrides struct {
	LogDir          *string        `yaml:"log_dir,omitempty"`
	URLPrefix       *string        `yaml:"url_prefix,omitempty"`
	FilenamePattern *string        `yaml:"filename_pattern,omitempty"`
	InfoURL         *string        `yaml:"info_url,omitempty"`
	TimeZone        *string        `yaml:"time_zone,omitempty"`
	CommandSigil    *string        `yaml:"command_sigil,omitempty"`
	HighlightStyle  *string        `yaml:"highlight_style,omitempty"`
	Noisy           *bool          `yaml:"noisy,omitempty"`
	RealtimeUpdate  *bool          `yaml:"realtime_update,omitempty"`
	MoinFullLogs    *bool          `yaml:"moin_full_logs,omitempty"`
	Outputs         []string       `yaml:"outputs,omitempty"`
	RestrictMode    *string        `yaml:"restrict_mode,omitempty"`
	Archive         *ArchiveConfig `yaml:"archive,omitempty"`
	Store           *StoreConfig   `yaml:"store,omitempty"`
	EndNotifyNicks  []string       `yaml:"end_notify_nicks,omitempty"`
}

// Default returns the default configuration. These are complete and
// usable on their own; a config file is optional.
func Default() *Config {
	noisy := true
	realtime := true
	return &Config{
		LogDir:                "/var/lib/meetingology",
		URLPrefix:             "https://meetbot.example.org/",
		FilenamePattern:       "{channel}/2006/{channel}.2006-01-02-15.04",
		SpecialChannels:       []string{"#meetbot-test"},
		SpecialChannelPattern: "{channel}/{channel}",
		InfoURL:               "https://wiki.ubuntu.com/meetingology",
		TimeZone:              "UTC",
		CommandSigil:          "#",
		HighlightStyle:        "friendly",
		Noisy:                 &noisy,
		RealtimeUpdate:        &realtime,
		MoinFullLogs:          false,
		Outputs: []string{
			"log.txt", "log.html", "html", "md", "md.html",
			"txt", "mw.txt", "moin.txt",
		},
		RestrictMode: "0077",
		Archive:      ArchiveConfig{Enabled: false, Algorithm: "zstd"},
		Store:        StoreConfig{Path: "", PoolSize: 2},
	}
}

// Load reads the YAML file at path and merges it over the defaults,
// then applies the file's site section. Pass an empty path to get the
// defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.applySite()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// applySite merges the site overrides over the loaded values. Only
// fields the site section sets are touched.
func (c *Config) applySite() {
	o := c.Site
	if o == nil {
		return
	}
	if o.LogDir != nil {
		c.LogDir = *o.LogDir
	}
	if o.URLPrefix != nil {
		c.URLPrefix = *o.URLPrefix
	}
	if o.FilenamePattern != nil {
		c.FilenamePattern = *o.FilenamePattern
	}
	if o.InfoURL != nil {
		c.InfoURL = *o.InfoURL
	}
	if o.TimeZone != nil {
		c.TimeZone = *o.TimeZone
	}
	if o.CommandSigil != nil {
		c.CommandSigil = *o.CommandSigil
	}
	if o.HighlightStyle != nil {
		c.HighlightStyle = *o.HighlightStyle
	}
	if o.Noisy != nil {
		c.Noisy = o.Noisy
	}
	if o.RealtimeUpdate != nil {
		c.RealtimeUpdate = o.RealtimeUpdate
	}
	if o.MoinFullLogs != nil {
		c.MoinFullLogs = *o.MoinFullLogs
	}
	if o.Outputs != nil {
		c.Outputs = o.Outputs
	}
	if o.RestrictMode != nil {
		c.RestrictMode = *o.RestrictMode
	}
	if o.Archive != nil {
		c.Archive = *o.Archive
	}
	if o.Store != nil {
		c.Store = *o.Store
	}
	if o.EndNotifyNicks != nil {
		c.EndNotifyNicks = o.EndNotifyNicks
	}
	c.Site = nil
}

// validate rejects values the rest of the system cannot work with.
// Lenient by policy everywhere else, loading is the one place a bad
// deployment should fail loudly.
func (c *Config) validate() error {
	if len(c.CommandSigil) != 1 {
		return fmt.Errorf("command_sigil must be a single character, got %q", c.CommandSigil)
	}
	switch c.Archive.Algorithm {
	case "", "none", "lz4", "zstd":
	default:
		return fmt.Errorf("archive.algorithm must be none, lz4 or zstd, got %q", c.Archive.Algorithm)
	}
	if c.RestrictMode != "" && !validOctal(c.RestrictMode) {
		return fmt.Errorf("restrict_mode must be an octal permission mask, got %q", c.RestrictMode)
	}
	return nil
}

func validOctal(s string) bool {
	for _, r := range strings.TrimPrefix(s, "0") {
		if r < '0' || r > '7' {
			return false
		}
	}
	return true
}

// IsNoisy reports whether item echo replies are enabled.
func (c *Config) IsNoisy() bool {
	return c.Noisy == nil || *c.Noisy
}

// IsRealtime reports whether realtime (per-line) saving is enabled.
func (c *Config) IsRealtime() bool {
	return c.RealtimeUpdate == nil || *c.RealtimeUpdate
}

// RestrictMask parses RestrictMode into a permission bit mask. Returns
// 0 when unset or malformed (lenient at use time; validate catches
// malformed values at load time).
func (c *Config) RestrictMask() os.FileMode {
	var mode uint32
	for _, r := range c.RestrictMode {
		if r < '0' || r > '7' {
			return 0
		}
		mode = mode<<3 | uint32(r-'0')
	}
	return os.FileMode(mode)
}
