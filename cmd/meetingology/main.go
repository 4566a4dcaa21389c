// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// meetingology replays a captured channel log through the meeting
// state machine and publishes the minutes in every configured format.
//
//	meetingology --channel '#ubuntu-meeting' meeting.log
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"github.com/hellomouse/meetingology/lib/config"
	"github.com/hellomouse/meetingology/lib/version"
	"github.com/hellomouse/meetingology/meeting"
	"github.com/hellomouse/meetingology/output"
	"github.com/hellomouse/meetingology/render"
	"github.com/hellomouse/meetingology/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "meetingology:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = pflag.String("config", "", "configuration file (YAML)")
		channel     = pflag.String("channel", "", "channel the log was captured in")
		network     = pflag.String("network", "local", "network the log was captured on")
		date        = pflag.String("date", "", "meeting date (YYYY-MM-DD); derived from the filename or file time when empty")
		logDir      = pflag.String("out-dir", "", "override the configured output directory")
		verbose     = pflag.BoolP("verbose", "v", false, "enable debug logging")
		showVersion = pflag.Bool("version", false, "print the version and exit")
	)
	pflag.Parse()

	if *showVersion {
		version.Print("meetingology")
		return nil
	}
	if pflag.NArg() != 1 {
		return fmt.Errorf("expected exactly one log file argument, got %d", pflag.NArg())
	}
	logFile := pflag.Arg(0)
	if *channel == "" {
		return fmt.Errorf("--channel is required")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logDir != "" {
		cfg.LogDir = *logDir
	}

	base, err := meetingDate(*date, logFile)
	if err != nil {
		return err
	}

	pipeline, err := render.New(cfg)
	if err != nil {
		return err
	}
	writer, err := output.NewWriter(cfg, logger)
	if err != nil {
		return err
	}

	session := meeting.NewSession(meeting.Options{
		Channel: *channel,
		Network: *network,
		Config:  cfg,
		Logger:  logger,
		OnSave: func(m *meeting.Minutes, realtime bool) {
			var docs []render.Document
			if realtime {
				docs = []render.Document{pipeline.Realtime(m)}
			} else {
				var err error
				docs, err = pipeline.Render(m)
				if err != nil {
					logger.Error("render failed", "error", err)
				}
			}
			if err := writer.Write(m, docs); err != nil {
				logger.Error("write failed", "error", err)
			}
		},
	})

	f, err := os.Open(logFile)
	if err != nil {
		return fmt.Errorf("opening %s: %w", logFile, err)
	}
	err = session.Replay(f, base)
	f.Close()
	if err != nil {
		return err
	}

	minutes := session.Minutes()
	if !minutes.Started {
		return fmt.Errorf("no meeting found in %s", logFile)
	}
	if !minutes.Over {
		// Log ended without #endmeeting; publish what we have.
		docs, err := pipeline.Render(minutes)
		if err != nil {
			return err
		}
		if err := writer.Write(minutes, docs); err != nil {
			return err
		}
	}

	if cfg.Store.Path != "" {
		if err := persistSnapshot(session, cfg); err != nil {
			return err
		}
	}

	logger.Info("minutes published",
		"channel", *channel,
		"stem", minutes.PathStem,
		"lines", len(minutes.Lines),
		"items", len(minutes.Items))
	return nil
}

// persistSnapshot records the final session state, or clears it when
// the meeting ended cleanly.
func persistSnapshot(session *meeting.Session, cfg *config.Config) error {
	ctx := context.Background()
	st, err := store.Open(ctx, cfg.Store.Path, cfg.Store.PoolSize)
	if err != nil {
		return err
	}
	defer st.Close()

	if session.IsOver() {
		return st.Delete(ctx, session.Channel(), session.Network())
	}
	snapshot, err := session.Snapshot()
	if err != nil {
		return err
	}
	return st.Put(ctx, session.Channel(), session.Network(), snapshot)
}

var filenameDateRE = regexp.MustCompile(`(\d{4})[-.](\d{2})[-.](\d{2})`)

// meetingDate resolves the calendar date the log's clock readings
// attach to: the --date flag, a date embedded in the filename, or the
// file's modification time, in that order.
func meetingDate(flag, logFile string) (time.Time, error) {
	if flag != "" {
		t, err := time.Parse("2006-01-02", flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("parsing --date: %w", err)
		}
		return t.UTC(), nil
	}
	if match := filenameDateRE.FindStringSubmatch(logFile); match != nil {
		year, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		day, _ := strconv.Atoi(match[3])
		return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
	}
	info, err := os.Stat(logFile)
	if err != nil {
		return time.Time{}, fmt.Errorf("inspecting %s: %w", logFile, err)
	}
	return info.ModTime().UTC(), nil
}
