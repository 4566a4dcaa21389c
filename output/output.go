// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// Package output writes rendered meeting documents to the log
// directory. It skips rewrites of unchanged files by content hash,
// applies the restricted-logs permission mask, and archives the raw
// transcript in compressed form on final save.
package output

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"github.com/hellomouse/meetingology/lib/config"
	"github.com/hellomouse/meetingology/meeting"
	"github.com/hellomouse/meetingology/render"
)

// Writer publishes rendered documents under the configured log
// directory.
type Writer struct {
	cfg     *config.Config
	archive Algorithm
	logger  *slog.Logger
}

// NewWriter builds a writer from the configuration.
func NewWriter(cfg *config.Config, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	algorithm := None
	if cfg.Archive.Enabled {
		var err error
		algorithm, err = ParseAlgorithm(cfg.Archive.Algorithm)
		if err != nil {
			return nil, err
		}
	}
	return &Writer{cfg: cfg, archive: algorithm, logger: logger}, nil
}

// Write publishes the documents for a meeting. Final saves (minutes
// marked over) additionally archive the raw transcript when archiving
// is configured.
func (w *Writer) Write(m *meeting.Minutes, docs []render.Document) error {
	base := w.cfg.FilePath(m.PathStem)
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return fmt.Errorf("output: creating %s: %w", filepath.Dir(base), err)
	}

	perm := os.FileMode(0o644)
	if m.RestrictLogs {
		perm &^= w.cfg.RestrictMask()
	}

	for _, doc := range docs {
		path := base + "." + doc.Name
		if err := w.writeFile(path, []byte(doc.Content), perm); err != nil {
			return err
		}
		if m.Over && w.cfg.Archive.Enabled && doc.Name == "log.txt" && w.archive != None {
			compressed, err := w.archive.Compress([]byte(doc.Content))
			if err != nil {
				return err
			}
			if err := w.writeFile(path+w.archive.Ext(), compressed, perm); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeFile writes content unless an identical file already exists.
// The permission bits are enforced even on the skip path, so a
// #restrictlogs issued after a realtime save still tightens earlier
// files.
func (w *Writer) writeFile(path string, content []byte, perm os.FileMode) error {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if blake3.Sum256(existing) == blake3.Sum256(content) {
			w.logger.Debug("output unchanged", "path", path)
			return os.Chmod(path, perm)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return fmt.Errorf("output: reading %s: %w", path, err)
	}

	if err := os.WriteFile(path, content, perm); err != nil {
		return fmt.Errorf("output: writing %s: %w", path, err)
	}
	// WriteFile's perm is masked by the umask; restate it.
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("output: setting mode on %s: %w", path, err)
	}
	w.logger.Debug("output written", "path", path, "bytes", len(content))
	return nil
}
