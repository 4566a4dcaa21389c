// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// Package store persists session snapshots in a SQLite database, so a
// restarted bot can pick up the meetings that were open when it died.
// One row per (channel, network); writes are skipped when the
// snapshot bytes are unchanged, which the deterministic encoding
// makes a plain byte comparison.
package store

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

const schema = `
CREATE TABLE IF NOT EXISTS session_snapshot (
	channel    TEXT NOT NULL,
	network    TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	snapshot   BLOB NOT NULL,
	PRIMARY KEY (channel, network)
);
`

// Store is a pooled SQLite snapshot store. Safe for concurrent use.
type Store struct {
	pool *sqlitex.Pool
}

// Open opens (creating if needed) the snapshot database at path.
func Open(ctx context.Context, path string, poolSize int) (*Store, error) {
	if poolSize <= 0 {
		poolSize = 2
	}
	pool, err := sqlitex.NewPool(path, sqlitex.PoolOptions{
		PoolSize: poolSize,
	})
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}

	conn, err := pool.Take(ctx)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: taking connection: %w", err)
	}
	err = sqlitex.ExecuteScript(conn, schema, nil)
	pool.Put(conn)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: applying schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.pool.Close()
}

// Put upserts a snapshot. Unchanged snapshot bytes leave the row
// untouched, preserving its updated_at.
func (s *Store) Put(ctx context.Context, channel, network string, snapshot []byte) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: taking connection: %w", err)
	}
	defer s.pool.Put(conn)

	existing, err := readSnapshot(conn, channel, network)
	if err != nil {
		return err
	}
	if existing != nil && bytes.Equal(existing, snapshot) {
		return nil
	}

	err = sqlitex.Execute(conn, `
		INSERT INTO session_snapshot (channel, network, updated_at, snapshot)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (channel, network)
		DO UPDATE SET updated_at = excluded.updated_at, snapshot = excluded.snapshot`,
		&sqlitex.ExecOptions{
			Args: []any{channel, network, time.Now().Unix(), snapshot},
		})
	if err != nil {
		return fmt.Errorf("store: writing snapshot %s/%s: %w", channel, network, err)
	}
	return nil
}

// Get returns the stored snapshot, or nil when none exists.
func (s *Store) Get(ctx context.Context, channel, network string) ([]byte, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: taking connection: %w", err)
	}
	defer s.pool.Put(conn)
	return readSnapshot(conn, channel, network)
}

// Delete removes a snapshot. Deleting an absent row is not an error.
func (s *Store) Delete(ctx context.Context, channel, network string) error {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return fmt.Errorf("store: taking connection: %w", err)
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`DELETE FROM session_snapshot WHERE channel = ? AND network = ?`,
		&sqlitex.ExecOptions{Args: []any{channel, network}})
	if err != nil {
		return fmt.Errorf("store: deleting snapshot %s/%s: %w", channel, network, err)
	}
	return nil
}

// Entry identifies one stored snapshot.
type Entry struct {
	Channel   string
	Network   string
	UpdatedAt time.Time
}

// List returns every stored snapshot key, oldest update first. Used
// at startup to find the meetings to resurrect.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	conn, err := s.pool.Take(ctx)
	if err != nil {
		return nil, fmt.Errorf("store: taking connection: %w", err)
	}
	defer s.pool.Put(conn)

	var entries []Entry
	err = sqlitex.Execute(conn, `
		SELECT channel, network, updated_at
		FROM session_snapshot ORDER BY updated_at`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				entries = append(entries, Entry{
					Channel:   stmt.ColumnText(0),
					Network:   stmt.ColumnText(1),
					UpdatedAt: time.Unix(stmt.ColumnInt64(2), 0),
				})
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("store: listing snapshots: %w", err)
	}
	return entries, nil
}

func readSnapshot(conn *sqlite.Conn, channel, network string) ([]byte, error) {
	var snapshot []byte
	err := sqlitex.Execute(conn, `
		SELECT snapshot FROM session_snapshot
		WHERE channel = ? AND network = ?`,
		&sqlitex.ExecOptions{
			Args: []any{channel, network},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				snapshot = make([]byte, stmt.ColumnLen(0))
				stmt.ColumnBytes(0, snapshot)
				return nil
			},
		})
	if err != nil {
		return nil, fmt.Errorf("store: reading snapshot %s/%s: %w", channel, network, err)
	}
	return snapshot, nil
}
