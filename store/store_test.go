// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "snapshots.db"), 2)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPutGetDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	got, err := s.Get(ctx, "#test", "libera")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected no snapshot, got %d bytes", len(got))
	}

	snapshot := []byte("snapshot-bytes-v1")
	if err := s.Put(ctx, "#test", "libera", snapshot); err != nil {
		t.Fatal(err)
	}
	got, err = s.Get(ctx, "#test", "libera")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, snapshot) {
		t.Fatalf("got %q", got)
	}

	// Same channel on another network is a distinct row.
	got, err = s.Get(ctx, "#test", "oftc")
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatal("network not part of the key")
	}

	updated := []byte("snapshot-bytes-v2")
	if err := s.Put(ctx, "#test", "libera", updated); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "#test", "libera")
	if !bytes.Equal(got, updated) {
		t.Fatalf("update lost, got %q", got)
	}

	if err := s.Delete(ctx, "#test", "libera"); err != nil {
		t.Fatal(err)
	}
	got, _ = s.Get(ctx, "#test", "libera")
	if got != nil {
		t.Fatal("snapshot survived delete")
	}

	// Deleting again is fine.
	if err := s.Delete(ctx, "#test", "libera"); err != nil {
		t.Fatal(err)
	}
}

func TestPutUnchangedIsNoop(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	snapshot := []byte("stable")
	if err := s.Put(ctx, "#test", "libera", snapshot); err != nil {
		t.Fatal(err)
	}
	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	first := entries[0].UpdatedAt

	if err := s.Put(ctx, "#test", "libera", snapshot); err != nil {
		t.Fatal(err)
	}
	entries, err = s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !entries[0].UpdatedAt.Equal(first) {
		t.Error("unchanged put rewrote the row")
	}
}

func TestList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, key := range []struct{ channel, network string }{
		{"#a", "libera"},
		{"#b", "libera"},
		{"#a", "oftc"},
	} {
		if err := s.Put(ctx, key.channel, key.network, []byte(key.channel+key.network)); err != nil {
			t.Fatal(err)
		}
	}

	entries, err := s.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 3 {
		t.Fatalf("entries = %+v", entries)
	}
	seen := map[string]bool{}
	for _, e := range entries {
		seen[e.Channel+"/"+e.Network] = true
	}
	for _, want := range []string{"#a/libera", "#b/libera", "#a/oftc"} {
		if !seen[want] {
			t.Errorf("missing %s", want)
		}
	}
}
