// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm selects the transcript archive compression.
type Algorithm uint8

const (
	// None stores the archive copy uncompressed.
	None Algorithm = iota
	// LZ4 favors speed.
	LZ4
	// Zstd favors ratio.
	Zstd
)

// ParseAlgorithm maps a config string to an Algorithm. The empty
// string means None.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch name {
	case "", "none":
		return None, nil
	case "lz4":
		return LZ4, nil
	case "zstd":
		return Zstd, nil
	default:
		return None, fmt.Errorf("output: unknown compression algorithm %q", name)
	}
}

// String returns the config spelling.
func (a Algorithm) String() string {
	switch a {
	case None:
		return "none"
	case LZ4:
		return "lz4"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("algorithm(%d)", a)
	}
}

// Ext is the filename extension appended to archived transcripts.
// Empty for None.
func (a Algorithm) Ext() string {
	switch a {
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	default:
		return ""
	}
}

// Compress returns the archive bytes for data.
func (a Algorithm) Compress(data []byte) ([]byte, error) {
	switch a {
	case None:
		return data, nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("output: lz4 compress: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("output: lz4 close: %w", err)
		}
		return buf.Bytes(), nil
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("output: zstd init: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil
	default:
		return nil, fmt.Errorf("output: unknown algorithm %d", a)
	}
}
