// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

// Package render turns a meeting's immutable minutes view into the
// published document set: the raw transcript, the highlighted
// transcript, and the summary minutes in HTML, Markdown, plain text,
// MediaWiki and MoinMoin markup.
package render

import (
	"fmt"

	"github.com/hellomouse/meetingology/lib/config"
	"github.com/hellomouse/meetingology/meeting"
)

// Renderer produces one output document from a minutes view.
type Renderer interface {
	// Name is the output's file suffix, e.g. "log.txt" or "html".
	Name() string

	Render(m *meeting.Minutes) (string, error)
}

// Document is one rendered output.
type Document struct {
	// Name is the file suffix appended to the meeting's path stem.
	Name string

	Content string
}

// Pipeline renders the configured output set in a fixed order. The
// raw transcript always renders and emits first: if a later renderer
// fails, the transcript has already been produced and the meeting can
// be replayed from it.
type Pipeline struct {
	renderers []Renderer
}

// New builds a pipeline for the configured outputs. Unknown output
// names are an error, caught at startup rather than at save time.
func New(cfg *config.Config) (*Pipeline, error) {
	available := []Renderer{
		rawLog{},
		&logHTML{style: cfg.HighlightStyle, sigil: cfg.CommandSigil},
		pageHTML{},
		markdown{},
		&markdownHTML{},
		plainText{},
		mediaWiki{},
		moinMoin{},
	}
	byName := make(map[string]Renderer, len(available))
	for _, r := range available {
		byName[r.Name()] = r
	}

	p := &Pipeline{renderers: []Renderer{rawLog{}}}
	for _, name := range cfg.Outputs {
		r, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("render: unknown output %q", name)
		}
		if name == (rawLog{}).Name() {
			continue
		}
		p.renderers = append(p.renderers, r)
	}
	return p, nil
}

// Render produces the configured documents in pipeline order.
func (p *Pipeline) Render(m *meeting.Minutes) ([]Document, error) {
	docs := make([]Document, 0, len(p.renderers))
	for _, r := range p.renderers {
		content, err := r.Render(m)
		if err != nil {
			return docs, fmt.Errorf("render: %s: %w", r.Name(), err)
		}
		docs = append(docs, Document{Name: r.Name(), Content: content})
	}
	return docs, nil
}

// Realtime renders just the raw transcript, for per-line incremental
// saves.
func (p *Pipeline) Realtime(m *meeting.Minutes) Document {
	content, _ := rawLog{}.Render(m)
	return Document{Name: rawLog{}.Name(), Content: content}
}
