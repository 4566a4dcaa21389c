// Copyright 2026 The Meetingology Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "github.com/hellomouse/meetingology/meeting"

// The summary formats are nested lists: topics at the outer level,
// subtopics one level in, other items under whichever of the two is
// current. Building the tree once keeps every writer's nesting
// balanced by construction, including the degenerate orders (an item
// before any topic, a subtopic directly after a topic change).

// topicSection is one outer-level group of the minutes.
type topicSection struct {
	// topic is nil for the synthetic section holding items recorded
	// before the first #topic. Writers label it "Prologue".
	topic *meeting.Item

	nodes []*summaryNode
}

// summaryNode is a direct child of a topic: either a plain item or a
// subtopic carrying its own children.
type summaryNode struct {
	item     meeting.Item
	children []meeting.Item
}

// prologueLabel heads the section of items recorded before the first
// topic.
const prologueLabel = "Prologue"

// summarize groups the minute items into topic sections. A new topic
// closes any open subtopic; items preceding the first topic form a
// synthetic prologue section.
func summarize(items []meeting.Item) []*topicSection {
	var sections []*topicSection
	var current *topicSection
	var sub *summaryNode

	for _, item := range items {
		switch item.Kind {
		case meeting.KindTopic:
			topic := item
			current = &topicSection{topic: &topic}
			sections = append(sections, current)
			sub = nil
		case meeting.KindSubtopic:
			if current == nil {
				current = &topicSection{}
				sections = append(sections, current)
			}
			sub = &summaryNode{item: item}
			current.nodes = append(current.nodes, sub)
		default:
			if sub != nil {
				sub.children = append(sub.children, item)
				continue
			}
			if current == nil {
				current = &topicSection{}
				sections = append(sections, current)
			}
			current.nodes = append(current.nodes, &summaryNode{item: item})
		}
	}
	return sections
}

// sectionTitle is the displayed topic text of a section.
func (s *topicSection) sectionTitle() string {
	if s.topic == nil {
		return prologueLabel
	}
	return s.topic.Text
}
