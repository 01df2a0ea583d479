package events

import "github.com/dshills/textcore/internal/event/topic"

// TopicHighlightUpdated is published when lines were re-tokenized.
const TopicHighlightUpdated topic.Topic = "highlight.lines.updated"

// HighlightUpdated reports that style runs of lines [FromLine, ToLine) may
// have changed.
type HighlightUpdated struct {
	DocumentID string
	FromLine   int
	ToLine     int

	// Pending reports whether highlighting work remains queued.
	Pending bool
}
