package events

import "github.com/dshills/textcore/internal/event/topic"

// Buffer event topics.
const (
	// TopicLinesChanged is published after every document mutation.
	TopicLinesChanged topic.Topic = "buffer.lines.changed"

	// TopicModeChanged is published when a document switches modes.
	TopicModeChanged topic.Topic = "buffer.mode.changed"
)

// LinesChanged describes the lines touched by one mutation.
type LinesChanged struct {
	// DocumentID identifies the engine that changed.
	DocumentID string

	// FromLine and ToLine bound the replaced lines [FromLine, ToLine) in
	// pre-edit coordinates.
	FromLine int
	ToLine   int

	// Delta is the change in line count.
	Delta int

	// Origin names the operation, such as "edit", "undo" or "input".
	Origin string
}

// Full reports whether the change replaced the whole document.
func (c LinesChanged) Full(lineCount int) bool {
	return c.FromLine == 0 && c.ToLine-c.Delta >= lineCount
}

// ModeChanged is published when a document switches modes.
type ModeChanged struct {
	DocumentID string
	OldMode    string
	NewMode    string
}
