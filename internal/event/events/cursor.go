package events

import (
	"github.com/dshills/textcore/internal/engine/buffer"
	"github.com/dshills/textcore/internal/event/topic"
)

// TopicSelectionChanged is published when the selection changes.
const TopicSelectionChanged topic.Topic = "cursor.selection.changed"

// SelectionChanged carries the new selection.
type SelectionChanged struct {
	DocumentID string
	Selection  buffer.Range
}
