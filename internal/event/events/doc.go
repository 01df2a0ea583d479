// Package events defines the payloads published on the event bus and their
// topics.
//
// Every mutation of an engine publishes one LinesChanged, so a renderer can
// choose between patching a few lines and a full refresh. Highlight progress
// and selection moves have their own topics.
//
//	evt := event.NewEvent(events.TopicLinesChanged, events.LinesChanged{
//	    DocumentID: id,
//	    FromLine:   3,
//	    ToLine:     4,
//	    Delta:      1,
//	}, "engine")
//	bus.Publish(ctx, evt)
package events
