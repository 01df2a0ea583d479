// Package event is the engine's publish/subscribe bus.
//
// Events carry a hierarchical topic (see package topic) and a typed payload
// (see package events). Subscriptions match topics by pattern:
//
//	buffer.*     matches buffer.cleared (one segment)
//	buffer.**    matches buffer.lines.changed (any depth)
//
// Delivery is synchronous: Publish returns after every matching handler ran,
// so a renderer subscribed to buffer.lines.changed sees each mutation before
// the mutating call returns to its caller.
//
//	bus := event.NewBus()
//	bus.Subscribe(events.TopicLinesChanged, event.Typed(
//	    func(ctx context.Context, e event.Event[events.LinesChanged]) error {
//	        redraw(e.Payload.FromLine, e.Payload.ToLine)
//	        return nil
//	    }))
package event
