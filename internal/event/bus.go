package event

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/textcore/internal/event/topic"
)

// Bus delivers events synchronously, in the publisher's goroutine, to every
// subscription whose pattern matches the event topic. Handlers run in
// priority order, then subscription order. A panicking handler is recovered
// and does not stop delivery to the others.
//
// Bus is safe for concurrent use. Handlers may subscribe and unsubscribe
// while an event is being delivered.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	paused atomic.Bool

	onPanic PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	errs      atomic.Uint64
	panics    atomic.Uint64
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithPanicHandler sets a callback for recovered handler panics.
func WithPanicHandler(h PanicHandler) BusOption {
	return func(b *Bus) {
		b.onPanic = h
	}
}

// NewBus creates a bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for topics matching pattern.
func (b *Bus) Subscribe(pattern topic.Topic, h Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if h == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}
	cfg := SubscriptionConfig{Priority: PriorityNormal}
	for _, opt := range opts {
		opt(&cfg)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &Subscription{
		id:      uuid.NewString(),
		pattern: pattern,
		handler: h,
		config:  cfg,
	}
	b.subs = append(b.subs, sub)
	slices.SortStableFunc(b.subs, func(x, y *Subscription) int {
		return int(x.config.Priority) - int(y.config.Priority)
	})
	return sub, nil
}

// SubscribeFunc registers fn for topics matching pattern.
func (b *Bus) SubscribeFunc(pattern topic.Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe cancels and removes sub.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.Cancel()
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.Index(b.subs, sub)
	if i < 0 {
		return ErrSubscriptionNotFound
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	return nil
}

// Pause drops published events until Resume.
func (b *Bus) Pause() { b.paused.Store(true) }

// Resume restarts delivery.
func (b *Bus) Resume() { b.paused.Store(false) }

// IsPaused reports whether the bus is paused.
func (b *Bus) IsPaused() bool { return b.paused.Load() }

// Publish delivers event to matching subscriptions. It returns the handler
// errors and recovered panics joined together, or nil.
func (b *Bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || tp.EventTopic() == "" {
		return ErrInvalidEvent
	}
	if b.paused.Load() {
		return nil
	}
	t := tp.EventTopic()
	b.published.Add(1)

	var errs []error
	for _, sub := range b.match(t) {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if !sub.shouldDeliver(event) {
			continue
		}
		if err := b.deliver(ctx, sub, t, event); err != nil {
			errs = append(errs, err)
			continue
		}
		b.delivered.Add(1)
		if sub.config.Once {
			_ = b.Unsubscribe(sub)
		}
	}
	return errors.Join(errs...)
}

func (b *Bus) match(t topic.Topic) []*Subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []*Subscription
	for _, sub := range b.subs {
		if t.Matches(sub.pattern) {
			out = append(out, sub)
		}
	}
	return out
}

func (b *Bus) deliver(ctx context.Context, sub *Subscription, t topic.Topic, event any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			if b.onPanic != nil {
				b.onPanic(event, r)
			}
			err = &PanicError{SubscriptionID: sub.id, Topic: t.String(), Value: r}
		}
	}()
	if herr := sub.handler.Handle(ctx, event); herr != nil {
		b.errs.Add(1)
		return &HandlerError{SubscriptionID: sub.id, Topic: t.String(), Err: herr}
	}
	return nil
}

// Stats returns counters of bus activity.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := 0
	for _, sub := range b.subs {
		if sub.IsActive() {
			active++
		}
	}
	b.mu.RUnlock()
	return Stats{
		EventsPublished:   b.published.Load(),
		EventsDelivered:   b.delivered.Load(),
		HandlerErrors:     b.errs.Load(),
		HandlerPanics:     b.panics.Load(),
		ActiveSubscribers: active,
	}
}
