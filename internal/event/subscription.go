package event

import (
	"sync/atomic"

	"github.com/dshills/textcore/internal/event/topic"
)

// Subscription is a handler registered for a topic pattern.
type Subscription struct {
	id      string
	pattern topic.Topic
	handler Handler
	config  SubscriptionConfig

	paused    atomic.Bool
	cancelled atomic.Bool
}

// SubscriptionConfig configures a subscription.
type SubscriptionConfig struct {
	Priority Priority
	Filter   FilterFunc

	// Once cancels the subscription after its first successful delivery.
	Once bool
}

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*SubscriptionConfig)

// WithPriority sets the subscription priority.
func WithPriority(p Priority) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Priority = p
	}
}

// WithFilter sets a delivery filter.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Filter = f
	}
}

// WithOnce makes the subscription fire once.
func WithOnce() SubscriptionOption {
	return func(c *SubscriptionConfig) {
		c.Once = true
	}
}

// ID returns the subscription ID.
func (s *Subscription) ID() string { return s.id }

// Topic returns the subscribed pattern.
func (s *Subscription) Topic() topic.Topic { return s.pattern }

// Pause stops delivery until Resume.
func (s *Subscription) Pause() { s.paused.Store(true) }

// Resume restarts delivery after Pause.
func (s *Subscription) Resume() { s.paused.Store(false) }

// Cancel stops delivery permanently.
func (s *Subscription) Cancel() { s.cancelled.Store(true) }

// IsActive reports whether events are delivered to the subscription.
func (s *Subscription) IsActive() bool {
	return !s.paused.Load() && !s.cancelled.Load()
}

func (s *Subscription) shouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	return s.config.Filter == nil || s.config.Filter(event)
}
