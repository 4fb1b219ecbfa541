// Package events fans SignOutEvents out to the parts of the client that keep
// session-derived state, in process and across processes via Redis.
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/umerwe/school-frontend-sub001/internal/client/session"
)

// Handler reacts to a sign-out, typically by dropping cached data.
type Handler func(ctx context.Context, ev session.SignOutEvent) error

// Bus is an in-process Notifier that calls every subscribed handler in
// subscription order. Handler errors are joined; all handlers always run.
type Bus struct {
	mu       sync.RWMutex
	nextID   int
	handlers []subscription
}

type subscription struct {
	id int
	fn Handler
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers fn and returns a function that removes it.
func (b *Bus) Subscribe(fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers = append(b.handlers, subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.handlers {
			if s.id == id {
				b.handlers = append(b.handlers[:i], b.handlers[i+1:]...)
				return
			}
		}
	}
}

func (b *Bus) Notify(ctx context.Context, ev session.SignOutEvent) error {
	b.mu.RLock()
	hs := make([]subscription, len(b.handlers))
	copy(hs, b.handlers)
	b.mu.RUnlock()

	var errs []error
	for _, s := range hs {
		if err := s.fn(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Multi notifies every notifier in order and joins their errors.
type Multi []session.Notifier

func (m Multi) Notify(ctx context.Context, ev session.SignOutEvent) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
