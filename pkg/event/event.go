// Package event provides the typed callback feed and subscription handle used
// to propagate screen and layout changes.
//
// A [Feed] fans a value out to every registered callback in registration
// order. Subscribing returns a [*Subscription] whose Unsubscribe is
// idempotent: the first call detaches, every later call is a no-op.
//
// Thread Safety Rules:
//   - Subscribe and Unsubscribe are safe from any goroutine
//   - Emit runs callbacks outside the feed's lock, so callbacks may
//     subscribe, unsubscribe or read the emitter
//   - Delivery order across concurrent Emit calls is not defined; layout
//     code emits from a single goroutine
//
// Example usage:
//
//	var feed event.Feed[int]
//	sub := feed.Subscribe(func(v int) { fmt.Println("got", v) })
//	feed.Emit(1)
//	sub.Unsubscribe()
package event

import (
	"fmt"
	"sync"

	"github.com/matzehuels/dualscreen/pkg/errors"
)

// Subscription is a handle to a registered callback or platform listener.
// The zero value and nil are valid and already unsubscribed.
type Subscription struct {
	once   sync.Once
	cancel func() error
}

// NewSubscription wraps a cancel function. The function runs at most once,
// on the first call to Unsubscribe.
func NewSubscription(cancel func() error) *Subscription {
	return &Subscription{cancel: cancel}
}

// Unsubscribe detaches the subscription.
//
// Only the first call does any work; it returns whatever the cancel function
// returned. A cancel function that panics, typically because the resource it
// detaches from is already gone, is reported as an ELEMENT_DETACHED error
// instead of crashing the caller.
func (s *Subscription) Unsubscribe() (err error) {
	if s == nil {
		return nil
	}
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		defer func() {
			if r := recover(); r != nil {
				err = errors.New(errors.ErrCodeElementDetached, "unsubscribe: %v", r)
			}
		}()
		err = s.cancel()
	})
	return err
}

// Feed delivers values of type T to subscribers.
// The zero value is ready to use.
type Feed[T any] struct {
	mu     sync.Mutex
	subs   []*subscriber[T]
	nextID uint64
}

type subscriber[T any] struct {
	id     uint64
	fn     func(T)
	active bool
}

// Subscribe registers fn to be called on every Emit.
// Callbacks run in registration order.
func (f *Feed[T]) Subscribe(fn func(T)) *Subscription {
	if fn == nil {
		return NewSubscription(nil)
	}

	f.mu.Lock()
	s := &subscriber[T]{id: f.nextID, fn: fn, active: true}
	f.nextID++
	f.subs = append(f.subs, s)
	f.mu.Unlock()

	return NewSubscription(func() error {
		f.mu.Lock()
		defer f.mu.Unlock()
		if !s.active {
			return fmt.Errorf("subscriber %d already removed", s.id)
		}
		s.active = false
		return nil
	})
}

// Emit delivers v to every active subscriber and returns how many received it.
func (f *Feed[T]) Emit(v T) int {
	f.mu.Lock()
	// Drop inactive subscribers while holding the lock so unsubscribed
	// callbacks do not accumulate.
	active := make([]*subscriber[T], 0, len(f.subs))
	for _, s := range f.subs {
		if s.active {
			active = append(active, s)
		}
	}
	f.subs = active
	f.mu.Unlock()

	delivered := 0
	for _, s := range active {
		f.mu.Lock()
		live := s.active
		f.mu.Unlock()
		if !live {
			continue
		}
		s.fn(v)
		delivered++
	}
	return delivered
}

// Len returns the number of active subscribers.
func (f *Feed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.subs {
		if s.active {
			n++
		}
	}
	return n
}

// Close removes every subscriber. Outstanding Subscriptions remain safe to
// unsubscribe.
func (f *Feed[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		s.active = false
	}
	f.subs = nil
}
