package messaging

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

var (
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
	// ErrSubscriberFull is reported for a subscriber whose channel had no
	// room; the message is dropped for that subscriber only.
	ErrSubscriberFull = errors.New("subscriber channel full")
)

// SimpleBroker fans simulation messages out to subscriber channels. It
// never blocks the publisher: the manager publishes while holding its tick
// lock.
type SimpleBroker struct {
	subscribers map[string]chan<- Message
	mu          sync.RWMutex
}

func NewBroker() *SimpleBroker {
	return &SimpleBroker{
		subscribers: make(map[string]chan<- Message),
	}
}

// Publish delivers msg to the subscribers named in msg.To, or to every
// subscriber except the sender when To is empty. Unknown recipients are
// ignored.
func (b *SimpleBroker) Publish(msg Message) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var errs []error
	for _, id := range b.recipientsLocked(msg) {
		ch, ok := b.subscribers[id]
		if !ok {
			continue
		}
		select {
		case ch <- msg:
		default:
			errs = append(errs, fmt.Errorf("%s: %w", id, ErrSubscriberFull))
		}
	}
	return errors.Join(errs...)
}

func (b *SimpleBroker) recipientsLocked(msg Message) []string {
	if len(msg.To) > 0 {
		return msg.To
	}
	ids := slices.Sorted(maps.Keys(b.subscribers))
	return slices.DeleteFunc(ids, func(id string) bool { return id == msg.From })
}

func (b *SimpleBroker) Subscribe(id string, ch chan<- Message) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[id]; ok {
		return fmt.Errorf("subscribe %s: %w", id, ErrAlreadySubscribed)
	}
	b.subscribers[id] = ch
	return nil
}

func (b *SimpleBroker) Unsubscribe(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subscribers[id]; !ok {
		return fmt.Errorf("unsubscribe %s: %w", id, ErrNotSubscribed)
	}
	delete(b.subscribers, id)
	return nil
}

// Subscribers lists the subscriber IDs, sorted.
func (b *SimpleBroker) Subscribers() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Sorted(maps.Keys(b.subscribers))
}

// Reset drops every subscription.
func (b *SimpleBroker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	clear(b.subscribers)
}
