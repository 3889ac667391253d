package notifier

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// SubscriberStore persists the subscriber set across restarts.
type SubscriberStore interface {
	AddSubscriber(chatID int64) error
	RemoveSubscriber(chatID int64) error
	Subscribers() ([]int64, error)
}

// Registry is the explicit subscriber set owned by the transport layer.
// The analysis core never sees it; the scanner asks for the current list
// when broadcasting.
type Registry struct {
	mu    sync.RWMutex
	chats map[int64]struct{}
	store SubscriberStore
	log   *logrus.Logger
}

// NewRegistry builds a registry seeded from the store.
func NewRegistry(store SubscriberStore, log *logrus.Logger) (*Registry, error) {
	ids, err := store.Subscribers()
	if err != nil {
		return nil, err
	}
	chats := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		chats[id] = struct{}{}
	}
	return &Registry{chats: chats, store: store, log: log}, nil
}

// Subscribe adds a chat and reports whether it was new.
func (r *Registry) Subscribe(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[chatID]; ok {
		return false
	}
	r.chats[chatID] = struct{}{}
	if err := r.store.AddSubscriber(chatID); err != nil {
		r.log.WithError(err).Errorf("persist subscriber %d", chatID)
	}
	return true
}

// Unsubscribe removes a chat and reports whether it was present.
func (r *Registry) Unsubscribe(chatID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chats[chatID]; !ok {
		return false
	}
	delete(r.chats, chatID)
	if err := r.store.RemoveSubscriber(chatID); err != nil {
		r.log.WithError(err).Errorf("remove subscriber %d", chatID)
	}
	return true
}

// List returns a snapshot of subscribed chat IDs.
func (r *Registry) List() []int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]int64, 0, len(r.chats))
	for id := range r.chats {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of subscribers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chats)
}
