package memory

import (
	"context"
	"sort"
	"sync"

	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/repository"
)

var _ repository.SubscriberRepository = (*SubscriberRegistry)(nil)

// SubscriberRegistry is an in-memory set of chat ids per chat kind.
// There is no removal: a chat that blocks the bot stays registered until restart.
type SubscriberRegistry struct {
	mu    sync.RWMutex
	chats map[model.ChatKind]map[int64]struct{}
}

func NewSubscriberRegistry() *SubscriberRegistry {
	return &SubscriberRegistry{chats: make(map[model.ChatKind]map[int64]struct{})}
}

func (r *SubscriberRegistry) Register(_ context.Context, chatID int64, kind model.ChatKind) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.chats[kind]
	if !ok {
		set = make(map[int64]struct{})
		r.chats[kind] = set
	}
	if _, exists := set[chatID]; exists {
		return false, nil
	}
	set[chatID] = struct{}{}
	return true, nil
}

// List returns a sorted snapshot; later registrations do not affect it.
func (r *SubscriberRegistry) List(_ context.Context, kind model.ChatKind) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.chats[kind]
	out := make([]int64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

func (r *SubscriberRegistry) Count(_ context.Context, kind model.ChatKind) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chats[kind]), nil
}
