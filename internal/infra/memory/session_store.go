package memory

import (
	"context"
	"sync"

	"catalog-broadcast-bot/internal/domain/model"
	"catalog-broadcast-bot/internal/domain/ports/repository"
)

var (
	_ repository.PendingImageRepository     = (*PendingImageStore)(nil)
	_ repository.AwaitingDecisionRepository = (*AwaitingDecisionStore)(nil)
	_ repository.EditSessionRepository      = (*EditSessionStore)(nil)
)

// PendingImageStore keeps the last photo URL sent by each operator.
// Entries live until consumed or until the process exits.
type PendingImageStore struct {
	mu     sync.RWMutex
	images map[int64]string
}

func NewPendingImageStore() *PendingImageStore {
	return &PendingImageStore{images: make(map[int64]string)}
}

func (s *PendingImageStore) Set(_ context.Context, operatorID int64, imageURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.images[operatorID] = imageURL
	return nil
}

func (s *PendingImageStore) Get(_ context.Context, operatorID int64) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	url, ok := s.images[operatorID]
	return url, ok, nil
}

func (s *PendingImageStore) Clear(_ context.Context, operatorID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.images, operatorID)
	return nil
}

// AwaitingDecisionStore keeps one undecided product per operator.
type AwaitingDecisionStore struct {
	mu       sync.Mutex
	products map[int64]model.Product
}

func NewAwaitingDecisionStore() *AwaitingDecisionStore {
	return &AwaitingDecisionStore{products: make(map[int64]model.Product)}
}

func (s *AwaitingDecisionStore) Put(_ context.Context, operatorID int64, p *model.Product) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, replaced := s.products[operatorID]
	s.products[operatorID] = *p
	return replaced, nil
}

func (s *AwaitingDecisionStore) Take(_ context.Context, operatorID int64) (*model.Product, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[operatorID]
	if !ok {
		return nil, false, nil
	}
	delete(s.products, operatorID)
	return &p, true, nil
}

type editKey struct {
	chatID    int64
	messageID int
}

// EditSessionStore keeps open edit prompts.
type EditSessionStore struct {
	mu       sync.RWMutex
	sessions map[editKey]repository.EditSession
}

func NewEditSessionStore() *EditSessionStore {
	return &EditSessionStore{sessions: make(map[editKey]repository.EditSession)}
}

func (s *EditSessionStore) Open(_ context.Context, sess repository.EditSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[editKey{sess.ChatID, sess.PromptMessageID}] = sess
	return nil
}

func (s *EditSessionStore) Get(_ context.Context, chatID int64, promptMessageID int) (*repository.EditSession, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[editKey{chatID, promptMessageID}]
	if !ok {
		return nil, false, nil
	}
	return &sess, true, nil
}

func (s *EditSessionStore) Close(_ context.Context, chatID int64, promptMessageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, editKey{chatID, promptMessageID})
	return nil
}
