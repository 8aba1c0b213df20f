package question

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory Store.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[string]*Question
	byHash map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*Question),
		byHash: make(map[string]string),
	}
}

func (s *MemoryStore) Put(_ context.Context, q *Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := q.Clone()
	if c.ID == "" {
		c.ID = NewID()
		q.ID = c.ID
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
		q.CreatedAt = c.CreatedAt
	}
	if old, ok := s.byID[c.ID]; ok {
		if s.byHash[old.Hash()] == c.ID {
			delete(s.byHash, old.Hash())
		}
	}
	s.byID[c.ID] = c
	s.byHash[c.Hash()] = c.ID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return q.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Question, 0, len(s.byID))
	for _, q := range s.byID {
		out = append(out, q.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if s.byHash[q.Hash()] == id {
		delete(s.byHash, q.Hash())
	}
	delete(s.byID, id)
	return nil
}

func (s *MemoryStore) FindByHash(_ context.Context, hash string) (*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byHash[hash]
	if !ok {
		return nil, ErrNotFound
	}
	return s.byID[id].Clone(), nil
}
