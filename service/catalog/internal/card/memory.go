package card

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore e' il catalogo in memoria, usato in dev e dal mock-server.
// Le letture prendono solo il read lock.
type MemoryStore struct {
	mu    sync.RWMutex
	cards map[string]Card
}

// NewMemoryStore crea lo store con le carte iniziali.
func NewMemoryStore(seed []Card) *MemoryStore {
	store := &MemoryStore{cards: make(map[string]Card, len(seed))}
	for _, c := range seed {
		store.cards[c.ID] = c
	}
	return store
}

// List ritorna le carte ordinate per id.
func (s *MemoryStore) List(_ context.Context) ([]Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Card, 0, len(s.cards))
	for _, c := range s.cards {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.cards[id]
	if !ok {
		return Card{}, ErrCardNotFound
	}
	return c, nil
}

func (s *MemoryStore) FindByName(_ context.Context, name string) (Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key := nameKey(name)
	for _, c := range s.cards {
		if nameKey(c.Name) == key {
			return c, nil
		}
	}
	return Card{}, ErrCardNotFound
}

// Insert rifiuta id o nomi duplicati.
func (s *MemoryStore) Insert(_ context.Context, card Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[card.ID]; ok {
		return ErrCardExists
	}
	key := nameKey(card.Name)
	for _, c := range s.cards {
		if nameKey(c.Name) == key {
			return ErrCardExists
		}
	}
	s.cards[card.ID] = card
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cards[id]; !ok {
		return ErrCardNotFound
	}
	delete(s.cards, id)
	return nil
}
