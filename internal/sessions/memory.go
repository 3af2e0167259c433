package sessions

import (
	"context"
	"sync"
)

// MemoryRepository keeps the mirror in process memory. It is a test double
// for the MongoDB repository.
type MemoryRepository struct {
	mu         sync.Mutex
	selections map[string][]string
	operators  map[string]string
	saves      int
}

// NewMemoryRepository returns an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		selections: make(map[string][]string),
		operators:  make(map[string]string),
	}
}

func (r *MemoryRepository) LoadAll(ctx context.Context) (map[string][]string, map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	selections := make(map[string][]string, len(r.selections))
	for k, v := range r.selections {
		selections[k] = clone(v)
	}
	operators := make(map[string]string, len(r.operators))
	for k, v := range r.operators {
		operators[k] = v
	}
	return selections, operators, nil
}

func (r *MemoryRepository) SaveLanguages(ctx context.Context, selections map[string][]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.selections = make(map[string][]string, len(selections))
	for k, v := range selections {
		if len(v) > 0 {
			r.selections[k] = clone(v)
		}
	}
	r.saves++
	return nil
}

func (r *MemoryRepository) SaveOperator(ctx context.Context, groupID, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.operators[groupID]; ok {
		return existing, nil
	}
	r.operators[groupID] = userID
	return userID, nil
}

// Saves reports how many times SaveLanguages was called.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
