// Package sessions owns the per-group language selections and operators.
//
// The in-memory maps are authoritative. The Repository is a write-through
// mirror: it is read once by Load and rewritten after every mutation.
package sessions

import (
	"context"
	"fmt"
	"log"
	"sync"

	"langcast-bot/internal/languages"
)

// Repository is the durable mirror of the store.
type Repository interface {
	// LoadAll returns every stored selection and operator.
	LoadAll(ctx context.Context) (selections map[string][]string, operators map[string]string, err error)
	// SaveLanguages replaces the stored selections with the given snapshot.
	// Groups missing from the snapshot are removed.
	SaveLanguages(ctx context.Context, selections map[string][]string) error
	// SaveOperator records userID as operator unless one is already stored,
	// and returns whichever operator is stored afterwards.
	SaveOperator(ctx context.Context, groupID, userID string) (string, error)
}

// Store maps group → (selected languages, operator).
type Store struct {
	repo Repository

	mu         sync.RWMutex
	selections map[string][]string
	operators  map[string]string

	groupLocks sync.Map // groupID -> *sync.Mutex, serializes operator assignment
	saveMu     sync.Mutex
}

// NewStore creates an empty store backed by repo.
func NewStore(repo Repository) *Store {
	if repo == nil {
		log.Fatal("Session Store: repository is nil")
	}
	return &Store{
		repo:       repo,
		selections: make(map[string][]string),
		operators:  make(map[string]string),
	}
}

// Load replaces the in-memory state with the repository contents.
func (s *Store) Load(ctx context.Context) error {
	selections, operators, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load group sessions: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections = make(map[string][]string, len(selections))
	for groupID, langs := range selections {
		if set := dedupe(langs); len(set) > 0 {
			s.selections[groupID] = set
		}
	}
	s.operators = make(map[string]string, len(operators))
	for groupID, userID := range operators {
		if userID != "" {
			s.operators[groupID] = userID
		}
	}
	log.Printf("[SessionStore] Loaded %d group selection(s) and %d operator(s)", len(s.selections), len(s.operators))
	return nil
}

// Languages returns a copy of the group's selection in selection order; nil when absent.
func (s *Store) Languages(groupID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.selections[groupID])
}

// Snapshot returns a deep copy of every non-empty selection.
func (s *Store) Snapshot() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.selections))
	for groupID, langs := range s.selections {
		out[groupID] = clone(langs)
	}
	return out
}

// Toggle applies a toggle to the group's selection and re-persists the whole map.
//
// languages.Cancel clears the selection, a selected code is removed, any other
// code is appended. An empty result removes the group's entry. The returned
// selection reflects the in-memory state even when persisting fails.
func (s *Store) Toggle(ctx context.Context, groupID, code string) ([]string, error) {
	s.mu.Lock()
	current := s.selections[groupID]
	var next []string
	switch {
	case code == languages.Cancel:
		next = nil
	case contains(current, code):
		next = remove(current, code)
	default:
		next = append(clone(current), code)
	}
	if len(next) == 0 {
		delete(s.selections, groupID)
	} else {
		s.selections[groupID] = next
	}
	s.mu.Unlock()

	return clone(next), s.persist(ctx)
}

// persist writes the current map. Snapshots are taken under saveMu so a
// slower save can never overwrite a newer one.
func (s *Store) persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	if err := s.repo.SaveLanguages(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("failed to persist group selections: %w", err)
	}
	return nil
}

// Operator returns the recorded operator of the group.
func (s *Store) Operator(groupID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.operators[groupID]
	return userID, ok
}

// AssignOperator records userID as the group's operator if none is recorded yet.
//
// Assignment is first-writer-wins: concurrent callers for the same group are
// serialized and only the first one is recorded. It returns the operator in
// effect afterwards and whether this call set it. A persistence failure keeps
// the in-memory assignment and is returned as err.
func (s *Store) AssignOperator(ctx context.Context, groupID, userID string) (operator string, assigned bool, err error) {
	if userID == "" {
		op, _ := s.Operator(groupID)
		return op, false, nil
	}

	lock := s.groupLock(groupID)
	lock.Lock()
	defer lock.Unlock()

	if existing, ok := s.Operator(groupID); ok {
		return existing, false, nil
	}

	stored, saveErr := s.repo.SaveOperator(ctx, groupID, userID)
	if saveErr != nil || stored == "" {
		stored = userID
	}

	s.mu.Lock()
	s.operators[groupID] = stored
	s.mu.Unlock()

	if saveErr != nil {
		return stored, stored == userID, fmt.Errorf("failed to persist operator for group %s: %w", groupID, saveErr)
	}
	return stored, stored == userID, nil
}

func (s *Store) groupLock(groupID string) *sync.Mutex {
	v, _ := s.groupLocks.LoadOrStore(groupID, &sync.Mutex{})
	return v.(*sync.Mutex)
}

func contains(list []string, code string) bool {
	for _, c := range list {
		if c == code {
			return true
		}
	}
	return false
}

func remove(list []string, code string) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		if c != code {
			out = append(out, c)
		}
	}
	return out
}

func clone(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func dedupe(list []string) []string {
	var out []string
	for _, c := range list {
		if c != "" && !contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}
