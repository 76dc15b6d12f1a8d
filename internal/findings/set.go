package findings

import (
	"sort"
	"sync"

	"github.com/maxvaer/goforce/internal/scanner"
)

// Set is an append-only, concurrency-safe collection of findings keyed by
// Finding.ID. The membership check and the insert happen under one lock,
// so exactly one caller wins for any identifier.
type Set struct {
	mu    sync.Mutex
	items map[string]scanner.Finding
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{items: make(map[string]scanner.Finding)}
}

// Add inserts f and reports whether its ID was new.
func (s *Set) Add(f scanner.Finding) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[f.ID]; ok {
		return false
	}
	s.items[f.ID] = f
	return true
}

// TryAdd inserts a bare identifier and reports whether it was new.
func (s *Set) TryAdd(id string) bool {
	return s.Add(scanner.Finding{ID: id})
}

// Contains reports whether id has been recorded.
func (s *Set) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.items[id]
	return ok
}

// Len returns the number of unique identifiers.
func (s *Set) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Snapshot returns all identifiers sorted lexically.
func (s *Set) Snapshot() []string {
	s.mu.Lock()
	ids := make([]string, 0, len(s.items))
	for id := range s.items {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sort.Strings(ids)
	return ids
}

// Findings returns copies of all findings sorted by ID.
func (s *Set) Findings() []scanner.Finding {
	s.mu.Lock()
	out := make([]scanner.Finding, 0, len(s.items))
	for _, f := range s.items {
		out = append(out, f)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
