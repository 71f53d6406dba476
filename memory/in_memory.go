package memory

import (
	"fmt"
	"strings"
	"sync"

	"github.com/voxmesh/voxmesh/core"
)

// storedMemory is a single recallable snippet kept by the in-memory store.
type storedMemory struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// InMemoryStore is a volatile MemoryStore. Each session owns a key/value
// scratchpad (Get/Put) and an ordered list of stored snippets
// (Store/Search/Delete). Search matches by case-insensitive substring.
type InMemoryStore struct {
	mu       sync.Mutex
	kv       map[string]map[string]any
	snippets map[string][]storedMemory
	nextID   int
}

// NewInMemoryStore constructs an empty in-memory memory store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		kv:       make(map[string]map[string]any),
		snippets: make(map[string][]storedMemory),
	}
}

// Get returns a copy of the session's key/value memory.
func (s *InMemoryStore) Get(sessionID string) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]any, len(s.kv[sessionID]))
	for k, v := range s.kv[sessionID] {
		out[k] = v
	}
	return out, nil
}

// Put merges a delta into the session's key/value memory.
func (s *InMemoryStore) Put(sessionID string, delta map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.kv[sessionID]
	if !ok {
		existing = make(map[string]any, len(delta))
		s.kv[sessionID] = existing
	}
	for k, v := range delta {
		existing[k] = v
	}
	return nil
}

// Store appends a snippet with metadata to the session's memory.
func (s *InMemoryStore) Store(sessionID string, content string, metadata map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	md := make(map[string]any, len(metadata))
	for k, v := range metadata {
		md[k] = v
	}
	s.snippets[sessionID] = append(s.snippets[sessionID], storedMemory{
		ID:       fmt.Sprintf("mem_%d", s.nextID),
		Content:  content,
		Metadata: md,
	})
	return nil
}

// Search returns up to limit snippets whose content contains the query,
// compared case-insensitively. An empty query matches everything.
func (s *InMemoryStore) Search(sessionID string, query string, limit int) ([]core.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(query)

	var results []core.SearchResult
	for _, m := range s.snippets[sessionID] {
		if needle != "" && !strings.Contains(strings.ToLower(m.Content), needle) {
			continue
		}
		results = append(results, core.SearchResult{
			ID:       m.ID,
			Content:  m.Content,
			Score:    1.0,
			Metadata: m.Metadata,
		})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}

// Delete removes a stored snippet by id.
func (s *InMemoryStore) Delete(sessionID string, memoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.snippets[sessionID]
	for i, m := range list {
		if m.ID == memoryID {
			s.snippets[sessionID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("memory not found: %s", memoryID)
}
