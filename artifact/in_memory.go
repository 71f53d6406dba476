package artifact

import (
	"sort"
	"sync"
)

// InMemoryStore is a volatile ArtifactStore keeping payloads in a nested map
// keyed by session id then artifact id. Data is copied on Save and Get so
// callers can't mutate stored bytes.
type InMemoryStore struct {
	mu        sync.Mutex
	artifacts map[string]map[string][]byte
}

// NewInMemoryStore constructs an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores a copy of data under the session and artifact ids.
func (s *InMemoryStore) Save(sessionID, artifactID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID, ok := s.artifacts[sessionID]
	if !ok {
		byID = make(map[string][]byte)
		s.artifacts[sessionID] = byID
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	byID[artifactID] = cp
	return nil
}

// Get returns a copy of the stored payload or ErrNotFound.
func (s *InMemoryStore) Get(sessionID, artifactID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.artifacts[sessionID][artifactID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the sorted artifact ids stored for the session.
func (s *InMemoryStore) List(sessionID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.artifacts[sessionID]))
	for id := range s.artifacts[sessionID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes an artifact, returning ErrNotFound when absent.
func (s *InMemoryStore) Delete(sessionID, artifactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.artifacts[sessionID][artifactID]; !ok {
		return ErrNotFound
	}
	delete(s.artifacts[sessionID], artifactID)
	return nil
}
