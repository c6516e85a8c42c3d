package store

import (
	"context"
	"reflect"
	"sync"
)

// MemoryStore is a map-backed DocumentStore for tests and local runs.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]map[string]Document)}
}

func (s *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyDocument(doc), nil
}

func (s *MemoryStore) Put(ctx context.Context, collection, id string, fields Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	doc := copyDocument(fields)
	doc["_id"] = id
	s.collections[collection][id] = doc
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, collection string, filter Document) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			docs = append(docs, copyDocument(doc))
		}
	}
	return docs, nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filter Document) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, doc := range s.collections[collection] {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func matches(doc, filter Document) bool {
	for k, want := range filter {
		if !reflect.DeepEqual(doc[k], want) {
			return false
		}
	}
	return true
}

func copyDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}
