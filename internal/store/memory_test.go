package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStorePutGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "quizzes", "q1", Document{"title": "Basics"}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	doc, err := s.Get(ctx, "quizzes", "q1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if doc["title"] != "Basics" {
		t.Errorf("Expected title Basics, got %v", doc["title"])
	}
	if doc["_id"] != "q1" {
		t.Errorf("Expected _id q1, got %v", doc["_id"])
	}
}

func TestMemoryStoreGetNotFound(t *testing.T) {
	s := NewMemoryStore()
	if _, err := s.Get(context.Background(), "quizzes", "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStorePutReplaces(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, "quizzes", "q1", Document{"title": "Old", "status": "active"})
	_ = s.Put(ctx, "quizzes", "q1", Document{"title": "New"})

	doc, _ := s.Get(ctx, "quizzes", "q1")
	if doc["title"] != "New" {
		t.Errorf("Expected replaced title, got %v", doc["title"])
	}
	if _, ok := doc["status"]; ok {
		t.Error("Put must replace the whole document")
	}
}

func TestMemoryStoreQueryAndCount(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, "attempts", "a1", Document{"user_id": "u1", "quiz_id": "q1"})
	_ = s.Put(ctx, "attempts", "a2", Document{"user_id": "u1", "quiz_id": "q2"})
	_ = s.Put(ctx, "attempts", "a3", Document{"user_id": "u2", "quiz_id": "q1"})

	docs, err := s.Query(ctx, "attempts", Document{"user_id": "u1"})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(docs) != 2 {
		t.Errorf("Expected 2 documents, got %d", len(docs))
	}

	n, err := s.Count(ctx, "attempts", Document{"user_id": "u1", "quiz_id": "q2"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected count 1, got %d", n)
	}

	all, _ := s.Query(ctx, "attempts", nil)
	if len(all) != 3 {
		t.Errorf("Expected 3 documents with nil filter, got %d", len(all))
	}
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, "quizzes", "q1", Document{"title": "Basics"})

	doc, _ := s.Get(ctx, "quizzes", "q1")
	doc["title"] = "tampered"

	again, _ := s.Get(ctx, "quizzes", "q1")
	if again["title"] != "Basics" {
		t.Error("Mutating a returned document must not affect the store")
	}
}
