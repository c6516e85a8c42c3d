// Package store is the document-store collaborator boundary. The engine and
// repositories speak this interface; Mongo backs it in production and the
// in-memory implementation backs tests and local runs.
package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Document is one stored record's fields.
type Document map[string]interface{}

type DocumentStore interface {
	// Get fetches one document by id, or ErrNotFound.
	Get(ctx context.Context, collection, id string) (Document, error)
	// Put writes the full document under id, creating or replacing it.
	Put(ctx context.Context, collection, id string, fields Document) error
	// Query returns all documents matching the equality filter.
	Query(ctx context.Context, collection string, filter Document) ([]Document, error)
	// Count reports how many documents match the equality filter.
	Count(ctx context.Context, collection string, filter Document) (int64, error)
}
