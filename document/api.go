package document

import (
	"context"
)

// Document is a single stored document as returned by a Store. Fields is the
// raw, schemaless field map; callers decide how to interpret it.
type Document struct {
	// ID is the store-assigned identifier of the document.
	ID string

	// Fields holds the document payload keyed by field name. Values are
	// whatever the encoding produced (strings, float64, bool, nested maps).
	Fields map[string]any
}

// Store defines the document collection API consumed by the sync
// controller. Collections are addressed by name and created on first insert.
type Store interface {
	// FetchAll returns every document of the named collection in store
	// order. An unknown collection yields an empty result, not an error.
	FetchAll(ctx context.Context, collection string) ([]Document, error)

	// Insert stores fields as a new document in the named collection and
	// returns the identifier assigned by the store.
	Insert(ctx context.Context, collection string, fields map[string]any) (string, error)
}
