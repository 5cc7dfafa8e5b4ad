package core

import "context"

// Repository defines the contract for reading documents from the Content Store.
// The store is the system of record and is edited out-of-band, so there are no
// write operations.
type Repository interface {
	// Initialize ensures the underlying storage is reachable (e.g. the directory exists).
	Initialize(ctx context.Context) error

	// Get retrieves a document by its ID. Missing documents return ErrNotFound.
	Get(ctx context.Context, id string) (Document, error)

	// List returns every document that parses. Unparseable entries are dropped.
	List(ctx context.Context) ([]Document, error)
}

// Scanner is implemented by repositories that can report skipped entries
// alongside the documents they loaded.
type Scanner interface {
	// Scan enumerates documents whose ID matches prefix ("" for all).
	Scan(ctx context.Context, prefix string) (ScanResult, error)
}

// Watchable is implemented by repositories that can observe out-of-band edits.
type Watchable interface {
	// Watch emits events for documents matching the glob pattern until ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Invalidator is implemented by repositories holding a parse cache.
type Invalidator interface {
	Invalidate(id string)
}
