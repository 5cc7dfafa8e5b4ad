// Package core defines the read-only content domain: documents loaded from the
// Content Store, the repository contract adapters implement, and the Service
// the indices are built on.
package core

import "fmt"

// Metadata represents the flexible key-value pairs parsed from a document header.
type Metadata map[string]any

// Document is the central entity of the Content Store.
// Its ID is the path relative to the store root without extension (e.g. "posts/hello").
type Document struct {
	ID       string
	Ext      string
	Content  string
	Metadata Metadata
}

// EventType represents the type of change observed in the Content Store.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event represents a change in the Content Store.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

// Skipped records a document that could not be loaded, and why.
type Skipped struct {
	ID     string
	Reason error
}

// ScanResult is the outcome of enumerating a store: every document that parsed,
// plus every entry that was skipped with its reason.
type ScanResult struct {
	Documents []Document
	Skipped   []Skipped
}
