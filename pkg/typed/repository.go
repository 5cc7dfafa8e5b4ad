// Package typed converts raw core.Documents into typed records.
// Decoding is strict: a document whose metadata does not fit T is reported as
// skipped with the reason, never silently defaulted.
package typed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/folio/pkg/core"
)

// DocumentModel wraps the raw core.Document with a typed Data field.
type DocumentModel[T any] struct {
	ID      string
	Ext     string
	Content string
	Data    T
}

// Result is the fold of a scan: every document that decoded, plus every
// document that did not, with its reason.
type Result[T any] struct {
	Items   []*DocumentModel[T]
	Skipped []core.Skipped
}

// Repository wraps a core.Repository to provide type-safe access.
type Repository[T any] struct {
	repo core.Repository
}

// NewRepository creates a new type-safe wrapper around an existing repository.
func NewRepository[T any](repo core.Repository) *Repository[T] {
	return &Repository[T]{repo: repo}
}

// Get retrieves a document and decodes it.
func (r *Repository[T]) Get(ctx context.Context, id string) (*DocumentModel[T], error) {
	doc, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return Decode[T](doc)
}

// Scan enumerates documents under prefix and decodes each one. Entries the
// repository could not parse and entries that fail to decode both end up in
// Skipped, in that order.
func (r *Repository[T]) Scan(ctx context.Context, prefix string) (Result[T], error) {
	var raw core.ScanResult
	if sc, ok := r.repo.(core.Scanner); ok {
		var err error
		raw, err = sc.Scan(ctx, prefix)
		if err != nil {
			return Result[T]{}, err
		}
	} else {
		docs, err := r.repo.List(ctx)
		if err != nil {
			return Result[T]{}, err
		}
		for _, d := range docs {
			if prefix == "" || strings.HasPrefix(d.ID, prefix) {
				raw.Documents = append(raw.Documents, d)
			}
		}
	}

	res := Result[T]{
		Items:   make([]*DocumentModel[T], 0, len(raw.Documents)),
		Skipped: append([]core.Skipped(nil), raw.Skipped...),
	}
	for _, d := range raw.Documents {
		model, err := Decode[T](d)
		if err != nil {
			res.Skipped = append(res.Skipped, core.Skipped{ID: d.ID, Reason: err})
			continue
		}
		res.Items = append(res.Items, model)
	}
	return res, nil
}

// Decode converts a core.Document into a DocumentModel by round-tripping its
// metadata through JSON. Type mismatches are errors.
func Decode[T any](doc core.Document) (*DocumentModel[T], error) {
	dataBytes, err := json.Marshal(doc.Metadata)
	if err != nil {
		return nil, fmt.Errorf("metadata marshal failed for %s: %w", doc.ID, err)
	}

	var data T
	decoder := json.NewDecoder(bytes.NewReader(dataBytes))
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode %s: %w", doc.ID, err)
	}

	return &DocumentModel[T]{
		ID:      doc.ID,
		Ext:     doc.Ext,
		Content: doc.Content,
		Data:    data,
	}, nil
}
