package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// Service handles read access to documents on top of a Repository.
type Service struct {
	repo   Repository
	logger *slog.Logger
	mu     sync.RWMutex
}

// NewService creates a new Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// Repository exposes the underlying repository.
func (s *Service) Repository() Repository {
	return s.repo
}

// GetDocument retrieves a document.
func (s *Service) GetDocument(ctx context.Context, id string) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	return s.repo.Get(ctx, id)
}

// ListDocuments retrieves all documents.
func (s *Service) ListDocuments(ctx context.Context) ([]Document, error) {
	return s.repo.List(ctx)
}

// Scan enumerates documents under prefix. Repositories that cannot report
// skipped entries fall back to List filtered by prefix.
func (s *Service) Scan(ctx context.Context, prefix string) (ScanResult, error) {
	if sc, ok := s.repo.(Scanner); ok {
		return sc.Scan(ctx, prefix)
	}

	docs, err := s.repo.List(ctx)
	if err != nil {
		return ScanResult{}, err
	}
	var res ScanResult
	for _, d := range docs {
		if prefix == "" || strings.HasPrefix(d.ID, prefix) {
			res.Documents = append(res.Documents, d)
		}
	}
	return res, nil
}

// Watch observes changes in the repository if supported.
func (s *Service) Watch(ctx context.Context, pattern string) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx, pattern)
}

// Invalidate drops any cached parse of id. It is a no-op for uncached repositories.
func (s *Service) Invalidate(id string) {
	if inv, ok := s.repo.(Invalidator); ok {
		inv.Invalidate(id)
	}
}

// ValidateID rejects IDs that could escape the store root.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.HasPrefix(id, "/") || strings.Contains(id, "\\") {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	for _, part := range strings.Split(id, "/") {
		if part == "" || part == "." || part == ".." {
			return fmt.Errorf("%w: %q", ErrInvalidID, id)
		}
	}
	return nil
}
