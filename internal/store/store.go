// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists documents. PostgresStore keeps them in a JSONB
// table; MemoryStore keeps deep copies in a map and is used in tests and
// when no database is configured.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

// DocumentStore is implemented by every storage backend. Find and Delete
// return an error wrapping models.ErrNotFound for unknown ids.
type DocumentStore interface {
	// Save inserts or replaces doc, assigning an id when it has none.
	Save(ctx context.Context, doc *models.Document) error
	Find(ctx context.Context, id uuid.UUID) (*models.Document, error)
	// List returns every document, most recently updated first.
	List(ctx context.Context) ([]*models.Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MemoryStore is an in-process DocumentStore. Documents are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*models.Document
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[uuid.UUID]*models.Document)}
}

func (s *MemoryStore) Save(_ context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc.Clone()
	return nil
}

func (s *MemoryStore) Find(_ context.Context, id uuid.UUID) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: document %s", models.ErrNotFound, id)
	}
	return doc.Clone(), nil
}

func (s *MemoryStore) List(_ context.Context) ([]*models.Document, error) {
	s.mu.RLock()
	out := make([]*models.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		out = append(out, doc.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: document %s", models.ErrNotFound, id)
	}
	delete(s.docs, id)
	return nil
}
