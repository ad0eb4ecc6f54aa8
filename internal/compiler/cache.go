// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package compiler

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"pagesmith/internal/models"
)

// cacheKey identifies one compiled snapshot. Every mutation advances
// UpdatedAt, so an edit produces a miss without explicit invalidation.
type cacheKey struct {
	id      uuid.UUID
	updated int64 // UpdatedAt in Unix nanoseconds
	year    int
}

// Cache memoizes compilations for previews. Old snapshots of a document
// are dropped when a newer one is stored. It is safe for concurrent use.
type Cache struct {
	mu      sync.RWMutex
	entries map[cacheKey]Artifacts
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[cacheKey]Artifacts)}
}

// Compile returns the cached artifacts for doc, compiling on a miss.
func (c *Cache) Compile(doc *models.Document) Artifacts {
	return c.CompileAt(doc, time.Now().Year())
}

// CompileAt is Compile with an explicit copyright year.
func (c *Cache) CompileAt(doc *models.Document, year int) Artifacts {
	key := cacheKey{id: doc.ID, updated: doc.UpdatedAt.UnixNano(), year: year}

	c.mu.RLock()
	a, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return a
	}

	a = CompileAt(doc, year)

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == doc.ID {
			delete(c.entries, k)
		}
	}
	c.entries[key] = a
	slog.Debug("compiled page cached", "document", doc.ID, "size", len(c.entries))
	return a
}

// Invalidate drops every cached snapshot of a document. Called when the
// document is deleted.
func (c *Cache) Invalidate(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.id == id {
			delete(c.entries, k)
		}
	}
}

// Len reports the number of cached snapshots.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
