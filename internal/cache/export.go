// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"pagesmith/internal/models"
)

const (
	// exportKeyPrefix is the Valkey key prefix for export hashes.
	exportKeyPrefix = "export:"

	// DefaultExportTTL is how long an export stays downloadable.
	DefaultExportTTL = 24 * time.Hour
)

// ExportCache stores the files of one export under its id. Get returns an
// error wrapping models.ErrNotFound for unknown or expired exports and for
// file names that were not stored.
type ExportCache interface {
	Put(ctx context.Context, exportID string, files map[string][]byte) error
	Get(ctx context.Context, exportID, name string) ([]byte, error)
}

// ValkeyExportCache keeps each export as one hash, field per file.
type ValkeyExportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewValkeyExportCache creates a cache on client. A zero ttl selects
// DefaultExportTTL.
func NewValkeyExportCache(client *redis.Client, ttl time.Duration) *ValkeyExportCache {
	if ttl <= 0 {
		ttl = DefaultExportTTL
	}
	return &ValkeyExportCache{client: client, ttl: ttl}
}

// Put writes all files and the expiry in one transaction.
func (c *ValkeyExportCache) Put(ctx context.Context, exportID string, files map[string][]byte) error {
	key := exportKeyPrefix + exportID
	values := make([]any, 0, 2*len(files))
	for name, body := range files {
		values = append(values, name, body)
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, values...)
		pipe.Expire(ctx, key, c.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("store export %s: %w", exportID, err)
	}
	slog.Debug("export cached", "id", exportID, "files", len(files), "ttl", c.ttl)
	return nil
}

func (c *ValkeyExportCache) Get(ctx context.Context, exportID, name string) ([]byte, error) {
	val, err := c.client.HGet(ctx, exportKeyPrefix+exportID, name).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: export %s file %s", models.ErrNotFound, exportID, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load export %s: %w", exportID, err)
	}
	return val, nil
}

// MemoryExportCache is an in-process ExportCache. Expired exports are
// removed lazily on access and on each Put.
type MemoryExportCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryExport
}

type memoryExport struct {
	files   map[string][]byte
	expires time.Time
}

// NewMemoryExportCache creates an empty cache. A zero ttl selects
// DefaultExportTTL.
func NewMemoryExportCache(ttl time.Duration) *MemoryExportCache {
	if ttl <= 0 {
		ttl = DefaultExportTTL
	}
	return &MemoryExportCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryExport)}
}

func (c *MemoryExportCache) Put(_ context.Context, exportID string, files map[string][]byte) error {
	copied := make(map[string][]byte, len(files))
	for name, body := range files {
		copied[name] = append([]byte(nil), body...)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for id, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, id)
		}
	}
	c.entries[exportID] = memoryExport{files: copied, expires: now.Add(c.ttl)}
	return nil
}

func (c *MemoryExportCache) Get(_ context.Context, exportID, name string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[exportID]
	if ok && !c.now().Before(e.expires) {
		delete(c.entries, exportID)
		ok = false
	}
	if !ok {
		return nil, fmt.Errorf("%w: export %s", models.ErrNotFound, exportID)
	}
	body, ok := e.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: export %s file %s", models.ErrNotFound, exportID, name)
	}
	return append([]byte(nil), body...), nil
}
