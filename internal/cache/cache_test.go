// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"pagesmith/internal/models"
)

// testValkeyClient returns a client on DB 15, skipping when Valkey is
// unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	client, err := ConnectValkey(ctx, envOr("VALKEY_HOST", "localhost"), envOr("VALKEY_PORT", "6379"),
		os.Getenv("VALKEY_PASSWORD"), 15)
	if err != nil {
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		bg := context.Background()
		keys, _ := client.Keys(bg, exportKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(bg, keys...)
		}
		client.Close()
	})
	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var testFiles = map[string][]byte{
	"index.html": []byte("<!DOCTYPE html>"),
	"styles.css": []byte(":root {}"),
	"script.js":  []byte("// js"),
}

// exercise runs the ExportCache contract against c.
func exercise(t *testing.T, c ExportCache) {
	ctx := context.Background()
	id := uuid.NewString()

	if _, err := c.Get(ctx, id, "index.html"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("miss: err = %v, want ErrNotFound", err)
	}

	if err := c.Put(ctx, id, testFiles); err != nil {
		t.Fatalf("Put: %v", err)
	}
	for name, want := range testFiles {
		got, err := c.Get(ctx, id, name)
		if err != nil {
			t.Fatalf("Get(%s): %v", name, err)
		}
		if string(got) != string(want) {
			t.Errorf("Get(%s) = %q, want %q", name, got, want)
		}
	}

	if _, err := c.Get(ctx, id, "secrets.txt"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown file: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryExportCache(t *testing.T) {
	exercise(t, NewMemoryExportCache(time.Minute))
}

func TestMemoryExportCacheExpiry(t *testing.T) {
	c := NewMemoryExportCache(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	ctx := context.Background()
	if err := c.Put(ctx, "e1", testFiles); err != nil {
		t.Fatal(err)
	}

	now = now.Add(59 * time.Second)
	if _, err := c.Get(ctx, "e1", "index.html"); err != nil {
		t.Fatalf("before expiry: %v", err)
	}

	now = now.Add(time.Second)
	if _, err := c.Get(ctx, "e1", "index.html"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("after expiry: err = %v, want ErrNotFound", err)
	}
}

func TestMemoryExportCacheCopies(t *testing.T) {
	c := NewMemoryExportCache(0)
	files := map[string][]byte{"index.html": []byte("original")}
	if err := c.Put(context.Background(), "e1", files); err != nil {
		t.Fatal(err)
	}
	files["index.html"][0] = 'X'

	got, _ := c.Get(context.Background(), "e1", "index.html")
	if string(got) != "original" {
		t.Errorf("stored bytes changed to %q", got)
	}
}

func TestValkeyExportCache(t *testing.T) {
	client := testValkeyClient(t)
	exercise(t, NewValkeyExportCache(client, time.Minute))
}

func TestValkeyExportCacheTTL(t *testing.T) {
	client := testValkeyClient(t)
	c := NewValkeyExportCache(client, 90*time.Second)

	ctx := context.Background()
	if err := c.Put(ctx, "ttl-check", testFiles); err != nil {
		t.Fatal(err)
	}
	ttl, err := client.TTL(ctx, exportKeyPrefix+"ttl-check").Result()
	if err != nil {
		t.Fatal(err)
	}
	if ttl <= 0 || ttl > 90*time.Second {
		t.Errorf("TTL = %v, want (0, 90s]", ttl)
	}
}
