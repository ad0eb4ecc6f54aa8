// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"sync"

	"github.com/google/uuid"
)

// docLocks serializes read-modify-write cycles per document id. Entries are
// reference counted and removed when the last holder unlocks.
type docLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*docLock
}

type docLock struct {
	mu   sync.Mutex
	refs int
}

func newDocLocks() *docLocks {
	return &docLocks{locks: make(map[uuid.UUID]*docLock)}
}

// lock blocks until id is free and returns the matching unlock function.
func (l *docLocks) lock(id uuid.UUID) (unlock func()) {
	l.mu.Lock()
	dl, ok := l.locks[id]
	if !ok {
		dl = &docLock{}
		l.locks[id] = dl
	}
	dl.refs++
	l.mu.Unlock()

	dl.mu.Lock()
	return func() {
		dl.mu.Unlock()

		l.mu.Lock()
		dl.refs--
		if dl.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}

// size returns the number of ids currently held or awaited.
func (l *docLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
