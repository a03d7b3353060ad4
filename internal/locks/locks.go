// Package locks serializes read-modify-write cycles per (user, entity) pair.
// The storage layer does not serialize concurrent writers, so without this
// two racing AddItem calls could both read quantity N and write N+1.
package locks

import (
	"sync"

	"github.com/google/uuid"
)

// Keyed hands out one mutex per (user, entity) key.
type Keyed struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyed constructs an empty lock table.
func NewKeyed() *Keyed {
	return &Keyed{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given user and entity, creating it on
// first use, and returns the unlock function.
func (k *Keyed) Lock(userID uuid.UUID, entity string) func() {
	key := userID.String() + "/" + entity

	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
