// Package locking provides the per-user mutex that serializes
// read-modify-write cycles on a single user's documents.
package locking

import "sync"

// KeyedMutex hands out one mutex per key. Locks are retained for the process
// lifetime: the key space is user ids, so the map is bounded by the number of
// registered users and entries are a few dozen bytes each.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: map[uint]*sync.Mutex{}}
}

// Get returns the mutex for key, creating it on first use.
func (k *KeyedMutex) Get(key uint) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		k.locks[key] = lock
	}
	return lock
}
