// internal/core/usecases/key_lock.go
package usecases

import (
	"hash/fnv"
	"sort"
	"sync"
)

// KeyLocker serializes work per identity key. Keys are hashed onto a fixed
// set of partitions, so two different keys may share a lock but one key
// always maps to the same lock.
type KeyLocker struct {
	partitions []sync.Mutex
}

// NewKeyLocker creates a locker with n partitions (minimum 1).
func NewKeyLocker(n int) *KeyLocker {
	if n <= 0 {
		n = 1
	}
	return &KeyLocker{partitions: make([]sync.Mutex, n)}
}

// LockAll acquires the partitions of every non-empty key in ascending
// partition order and returns the function releasing them. Callers locking
// overlapping key sets cannot deadlock.
func (k *KeyLocker) LockAll(keys ...string) func() {
	seen := make(map[int]bool, len(keys))
	parts := make([]int, 0, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		if p := k.partition(key); !seen[p] {
			seen[p] = true
			parts = append(parts, p)
		}
	}
	sort.Ints(parts)

	for _, p := range parts {
		k.partitions[p].Lock()
	}
	return func() {
		for i := len(parts) - 1; i >= 0; i-- {
			k.partitions[parts[i]].Unlock()
		}
	}
}

func (k *KeyLocker) partition(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(k.partitions)))
}
