package server

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dekarrin/cavern/internal/snapshot"
)

// mapStore is the in-memory holder of uploaded maps. Entries are kept in
// their encoded snapshot form, the same bytes a cache file would hold, and
// decoded on access. Access is guarded by a mutex; the HTTP layer may hit it
// from any number of goroutines.
type mapStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]byte
}

// ErrMapNotFound is returned when an ID is not in the store.
var ErrMapNotFound = fmt.Errorf("no map with that ID exists")

func newMapStore() *mapStore {
	return &mapStore{
		entries: map[uuid.UUID][]byte{},
	}
}

// Add encodes and stores a snapshot under a fresh ID.
func (ms *mapStore) Add(snap snapshot.Snapshot) (uuid.UUID, error) {
	data, err := snap.MarshalBinary()
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("encoding snapshot: %w", err)
	}

	id := uuid.New()

	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[id] = data

	return id, nil
}

// Get decodes and returns the snapshot stored under id.
func (ms *mapStore) Get(id uuid.UUID) (snapshot.Snapshot, error) {
	ms.mu.RLock()
	data, ok := ms.entries[id]
	ms.mu.RUnlock()

	if !ok {
		return snapshot.Snapshot{}, ErrMapNotFound
	}

	var snap snapshot.Snapshot
	if err := snap.UnmarshalBinary(data); err != nil {
		return snapshot.Snapshot{}, fmt.Errorf("decoding stored snapshot: %w", err)
	}
	return snap, nil
}

// Replace swaps the snapshot stored under an existing id.
func (ms *mapStore) Replace(id uuid.UUID, snap snapshot.Snapshot) error {
	data, err := snap.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, ok := ms.entries[id]; !ok {
		return ErrMapNotFound
	}
	ms.entries[id] = data
	return nil
}

// Delete removes the snapshot stored under id.
func (ms *mapStore) Delete(id uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, ok := ms.entries[id]; !ok {
		return ErrMapNotFound
	}
	delete(ms.entries, id)
	return nil
}

// IDs returns every stored ID, sorted by string form for stable listings.
func (ms *mapStore) IDs() []uuid.UUID {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ids := make([]uuid.UUID, 0, len(ms.entries))
	for id := range ms.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}
