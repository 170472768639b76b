// Package memstore provides an in-memory implementation of the store
// interfaces. This implementation is designed for fast unit testing and
// does not persist data.
package memstore

import (
	"fmt"
	"sync"

	"github.com/yiblet/clipd/internal/item"
	"github.com/yiblet/clipd/internal/store"
)

// MemoryStore is an in-memory implementation of store.Store.
// It is thread-safe and additionally records save counts and image
// deletions so tests can observe asynchronous persistence.
type MemoryStore struct {
	mu            sync.Mutex
	history       []item.Item
	favorites     []item.Item
	historySaves  int
	favoriteSaves int
	saveErr       error
	images        *memoryImageStore
}

// NewMemoryStore creates a new in-memory store for testing.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		images: &memoryImageStore{blobs: make(map[string][]byte)},
	}
}

// LoadHistory implements store.Store.
func (m *MemoryStore) LoadHistory() ([]item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]item.Item(nil), m.history...), nil
}

// SaveHistory implements store.Store.
func (m *MemoryStore) SaveHistory(items []item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.history = append([]item.Item(nil), items...)
	m.historySaves++
	return nil
}

// LoadFavorites implements store.Store.
func (m *MemoryStore) LoadFavorites() ([]item.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]item.Item(nil), m.favorites...), nil
}

// SaveFavorites implements store.Store.
func (m *MemoryStore) SaveFavorites(items []item.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.favorites = append([]item.Item(nil), items...)
	m.favoriteSaves++
	return nil
}

// Images implements store.Store.
func (m *MemoryStore) Images() store.ImageStore {
	return m.images
}

// Close releases resources (no-op for memory store).
func (m *MemoryStore) Close() error {
	return nil
}

// SetSaveErr forces subsequent snapshot saves to fail with err.
// Passing nil restores normal behavior.
func (m *MemoryStore) SetSaveErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// HistorySaves returns how many history snapshots were saved successfully.
func (m *MemoryStore) HistorySaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historySaves
}

// FavoriteSaves returns how many favorites snapshots were saved successfully.
func (m *MemoryStore) FavoriteSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.favoriteSaves
}

// DeletedImages returns every blob reference passed to Images().Delete,
// in call order.
func (m *MemoryStore) DeletedImages() []string {
	return m.images.deletedRefs()
}

// memoryImageStore implements store.ImageStore using a map.
type memoryImageStore struct {
	mu      sync.Mutex
	blobs   map[string][]byte
	deleted []string
}

// Save stores the bytes as-is under the item's reference.
func (m *memoryImageStore) Save(id string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ref := id + ".png"
	m.blobs[ref] = append([]byte(nil), data...)
	return ref, nil
}

// Load returns the stored bytes or store.ErrNotFound.
func (m *memoryImageStore) Load(ref string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.blobs[ref]
	if !ok {
		return nil, fmt.Errorf("image %s: %w", ref, store.ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}

// Delete removes the blob and records the call.
func (m *memoryImageStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, ref)
	m.deleted = append(m.deleted, ref)
	return nil
}

func (m *memoryImageStore) deletedRefs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
