// Package store defines the storage interfaces for clipd's persistence
// layer. History and favorites are persisted as whole ordered snapshots;
// image bytes live in a separate blob store referenced from items by ID.
package store

import (
	"errors"

	"github.com/yiblet/clipd/internal/item"
)

// ErrNotFound is returned when a requested image blob does not exist.
var ErrNotFound = errors.New("not found")

// Store persists the two ordered item lists and their image blobs.
//
// Saves replace the previous snapshot wholesale. Callers that persist
// asynchronously may let saves overlap: each save carries a complete list,
// so the last write to finish wins and the stored state converges on the
// latest in-memory state.
type Store interface {
	// LoadHistory returns the persisted history snapshot, newest first.
	// A store with no saved snapshot returns an empty list.
	LoadHistory() ([]item.Item, error)

	// SaveHistory replaces the persisted history snapshot.
	SaveHistory(items []item.Item) error

	// LoadFavorites returns the persisted favorites snapshot, newest first.
	LoadFavorites() ([]item.Item, error)

	// SaveFavorites replaces the persisted favorites snapshot.
	SaveFavorites(items []item.Item) error

	// Images returns the image blob store.
	Images() ImageStore

	// Close releases any resources (DB connections, file handles, etc.).
	Close() error
}

// ImageStore persists image blobs keyed by the owning item's ID.
type ImageStore interface {
	// Save writes image data under the item's ID and returns the reference
	// to record on the item. Implementations normalize the bytes to PNG
	// where possible and fall back to writing them unmodified.
	Save(id string, data []byte) (string, error)

	// Load returns the blob for a reference. Absent blobs yield an error
	// wrapping ErrNotFound.
	Load(ref string) ([]byte, error)

	// Delete removes a blob. Deleting an absent reference is not an error.
	Delete(ref string) error
}
