// Package blobstore stores image blobs as individual files in a directory,
// one per clipboard item, with an LRU cache in front of disk reads.
package blobstore

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yiblet/clipd/internal/store"

	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// CacheSize bounds how many blobs stay decoded in memory.
const CacheSize = 50

// BlobStore implements store.ImageStore on a flat directory. Blobs are
// normalized to PNG on write so every stored file shares one format; bytes
// that cannot be re-encoded are written as-is under the same name.
type BlobStore struct {
	dir   string
	cache *lru.Cache[string, []byte]
}

// New opens (or creates) the blob directory.
func New(dir string) (*BlobStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}

	cache, err := lru.New[string, []byte](CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create image cache: %w", err)
	}

	return &BlobStore{dir: dir, cache: cache}, nil
}

// Save implements store.ImageStore
func (b *BlobStore) Save(id string, data []byte) (string, error) {
	ref := id + ".png"
	out := normalizePNG(data)

	if err := os.WriteFile(filepath.Join(b.dir, ref), out, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", ref, err)
	}

	b.cache.Add(ref, out)
	return ref, nil
}

// Load implements store.ImageStore
func (b *BlobStore) Load(ref string) ([]byte, error) {
	if ref == "" {
		return nil, store.ErrNotFound
	}

	if data, ok := b.cache.Get(ref); ok {
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(b.dir, ref))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("image %s: %w", ref, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", ref, err)
	}

	b.cache.Add(ref, data)
	return data, nil
}

// Delete implements store.ImageStore. The cache entry goes first so a
// deleted blob can never be served from memory afterwards.
func (b *BlobStore) Delete(ref string) error {
	if ref == "" {
		return nil
	}

	b.cache.Remove(ref)

	err := os.Remove(filepath.Join(b.dir, ref))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image %s: %w", ref, err)
	}
	return nil
}

// normalizePNG re-encodes arbitrary image bytes as PNG. The original bytes
// come back unchanged when decoding or encoding fails, so a blob is written
// in either case.
func normalizePNG(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return data
	}
	return buf.Bytes()
}
