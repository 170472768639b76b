package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/yiblet/clipd/internal/config"
	"github.com/yiblet/clipd/internal/history"
	"github.com/yiblet/clipd/internal/item"
	"github.com/yiblet/clipd/internal/store/dbstore"
)

// Exercises the sqlite store end to end: build history with an image item,
// close everything, reopen from disk, and verify the round trip.
func main() {
	fmt.Println("Testing Persistence Round Trip")
	fmt.Println("==============================")

	dir, err := os.MkdirTemp("", "clipd-integration-*")
	if err != nil {
		log.Fatalf("Error creating temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	dbPath := filepath.Join(dir, "clipd.db")
	imageDir := filepath.Join(dir, "images")
	cfg := config.Static{HistoryLimit: 50}

	st, err := dbstore.NewSQLiteStore(dbPath, imageDir)
	if err != nil {
		log.Fatalf("Error opening store: %v", err)
	}

	manager, err := history.NewManager(st, cfg)
	if err != nil {
		log.Fatalf("Error creating history manager: %v", err)
	}

	// Two text items and one image item, newest first afterwards
	manager.Insert(item.New(item.KindText, "oldest entry"))
	manager.Insert(item.New(item.KindURL, "https://go.dev"))

	blob := pngBytes()
	imageItem := item.New(item.KindImage, "Image ("+item.ByteCount(int64(len(blob)))+")")
	ref, err := st.Images().Save(imageItem.ID, blob)
	if err != nil {
		log.Fatalf("Error saving image blob: %v", err)
	}
	imageItem.ImageRef = ref
	manager.Insert(imageItem)
	manager.ToggleFavorite(imageItem)

	fmt.Printf("Wrote %d history item(s) and %d favorite(s)\n",
		len(manager.History()), len(manager.Favorites()))

	// Close flushes pending saves and releases the database
	if err := manager.Close(); err != nil {
		log.Fatalf("Error closing manager: %v", err)
	}

	// Reopen from disk
	st2, err := dbstore.NewSQLiteStore(dbPath, imageDir)
	if err != nil {
		log.Fatalf("Error reopening store: %v", err)
	}

	manager2, err := history.NewManager(st2, cfg)
	if err != nil {
		log.Fatalf("Error recreating history manager: %v", err)
	}
	defer manager2.Close()

	items := manager2.History()
	if len(items) != 3 {
		log.Fatalf("Expected 3 history items after reload, got %d", len(items))
	}
	if items[0].Kind != item.KindImage || items[2].Content != "oldest entry" {
		log.Fatalf("History order not preserved: %v", items)
	}

	favorites := manager2.Favorites()
	if len(favorites) != 1 || favorites[0].ID != imageItem.ID {
		log.Fatalf("Favorites not preserved: %v", favorites)
	}

	loaded, err := st2.Images().Load(items[0].ImageRef)
	if err != nil {
		log.Fatalf("Error loading image blob: %v", err)
	}

	// The store normalizes blobs to PNG, so compare decoded dimensions
	// rather than raw bytes.
	decoded, _, err := image.Decode(bytes.NewReader(loaded))
	if err != nil {
		log.Fatalf("Error decoding reloaded image: %v", err)
	}
	if bounds := decoded.Bounds(); bounds.Dx() != 4 || bounds.Dy() != 4 {
		log.Fatalf("Image dimensions changed across reload: %v", bounds)
	}

	fmt.Println("\nReloaded state, newest first:")
	for i, it := range items {
		fmt.Printf("%d. [%s] %s\n", i, it.Kind, it.DisplayText())
	}

	fmt.Println("\nRound trip verification complete!")
}

func pngBytes() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		log.Fatalf("Error encoding png: %v", err)
	}
	return buf.Bytes()
}
