package dbstore

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupLegacyDB writes a database in the v1 layout: image bytes inline in
// the entry tables and no migration flag set.
func setupLegacyDB(t *testing.T, dbPath string, history []HistoryEntryModel, favorites []FavoriteEntryModel) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open legacy database: %v", err)
	}
	if err := db.AutoMigrate(&HistoryEntryModel{}, &FavoriteEntryModel{}, &MetaModel{}); err != nil {
		t.Fatalf("failed to migrate legacy schema: %v", err)
	}

	if len(history) > 0 {
		if err := db.Create(&history).Error; err != nil {
			t.Fatalf("failed to insert legacy history: %v", err)
		}
	}
	if len(favorites) > 0 {
		if err := db.Create(&favorites).Error; err != nil {
			t.Fatalf("failed to insert legacy favorites: %v", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to fetch sql.DB: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("failed to close legacy database: %v", err)
	}
}

// TestMigrationMovesInlineImages tests the one-time inline image rewrite
func TestMigrationMovesInlineImages(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "clipd.db")
	imageDir := filepath.Join(tmpDir, "images")

	img := pngBytes(t)
	now := time.Date(2024, 11, 2, 9, 30, 0, 0, time.UTC)

	setupLegacyDB(t, dbPath,
		[]HistoryEntryModel{
			{Position: 0, ItemID: "img-item", Content: "Image (1.0 KB)", Kind: "image", Timestamp: now, InlineImage: img},
			{Position: 1, ItemID: "txt-item", Content: "plain text", Kind: "text", Timestamp: now},
		},
		[]FavoriteEntryModel{
			{Position: 0, ItemID: "fav-img", Content: "Image (1.0 KB)", Kind: "image", Timestamp: now, InlineImage: img},
		})

	st, err := NewSQLiteStore(dbPath, imageDir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer st.Close()

	history, err := st.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 history items, got %d", len(history))
	}
	if history[0].ImageRef != "img-item.png" {
		t.Errorf("expected migrated ref img-item.png, got %q", history[0].ImageRef)
	}
	if history[1].ImageRef != "" {
		t.Errorf("expected text item untouched, got ref %q", history[1].ImageRef)
	}

	favorites, err := st.LoadFavorites()
	if err != nil {
		t.Fatalf("LoadFavorites() error = %v", err)
	}
	if len(favorites) != 1 || favorites[0].ImageRef != "fav-img.png" {
		t.Errorf("expected migrated favorite ref fav-img.png, got %v", favorites)
	}

	// The blobs exist and load
	for _, ref := range []string{"img-item.png", "fav-img.png"} {
		if _, err := st.Images().Load(ref); err != nil {
			t.Errorf("Images().Load(%s) error = %v", ref, err)
		}
	}

	// Inline bytes were cleared from both tables
	for _, table := range []string{"history_entries", "favorite_entries"} {
		var count int64
		err := st.db.Table(table).
			Where("inline_image IS NOT NULL AND length(inline_image) > 0").
			Count(&count).Error
		if err != nil {
			t.Fatalf("count %s error = %v", table, err)
		}
		if count != 0 {
			t.Errorf("expected no inline images left in %s, found %d", table, count)
		}
	}

	flag, ok, err := st.getMeta(migratedFlag)
	if err != nil || !ok || flag != "true" {
		t.Errorf("expected %s=true, got %q (present=%v, err=%v)", migratedFlag, flag, ok, err)
	}
}

// TestMigrationRunsOnce tests that the completion flag guards reruns
func TestMigrationRunsOnce(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "clipd.db")
	imageDir := filepath.Join(tmpDir, "images")

	setupLegacyDB(t, dbPath, []HistoryEntryModel{
		{Position: 0, ItemID: "img-item", Content: "Image (1.0 KB)", Kind: "image", Timestamp: time.Now().UTC(), InlineImage: pngBytes(t)},
	}, nil)

	st, err := NewSQLiteStore(dbPath, imageDir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Remove the migrated blob behind the store's back; a rerun would
	// recreate it, the flag must prevent that
	blobPath := filepath.Join(imageDir, "img-item.png")
	if err := os.Remove(blobPath); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	st2, err := NewSQLiteStore(dbPath, imageDir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() reopen error = %v", err)
	}
	defer st2.Close()

	if _, err := os.Stat(blobPath); !os.IsNotExist(err) {
		t.Error("expected migration to be skipped on second open")
	}
}

// TestMigrationRawFallback tests that undecodable inline bytes still move
func TestMigrationRawFallback(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "clipd.db")
	imageDir := filepath.Join(tmpDir, "images")

	raw := []byte("corrupted legacy image data")
	setupLegacyDB(t, dbPath, []HistoryEntryModel{
		{Position: 0, ItemID: "bad-img", Content: "Image (27 B)", Kind: "image", Timestamp: time.Now().UTC(), InlineImage: raw},
	}, nil)

	st, err := NewSQLiteStore(dbPath, imageDir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer st.Close()

	history, err := st.LoadHistory()
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if len(history) != 1 || history[0].ImageRef != "bad-img.png" {
		t.Fatalf("expected migrated ref bad-img.png, got %v", history)
	}

	data, err := st.Images().Load("bad-img.png")
	if err != nil {
		t.Fatalf("Images().Load() error = %v", err)
	}
	if !bytes.Equal(data, raw) {
		t.Error("expected raw bytes preserved for undecodable legacy image")
	}
}
