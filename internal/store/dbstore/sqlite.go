package dbstore

import (
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yiblet/clipd/internal/item"
	"github.com/yiblet/clipd/internal/store"
	"github.com/yiblet/clipd/internal/store/blobstore"
)

// SQLiteStore is a SQLite-backed implementation of store.Store.
// Ordered snapshots of history and favorites live in two position-keyed
// tables; image bytes live in a blob directory next to the database.
type SQLiteStore struct {
	db     *gorm.DB
	dbPath string
	images store.ImageStore
}

// NewSQLiteStore opens (or creates) the database at dbPath and the image
// blob directory at imageDir. Databases written before images moved out of
// the entry tables are migrated to blob references on first open.
func NewSQLiteStore(dbPath, imageDir string) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Run auto-migration for all models
	if err := db.AutoMigrate(&HistoryEntryModel{}, &FavoriteEntryModel{}, &MetaModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	images, err := blobstore.New(imageDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open image store: %w", err)
	}

	st := &SQLiteStore{
		db:     db,
		dbPath: dbPath,
		images: images,
	}

	if err := st.migrateInlineImages(); err != nil {
		return nil, fmt.Errorf("failed to migrate legacy images: %w", err)
	}

	return st, nil
}

// LoadHistory implements store.Store
func (s *SQLiteStore) LoadHistory() ([]item.Item, error) {
	var models []HistoryEntryModel
	if err := s.db.Order("position ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	items := make([]item.Item, len(models))
	for i := range models {
		items[i] = models[i].ToItem()
	}
	return items, nil
}

// SaveHistory implements store.Store. The previous snapshot is replaced in
// a single transaction so a reader never observes a partial list.
func (s *SQLiteStore) SaveHistory(items []item.Item) error {
	models := historyModels(items)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&HistoryEntryModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save history: %w", err)
	}
	return nil
}

// LoadFavorites implements store.Store
func (s *SQLiteStore) LoadFavorites() ([]item.Item, error) {
	var models []FavoriteEntryModel
	if err := s.db.Order("position ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}

	items := make([]item.Item, len(models))
	for i := range models {
		items[i] = models[i].ToItem()
	}
	return items, nil
}

// SaveFavorites implements store.Store
func (s *SQLiteStore) SaveFavorites(items []item.Item) error {
	models := favoriteModels(items)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&FavoriteEntryModel{}).Error; err != nil {
			return err
		}
		if len(models) == 0 {
			return nil
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

// Images implements store.Store
func (s *SQLiteStore) Images() store.ImageStore {
	return s.images
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// getMeta retrieves a meta value, reporting whether the key exists
func (s *SQLiteStore) getMeta(key string) (string, bool, error) {
	var model MetaModel
	if err := s.db.First(&model, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get meta %s: %w", key, err)
	}
	return model.Value, true, nil
}

// setMeta stores a meta value (upsert)
func (s *SQLiteStore) setMeta(key, value string) error {
	model := &MetaModel{
		Key:   key,
		Value: value,
	}

	result := s.db.Where("key = ?", key).
		Assign(map[string]interface{}{"value": value, "updated_at": s.db.NowFunc()}).
		FirstOrCreate(model)

	if result.Error != nil {
		return fmt.Errorf("failed to set meta %s: %w", key, result.Error)
	}
	return nil
}
