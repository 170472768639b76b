package dbstore

import (
	"time"

	"github.com/yiblet/clipd/internal/item"
)

// HistoryEntryModel is one row of the persisted history snapshot.
// Position preserves list order; position 0 is the newest item.
type HistoryEntryModel struct {
	Position     int       `gorm:"primaryKey;autoIncrement:false"`
	ItemID       string    `gorm:"size:36;not null;index"`
	Content      string    `gorm:"type:text;not null"`
	Kind         string    `gorm:"size:16;not null"`
	Timestamp    time.Time `gorm:"not null"`       // capture time, survives content edits
	ImageRef     string    `gorm:"size:64"`        // blob store reference for image items
	Confidential bool      `gorm:"not null;default:false"`
	InlineImage  []byte    `gorm:"type:blob"`      // legacy v1 image bytes, read only by migration
	CreatedAt    time.Time `gorm:"autoCreateTime"` // GORM managed timestamp
}

// TableName returns the table name for HistoryEntryModel
func (HistoryEntryModel) TableName() string {
	return "history_entries"
}

// ToItem converts the GORM model to an item.Item
func (m *HistoryEntryModel) ToItem() item.Item {
	return item.Item{
		ID:           m.ItemID,
		Content:      m.Content,
		Kind:         item.Kind(m.Kind),
		CreatedAt:    m.Timestamp,
		ImageRef:     m.ImageRef,
		Confidential: m.Confidential,
	}
}

// FavoriteEntryModel is one row of the persisted favorites snapshot.
// Favorites are full copies, not references into history, so the schema
// matches HistoryEntryModel.
type FavoriteEntryModel struct {
	Position     int       `gorm:"primaryKey;autoIncrement:false"`
	ItemID       string    `gorm:"size:36;not null;index"`
	Content      string    `gorm:"type:text;not null"`
	Kind         string    `gorm:"size:16;not null"`
	Timestamp    time.Time `gorm:"not null"`
	ImageRef     string    `gorm:"size:64"`
	Confidential bool      `gorm:"not null;default:false"`
	InlineImage  []byte    `gorm:"type:blob"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

// TableName returns the table name for FavoriteEntryModel
func (FavoriteEntryModel) TableName() string {
	return "favorite_entries"
}

// ToItem converts the GORM model to an item.Item
func (m *FavoriteEntryModel) ToItem() item.Item {
	return item.Item{
		ID:           m.ItemID,
		Content:      m.Content,
		Kind:         item.Kind(m.Kind),
		CreatedAt:    m.Timestamp,
		ImageRef:     m.ImageRef,
		Confidential: m.Confidential,
	}
}

// MetaModel stores store-level flags as key-value pairs
type MetaModel struct {
	Key       string    `gorm:"primaryKey;size:100"`
	Value     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for MetaModel
func (MetaModel) TableName() string {
	return "meta"
}

// historyModels builds the row set for a history snapshot
func historyModels(items []item.Item) []HistoryEntryModel {
	models := make([]HistoryEntryModel, len(items))
	for i, it := range items {
		models[i] = HistoryEntryModel{
			Position:     i,
			ItemID:       it.ID,
			Content:      it.Content,
			Kind:         string(it.Kind),
			Timestamp:    it.CreatedAt,
			ImageRef:     it.ImageRef,
			Confidential: it.Confidential,
		}
	}
	return models
}

// favoriteModels builds the row set for a favorites snapshot
func favoriteModels(items []item.Item) []FavoriteEntryModel {
	models := make([]FavoriteEntryModel, len(items))
	for i, it := range items {
		models[i] = FavoriteEntryModel{
			Position:     i,
			ItemID:       it.ID,
			Content:      it.Content,
			Kind:         string(it.Kind),
			Timestamp:    it.CreatedAt,
			ImageRef:     it.ImageRef,
			Confidential: it.Confidential,
		}
	}
	return models
}
