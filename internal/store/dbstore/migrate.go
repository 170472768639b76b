package dbstore

import (
	"fmt"
	"log/slog"
)

// migratedFlag marks a database whose inline image bytes have been moved
// to the blob store.
const migratedFlag = "images_migrated"

// migrateInlineImages rewrites legacy rows carrying image bytes inline into
// blob references. The pass runs once per database: rows that fail to
// convert are skipped with a warning so a single bad row cannot wedge the
// store, and the flag is set even then so the pass never repeats.
func (s *SQLiteStore) migrateInlineImages() error {
	done, ok, err := s.getMeta(migratedFlag)
	if err != nil {
		return err
	}
	if ok && done == "true" {
		return nil
	}

	for _, table := range []string{"history_entries", "favorite_entries"} {
		if err := s.migrateTableImages(table); err != nil {
			return err
		}
	}

	return s.setMeta(migratedFlag, "true")
}

// migrateTableImages converts one entry table's inline images
func (s *SQLiteStore) migrateTableImages(table string) error {
	type legacyRow struct {
		Position    int
		ItemID      string
		InlineImage []byte
	}

	var rows []legacyRow
	err := s.db.Table(table).
		Select("position", "item_id", "inline_image").
		Where("inline_image IS NOT NULL AND length(inline_image) > 0").
		Find(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to scan %s for legacy images: %w", table, err)
	}

	for _, row := range rows {
		ref, err := s.images.Save(row.ItemID, row.InlineImage)
		if err != nil {
			slog.Warn("skipping legacy image", "table", table, "item", row.ItemID, "err", err)
			continue
		}

		err = s.db.Table(table).
			Where("position = ?", row.Position).
			Updates(map[string]interface{}{"image_ref": ref, "inline_image": nil}).Error
		if err != nil {
			slog.Warn("failed to rewrite legacy image row", "table", table, "item", row.ItemID, "err", err)
		}
	}
	return nil
}
