// Package export flattens the articles cache into a single JSON array for
// downstream corpus building.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"sponarchive/internal/model"

	"go.uber.org/zap"
)

// WriteJSON serializes every record in the cache as a JSON array, in
// cache insertion order (dates first, URLs within each date).
func WriteJSON(cache *model.ArticlesCache, path string, logger *zap.Logger) error {
	records := cache.Flatten()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	enc := json.NewEncoder(f)
	if err := enc.Encode(records); err != nil {
		f.Close()
		return fmt.Errorf("encode export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	logger.Info("stored result", zap.String("path", path), zap.Int("articles", len(records)))
	return nil
}

// ReadJSON loads an export file back into a flat record list.
func ReadJSON(path string) ([]*model.ArticleRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export file: %w", err)
	}

	var records []*model.ArticleRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return records, nil
}
