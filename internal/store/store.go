package store

import (
	"fmt"

	"sponarchive/internal/model"
	"sponarchive/internal/snapshot"

	"go.uber.org/zap"
)

// Store persists the crawl caches between runs. Loading a cache that was
// never saved returns a fresh empty cache (first run).
type Store interface {
	LoadArchive() (*model.ArchiveCache, error)
	SaveArchive(c *model.ArchiveCache) error
	LoadArticles() (*model.ArticlesCache, error)
	SaveArticles(c *model.ArticlesCache) error
}

// FileStore keeps both caches as snapshot files on disk.
type FileStore struct {
	archivePath  string
	articlesPath string
	logger       *zap.Logger
}

// NewFileStore returns a store writing the archive and articles caches to
// the given snapshot paths.
func NewFileStore(archivePath, articlesPath string, logger *zap.Logger) *FileStore {
	return &FileStore{
		archivePath:  archivePath,
		articlesPath: articlesPath,
		logger:       logger,
	}
}

// LoadArchive reads the archive cache snapshot, or returns an empty cache
// when no snapshot exists yet.
func (s *FileStore) LoadArchive() (*model.ArchiveCache, error) {
	cache := model.NewArchiveCache()
	if !snapshot.Exists(s.archivePath) {
		s.logger.Info("initializing with empty archive cache",
			zap.String("path", s.archivePath))
		return cache, nil
	}

	s.logger.Info("loading existing archive cache", zap.String("path", s.archivePath))
	if err := snapshot.Load(s.archivePath, cache); err != nil {
		return nil, fmt.Errorf("load archive cache: %w", err)
	}
	return cache, nil
}

// SaveArchive writes the archive cache snapshot.
func (s *FileStore) SaveArchive(c *model.ArchiveCache) error {
	s.logger.Info("storing archive headlines and article URLs",
		zap.String("path", s.archivePath), zap.Int("entries", c.Len()))
	if err := snapshot.Save(s.archivePath, c); err != nil {
		return fmt.Errorf("save archive cache: %w", err)
	}
	return nil
}

// LoadArticles reads the articles cache snapshot, or returns an empty
// cache when no snapshot exists yet.
func (s *FileStore) LoadArticles() (*model.ArticlesCache, error) {
	cache := model.NewArticlesCache()
	if !snapshot.Exists(s.articlesPath) {
		s.logger.Info("initializing with empty articles cache",
			zap.String("path", s.articlesPath))
		return cache, nil
	}

	s.logger.Info("loading existing articles cache", zap.String("path", s.articlesPath))
	if err := snapshot.Load(s.articlesPath, cache); err != nil {
		return nil, fmt.Errorf("load articles cache: %w", err)
	}
	return cache, nil
}

// SaveArticles writes the articles cache snapshot.
func (s *FileStore) SaveArticles(c *model.ArticlesCache) error {
	s.logger.Info("storing scraped articles",
		zap.String("path", s.articlesPath), zap.Int("articles", c.Len()))
	if err := snapshot.Save(s.articlesPath, c); err != nil {
		return fmt.Errorf("save articles cache: %w", err)
	}
	return nil
}
