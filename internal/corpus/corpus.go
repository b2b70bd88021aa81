// Package corpus turns exported article records into a text corpus and a
// parallel metadata mapping for downstream preprocessing and topic
// modeling, which consume them through external tooling.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"sponarchive/internal/model"

	"go.uber.org/zap"
)

var pttrnURLEnd = regexp.MustCompile(`\.html?$`)

// Meta is the per-document metadata kept alongside the corpus.
type Meta struct {
	Categ   string `json:"categ,omitempty"`
	PubDate string `json:"pub_date,omitempty"`
	Author  string `json:"author,omitempty"`
}

// Corpus maps document labels to full document text and metadata.
type Corpus struct {
	Docs map[string]string
	Meta map[string]Meta
}

// Build assembles the corpus from exported records. Records carrying an
// error are skipped; duplicate document labels keep the first occurrence.
func Build(records []*model.ArticleRecord, logger *zap.Logger) *Corpus {
	c := &Corpus{
		Docs: make(map[string]string),
		Meta: make(map[string]Meta),
	}

	for _, rec := range records {
		if rec.HasError() {
			logger.Warn("skipping article with error",
				zap.String("url", rec.URL), zap.String("error", rec.ErrorMessage))
			continue
		}

		label := DocLabel(rec.URL)
		if _, ok := c.Docs[label]; ok {
			logger.Warn("ignoring duplicate document", zap.String("label", label))
			continue
		}

		c.Docs[label] = DocText(rec)
		c.Meta[label] = Meta{
			Categ:   rec.Categ,
			PubDate: rec.PubDate,
			Author:  rec.Author,
		}
	}

	logger.Info("generated corpus", zap.Int("documents", len(c.Docs)))
	return c
}

// DocLabel derives the document label from the tail of the article URL,
// with a trailing .html/.htm stripped.
func DocLabel(url string) string {
	tail := url[strings.LastIndex(url, "/")+1:]
	return pttrnURLEnd.ReplaceAllString(tail, "")
}

// DocText joins headline, abstract and body paragraphs into the full
// document text, all separated by blank lines.
func DocText(rec *model.ArticleRecord) string {
	return strings.Join([]string{
		rec.ArchiveHeadline,
		rec.Intro,
		strings.Join(rec.Paragraphs, "\n\n"),
	}, "\n\n")
}

// Write stores the corpus documents and metadata as two JSON files.
func (c *Corpus) Write(docsPath, metaPath string, logger *zap.Logger) error {
	if err := writeJSON(docsPath, c.Docs); err != nil {
		return fmt.Errorf("write corpus: %w", err)
	}
	logger.Info("stored corpus", zap.String("path", docsPath))

	if err := writeJSON(metaPath, c.Meta); err != nil {
		return fmt.Errorf("write corpus metadata: %w", err)
	}
	logger.Info("stored corpus metadata", zap.String("path", metaPath))
	return nil
}

func writeJSON(path string, data any) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := json.NewEncoder(f).Encode(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
