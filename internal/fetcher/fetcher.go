// Package fetcher downloads the full article pages listed in the archive
// cache and records their text content.
package fetcher

import (
	"context"
	"strings"
	"time"

	"sponarchive/internal/config"
	"sponarchive/internal/model"
	"sponarchive/internal/pagecache"
	"sponarchive/internal/scrape"
	"sponarchive/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Fetcher populates the articles cache from archive entries. Records
// stored without an error are never fetched again; records carrying an
// error are retried on the next run.
type Fetcher struct {
	getter scrape.Getter
	store  store.Store
	pages  *pagecache.Store // optional; nil disables the raw page cache
	logger *zap.Logger

	siteURL string
}

// New builds a fetcher. pages may be nil.
func New(getter scrape.Getter, st store.Store, pages *pagecache.Store, cfg *config.CrawlConfig, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		getter:  getter,
		store:   st,
		pages:   pages,
		logger:  logger,
		siteURL: cfg.SiteURL,
	}
}

// Run loads the articles cache and fetches every pending article from the
// archive, persisting the cache after each article. Cancellation is
// observed at both the per-date and per-article loop boundaries.
func (f *Fetcher) Run(ctx context.Context, archive *model.ArchiveCache) (*model.ArticlesCache, error) {
	articles, err := f.store.LoadArticles()
	if err != nil {
		return nil, err
	}

	logger := f.logger.With(zap.String("run_id", uuid.New().String()))
	logger.Info("fetching article texts")

	aborted := false
	for di, date := range archive.Dates {
		if canceled(ctx) {
			aborted = true
			break
		}

		entries := archive.Day(date)
		dayLog := logger.With(zap.String("date", date),
			zap.Int("day", di+1), zap.Int("days", len(archive.Dates)))

		for ai, entry := range entries {
			if canceled(ctx) {
				aborted = true
				break
			}

			artLog := dayLog.With(zap.String("url", entry.URL),
				zap.Int("article", ai+1), zap.Int("articles", len(entries)))

			if !strings.HasPrefix(entry.URL, f.siteURL) {
				artLog.Info("skipping URL that does not refer to the site")
				continue
			}
			if entry.HasError() {
				artLog.Info("skipping because of error when scraping archive",
					zap.String("error", entry.ErrorMessage))
				continue
			}
			if rec, ok := articles.Get(date, entry.URL); ok && !rec.HasError() {
				artLog.Info("skipping because this article was already scraped")
				continue
			}

			if !f.fetchArticle(ctx, articles, date, entry, artLog) {
				continue
			}
			if err := f.store.SaveArticles(articles); err != nil {
				return articles, err
			}
		}
		if aborted {
			break
		}
	}

	if aborted {
		logger.Info("fetch aborted")
	}
	return articles, nil
}

// fetchArticle downloads and parses one article page, storing the result
// (or an error record) under (date, URL). It reports whether a record was
// stored; an abort mid-request stores nothing.
func (f *Fetcher) fetchArticle(ctx context.Context, articles *model.ArticlesCache, date string, entry *model.ArchiveEntry, logger *zap.Logger) bool {
	rec := &model.ArticleRecord{ArchiveEntry: *entry}

	body, cached, err := f.page(ctx, entry.URL)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		msg := scrape.RequestErrorMessage(err)
		logger.Error(msg, zap.Error(err))
		rec.ErrorMessage = msg
		articles.Put(date, entry.URL, rec)
		return true
	}

	if f.pages != nil && !cached {
		if err := f.pages.Put(entry.URL, body); err != nil {
			logger.Warn("page cache write failed", zap.Error(err))
		}
	}

	content, err := scrape.ParseArticle(body, logger)
	if err != nil {
		logger.Error(err.Error())
		rec.ErrorMessage = err.Error()
		articles.Put(date, entry.URL, rec)
		return true
	}

	rec.Retrieved = time.Now().Format(model.TimestampLayout)
	rec.Topline = content.Topline
	rec.Headline = content.Headline
	rec.Author = content.Author
	rec.Intro = content.Intro
	rec.Paragraphs = content.Paragraphs
	articles.Put(date, entry.URL, rec)

	logger.Info("fetched paragraphs", zap.Int("paragraphs", len(rec.Paragraphs)))
	return true
}

// page returns the article body, from the page cache when available so a
// retried article can be re-parsed without another download.
func (f *Fetcher) page(ctx context.Context, url string) (body []byte, cached bool, err error) {
	if f.pages != nil {
		if body, ok, err := f.pages.Get(url); err == nil && ok {
			return body, true, nil
		}
	}
	body, err = f.getter.Get(ctx, url)
	return body, false, err
}

func canceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
