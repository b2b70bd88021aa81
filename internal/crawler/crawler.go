// Package crawler walks the day range of the news archive and records
// teaser metadata for each day's listing page.
package crawler

import (
	"context"
	"fmt"
	"time"

	"sponarchive/internal/config"
	"sponarchive/internal/model"
	"sponarchive/internal/scrape"
	"sponarchive/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Crawler populates the archive cache for a configured date range. Days
// already marked complete are never fetched again.
type Crawler struct {
	getter scrape.Getter
	store  store.Store
	logger *zap.Logger

	urlFormat string
	start     time.Time
	end       time.Time
}

// New builds a crawler from the crawl configuration. The date range is
// inclusive on both ends.
func New(getter scrape.Getter, st store.Store, cfg *config.CrawlConfig, logger *zap.Logger) (*Crawler, error) {
	start, err := cfg.Start()
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := cfg.End()
	if err != nil {
		return nil, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s before start date %s", cfg.EndDate, cfg.StartDate)
	}

	return &Crawler{
		getter:    getter,
		store:     st,
		logger:    logger,
		urlFormat: cfg.ArchiveURLFormat,
		start:     start,
		end:       end,
	}, nil
}

// Run loads the archive cache, crawls every incomplete day in the range
// and persists the cache after each day. Cancelling the context stops the
// loop at the next day boundary without losing accumulated state; the
// final snapshot is only written on normal completion, since the per-day
// snapshots already cover prior progress.
func (c *Crawler) Run(ctx context.Context) (*model.ArchiveCache, error) {
	cache, err := c.store.LoadArchive()
	if err != nil {
		return nil, err
	}

	logger := c.logger.With(zap.String("run_id", uuid.New().String()))
	logger.Info("fetching headlines and article URLs from archive")

	days := int(c.end.Sub(c.start).Hours()/24) + 1
	aborted := false

	for i := 0; i < days; i++ {
		select {
		case <-ctx.Done():
			aborted = true
		default:
		}
		if aborted {
			logger.Info("crawl aborted", zap.Int("day", i+1), zap.Int("days", days))
			break
		}

		date := c.start.AddDate(0, 0, i)
		dateStr := date.Format(model.DateLayout)
		dayLog := logger.With(zap.String("date", dateStr),
			zap.Int("day", i+1), zap.Int("days", days))

		if cache.Complete(dateStr) {
			dayLog.Info("already fetched this date, skipping")
			continue
		}

		// A day left with error entries is re-crawled from scratch so the
		// corrected results supersede them.
		cache.Reset(dateStr)
		c.crawlDay(ctx, cache, date, dateStr, dayLog)

		if err := c.store.SaveArchive(cache); err != nil {
			return cache, err
		}
	}

	if !aborted {
		if err := c.store.SaveArchive(cache); err != nil {
			return cache, err
		}
	}
	return cache, nil
}

// crawlDay fetches and parses the listing page for one day. All failures
// are recorded as error entries on that day; none abort the run.
func (c *Crawler) crawlDay(ctx context.Context, cache *model.ArchiveCache, date time.Time, dateStr string, logger *zap.Logger) {
	url := fmt.Sprintf(c.urlFormat, date.Day(), int(date.Month()), date.Year())
	logger.Info("querying archive listing", zap.String("url", url))

	body, err := c.getter.Get(ctx, url)
	if err != nil {
		if ctx.Err() != nil {
			// aborted mid-request; the day stays incomplete for next run
			return
		}
		msg := scrape.RequestErrorMessage(err)
		logger.Error(msg, zap.Error(err))
		cache.Append(dateStr, &model.ArchiveEntry{ErrorMessage: msg})
		return
	}

	entries := scrape.ParseListing(ctx, body, dateStr, logger)
	for _, entry := range entries {
		cache.Append(dateStr, entry)
	}

	logger.Info("got headlines with URLs for this day",
		zap.Int("headlines", len(cache.Day(dateStr))))
}
