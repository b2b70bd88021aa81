package model

// ArchiveCache maps a publication date to the teaser entries scraped from
// that day's listing page. Dates keeps insertion order so snapshots and
// downstream processing replay days in the order they were crawled.
// All fields are exported so the cache round-trips through gob snapshots.
type ArchiveCache struct {
	Dates []string
	Days  map[string][]*ArchiveEntry
}

// NewArchiveCache returns an empty archive cache.
func NewArchiveCache() *ArchiveCache {
	return &ArchiveCache{Days: make(map[string][]*ArchiveEntry)}
}

// Day returns the entries recorded for a date, nil if the date is unknown.
func (c *ArchiveCache) Day(date string) []*ArchiveEntry {
	return c.Days[date]
}

// Append adds an entry to a day's list, registering the date on first use.
func (c *ArchiveCache) Append(date string, e *ArchiveEntry) {
	if _, ok := c.Days[date]; !ok {
		c.Dates = append(c.Dates, date)
	}
	c.Days[date] = append(c.Days[date], e)
}

// Reset clears a day's entries ahead of a re-crawl so corrected results
// supersede a previous run's error entries. The date keeps its position.
func (c *ArchiveCache) Reset(date string) {
	if _, ok := c.Days[date]; ok {
		c.Days[date] = nil
	}
}

// Complete reports whether a date needs no further crawling: at least one
// entry recorded and the first entry free of errors.
func (c *ArchiveCache) Complete(date string) bool {
	day := c.Days[date]
	return len(day) > 0 && !day[0].HasError()
}

// Len returns the total number of entries across all days.
func (c *ArchiveCache) Len() int {
	n := 0
	for _, day := range c.Days {
		n += len(day)
	}
	return n
}

// CountErrors returns the number of entries recording an error.
func (c *ArchiveCache) CountErrors() int {
	n := 0
	for _, day := range c.Days {
		for _, e := range day {
			if e.HasError() {
				n++
			}
		}
	}
	return n
}

// DayArticles holds one day's article records keyed by URL, with URLs
// preserving insertion order.
type DayArticles struct {
	URLs    []string
	Records map[string]*ArticleRecord
}

// ArticlesCache maps a publication date to the article records scraped
// for that day, keyed by article URL. Insertion order of both dates and
// URLs is preserved; it defines the export order.
type ArticlesCache struct {
	Dates []string
	Days  map[string]*DayArticles
}

// NewArticlesCache returns an empty articles cache.
func NewArticlesCache() *ArticlesCache {
	return &ArticlesCache{Days: make(map[string]*DayArticles)}
}

// Get returns the record stored under (date, url), if any.
func (c *ArticlesCache) Get(date, url string) (*ArticleRecord, bool) {
	day, ok := c.Days[date]
	if !ok {
		return nil, false
	}
	rec, ok := day.Records[url]
	return rec, ok
}

// Put stores a record under (date, url). Replacing an existing record
// keeps its original position within the day.
func (c *ArticlesCache) Put(date, url string, rec *ArticleRecord) {
	day, ok := c.Days[date]
	if !ok {
		day = &DayArticles{Records: make(map[string]*ArticleRecord)}
		c.Days[date] = day
		c.Dates = append(c.Dates, date)
	}
	if _, ok := day.Records[url]; !ok {
		day.URLs = append(day.URLs, url)
	}
	day.Records[url] = rec
}

// DayRecords returns one day's records in insertion order.
func (c *ArticlesCache) DayRecords(date string) []*ArticleRecord {
	day, ok := c.Days[date]
	if !ok {
		return nil
	}
	records := make([]*ArticleRecord, 0, len(day.URLs))
	for _, url := range day.URLs {
		records = append(records, day.Records[url])
	}
	return records
}

// Flatten returns every record across all dates in insertion order:
// dates in the order they were first stored, URLs likewise within a date.
func (c *ArticlesCache) Flatten() []*ArticleRecord {
	records := make([]*ArticleRecord, 0, c.Len())
	for _, date := range c.Dates {
		records = append(records, c.DayRecords(date)...)
	}
	return records
}

// Len returns the total number of records across all days.
func (c *ArticlesCache) Len() int {
	n := 0
	for _, day := range c.Days {
		n += len(day.URLs)
	}
	return n
}

// CountErrors returns the number of records recording an error.
func (c *ArticlesCache) CountErrors() int {
	n := 0
	for _, day := range c.Days {
		for _, rec := range day.Records {
			if rec.HasError() {
				n++
			}
		}
	}
	return n
}
