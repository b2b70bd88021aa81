package model

// Layouts for the timestamp strings kept in cache entries. The archive
// uses plain ISO dates as keys and second-precision timestamps for
// retrieval times.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05"
	PubTimeLayout   = "15:04:05"
)

// ArchiveEntry is the teaser metadata scraped from one archive listing
// page for a single article. Entries that only carry ErrorMessage record
// a failed day or teaser and make the day eligible for a re-crawl.
type ArchiveEntry struct {
	URL              string `json:"url,omitempty"`
	ArchiveHeadline  string `json:"archive_headline,omitempty"`
	ArchiveRetrieved string `json:"archive_retrieved,omitempty"`
	Categ            string `json:"categ,omitempty"`
	PubDate          string `json:"pub_date,omitempty"`
	PubTime          string `json:"pub_time,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

// HasError reports whether the entry records a scraping failure.
func (e *ArchiveEntry) HasError() bool {
	return e.ErrorMessage != ""
}

// ArticleRecord extends an archive entry with the text content scraped
// from the full article page. A record with ErrorMessage set carries no
// text fields and is retried on the next run.
type ArticleRecord struct {
	ArchiveEntry

	Retrieved  string   `json:"retrieved,omitempty"`
	Topline    string   `json:"topline,omitempty"`
	Headline   string   `json:"headline,omitempty"`
	Author     string   `json:"author,omitempty"`
	Intro      string   `json:"intro,omitempty"`
	Paragraphs []string `json:"paragraphs,omitempty"`
}
