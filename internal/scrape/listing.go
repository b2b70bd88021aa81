package scrape

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sponarchive/internal/model"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Publication times on listing pages read like "13.37 Uhr".
var pttrnTime = regexp.MustCompile(`(\d+).(\d{2})\s+Uhr$`)

// Teasers flagged with any of these are galleries, videos, audio or paid
// content and carry no scrapable article text.
var skipFlags = []string{"gallery", "video", "audio", "paid"}

// adMarker appears in the text of advertisement teasers.
const adMarker = "ANZEIGE"

// ParseListing extracts teaser entries from one archive listing page for
// the given publication date. Structural problems are returned as entries
// carrying only an error message, in the position they occurred, matching
// how they are cached. The context is checked once before teaser
// iteration so an aborted run stops without parsing further.
func ParseListing(ctx context.Context, body []byte, pubDate string, logger *zap.Logger) []*model.ArchiveEntry {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		logger.Error("cannot parse listing page", zap.Error(err))
		return []*model.ArchiveEntry{{ErrorMessage: "cannot parse listing page"}}
	}

	containers := doc.Find("section[data-area='article-teaser-list']")
	if containers.Length() != 1 {
		msg := fmt.Sprintf("unexpected number of elements in main container: %d", containers.Length())
		logger.Error(msg)
		return []*model.ArchiveEntry{{ErrorMessage: msg}}
	}

	if ctx.Err() != nil {
		return nil
	}

	retrieved := time.Now().Format(model.TimestampLayout)
	var entries []*model.ArchiveEntry

	containers.First().Find("article").Each(func(_ int, teaser *goquery.Selection) {
		if skipTeaser(teaser) {
			return
		}

		titleLink := teaser.Find("h2 a").First()
		url, _ := titleLink.Attr("href")
		if url == "" {
			logger.Error("no URL in headline link")
			entries = append(entries, &model.ArchiveEntry{ErrorMessage: "no URL in headline link"})
			return
		}

		headline, _ := titleLink.Attr("title")
		if headline == "" {
			logger.Error("no headline given")
			entries = append(entries, &model.ArchiveEntry{ErrorMessage: "no headline given"})
			return
		}
		headline = strings.ReplaceAll(headline, " ", " ")

		foot := teaser.Find("footer span")
		if foot.Length() != 3 {
			logger.Error("no valid teaser footer", zap.Int("fields", foot.Length()))
			entries = append(entries, &model.ArchiveEntry{ErrorMessage: "no valid teaser footer"})
			return
		}

		entry := &model.ArchiveEntry{
			URL:              url,
			ArchiveHeadline:  headline,
			ArchiveRetrieved: retrieved,
			Categ:            CleanText(foot.Eq(2)),
			PubDate:          pubDate,
			PubTime:          parsePubTime(strings.TrimSpace(foot.Eq(0).Text()), logger),
		}
		entries = append(entries, entry)
	})

	return entries
}

// skipTeaser reports whether a teaser is gallery/video/audio/paid content
// or an advertisement.
func skipTeaser(teaser *goquery.Selection) bool {
	for _, flag := range skipFlags {
		if teaser.Find(fmt.Sprintf("span[data-conditional-flag='%s']", flag)).Length() > 0 {
			return true
		}
	}
	return strings.Contains(teaser.Text(), adMarker)
}

// parsePubTime parses the time-of-day from a teaser footer field. An
// unparsable time is logged and left unset; the teaser is still kept.
func parsePubTime(text string, logger *zap.Logger) string {
	m := pttrnTime.FindStringSubmatch(text)
	if m == nil {
		logger.Warn("no publication time given", zap.String("text", text))
		return ""
	}

	hour, errH := strconv.Atoi(m[1])
	minute, errM := strconv.Atoi(m[2])
	if errH != nil || errM != nil || hour > 23 || minute > 59 {
		logger.Warn("invalid publication time given", zap.String("text", text))
		return ""
	}

	return fmt.Sprintf("%02d:%02d:00", hour, minute)
}
