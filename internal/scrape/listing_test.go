package scrape

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func teaser(url, headline, timeText, categ string) string {
	return fmt.Sprintf(`<article>
<h2><a href="%s" title="%s">%s</a></h2>
<footer><span>%s</span><span>•</span><span>%s</span></footer>
</article>`, url, headline, headline, timeText, categ)
}

func listingPage(teasers ...string) string {
	page := `<html><body><section data-area="article-teaser-list">`
	for _, tsr := range teasers {
		page += tsr
	}
	return page + `</section></body></html>`
}

func TestParseListing_ExtractsTeaserFields(t *testing.T) {
	page := listingPage(teaser(
		"https://www.spiegel.de/politik/krise-a-1.html",
		"Krise: Was nun?",
		"1. Januar 2020, 13.37 Uhr",
		"Politik",
	))

	entries := ParseListing(context.Background(), []byte(page), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 1)

	e := entries[0]
	assert.False(t, e.HasError())
	assert.Equal(t, "https://www.spiegel.de/politik/krise-a-1.html", e.URL)
	assert.Equal(t, "Krise: Was nun?", e.ArchiveHeadline)
	assert.Equal(t, "Politik", e.Categ)
	assert.Equal(t, "2020-01-01", e.PubDate)
	assert.Equal(t, "13:37:00", e.PubTime)
	assert.NotEmpty(t, e.ArchiveRetrieved)
}

func TestParseListing_ExcludesFlaggedAndAdTeasers(t *testing.T) {
	flagged := `<article><span data-conditional-flag="video"></span>
<h2><a href="https://www.spiegel.de/v-1.html" title="Video">Video</a></h2>
<footer><span>9.00 Uhr</span><span>•</span><span>Video</span></footer></article>`
	gallery := `<article><span data-conditional-flag="gallery"></span>
<h2><a href="https://www.spiegel.de/g-1.html" title="Galerie">Galerie</a></h2>
<footer><span>9.00 Uhr</span><span>•</span><span>Panorama</span></footer></article>`
	paid := `<article><span data-conditional-flag="paid"></span>
<h2><a href="https://www.spiegel.de/p-1.html" title="Plus">Plus</a></h2>
<footer><span>9.00 Uhr</span><span>•</span><span>Wirtschaft</span></footer></article>`
	ad := `<article><h2><a href="https://ads.example.com/x" title="ANZEIGE Kaufen">ANZEIGE Kaufen</a></h2>
<footer><span>9.00 Uhr</span><span>•</span><span>ANZEIGE</span></footer></article>`

	page := listingPage(
		teaser("https://www.spiegel.de/a-1.html", "A", "8.15 Uhr", "Politik"),
		flagged, gallery, paid, ad,
		teaser("https://www.spiegel.de/b-2.html", "B", "9.30 Uhr", "Sport"),
	)

	entries := ParseListing(context.Background(), []byte(page), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 2)
	assert.Equal(t, "https://www.spiegel.de/a-1.html", entries[0].URL)
	assert.Equal(t, "https://www.spiegel.de/b-2.html", entries[1].URL)
}

func TestParseListing_ContainerCount(t *testing.T) {
	none := `<html><body><div>nothing here</div></body></html>`
	entries := ParseListing(context.Background(), []byte(none), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 1)
	assert.Equal(t, "unexpected number of elements in main container: 0", entries[0].ErrorMessage)

	two := `<html><body>
<section data-area="article-teaser-list"></section>
<section data-area="article-teaser-list"></section>
</body></html>`
	entries = ParseListing(context.Background(), []byte(two), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 1)
	assert.Equal(t, "unexpected number of elements in main container: 2", entries[0].ErrorMessage)
}

func TestParseListing_MissingURLAndHeadline(t *testing.T) {
	noURL := `<article><h2><a title="Kein Link">Kein Link</a></h2>
<footer><span>9.00 Uhr</span><span>•</span><span>Politik</span></footer></article>`
	noHeadline := `<article><h2><a href="https://www.spiegel.de/x-1.html">X</a></h2>
<footer><span>9.00 Uhr</span><span>•</span><span>Politik</span></footer></article>`

	page := listingPage(noURL, noHeadline, teaser("https://www.spiegel.de/ok-1.html", "OK", "9.00 Uhr", "Politik"))
	entries := ParseListing(context.Background(), []byte(page), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 3)

	assert.Equal(t, "no URL in headline link", entries[0].ErrorMessage)
	assert.Equal(t, "no headline given", entries[1].ErrorMessage)
	assert.False(t, entries[2].HasError())
}

func TestParseListing_BadFooter(t *testing.T) {
	badFooter := `<article><h2><a href="https://www.spiegel.de/x-1.html" title="X">X</a></h2>
<footer><span>9.00 Uhr</span><span>Politik</span></footer></article>`

	entries := ParseListing(context.Background(), []byte(listingPage(badFooter)), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 1)
	assert.Equal(t, "no valid teaser footer", entries[0].ErrorMessage)
}

func TestParseListing_UnparsablePubTimeIsNotAnError(t *testing.T) {
	page := listingPage(teaser("https://www.spiegel.de/x-1.html", "X", "gestern", "Politik"))

	entries := ParseListing(context.Background(), []byte(page), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 1)
	assert.False(t, entries[0].HasError())
	assert.Empty(t, entries[0].PubTime)
}

func TestParseListing_CleansMarkupQuirks(t *testing.T) {
	page := listingPage(teaser(
		"https://www.spiegel.de/x-1.html",
		"Titel mit Umbruch",
		"9.00 Uhr",
		"Icon: Spiegel Plus Wirtschaft",
	))

	entries := ParseListing(context.Background(), []byte(page), "2020-01-01", zap.NewNop())
	require.Len(t, entries, 1)
	assert.Equal(t, "Titel mit Umbruch", entries[0].ArchiveHeadline)
	assert.Equal(t, "Wirtschaft", entries[0].Categ)
}

func TestParseListing_CancelledContextStopsBeforeTeasers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := listingPage(teaser("https://www.spiegel.de/x-1.html", "X", "9.00 Uhr", "Politik"))
	entries := ParseListing(ctx, []byte(page), "2020-01-01", zap.NewNop())
	assert.Nil(t, entries)
}
