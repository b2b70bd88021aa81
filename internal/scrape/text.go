package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The paid-content icon label leaks into text nodes of the site's markup,
// and non-breaking spaces appear throughout.
const paidIconLabel = "Icon: Spiegel Plus"

// CleanText returns the stripped text of a selection with the site's
// markup quirks removed.
func CleanText(sel *goquery.Selection) string {
	t := sel.Text()
	t = strings.ReplaceAll(t, paidIconLabel, "")
	t = strings.ReplaceAll(t, " ", " ")
	return strings.TrimSpace(t)
}
