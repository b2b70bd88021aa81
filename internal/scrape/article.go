package scrape

import (
	"bytes"
	"errors"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Hard parse failures stored as error messages on the affected record.
var (
	ErrNoArticleElement = errors.New("no valid article element found")
	ErrNoBodyElement    = errors.New("no valid article body element found")
)

// ArticleContent holds the text fields parsed from one article page.
type ArticleContent struct {
	Topline    string
	Headline   string
	Author     string
	Intro      string
	Paragraphs []string
}

// ParseArticle extracts the text content from a full article page. A
// missing or ambiguous body container is a hard error and yields no
// partial content; missing topline, headline, intro or author only
// degrade the result and are logged as warnings.
func ParseArticle(body []byte, logger *zap.Logger) (*ArticleContent, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, ErrNoArticleElement
	}

	// Gallery pages scatter article parts outside <main article>, so the
	// whole document becomes the root there.
	var root *goquery.Selection
	if doc.Find("div[data-galleryteaser-el='galleryActivator']").Length() > 0 {
		root = doc.Selection
	} else {
		root = doc.Find("main article").First()
		if root.Length() == 0 {
			return nil, ErrNoArticleElement
		}
	}

	content := &ArticleContent{}

	spans := root.Find("header h2 span")
	if spans.Length() < 2 {
		logger.Warn("no valid top line / headline elements")
	} else {
		content.Topline = CleanText(spans.Eq(0))
		content.Headline = CleanText(spans.Eq(1))
	}

	intro := root.Find("header div.leading-loose").First()
	if intro.Length() > 0 {
		content.Intro = CleanText(intro)
		content.Author = authorAfter(intro)
	} else {
		logger.Warn("no valid intro element found")
		if h2 := root.Find("header h2").First(); h2.Length() > 0 {
			content.Author = authorAfter(h2)
		}
	}

	bodyElems := root.Find("div[data-article-el='body']")
	if bodyElems.Length() != 1 {
		return nil, ErrNoBodyElement
	}

	bodyElem := bodyElems.First()
	content.Paragraphs = paragraphTexts(bodyElem.Find("div.RichText p"))
	if len(content.Paragraphs) == 0 {
		// older pages use section instead of div
		content.Paragraphs = paragraphTexts(bodyElem.Find("section.RichText p"))
	}

	// Some articles print the lead paragraph in place of an abstract.
	if content.Intro == "" && len(content.Paragraphs) > 0 {
		content.Intro = content.Paragraphs[0]
		content.Paragraphs = content.Paragraphs[1:]
	}

	return content, nil
}

// authorAfter returns the text of the byline link in the block following
// sel, if present.
func authorAfter(sel *goquery.Selection) string {
	block := sel.NextAllFiltered("div").First()
	if block.Length() == 0 {
		return ""
	}
	a := block.Find("a").First()
	if a.Length() == 0 {
		return ""
	}
	return CleanText(a)
}

func paragraphTexts(sel *goquery.Selection) []string {
	var paragraphs []string
	sel.Each(func(_ int, p *goquery.Selection) {
		paragraphs = append(paragraphs, CleanText(p))
	})
	return paragraphs
}
