package kbqa

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// findHowToAnswer bypasses graph querying: it searches for the phrase,
// fetches the top hit's page and extracts the first paragraph of body text.
// Every failure degrades to the NotFoundAnswer literal, never an empty answer.
func (g *Generator) findHowToAnswer(ctx context.Context, phrase string) string {
	hits, err := g.howto.Search(ctx, phrase, 5)
	if err != nil {
		g.log.Info("no output from howto search", "degraded", true, "error", err)
		return NotFoundAnswer
	}
	if len(hits) == 0 {
		return NotFoundAnswer
	}

	html, err := g.howto.GetHTML(ctx, hits[0].ArticleID)
	if err != nil {
		g.log.Info("no page markup from howto source", "degraded", true, "article_id", hits[0].ArticleID, "error", err)
		return NotFoundAnswer
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		g.log.Info("howto page markup unparsable", "degraded", true, "error", err)
		return NotFoundAnswer
	}
	first := doc.Find("p").First()
	text := strings.TrimSpace(first.Text())
	if text == "" {
		return NotFoundAnswer
	}
	return text + "@en"
}
