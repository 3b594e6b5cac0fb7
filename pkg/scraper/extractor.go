package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xhad/qagen/internal/types"
)

var _ types.TextExtractor = (*Extractor)(nil)

// Extractor turns HTML into the plain text of its body.
type Extractor struct {
	// RemoveSelectors are dropped from the document before the text is read.
	RemoveSelectors []string
}

func NewExtractor() *Extractor {
	return &Extractor{
		RemoveSelectors: []string{"script", "style", "link"},
	}
}

func (e *Extractor) Extract(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	if len(e.RemoveSelectors) > 0 {
		doc.Find(strings.Join(e.RemoveSelectors, ", ")).Remove()
	}

	return cleanContent(doc.Find("body").Text()), nil
}

// cleanContent collapses whitespace runs into single spaces.
func cleanContent(content string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(content), " "))
}
