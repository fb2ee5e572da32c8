package feed

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ContentExtractor flattens an HTML fragment into the plain text that
// keyword matching and storage work on.
type ContentExtractor struct{}

func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

func (e *ContentExtractor) Run(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	// Block elements would otherwise run their words together.
	doc.Find("br, p, div, li, tr, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return strings.Join(strings.Fields(doc.Text()), " "), nil
}
