package generator

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// InspectHTML extracts the document title from generated HTML content, for
// readme annotations and job logs. Returns "" when the content is empty, has
// no title, or cannot be parsed; inspection never blocks the pipeline.
func InspectHTML(content string) string {
	if content == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	// Collapse internal whitespace so multi-line titles read as one line
	return strings.Join(strings.Fields(title), " ")
}
