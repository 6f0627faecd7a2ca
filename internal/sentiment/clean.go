package sentiment

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText strips HTML markup and entities from an API description and collapses whitespace.
func CleanText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	if !strings.ContainsAny(text, "<&") {
		return collapse(text)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return collapse(text)
	}
	return collapse(doc.Text())
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
