package domain

import "time"

// RawArticle is one record returned by the search API for a single day window.
type RawArticle struct {
	ID          string
	Title       string
	Description *string
	Source      string
	URL         string
	PublishedAt time.Time
}

// Text returns the description used for scoring; a missing description is empty text.
func (a RawArticle) Text() string {
	if a.Description == nil {
		return ""
	}
	return *a.Description
}

// Category is the discretized polarity of an article.
type Category string

const (
	CategoryPositive Category = "positive"
	CategoryNeutral  Category = "neutral"
	CategoryNegative Category = "negative"
)

// ScoredArticle carries the sentiment derived from the article description.
type ScoredArticle struct {
	Article  RawArticle
	Polarity float64
	Category Category
}
