// Package summary reduces scored articles to per-day rows and merges them into the persisted table.
package summary

import (
	"sort"
	"time"

	"NewsPulse/internal/domain"
)

// Aggregate groups articles by the UTC calendar day of their publication time.
// Only days present in the input produce a row; rows are returned in ascending date order.
func Aggregate(articles []domain.ScoredArticle) ([]domain.DailySummaryRow, error) {
	byDay := make(map[time.Time]*domain.DailySummaryRow)

	for _, article := range articles {
		day := domain.Day(article.Article.PublishedAt)
		row, ok := byDay[day]
		if !ok {
			row = &domain.DailySummaryRow{Date: day}
			byDay[day] = row
		}

		row.ArticleCount++
		switch article.Category {
		case domain.CategoryPositive:
			row.PositiveCount++
		case domain.CategoryNegative:
			row.NegativeCount++
		case domain.CategoryNeutral:
			row.NeutralCount++
		}
	}

	rows := make([]domain.DailySummaryRow, 0, len(byDay))
	for _, row := range byDay {
		if err := row.Validate(); err != nil {
			return nil, err
		}
		rows = append(rows, *row)
	}

	sortByDate(rows)
	return rows, nil
}

func sortByDate(rows []domain.DailySummaryRow) {
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
}
