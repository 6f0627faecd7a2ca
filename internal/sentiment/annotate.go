package sentiment

import (
	"context"
	"fmt"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// Annotate scores every article description. A missing description is scored
// as empty text, so the article is still counted (as neutral with the lexicon scorer).
func Annotate(ctx context.Context, scorer ports.SentimentScorer, articles []domain.RawArticle) ([]domain.ScoredArticle, error) {
	if scorer == nil {
		return nil, fmt.Errorf("sentiment scorer is not configured")
	}

	scored := make([]domain.ScoredArticle, 0, len(articles))
	for _, article := range articles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		polarity, err := scorer.Score(ctx, CleanText(article.Text()))
		if err != nil {
			return nil, fmt.Errorf("score article %s: %w", article.ID, err)
		}
		polarity = clamp(polarity)

		scored = append(scored, domain.ScoredArticle{
			Article:  article,
			Polarity: polarity,
			Category: Categorize(polarity),
		})
	}

	return scored, nil
}
