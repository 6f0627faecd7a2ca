package newsapi

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"NewsPulse/internal/domain"
)

const errorBodyLimit = 4 << 10

type searchResponse struct {
	Status       string        `json:"status"`
	TotalResults int           `json:"totalResults"`
	Articles     *[]apiArticle `json:"articles"`
}

// resultPage is a decoded, validated page of search results.
type resultPage struct {
	TotalResults int
	Articles     []apiArticle
}

type apiArticle struct {
	Source struct {
		ID   *string `json:"id"`
		Name string  `json:"name"`
	} `json:"source"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	URL         string  `json:"url"`
	PublishedAt *string `json:"publishedAt"`
}

type apiError struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeSearchResponse(body io.Reader, w Window) (resultPage, error) {
	var resp searchResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return resultPage{}, &domain.MalformedResponse{Day: w.Label(), Detail: "decode body", Err: err}
	}
	if resp.Status != "" && resp.Status != "ok" {
		return resultPage{}, &domain.MalformedResponse{Day: w.Label(), Detail: fmt.Sprintf("status %q", resp.Status)}
	}
	if resp.Articles == nil {
		return resultPage{}, &domain.MalformedResponse{Day: w.Label(), Detail: "missing articles field"}
	}
	return resultPage{TotalResults: resp.TotalResults, Articles: *resp.Articles}, nil
}

func toRawArticles(w Window, items []apiArticle) ([]domain.RawArticle, error) {
	articles := make([]domain.RawArticle, 0, len(items))
	for i, item := range items {
		if item.PublishedAt == nil || strings.TrimSpace(*item.PublishedAt) == "" {
			return nil, &domain.MalformedResponse{Day: w.Label(), Detail: fmt.Sprintf("article %d: missing publishedAt", i)}
		}
		publishedAt, err := time.Parse(time.RFC3339, strings.TrimSpace(*item.PublishedAt))
		if err != nil {
			return nil, &domain.MalformedResponse{Day: w.Label(), Detail: fmt.Sprintf("article %d: publishedAt %q", i, *item.PublishedAt), Err: err}
		}

		id := item.URL
		if id == "" {
			id = item.Title + "@" + publishedAt.UTC().Format(time.RFC3339)
		}

		articles = append(articles, domain.RawArticle{
			ID:          id,
			Title:       item.Title,
			Description: item.Description,
			Source:      item.Source.Name,
			URL:         item.URL,
			PublishedAt: publishedAt.UTC(),
		})
	}
	return articles, nil
}

// errorDetail extracts "code: message" from an API error body, or the trimmed body itself.
func errorDetail(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, errorBodyLimit))
	if err != nil {
		return fmt.Sprintf("read error body: %v", err)
	}

	var apiErr apiError
	if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
		if apiErr.Code != "" {
			return apiErr.Code + ": " + apiErr.Message
		}
		return apiErr.Message
	}

	detail := strings.TrimSpace(string(raw))
	if detail == "" {
		return "empty response body"
	}
	return detail
}
