// Package telegram posts run reports to a chat through the Bot API.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// DefaultAPIURL is the public Bot API host.
const DefaultAPIURL = "https://api.telegram.org"

// markdownEscaper prefixes the legacy Markdown entity characters with a backslash.
var markdownEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// Notifier sends run reports to a Telegram chat via bot API.
type Notifier struct {
	apiURL   string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier; an empty apiURL uses the public host.
func NewNotifier(apiURL, botToken, chatID string) *Notifier {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	return &Notifier{
		apiURL:   strings.TrimRight(apiURL, "/"),
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// PublishReport posts a Markdown summary of the run.
func (n *Notifier) PublishReport(ctx context.Context, report domain.RunReport) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", FormatReport(report))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		// the request URL carries the bot token
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

// FormatReport renders a run report as a Telegram Markdown message.
func FormatReport(report domain.RunReport) string {
	var b strings.Builder

	if report.State == domain.StatePersisted {
		fmt.Fprintf(&b, "*News sentiment updated* (%s)\n", escapeMarkdown(report.Query))
	} else {
		fmt.Fprintf(&b, "*News sentiment run failed* (%s)\n", escapeMarkdown(report.Query))
	}
	fmt.Fprintf(&b, "Run `%s`, %d day window, %s\n", report.RunID, report.WindowDays, report.Duration().Round(time.Millisecond))

	if report.Err != nil {
		fmt.Fprintf(&b, "Stage: %s\nError: %s\n", report.FailedStage, escapeMarkdown(report.Err.Error()))
		return b.String()
	}

	fmt.Fprintf(&b, "Articles: %d, stored days: %d\n", report.Articles, report.StoredDays)
	for _, row := range report.IncomingDays {
		fmt.Fprintf(&b, "- %s: %d articles, +%d / -%d / =%d\n",
			row.DateKey(), row.ArticleCount, row.PositiveCount, row.NegativeCount, row.NeutralCount)
	}
	return b.String()
}

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
