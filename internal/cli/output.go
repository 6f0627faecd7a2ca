package cli

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"NewsPulse/internal/app"
	"NewsPulse/internal/domain"
)

type printer struct {
	out     io.Writer
	success *color.Color
	failure *color.Color
	warning *color.Color
	muted   *color.Color
}

func newPrinter(out io.Writer, useColors bool) *printer {
	p := &printer{
		out:     out,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow),
		muted:   color.New(color.Faint),
	}
	if !useColors {
		for _, c := range []*color.Color{p.success, p.failure, p.warning, p.muted} {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) runReport(report domain.RunReport) {
	if report.RunID == "" {
		return
	}

	if report.State == domain.StatePersisted {
		p.success.Fprintf(p.out, "✓ run %s persisted: %d articles, %d new or updated days, %d stored days (%s)\n",
			report.RunID, report.Articles, len(report.IncomingDays), report.StoredDays, report.Duration().Round(time.Millisecond))
	} else {
		p.failure.Fprintf(p.out, "✗ run %s failed during %s: %v\n", report.RunID, report.FailedStage, report.Err)
		p.muted.Fprintln(p.out, "  the summary table was left unchanged")
	}

	for _, w := range report.Warnings {
		p.warning.Fprintf(p.out, "⚠ %s\n", w)
	}
}

func (p *printer) summaryTable(view app.ReportView) error {
	if len(view.Rows) == 0 {
		p.muted.Fprintln(p.out, "summary table is empty")
		return nil
	}

	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignRight},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
	)

	rows := make([][]string, 0, len(view.Rows)+1)
	for _, row := range view.Rows {
		rows = append(rows, tableRow(row.DateKey(), row))
	}
	rows = append(rows, tableRow("total", view.Totals))

	table.Header([]string{"Date", "Articles", "Positive", "Negative", "Neutral"})
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	p.muted.Fprintf(p.out, "%d day window ending %s\n", view.Days, view.Totals.DateKey())
	return nil
}

func tableRow(label string, row domain.DailySummaryRow) []string {
	return []string{
		label,
		strconv.Itoa(row.ArticleCount),
		strconv.Itoa(row.PositiveCount),
		strconv.Itoa(row.NegativeCount),
		strconv.Itoa(row.NeutralCount),
	}
}
