package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// DefaultSummaryTable is used when no table name is configured.
const DefaultSummaryTable = "daily_sentiment_summary"

// upsertBatch keeps a statement well below the Postgres bind-parameter limit.
const upsertBatch = 1000

// PostgresMirror copies persisted summary rows into a Postgres table.
type PostgresMirror struct {
	db    *sql.DB
	table string
}

var _ ports.SummaryMirror = (*PostgresMirror)(nil)

// OpenPostgres opens a lib/pq connection pool and checks connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// NewPostgresMirror wires a sql.DB implementation.
func NewPostgresMirror(db *sql.DB, table string) *PostgresMirror {
	if table == "" {
		table = DefaultSummaryTable
	}
	return &PostgresMirror{db: db, table: table}
}

// EnsureSchema creates the mirror table when it does not exist.
func (m *PostgresMirror) EnsureSchema(ctx context.Context) error {
	if m.db == nil {
		return nil
	}

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
              published_at   DATE PRIMARY KEY,
              article_count  INTEGER NOT NULL CHECK (article_count >= 0),
              positive_count INTEGER NOT NULL CHECK (positive_count >= 0),
              negative_count INTEGER NOT NULL CHECK (negative_count >= 0),
              neutral_count  INTEGER NOT NULL CHECK (neutral_count >= 0),
              updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
              CHECK (positive_count + negative_count + neutral_count = article_count)
          )`, pq.QuoteIdentifier(m.table))

	if _, err := m.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("create summary table: %w", err)
	}
	return nil
}

// Upsert writes rows in one transaction; a date already present is overwritten.
func (m *PostgresMirror) Upsert(ctx context.Context, rows []domain.DailySummaryRow) error {
	if m.db == nil || len(rows) == 0 {
		return nil
	}

	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}

	for start := 0; start < len(rows); start += upsertBatch {
		end := min(start+upsertBatch, len(rows))

		query, args, err := buildUpsert(m.table, rows[start:end])
		if err != nil {
			_ = tx.Rollback()
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert summary rows: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

func buildUpsert(table string, rows []domain.DailySummaryRow) (string, []interface{}, error) {
	insert := sq.Insert(pq.QuoteIdentifier(table)).
		Columns("published_at", "article_count", "positive_count", "negative_count", "neutral_count", "updated_at").
		PlaceholderFormat(sq.Dollar)

	for _, row := range rows {
		insert = insert.Values(row.DateKey(), row.ArticleCount, row.PositiveCount, row.NegativeCount, row.NeutralCount, sq.Expr("NOW()"))
	}

	insert = insert.Suffix(`ON CONFLICT (published_at) DO UPDATE
              SET article_count = EXCLUDED.article_count,
                  positive_count = EXCLUDED.positive_count,
                  negative_count = EXCLUDED.negative_count,
                  neutral_count = EXCLUDED.neutral_count,
                  updated_at = NOW()`)

	query, args, err := insert.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build upsert: %w", err)
	}
	return query, args, nil
}
