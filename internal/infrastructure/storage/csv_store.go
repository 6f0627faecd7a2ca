package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"NewsPulse/internal/domain"
	"NewsPulse/internal/ports"
)

// Header is the column layout the dashboard reads.
var Header = []string{"publishedAt", "article_count", "positive_count", "negative_count", "neutral_count"}

// CSVStore keeps the summary table in a single CSV file.
// Save writes a sibling temp file and renames it over the old one, so readers
// see either the previous table or the new one, never a partial file.
type CSVStore struct {
	path string
}

var _ ports.SummaryStore = (*CSVStore)(nil)

// NewCSVStore binds the store to path; the file is created on first Save.
func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Path returns the file backing the store.
func (s *CSVStore) Path() string {
	return s.path
}

// Load reads all rows. A missing file is an empty store.
func (s *CSVStore) Load(_ context.Context) ([]domain.DailySummaryRow, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &domain.PersistenceError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	rows, err := ReadRows(f)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Path: s.path, Err: err}
	}
	return rows, nil
}

// Save replaces the file with rows. Rows must already be merged (ascending, unique dates).
func (s *CSVStore) Save(_ context.Context, rows []domain.DailySummaryRow) error {
	if err := checkRows(rows); err != nil {
		return &domain.PersistenceError{Op: "validate", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &domain.PersistenceError{Op: "mkdir", Path: dir, Err: err}
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return &domain.PersistenceError{Op: "create", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if err := WriteRows(tmp, rows); err != nil {
		_ = tmp.Close()
		return &domain.PersistenceError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return &domain.PersistenceError{Op: "sync", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.PersistenceError{Op: "close", Path: tmpName, Err: err}
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return &domain.PersistenceError{Op: "chmod", Path: tmpName, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &domain.PersistenceError{Op: "rename", Path: s.path, Err: err}
	}
	committed = true
	return nil
}

// ReadRows parses a summary table, validating header, dates and counts.
func ReadRows(r io.Reader) ([]domain.DailySummaryRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(Header)

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !slices.Equal(header, Header) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var rows []domain.DailySummaryRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		row, err := parseRecord(record)
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}

	if err := checkRows(rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteRows renders rows with the dashboard header.
func WriteRows(w io.Writer, rows []domain.DailySummaryRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.DateKey(),
			strconv.Itoa(row.ArticleCount),
			strconv.Itoa(row.PositiveCount),
			strconv.Itoa(row.NegativeCount),
			strconv.Itoa(row.NeutralCount),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func parseRecord(record []string) (domain.DailySummaryRow, error) {
	date, err := time.Parse(domain.DateLayout, record[0])
	if err != nil {
		return domain.DailySummaryRow{}, fmt.Errorf("publishedAt %q: %w", record[0], err)
	}

	counts := make([]int, 4)
	for i := range counts {
		v, err := strconv.Atoi(record[i+1])
		if err != nil {
			return domain.DailySummaryRow{}, fmt.Errorf("%s %q: %w", Header[i+1], record[i+1], err)
		}
		counts[i] = v
	}

	row := domain.DailySummaryRow{
		Date:          date,
		ArticleCount:  counts[0],
		PositiveCount: counts[1],
		NegativeCount: counts[2],
		NeutralCount:  counts[3],
	}
	if err := row.Validate(); err != nil {
		return domain.DailySummaryRow{}, err
	}
	return row, nil
}

func checkRows(rows []domain.DailySummaryRow) error {
	for i, row := range rows {
		if err := row.Validate(); err != nil {
			return err
		}
		if i > 0 && !rows[i-1].Date.Before(row.Date) {
			return fmt.Errorf("rows not strictly ascending at %s", row.DateKey())
		}
	}
	return nil
}
