package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/sitemapgen"
	"github.com/google/uuid"
)

// Ensure SummaryCache implements sitemapgen.SummaryCache at compile time.
var _ sitemapgen.SummaryCache = (*SummaryCache)(nil)

// CachedSummary is a stored summary with its metadata.
type CachedSummary struct {
	ID         string
	Model      string
	Summary    string
	InputBytes int
	CreatedAt  time.Time
}

// SummaryCache stores page summaries keyed by a hash of model and input text.
type SummaryCache struct {
	db  *DB
	now func() time.Time
}

// NewSummaryCache creates a new SummaryCache backed by an open DB.
func NewSummaryCache(db *DB) *SummaryCache {
	return &SummaryCache{db: db, now: time.Now}
}

// Get returns the summary stored for model and text.
func (c *SummaryCache) Get(ctx context.Context, model, text string) (string, bool, error) {
	s, err := c.Lookup(ctx, model, text)
	if sitemapgen.ErrorCode(err) == sitemapgen.ENOTFOUND {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}
	return s.Summary, true, nil
}

// Lookup returns the stored summary with metadata.
// Returns ENOTFOUND if nothing is stored for model and text.
func (c *SummaryCache) Lookup(ctx context.Context, model, text string) (*CachedSummary, error) {
	var s CachedSummary
	var createdAt string
	err := c.db.QueryRowContext(ctx, `
		SELECT id, model, summary, input_bytes, created_at
		FROM summaries
		WHERE key = ? AND model = ?
	`, summaryKey(model, text), model).Scan(&s.ID, &s.Model, &s.Summary, &s.InputBytes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sitemapgen.Errorf(sitemapgen.ENOTFOUND, "no cached summary")
	} else if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}

	if s.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &s, nil
}

// Put stores summary for model and text, replacing any previous value.
func (c *SummaryCache) Put(ctx context.Context, model, text, summary string) error {
	if model == "" {
		return sitemapgen.Errorf(sitemapgen.EINVALID, "model required")
	}
	if summary == "" {
		return sitemapgen.Errorf(sitemapgen.EINVALID, "summary required")
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO summaries (id, key, model, summary, input_bytes, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			model = excluded.model,
			summary = excluded.summary,
			input_bytes = excluded.input_bytes,
			created_at = excluded.created_at
	`, uuid.New().String(), summaryKey(model, text), model, summary, len(text), formatTime(c.now()))
	if err != nil {
		return fmt.Errorf("store summary: %w", err)
	}
	return nil
}

// Prune deletes summaries stored before cutoff and reports how many were removed.
func (c *SummaryCache) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM summaries WHERE created_at < ?`, formatTime(cutoff))
	if err != nil {
		return 0, fmt.Errorf("prune summaries: %w", err)
	}
	return res.RowsAffected()
}
