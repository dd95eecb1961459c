package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scanyard/scanyard/internal/issue"
)

const schema = `
CREATE TABLE IF NOT EXISTS scans (
	id           UUID PRIMARY KEY,
	git_url      TEXT        NOT NULL,
	total_issues INTEGER     NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS scans_created_at_idx ON scans (created_at DESC);

CREATE TABLE IF NOT EXISTS scan_issues (
	scan_id    UUID PRIMARY KEY REFERENCES scans (id) ON DELETE CASCADE,
	raw        JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// Postgres persists scan records in PostgreSQL through a pgx pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// NewPostgres connects to dsn, retrying with exponential backoff so a scan
// service starting alongside its database does not flap, then ensures the
// schema exists.
func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(func() error { return pool.Ping(ctx) }, policy); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

// Close releases the connection pool.
func (p *Postgres) Close() { p.pool.Close() }

func (p *Postgres) Available() bool { return true }

func (p *Postgres) PersistScan(ctx context.Context, gitURL string, totalIssues int) (string, error) {
	id := uuid.NewString()
	_, err := p.pool.Exec(ctx,
		`INSERT INTO scans (id, git_url, total_issues, created_at) VALUES ($1, $2, $3, $4)`,
		id, gitURL, totalIssues, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert scan: %w", err)
	}
	return id, nil
}

func (p *Postgres) ArchiveIssues(ctx context.Context, scanID string, issues []issue.Issue) error {
	raw, err := json.Marshal(issues)
	if err != nil {
		return fmt.Errorf("marshal issues: %w", err)
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO scan_issues (scan_id, raw) VALUES ($1, $2)
		 ON CONFLICT (scan_id) DO UPDATE SET raw = EXCLUDED.raw`,
		scanID, raw)
	if err != nil {
		return fmt.Errorf("archive issues: %w", err)
	}
	return nil
}

func (p *Postgres) RecentScans(ctx context.Context, limit int) ([]ScanRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := p.pool.Query(ctx,
		`SELECT id, git_url, total_issues, created_at FROM scans ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query recent scans: %w", err)
	}
	defer rows.Close()

	var out []ScanRecord
	for rows.Next() {
		var r ScanRecord
		if err := rows.Scan(&r.ID, &r.GitURL, &r.TotalIssues, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
