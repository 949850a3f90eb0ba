package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"invoicegate/internal/approval"
	"invoicegate/internal/platform/sentinel"
)

// Store is the durable approval store backed by PostgreSQL. Concurrent writers
// are serialized by the database; uniqueness and ordering guarantees come from
// the primary key and the query ORDER BY clauses.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const schema = `
CREATE TABLE IF NOT EXISTS approvals (
	id             UUID PRIMARY KEY,
	status         TEXT NOT NULL,
	vendor         TEXT NOT NULL DEFAULT '',
	invoice_number TEXT NOT NULL DEFAULT '',
	total          DOUBLE PRECISION NOT NULL DEFAULT 0,
	currency       TEXT NOT NULL DEFAULT '',
	confidence     DOUBLE PRECISION NOT NULL DEFAULT 0,
	approval_type  TEXT NOT NULL,
	decided_by     TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL,
	CONSTRAINT approvals_updated_after_created CHECK (updated_at >= created_at)
);

CREATE INDEX IF NOT EXISTS idx_approvals_status_created
	ON approvals (status, created_at DESC);
`

// EnsureSchema creates the approvals table when missing. Called once at
// startup; idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure approvals schema: %w", err)
	}
	return nil
}

const recordColumns = `id, status, vendor, invoice_number, total, currency, confidence, approval_type, decided_by, created_at, updated_at`

func (s *Store) Create(ctx context.Context, rec *approval.Record) error {
	query := `
		INSERT INTO approvals (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.pool.Exec(ctx, query,
		rec.ID,
		rec.Status,
		rec.Vendor,
		rec.InvoiceNumber,
		rec.Total,
		rec.Currency,
		rec.Confidence,
		rec.ApprovalType,
		rec.DecidedBy,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("approval %s: %w", rec.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*approval.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM approvals WHERE id = $1`

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("approval %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get approval: %w", err)
	}
	return rec, nil
}

// SetStatus transitions a pending record to a terminal status. The WHERE
// clause makes the transition atomic under concurrent deciders; when no row
// matches, a follow-up read distinguishes unknown ids from already-decided
// records.
func (s *Store) SetStatus(ctx context.Context, id string, status approval.Status, decidedBy string) (*approval.Record, error) {
	query := `
		UPDATE approvals
		SET status = $2, decided_by = $3, updated_at = $4
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + recordColumns

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id, status, decidedBy, time.Now().UTC()))
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update approval status: %w", err)
	}

	var current approval.Status
	if err := s.pool.QueryRow(ctx, `SELECT status FROM approvals WHERE id = $1`, id).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("approval %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("read approval status: %w", err)
	}
	return nil, fmt.Errorf("approval %s is %s: %w", id, current, sentinel.ErrInvalidState)
}

func (s *Store) ListAll(ctx context.Context) ([]*approval.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM approvals ORDER BY created_at DESC, id`
	return s.list(ctx, query)
}

func (s *Store) ListByStatus(ctx context.Context, status approval.Status) ([]*approval.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM approvals WHERE status = $1 ORDER BY created_at DESC, id`
	return s.list(ctx, query, status)
}

func (s *Store) ListPendingOverThreshold(ctx context.Context, amount float64) ([]*approval.Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM approvals
		WHERE status = 'pending' AND total > $1
		ORDER BY total DESC, id
	`
	return s.list(ctx, query, amount)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*approval.Record, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query approvals: %w", err)
	}
	defer rows.Close()

	out := make([]*approval.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate approvals: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (*approval.Record, error) {
	var rec approval.Record
	err := row.Scan(
		&rec.ID,
		&rec.Status,
		&rec.Vendor,
		&rec.InvoiceNumber,
		&rec.Total,
		&rec.Currency,
		&rec.Confidence,
		&rec.ApprovalType,
		&rec.DecidedBy,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
