// Package store persists Kamea aspect-event records: a planetary-aspect
// table queried by date range, body, and kind, written in per-year atomic
// batches. Rows carry their year, but queries do not filter on it.
package store

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/TheDaniel418/isopgem-cores/internal/apperrors"
)

// Aspect is one planetary-aspect event. Body1/Body2 are canonicalized so
// Body1 <= Body2 lexically on insert.
type Aspect struct {
	ID             int64
	Body1          string
	Body2          string
	AspectType     string
	IsMajor        bool
	Year           int
	ExactTimestamp time.Time
	ExactPosition1 float64
	ExactPosition2 float64
}

// Query filters an aspect-table read by date range and, optionally, body
// names and aspect kind. Body1/Body2 match in either order.
type Query struct {
	Start, End time.Time
	Body1      string
	Body2      string
	Kind       string
}

// AspectStore is the persistence contract the Kamea engine's aspect table
// is built on: dependency-injected, transactional per-year writes, and
// range/body/kind-filtered reads. Absence of rows for a queried range is a
// valid, cacheable answer — not a trigger to compute.
type AspectStore interface {
	StoreYear(ctx context.Context, year int, aspects []Aspect) error
	Query(ctx context.Context, q Query) ([]Aspect, error)
}

// SQLStore implements AspectStore against an injected *sql.DB. The cores
// never open or own the connection; the caller's composition root does.
type SQLStore struct {
	db *sql.DB
}

// NewSQLStore wraps an existing database handle. It assumes the schema
// described in the external-interfaces contract (celestial_bodies,
// aspects, calculation_metadata) already exists.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

// StoreYear writes aspects for year inside one transaction, canonicalizes
// body ordering per row, and updates the calculation_metadata row for
// (year, year) in the same transaction. Either everything commits or
// nothing does.
func (s *SQLStore) StoreYear(ctx context.Context, year int, aspects []Aspect) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Wrap(apperrors.TransactionFailed, "cannot begin transaction", err)
	}
	defer tx.Rollback()

	for _, a := range aspects {
		b1, b2 := a.Body1, a.Body2
		if b2 < b1 {
			b1, b2 = b2, b1
		}
		id1, err := bodyID(ctx, tx, b1)
		if err != nil {
			return apperrors.Wrap(apperrors.TransactionFailed, "cannot resolve celestial body", err)
		}
		id2, err := bodyID(ctx, tx, b2)
		if err != nil {
			return apperrors.Wrap(apperrors.TransactionFailed, "cannot resolve celestial body", err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO aspects (body1_id, body2_id, aspect_type, is_major, year, exact_timestamp, exact_position1, exact_position2)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id1, id2, a.AspectType, a.IsMajor, year, a.ExactTimestamp.Format(time.RFC3339), a.ExactPosition1, a.ExactPosition2)
		if err != nil {
			return apperrors.Wrap(apperrors.TransactionFailed, "cannot insert aspect row", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO calculation_metadata (start_year, end_year, calculation_timestamp, status, events_count)
		 VALUES (?, ?, ?, 'complete', ?)`,
		year, year, time.Now().UTC().Format(time.RFC3339), len(aspects))
	if err != nil {
		return apperrors.Wrap(apperrors.TransactionFailed, "cannot write calculation metadata", err)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Wrap(apperrors.TransactionFailed, "commit failed", err)
	}
	return nil
}

func bodyID(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM celestial_bodies WHERE name = ?`, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `INSERT INTO celestial_bodies (name, type) VALUES (?, 'unknown')`, name)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Query returns rows satisfying q.Start <= exact_timestamp <= q.End,
// optionally filtered by body (matching either order) and kind.
func (s *SQLStore) Query(ctx context.Context, q Query) ([]Aspect, error) {
	sqlText := `
		SELECT a.id, b1.name, b2.name, a.aspect_type, a.is_major, a.year, a.exact_timestamp, a.exact_position1, a.exact_position2
		FROM aspects a
		JOIN celestial_bodies b1 ON a.body1_id = b1.id
		JOIN celestial_bodies b2 ON a.body2_id = b2.id
		WHERE a.exact_timestamp BETWEEN ? AND ?`
	args := []any{q.Start.Format(time.RFC3339), q.End.Format(time.RFC3339)}

	if q.Kind != "" {
		sqlText += ` AND a.aspect_type = ?`
		args = append(args, q.Kind)
	}
	if q.Body1 != "" && q.Body2 != "" {
		sqlText += ` AND ((b1.name = ? AND b2.name = ?) OR (b1.name = ? AND b2.name = ?))`
		args = append(args, q.Body1, q.Body2, q.Body2, q.Body1)
	} else if q.Body1 != "" {
		sqlText += ` AND (b1.name = ? OR b2.name = ?)`
		args = append(args, q.Body1, q.Body1)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TransactionFailed, "aspect query failed", err)
	}
	defer rows.Close()

	var out []Aspect
	for rows.Next() {
		var a Aspect
		var ts string
		if err := rows.Scan(&a.ID, &a.Body1, &a.Body2, &a.AspectType, &a.IsMajor, &a.Year, &ts, &a.ExactPosition1, &a.ExactPosition2); err != nil {
			return nil, apperrors.Wrap(apperrors.TransactionFailed, "aspect row scan failed", err)
		}
		a.ExactTimestamp, err = time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.TransactionFailed, "malformed stored timestamp", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// MemoryStore is an in-memory AspectStore backing unit tests and the
// cache's cold-start path when no database is configured.
type MemoryStore struct {
	byYear map[int][]Aspect
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byYear: make(map[int][]Aspect)}
}

// StoreYear replaces the in-memory batch for year atomically (a plain map
// write is already atomic from the caller's perspective; there is no
// partial-failure mode to roll back in memory).
func (m *MemoryStore) StoreYear(_ context.Context, year int, aspects []Aspect) error {
	canon := make([]Aspect, len(aspects))
	for i, a := range aspects {
		if a.Body2 < a.Body1 {
			a.Body1, a.Body2 = a.Body2, a.Body1
		}
		a.Year = year
		canon[i] = a
	}
	m.byYear[year] = canon
	return nil
}

// Query filters the in-memory aspects the same way SQLStore.Query does.
func (m *MemoryStore) Query(_ context.Context, q Query) ([]Aspect, error) {
	var out []Aspect
	for _, aspects := range m.byYear {
		for _, a := range aspects {
			if a.ExactTimestamp.Before(q.Start) || a.ExactTimestamp.After(q.End) {
				continue
			}
			if q.Kind != "" && a.AspectType != q.Kind {
				continue
			}
			if q.Body1 != "" && q.Body2 != "" {
				match := (a.Body1 == q.Body1 && a.Body2 == q.Body2) || (a.Body1 == q.Body2 && a.Body2 == q.Body1)
				if !match {
					continue
				}
			} else if q.Body1 != "" && a.Body1 != q.Body1 && a.Body2 != q.Body1 {
				continue
			}
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExactTimestamp.Before(out[j].ExactTimestamp) })
	return out, nil
}
