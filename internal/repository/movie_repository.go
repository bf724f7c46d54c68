// Package repository contains data access logic for stored movies.  A movie
// maps a short user-chosen code to either an external link or an uploaded
// Telegram video.  All methods operate on single rows; the table has no
// delete operation because codes are only ever created or overwritten.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions

	"github.com/the-umedov/moviebot/internal/model"
)

// ErrMovieNotFound indicates that no movie row exists for the given code.
var ErrMovieNotFound = errors.New("movie not found")

// MovieRepo manages persistence for movies.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo constructs a MovieRepo with the given DB handle.
func NewMovieRepo(db *sql.DB) *MovieRepo {
	return &MovieRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers that need
// fine-grained control, such as the ops layer's health probe, to reach the
// shared handle without a second connection pool.
func (r *MovieRepo) DB() *sql.DB {
	return r.db
}

// Upsert inserts a movie or, when the code already exists, overwrites the
// existing row entirely.  The write is a single atomic statement so two
// racing submissions of the same code end with one complete winner, never a
// merged row.  created_at is refreshed on both paths.
func (r *MovieRepo) Upsert(ctx context.Context, m *model.Movie) error {
	const q = `INSERT INTO movies (code, title, kind, payload, created_at)
               VALUES (?, ?, ?, ?, UTC_TIMESTAMP())
               ON DUPLICATE KEY UPDATE
                   title = VALUES(title),
                   kind = VALUES(kind),
                   payload = VALUES(payload),
                   created_at = UTC_TIMESTAMP()`
	_, err := r.db.ExecContext(ctx, q, m.Code, m.Title, string(m.Kind), m.Payload)
	return err
}

// GetByCode retrieves a movie by its exact code.  Lookup is case-sensitive:
// the column uses a binary collation comparison so "A12" and "a12" are
// distinct codes.  It returns ErrMovieNotFound when there is no matching row.
func (r *MovieRepo) GetByCode(ctx context.Context, code string) (*model.Movie, error) {
	const q = `SELECT code, title, kind, payload, created_at FROM movies WHERE BINARY code = ?`
	var (
		m    model.Movie
		kind string
	)
	err := r.db.QueryRowContext(ctx, q, code).Scan(&m.Code, &m.Title, &kind, &m.Payload, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	m.Kind = model.Kind(kind)
	return &m, nil
}

// ListAll returns every stored movie ordered by code ascending.  When the
// table is empty it returns an empty slice and nil error.
func (r *MovieRepo) ListAll(ctx context.Context) ([]model.Movie, error) {
	const q = `SELECT code, title, kind, payload, created_at FROM movies ORDER BY code ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []model.Movie
	for rows.Next() {
		var (
			m    model.Movie
			kind string
		)
		if err := rows.Scan(&m.Code, &m.Title, &kind, &m.Payload, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Kind = model.Kind(kind)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
