// Package repository contains data access logic for the booking domain.
// This file implements show lookups: the catalog listing used by browse
// endpoints and the three-tier resolver that maps a user's free-text
// movie/theater selection to a concrete scheduled show.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/showbookie/movie-booking/internal/model"
)

// querier is satisfied by both *sql.DB and *sql.Tx, letting resolution
// run either standalone or inside the booking transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ResolvedShow is the denormalized result of show resolution: the show
// joined to its movie title and theater name, enough to build a receipt
// without further lookups.
type ResolvedShow struct {
	ShowID      uint64
	ScreenID    uint64
	MovieTitle  string
	TheaterName string
	ShowTime    time.Time
}

// ShowRepo manages read access to shows and their reference data.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{db: db} }

// DB exposes the underlying sql.DB. It allows the booking service to
// begin transactions spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB { return r.db }

// showCols is the projection shared by every resolution tier.
const showCols = `SELECT s.ShowID, s.ScreenID, m.Title, t.Name, s.ShowTime
	FROM shows s
	JOIN movie m ON m.MovieID = s.MovieID
	JOIN screen sc ON sc.ScreenID = s.ScreenID
	JOIN theater t ON t.TheaterID = sc.TheaterID`

// Tier 1: movie title and theater name both match. The theater name has
// commas and whitespace stripped from both sides of the comparison so
// that "PVR" matches "PVR Cinemas, Phoenix Mall".
const qByMovieAndTheater = showCols + `
	WHERE UPPER(m.Title) LIKE CONCAT('%', UPPER(?), '%')
	  AND UPPER(REPLACE(REPLACE(t.Name, ',', ''), ' ', '')) LIKE CONCAT('%', UPPER(REPLACE(REPLACE(?, ',', ''), ' ', '')), '%')
	ORDER BY s.ShowTime DESC
	LIMIT 1`

// Tier 2: movie title alone.
const qByMovie = showCols + `
	WHERE UPPER(m.Title) LIKE CONCAT('%', UPPER(?), '%')
	ORDER BY s.ShowTime DESC
	LIMIT 1`

// Tier 3: latest show in the whole schedule, regardless of the query.
const qAnyLatest = showCols + `
	ORDER BY s.ShowTime DESC
	LIMIT 1`

// ResolveTx resolves a free-text movie/theater selection to a show using
// the querier of an active transaction. Tiers run in strict order, each
// only when the previous produced nothing:
//
//  1. movie substring AND normalized theater substring
//  2. movie substring alone
//  3. the overall latest show
//
// Ties within a tier are broken by latest ShowTime. ErrNoShowsAvailable
// is returned only when the shows table is empty.
func (r *ShowRepo) ResolveTx(ctx context.Context, tx *sql.Tx, movieQuery, theaterQuery string) (*ResolvedShow, error) {
	return resolveShow(ctx, tx, movieQuery, theaterQuery)
}

// Resolve is ResolveTx against the repository's own pool, for callers
// that only need a lookup and no transaction.
func (r *ShowRepo) Resolve(ctx context.Context, movieQuery, theaterQuery string) (*ResolvedShow, error) {
	return resolveShow(ctx, r.db, movieQuery, theaterQuery)
}

func resolveShow(ctx context.Context, q querier, movieQuery, theaterQuery string) (*ResolvedShow, error) {
	if movieQuery != "" && theaterQuery != "" {
		s, err := scanResolved(q.QueryRowContext(ctx, qByMovieAndTheater, movieQuery, theaterQuery))
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	if movieQuery != "" {
		s, err := scanResolved(q.QueryRowContext(ctx, qByMovie, movieQuery))
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	s, err := scanResolved(q.QueryRowContext(ctx, qAnyLatest))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoShowsAvailable
		}
		return nil, err
	}
	return s, nil
}

func scanResolved(row *sql.Row) (*ResolvedShow, error) {
	var s ResolvedShow
	if err := row.Scan(&s.ShowID, &s.ScreenID, &s.MovieTitle, &s.TheaterName, &s.ShowTime); err != nil {
		return nil, err
	}
	return &s, nil
}

// List returns all scheduled shows ordered by show time. Used by the
// public browse endpoint; results may be served from cache by the
// handler layer.
func (r *ShowRepo) List(ctx context.Context) ([]model.Show, error) {
	const q = `SELECT ShowID, ScreenID, MovieID, ShowTime FROM shows ORDER BY ShowTime ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Show, 0)
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.ScreenID, &s.MovieID, &s.ShowTime); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
