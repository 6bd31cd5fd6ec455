package repository

import (
	"context"
	"database/sql"

	"github.com/showbookie/movie-booking/internal/model"
)

// TheaterRepo reads theaters and their screens. Like movies these are
// reference data; the booking core never writes them.
type TheaterRepo struct {
	db *sql.DB
}

// NewTheaterRepo constructs a TheaterRepo with the given DB handle.
func NewTheaterRepo(db *sql.DB) *TheaterRepo { return &TheaterRepo{db: db} }

// List returns every theater ordered by name.
func (r *TheaterRepo) List(ctx context.Context) ([]model.Theater, error) {
	const q = `SELECT TheaterID, Name FROM theater ORDER BY Name ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Theater, 0)
	for rows.Next() {
		var t model.Theater
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListScreens returns every screen of a theater.
func (r *TheaterRepo) ListScreens(ctx context.Context, theaterID uint64) ([]model.Screen, error) {
	const q = `SELECT ScreenID, TheaterID FROM screen WHERE TheaterID = ? ORDER BY ScreenID ASC`
	rows, err := r.db.QueryContext(ctx, q, theaterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Screen, 0)
	for rows.Next() {
		var s model.Screen
		if err := rows.Scan(&s.ID, &s.TheaterID); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
