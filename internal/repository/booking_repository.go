package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/showbookie/movie-booking/internal/model"
)

// BookingRepo persists bookings and their dependent payment and seat
// rows, and assembles the denormalized per-user history view. All
// write methods are Tx-scoped: the booking service owns the enclosing
// transaction, and no partial booking is ever visible outside it.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// InsertTx inserts a booking row within the caller's transaction. The
// BookingDate is assigned by the database (NOW()), so the struct's
// BookingDate field is ignored on insert.
func (r *BookingRepo) InsertTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO booking (BookingID, UserID, ShowID, BookingDate, TotalSeats, TotalPrice)
			   VALUES (?, ?, ?, NOW(), ?, ?)`
	_, err := tx.ExecContext(ctx, q, b.ID, b.UserID, b.ShowID, b.TotalSeats, b.TotalPrice)
	return err
}

// InsertPaymentTx inserts the booking's single payment row within the
// caller's transaction. PaymentDate is assigned by the database.
func (r *BookingRepo) InsertPaymentTx(ctx context.Context, tx *sql.Tx, p *model.Payment) error {
	const q = `INSERT INTO payment (PaymentID, BookingID, PaymentDate, PaymentMode, PaymentStatus, AmountPaid)
			   VALUES (?, ?, NOW(), ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, p.ID, p.BookingID, p.PaymentMode, p.PaymentStatus, p.AmountPaid)
	return err
}

// InsertSeatTx inserts one purchased seat row within the caller's
// transaction. Seat numbers are stored exactly as supplied; the screen's
// real layout is not consulted.
func (r *BookingRepo) InsertSeatTx(ctx context.Context, tx *sql.Tx, s *model.Seat) error {
	const q = `INSERT INTO seat (SeatID, SeatNumber, BookingID, ScreenID, Status)
			   VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, s.ID, s.SeatNumber, s.BookingID, s.ScreenID, s.Status)
	return err
}

// BookingSummary is one row of a user's booking history: the booking
// joined to its show, movie, theater and payment, with all "Booked"
// seat numbers aggregated into one comma-joined string. Joined fields
// are left empty when the referenced rows no longer exist, except
// PaymentStatus which defaults to "Completed".
type BookingSummary struct {
	BookingID     uint64     `json:"BookingID"`
	BookingDate   time.Time  `json:"BookingDate"`
	TotalSeats    int        `json:"TotalSeats"`
	TotalPrice    float64    `json:"TotalPrice"`
	MovieTitle    string     `json:"MovieTitle"`
	TheaterName   string     `json:"TheaterName"`
	ShowTime      *time.Time `json:"ShowTime"`
	PaymentStatus string     `json:"PaymentStatus"`
	Seats         string     `json:"Seats"`
}

// ListByUser returns the booking history for a user, most recent first.
// Each call re-reads current state; no transaction is taken because the
// view is read-only and bookings are immutable once committed.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingSummary, error) {
	const q = `SELECT
				 b.BookingID,
				 b.BookingDate,
				 b.TotalSeats,
				 b.TotalPrice,
				 m.Title,
				 t.Name,
				 s.ShowTime,
				 COALESCE(p.PaymentStatus, 'Completed'),
				 GROUP_CONCAT(se.SeatNumber ORDER BY se.SeatNumber SEPARATOR ', ')
			   FROM booking b
			   LEFT JOIN shows s ON s.ShowID = b.ShowID
			   LEFT JOIN movie m ON m.MovieID = s.MovieID
			   LEFT JOIN screen sc ON sc.ScreenID = s.ScreenID
			   LEFT JOIN theater t ON t.TheaterID = sc.TheaterID
			   LEFT JOIN payment p ON p.BookingID = b.BookingID
			   LEFT JOIN seat se ON se.BookingID = b.BookingID AND se.Status = 'Booked'
			   WHERE b.UserID = ?
			   GROUP BY
				 b.BookingID, b.BookingDate, b.TotalSeats, b.TotalPrice,
				 m.Title, t.Name, s.ShowTime, p.PaymentStatus
			   ORDER BY b.BookingDate DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]BookingSummary, 0)
	for rows.Next() {
		var (
			sum      BookingSummary
			title    sql.NullString
			theater  sql.NullString
			showTime sql.NullTime
			seats    sql.NullString
		)
		if err := rows.Scan(
			&sum.BookingID, &sum.BookingDate, &sum.TotalSeats, &sum.TotalPrice,
			&title, &theater, &showTime, &sum.PaymentStatus, &seats,
		); err != nil {
			return nil, err
		}
		sum.MovieTitle = title.String
		sum.TheaterName = theater.String
		if showTime.Valid {
			t := showTime.Time
			sum.ShowTime = &t
		}
		sum.Seats = seats.String
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
