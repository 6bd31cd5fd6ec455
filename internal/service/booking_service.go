// Package service implements the booking transaction orchestrator and the
// booking history reader on top of the repository layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/showbookie/movie-booking/internal/model"
	"github.com/showbookie/movie-booking/internal/queue"
	"github.com/showbookie/movie-booking/internal/repository"
)

// pricePerSeat is the fixed ticket price. TotalPrice is always
// TotalSeats * pricePerSeat rounded to two decimal places.
const pricePerSeat = 190.23

// defaultPaymentMode is used when the caller supplies no payment mode.
const defaultPaymentMode = "Card"

// Receipt summarizes a successful booking for the caller. ShowTime is
// the resolved show's scheduled time, not the booking time.
type Receipt struct {
	BookingID     uint64    `json:"bookingId"`
	ShowID        uint64    `json:"showId"`
	MovieTitle    string    `json:"movieTitle"`
	TheaterName   string    `json:"theaterName"`
	ShowTime      time.Time `json:"showTime"`
	TotalSeats    int       `json:"totalSeats"`
	TotalPrice    float64   `json:"totalPrice"`
	PaymentStatus string    `json:"paymentStatus"`
	SelectedSeats []string  `json:"selectedSeats"`
}

// BookingService coordinates the end-to-end atomic booking sequence:
// resolve show, allocate ids, insert booking, payment and seat rows,
// commit. On any failure the whole transaction is rolled back and no
// row survives. It also serves the read-only per-user history view.
type BookingService struct {
	Shows    *repository.ShowRepo
	Bookings *repository.BookingRepo
	Alloc    repository.IDAllocator
	Events   queue.Publisher // optional; nil disables event publishing
}

// NewBookingService constructs a BookingService. Shows, Bookings and
// Alloc must be non-nil; Events may be nil.
func NewBookingService(shows *repository.ShowRepo, bookings *repository.BookingRepo, alloc repository.IDAllocator, events queue.Publisher) *BookingService {
	if shows == nil || bookings == nil || alloc == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{Shows: shows, Bookings: bookings, Alloc: alloc, Events: events}
}

// CreateBooking books the given seats for the user against the best
// matching show, all inside one transaction:
//
//  1. trim inputs and resolve the show (three-tier fallback)
//  2. allocate a BookingID and insert the booking row
//  3. allocate a PaymentID and insert the payment row
//  4. reserve a block of SeatIDs and insert one seat row per seat
//     number, in input order, with status "Booked"
//  5. commit and return the receipt
//
// Resolution failure surfaces ErrNoShowsAvailable; every other failure
// is logged and wrapped in ErrBookingFailed. In both cases the
// transaction is rolled back and nothing is persisted. Seat numbers are
// stored as supplied; duplicates and out-of-range values are accepted.
func (s *BookingService) CreateBooking(ctx context.Context, userID uint64, movieTitle, theaterName string, selectedSeats []string, paymentMode string) (*Receipt, error) {
	movieTitle = strings.TrimSpace(movieTitle)
	theaterName = strings.TrimSpace(theaterName)
	paymentMode = strings.TrimSpace(paymentMode)
	if paymentMode == "" {
		paymentMode = defaultPaymentMode
	}

	tx, err := s.Shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, bookingFailed("begin transaction", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	show, err := s.Shows.ResolveTx(ctx, tx, movieTitle, theaterName)
	if err != nil {
		if errors.Is(err, repository.ErrNoShowsAvailable) {
			return nil, err
		}
		return nil, bookingFailed("resolve show", err)
	}

	totalSeats := len(selectedSeats)
	totalPrice := round2(float64(totalSeats) * pricePerSeat)

	bookingID, err := s.Alloc.NextTx(ctx, tx, "booking", "BookingID")
	if err != nil {
		return nil, bookingFailed("allocate booking id", err)
	}
	booking := &model.Booking{
		ID:         bookingID,
		UserID:     userID,
		ShowID:     show.ShowID,
		TotalSeats: totalSeats,
		TotalPrice: totalPrice,
	}
	if err := s.Bookings.InsertTx(ctx, tx, booking); err != nil {
		return nil, bookingFailed("insert booking", err)
	}

	paymentID, err := s.Alloc.NextTx(ctx, tx, "payment", "PaymentID")
	if err != nil {
		return nil, bookingFailed("allocate payment id", err)
	}
	payment := &model.Payment{
		ID:            paymentID,
		BookingID:     bookingID,
		PaymentMode:   paymentMode,
		PaymentStatus: "Completed",
		AmountPaid:    totalPrice,
	}
	if err := s.Bookings.InsertPaymentTx(ctx, tx, payment); err != nil {
		return nil, bookingFailed("insert payment", err)
	}

	if totalSeats > 0 {
		seatID, err := s.Alloc.ReserveTx(ctx, tx, "seat", "SeatID", totalSeats)
		if err != nil {
			return nil, bookingFailed("allocate seat ids", err)
		}
		for i, number := range selectedSeats {
			seat := &model.Seat{
				ID:         seatID + uint64(i),
				SeatNumber: number,
				BookingID:  bookingID,
				ScreenID:   show.ScreenID,
				Status:     "Booked",
			}
			if err := s.Bookings.InsertSeatTx(ctx, tx, seat); err != nil {
				return nil, bookingFailed("insert seat", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, bookingFailed("commit", err)
	}
	committed = true

	receipt := &Receipt{
		BookingID:     bookingID,
		ShowID:        show.ShowID,
		MovieTitle:    show.MovieTitle,
		TheaterName:   show.TheaterName,
		ShowTime:      show.ShowTime,
		TotalSeats:    totalSeats,
		TotalPrice:    totalPrice,
		PaymentStatus: "Completed",
		SelectedSeats: selectedSeats,
	}

	if s.Events != nil {
		// Best effort: the booking is committed, a lost event must not
		// fail the request. Publish errors are logged by the publisher.
		_ = s.Events.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
			BookingID:   bookingID,
			UserID:      userID,
			ShowID:      show.ShowID,
			MovieTitle:  show.MovieTitle,
			TheaterName: show.TheaterName,
			ShowTime:    show.ShowTime.UTC().Format(time.RFC3339),
			Seats:       selectedSeats,
			TotalPrice:  totalPrice,
			CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		})
	}
	return receipt, nil
}

// ListBookings returns the user's booking history, most recent first.
// Query failures are logged and wrapped in ErrReadFailed.
func (s *BookingService) ListBookings(ctx context.Context, userID uint64) ([]repository.BookingSummary, error) {
	items, err := s.Bookings.ListByUser(ctx, userID)
	if err != nil {
		log.Printf("booking: list for user %d failed: %v", userID, err)
		return nil, fmt.Errorf("%w: %w", repository.ErrReadFailed, err)
	}
	return items, nil
}

// bookingFailed logs the step that broke the transaction and wraps the
// cause in ErrBookingFailed.
func bookingFailed(step string, err error) error {
	log.Printf("booking: %s failed: %v", step, err)
	return fmt.Errorf("%w: %s: %w", repository.ErrBookingFailed, step, err)
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
