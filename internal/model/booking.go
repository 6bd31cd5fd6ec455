package model

import "time"

// Booking records one user's purchase of a set of seats at one show.
// Bookings are created exactly once inside the booking transaction and
// are immutable afterwards; no edit or cancel flow is modeled.
//
// Fields:
//  ID          - booking.BookingID
//  UserID      - booking.UserID
//  ShowID      - booking.ShowID
//  BookingDate - booking.BookingDate
//  TotalSeats  - booking.TotalSeats
//  TotalPrice  - booking.TotalPrice (TotalSeats x price per seat, 2 dp)
type Booking struct {
	ID          uint64    `json:"bookingId"`
	UserID      uint64    `json:"userId"`
	ShowID      uint64    `json:"showId"`
	BookingDate time.Time `json:"bookingDate"`
	TotalSeats  int       `json:"totalSeats"`
	TotalPrice  float64   `json:"totalPrice"`
}

// Payment is the single payment row created alongside a booking in the
// same transaction.  There is no gateway integration; the status is
// recorded as "Completed" at creation.
//
// Fields:
//  ID            - payment.PaymentID
//  BookingID     - payment.BookingID
//  PaymentDate   - payment.PaymentDate
//  PaymentMode   - payment.PaymentMode (e.g. "Card")
//  PaymentStatus - payment.PaymentStatus
//  AmountPaid    - payment.AmountPaid
type Payment struct {
	ID            uint64    `json:"paymentId"`
	BookingID     uint64    `json:"bookingId"`
	PaymentDate   time.Time `json:"paymentDate"`
	PaymentMode   string    `json:"paymentMode"`
	PaymentStatus string    `json:"paymentStatus"`
	AmountPaid    float64   `json:"amountPaid"`
}

// Seat is one purchased seat under a booking.  Seat numbers are the raw
// strings supplied by the client ("A1", "B7"); Status is fixed to
// "Booked" at creation.
//
// Fields:
//  ID         - seat.SeatID
//  SeatNumber - seat.SeatNumber
//  BookingID  - seat.BookingID
//  ScreenID   - seat.ScreenID
//  Status     - seat.Status
type Seat struct {
	ID         uint64 `json:"seatId"`
	SeatNumber string `json:"seatNumber"`
	BookingID  uint64 `json:"bookingId"`
	ScreenID   uint64 `json:"screenId"`
	Status     string `json:"status"`
}
