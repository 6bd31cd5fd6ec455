package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/showbookie/movie-booking/internal/repository"
	"github.com/showbookie/movie-booking/internal/service"
)

// BookingHandler exposes the booking core over HTTP: creating a booking
// and listing the caller's booking history. Authentication has already
// happened in middleware; methods return 401 only when the user ID
// cannot be extracted from the context.
type BookingHandler struct {
	Bookings *service.BookingService
}

// NewBookingHandler constructs a BookingHandler. The service must be
// non-nil.
func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	if bookings == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: bookings}
}

type createBookingReq struct {
	MovieTitle    string   `json:"movieTitle"`
	Theater       string   `json:"theater"`
	SelectedSeats []string `json:"selectedSeats"`
	PaymentMode   string   `json:"paymentMode"`
}

// movieTitleAliases maps well-known free-text fragments from the UI to
// canonical catalog titles. The mapping is deliberately owned by this
// layer, not the resolver: the resolver stays generic while the API
// layer absorbs the quirks of the pages calling it.
var movieTitleAliases = []struct {
	fragment  string
	canonical string
}{
	{"DJANGO", "Django"},
	{"DUNE", "Dune 2"},
	{"SHAWSHANK", "Shawshank Redemption"},
	{"INTERSTELLAR", "Interstellar"},
}

// NormalizeMovieTitle trims the raw title and replaces it with a
// canonical catalog title when it contains a known alias fragment
// (case-insensitive). Unknown titles pass through trimmed.
func NormalizeMovieTitle(raw string) string {
	title := strings.TrimSpace(raw)
	upper := strings.ToUpper(title)
	for _, a := range movieTitleAliases {
		if strings.Contains(upper, a.fragment) {
			return a.canonical
		}
	}
	return title
}

// Create handles POST /v1/bookings. It validates the request shape
// (non-empty title and seat list), normalizes the movie title, and runs
// the booking transaction. 404 signals an empty schedule; any other
// failure is a generic 500 with no partial state behind it.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.MovieTitle) == "" || len(req.SelectedSeats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie title and at least one seat are required"})
	}

	receipt, err := h.Bookings.CreateBooking(
		c.Request().Context(),
		userID,
		NormalizeMovieTitle(req.MovieTitle),
		req.Theater,
		req.SelectedSeats,
		req.PaymentMode,
	)
	if err != nil {
		if errors.Is(err, repository.ErrNoShowsAvailable) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no shows available"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"booking": receipt})
}

// List handles GET /v1/bookings. It returns the caller's booking
// history, most recent first; an account without bookings gets an
// empty array.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListBookings(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}
