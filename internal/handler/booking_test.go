package handler_test

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showbookie/movie-booking/internal/handler"
	"github.com/showbookie/movie-booking/internal/repository"
	"github.com/showbookie/movie-booking/internal/service"
)

func TestNormalizeMovieTitle(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"django fragment", "django unchained", "Django"},
		{"dune fragment", "DUNE part two", "Dune 2"},
		{"shawshank fragment", "The Shawshank Redemption (1994)", "Shawshank Redemption"},
		{"interstellar fragment", "interstellar", "Interstellar"},
		{"unknown passes through trimmed", "  Oppenheimer  ", "Oppenheimer"},
		{"empty stays empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, handler.NormalizeMovieTitle(tc.in))
		})
	}
}

func bookingHandlerWithDB(t *testing.T) (*handler.BookingHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	svc := service.NewBookingService(
		repository.NewShowRepo(db),
		repository.NewBookingRepo(db),
		repository.NewMaxScanAllocator(),
		nil,
	)
	return handler.NewBookingHandler(svc), mock
}

func postBooking(h *handler.BookingHandler, userID any, body string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != nil {
		c.Set("user_id", userID)
	}
	_ = h.Create(c)
	return rec
}

func TestBookingHandler_Create(t *testing.T) {
	showTime := time.Date(2026, 3, 14, 21, 30, 0, 0, time.UTC)

	t.Run("books seats and returns the receipt", func(t *testing.T) {
		h, mock := bookingHandlerWithDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`REPLACE(REPLACE(t.Name, ',', ''), ' ', '')`)).
			WithArgs("Django", "PVR").
			WillReturnRows(sqlmock.NewRows([]string{"ShowID", "ScreenID", "Title", "Name", "ShowTime"}).
				AddRow(7, 3, "Django", "PVR Cinemas", showTime))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(BookingID), 0) FROM booking`)).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(12))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO booking`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(PaymentID), 0) FROM payment`)).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO payment`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(SeatID), 0) FROM seat`)).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO seat`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO seat`)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		// The alias table canonicalizes the title before resolution.
		rec := postBooking(h, uint64(131),
			`{"movieTitle":"django unchained","theater":"PVR","selectedSeats":["A1","A2"],"paymentMode":"UPI"}`)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"bookingId":13`)
		assert.Contains(t, rec.Body.String(), `"totalPrice":380.46`)
		assert.Contains(t, rec.Body.String(), `"movieTitle":"Django"`)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing seats is a 400", func(t *testing.T) {
		h, _ := bookingHandlerWithDB(t)
		rec := postBooking(h, uint64(131), `{"movieTitle":"Django","selectedSeats":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing title is a 400", func(t *testing.T) {
		h, _ := bookingHandlerWithDB(t)
		rec := postBooking(h, uint64(131), `{"movieTitle":"  ","selectedSeats":["A1"]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no authenticated user is a 401", func(t *testing.T) {
		h, _ := bookingHandlerWithDB(t)
		rec := postBooking(h, nil, `{"movieTitle":"Django","selectedSeats":["A1"]}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty schedule is a 404", func(t *testing.T) {
		h, mock := bookingHandlerWithDB(t)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(`REPLACE(REPLACE(t.Name, ',', ''), ' ', '')`)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`WHERE UPPER(m.Title) LIKE CONCAT('%', UPPER(?), '%')
	ORDER BY`)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery(regexp.QuoteMeta(`JOIN theater t ON t.TheaterID = sc.TheaterID
	ORDER BY s.ShowTime DESC`)).
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		rec := postBooking(h, uint64(131), `{"movieTitle":"Oppenheimer","theater":"Anywhere","selectedSeats":["A1"]}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingHandler_List(t *testing.T) {
	booked := time.Date(2026, 2, 1, 18, 0, 0, 0, time.UTC)

	t.Run("returns the caller's history", func(t *testing.T) {
		h, mock := bookingHandlerWithDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.UserID = ?`)).
			WithArgs(uint64(131)).
			WillReturnRows(sqlmock.NewRows([]string{
				"BookingID", "BookingDate", "TotalSeats", "TotalPrice",
				"Title", "Name", "ShowTime", "PaymentStatus", "Seats",
			}).AddRow(21, booked, 2, 380.46, "Django", "PVR Cinemas", booked.Add(24*time.Hour), "Completed", "A1, A2"))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", uint64(131))

		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"BookingID":21`)
		assert.Contains(t, rec.Body.String(), `"Seats":"A1, A2"`)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		h, mock := bookingHandlerWithDB(t)

		mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.UserID = ?`)).
			WithArgs(uint64(9)).
			WillReturnRows(sqlmock.NewRows([]string{
				"BookingID", "BookingDate", "TotalSeats", "TotalPrice",
				"Title", "Name", "ShowTime", "PaymentStatus", "Seats",
			}))

		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/v1/bookings", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("user_id", uint64(9))

		require.NoError(t, h.List(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"bookings":[]`)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
