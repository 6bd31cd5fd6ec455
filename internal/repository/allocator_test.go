package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/showbookie/movie-booking/internal/repository"
)

func TestMaxScanAllocator_NextTx(t *testing.T) {
	ctx := context.Background()

	t.Run("returns max plus one", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(BookingID), 0) FROM booking")).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(41))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewMaxScanAllocator()
		id, err := alloc.NextTx(ctx, tx, "booking", "BookingID")
		require.NoError(t, err)
		assert.Equal(t, uint64(42), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty table yields one", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(PaymentID), 0) FROM payment")).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewMaxScanAllocator()
		id, err := alloc.NextTx(ctx, tx, "payment", "PaymentID")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
	})

	t.Run("empty user table counts from the floor", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(UserID), 0) FROM user")).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(0))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewMaxScanAllocator()
		id, err := alloc.NextTx(ctx, tx, "user", "UserID")
		require.NoError(t, err)
		assert.Equal(t, uint64(131), id)
	})

	t.Run("non-empty user table below the floor counts from its max", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(UserID), 0) FROM user")).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(50))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewMaxScanAllocator()
		id, err := alloc.NextTx(ctx, tx, "user", "UserID")
		require.NoError(t, err)
		assert.Equal(t, uint64(51), id)
	})

	t.Run("floor is ignored once the table grows past it", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(UserID), 0) FROM user")).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(200))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewMaxScanAllocator()
		id, err := alloc.NextTx(ctx, tx, "user", "UserID")
		require.NoError(t, err)
		assert.Equal(t, uint64(201), id)
	})
}

func TestMaxScanAllocator_ReserveTx(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	// One maximum read regardless of the block size.
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(SeatID), 0) FROM seat")).
		WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(55))

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)

	alloc := repository.NewMaxScanAllocator()
	first, err := alloc.ReserveTx(ctx, tx, "seat", "SeatID", 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(56), first)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSequenceAllocator(t *testing.T) {
	ctx := context.Background()

	t.Run("bumps the counter row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE sequences SET next_id = LAST_INSERT_ID(next_id + ?) WHERE name = ?")).
			WithArgs(1, "booking").
			WillReturnResult(sqlmock.NewResult(43, 1))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewSequenceAllocator()
		id, err := alloc.NextTx(ctx, tx, "booking", "BookingID")
		require.NoError(t, err)
		assert.Equal(t, uint64(43), id)
	})

	t.Run("block reservation returns the first id", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE sequences SET next_id = LAST_INSERT_ID(next_id + ?) WHERE name = ?")).
			WithArgs(4, "seat").
			WillReturnResult(sqlmock.NewResult(60, 1))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewSequenceAllocator()
		first, err := alloc.ReserveTx(ctx, tx, "seat", "SeatID", 4)
		require.NoError(t, err)
		assert.Equal(t, uint64(57), first)
	})

	t.Run("seeds the counter from the table maximum on first use", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE sequences SET next_id = LAST_INSERT_ID(next_id + ?) WHERE name = ?")).
			WithArgs(1, "payment").
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(PaymentID), 0) FROM payment")).
			WillReturnRows(sqlmock.NewRows([]string{"max"}).AddRow(99))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO sequences (name, next_id) VALUES (?, ?)")).
			WithArgs("payment", 100).
			WillReturnResult(sqlmock.NewResult(0, 1))

		tx, err := db.BeginTx(ctx, nil)
		require.NoError(t, err)

		alloc := repository.NewSequenceAllocator()
		id, err := alloc.NextTx(ctx, tx, "payment", "PaymentID")
		require.NoError(t, err)
		assert.Equal(t, uint64(100), id)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
