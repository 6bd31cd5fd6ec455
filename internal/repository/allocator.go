package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// IDAllocator computes the next unused synthetic identifier for an entity
// table. Implementations must run against the transaction that performs
// the subsequent insert: an allocation outside the enclosing transaction
// can race a concurrent booking and collide on insert.
//
// Two implementations exist. MaxScanAllocator reproduces the original
// max+1 scan and is only collision-free when the store's isolation level
// (or a unique constraint on the id column) rejects duplicate commits.
// SequenceAllocator keeps a dedicated counter row per table and is safe
// under plain READ COMMITTED.
type IDAllocator interface {
	// NextTx returns max(idColumn)+1 for the given table, treating an
	// empty table as max 0 unless a floor is configured for it.
	NextTx(ctx context.Context, tx *sql.Tx, table, idColumn string) (uint64, error)

	// ReserveTx allocates a contiguous block of n identifiers and
	// returns the first. The caller assigns first, first+1, ...,
	// first+n-1 and must insert all of them before the transaction
	// commits. Used for seat rows, which take one maximum read and a
	// local counter rather than one allocation per row.
	ReserveTx(ctx context.Context, tx *sql.Tx, table, idColumn string, n int) (uint64, error)
}

// MaxScanAllocator allocates identifiers by scanning the current maximum
// of the id column and adding one. Floors maps a table name to the value
// an empty table should count from; the user table uses 130 so that
// freshly created users start at 131, matching pre-existing data.
type MaxScanAllocator struct {
	Floors map[string]uint64
}

// NewMaxScanAllocator returns a MaxScanAllocator with the default floor
// for the user table.
func NewMaxScanAllocator() *MaxScanAllocator {
	return &MaxScanAllocator{Floors: map[string]uint64{"user": 130}}
}

// NextTx reads COALESCE(MAX(idColumn), 0) within the transaction and
// returns it plus one. Table and column names are interpolated into the
// statement; they always come from compile-time constants in this
// package, never from user input.
func (a *MaxScanAllocator) NextTx(ctx context.Context, tx *sql.Tx, table, idColumn string) (uint64, error) {
	return a.ReserveTx(ctx, tx, table, idColumn, 1)
}

// ReserveTx is a single maximum read regardless of n: the ids above the
// current maximum are free by construction, so the caller can count
// upward from the returned value.
func (a *MaxScanAllocator) ReserveTx(ctx context.Context, tx *sql.Tx, table, idColumn string, n int) (uint64, error) {
	if n < 1 {
		return 0, fmt.Errorf("reserve %d ids from %s", n, table)
	}
	q := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) FROM %s", idColumn, table)
	var max uint64
	if err := tx.QueryRowContext(ctx, q).Scan(&max); err != nil {
		return 0, err
	}
	if max == 0 {
		// Only an empty table counts from its floor; once rows exist
		// the scanned maximum wins even when it is below the floor.
		if floor, ok := a.Floors[table]; ok {
			max = floor
		}
	}
	return max + 1, nil
}

// SequenceAllocator allocates identifiers from a dedicated sequences
// table, one row per entity table. The UPDATE below bumps the counter
// and exposes the new value through LAST_INSERT_ID() atomically, so two
// concurrent transactions can never obtain the same identifier even
// under weak isolation.
type SequenceAllocator struct{}

// NewSequenceAllocator returns a SequenceAllocator.
func NewSequenceAllocator() *SequenceAllocator { return &SequenceAllocator{} }

// NextTx bumps the counter row for the table and returns the new value.
func (a *SequenceAllocator) NextTx(ctx context.Context, tx *sql.Tx, table, idColumn string) (uint64, error) {
	return a.ReserveTx(ctx, tx, table, idColumn, 1)
}

// ReserveTx advances the counter by n in one statement and returns the
// first id of the reserved block. On the first allocation for a table
// the counter row is seeded from the table's current maximum so sequence
// ids continue the existing range.
func (a *SequenceAllocator) ReserveTx(ctx context.Context, tx *sql.Tx, table, idColumn string, n int) (uint64, error) {
	if n < 1 {
		return 0, fmt.Errorf("reserve %d ids from %s", n, table)
	}
	const upd = `UPDATE sequences SET next_id = LAST_INSERT_ID(next_id + ?) WHERE name = ?`
	res, err := tx.ExecContext(ctx, upd, n, table)
	if err != nil {
		return 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		seed := NewMaxScanAllocator()
		first, err := seed.ReserveTx(ctx, tx, table, idColumn, n)
		if err != nil {
			return 0, err
		}
		const ins = `INSERT INTO sequences (name, next_id) VALUES (?, ?)`
		if _, err := tx.ExecContext(ctx, ins, table, first+uint64(n)-1); err != nil {
			return 0, err
		}
		return first, nil
	}
	last, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(last) - uint64(n) + 1, nil
}
