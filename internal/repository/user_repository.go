package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/showbookie/movie-booking/internal/model"
)

// UserRepo manages persistence for users. The user table keeps the same
// synthetic-identifier scheme as the booking tables, so inserts go
// through the IDAllocator inside a short transaction of their own.
type UserRepo struct {
	DB    *sql.DB
	Alloc IDAllocator
}

// NewUserRepo returns a UserRepo using the given database and allocator.
func NewUserRepo(db *sql.DB, alloc IDAllocator) *UserRepo {
	return &UserRepo{DB: db, Alloc: alloc}
}

// Create inserts a user with a freshly allocated UserID and returns the
// id. The email is normalized to lower case. ErrEmailExists is returned
// when the address is already registered; the check and the insert run
// in one transaction so two racing registrations cannot both succeed.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var one int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM user WHERE Email = ? LIMIT 1`, email).Scan(&one)
	if err == nil {
		return 0, ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}

	id, err := r.Alloc.NextTx(ctx, tx, "user", "UserID")
	if err != nil {
		return 0, err
	}
	const ins = `INSERT INTO user (UserID, Name, Email, Password) VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, id, name, email, passwordHash); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return id, nil
}

// GetByEmail fetches a user by normalized email. sql.ErrNoRows is
// returned when the address is unknown.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT UserID, Name, Email, Password FROM user WHERE Email = ? LIMIT 1`,
		email).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT UserID, Name, Email, Password FROM user WHERE UserID = ? LIMIT 1`,
		id).Scan(&u.ID, &u.Name, &u.Email, &u.Password)
	return u, err
}
