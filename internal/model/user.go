package model

// User mirrors the 'user' table.  The password column stores a bcrypt
// hash, never plain text.
type User struct {
	ID       uint64
	Name     string
	Email    string
	Password string
}
