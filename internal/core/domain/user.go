package domain

import "time"

// User models an account that owns tasks and can log in.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Principal returns the identity projection embedded into session tokens.
func (u *User) Principal() Principal {
	return Principal{ID: u.ID, DisplayName: u.Username}
}
