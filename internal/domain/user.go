// File: internal/domain/user.go
package domain

import "time"

// User identifies an account. Authentication is handled by the enclosing
// application; the assistant core only needs the ID to key conversations
// and the hair profile.
type User struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
