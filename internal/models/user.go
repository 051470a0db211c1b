package models

import "time"

// User is a stored credential record. PasswordHash never leaves the service.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public returns the fields safe to return to a caller.
func (u User) Public() UserPublic {
	return UserPublic{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

// UserPublic is returned by registration.
type UserPublic struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// UserIdentity is the user part of a login response.
type UserIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	User  UserIdentity `json:"user"`
	Token string       `json:"token"`
}

// UserRegisteredEvent is published to RabbitMQ after a registration.
type UserRegisteredEvent struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	RegisteredAt time.Time `json:"registered_at"`
}
