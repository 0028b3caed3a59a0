package dto

import "github.com/google/uuid"

// Credentials is the login and register payload. Pointer fields let the
// validator tell a missing key from an empty value.
type Credentials struct {
	Email    *string `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"required,min=6"`
}

type LoginRequest = Credentials

type RegisterRequest = Credentials

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}
