package dto

import "time"

// RegisterRequest is the JSON body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Handle   string `json:"handle" binding:"required,min=3,max=32"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the JSON body for POST /auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest is the JSON body for PUT /auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// UserResponse is returned when account info is needed (e.g. after login).
type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Handle    string    `json:"handle"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPairResponse carries a freshly issued access/refresh token pair.
type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User UserResponse `json:"user"`
	TokenPairResponse
}
