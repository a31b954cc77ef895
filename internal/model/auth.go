package model

import "github.com/golang-jwt/jwt/v5"

// UserClaims are JWT claims for player authentication
type UserClaims struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Guest       bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

// RegisterRequest is the request body for account registration
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned after successful register/login/guest sign-in
type AuthResponse struct {
	Token       string `json:"token"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Guest       bool   `json:"guest,omitempty"`
}
