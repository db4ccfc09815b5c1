package auth

import "context"

type AuthService interface {
	// Login authenticates by employee code and password and issues an
	// access token carrying the employee ID.
	Login(ctx context.Context, req LoginRequest) (TokenResponse, error)
}
