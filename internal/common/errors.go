// Package common defines shared constants and sentinel errors used across
// the session core and its transports. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository / gateway lookup errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// ErrGateway marks any failure talking to the user-data service:
	// transport, service-side errors and timeouts alike.
	ErrGateway = errors.New("gateway error")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrSignInDenied   = errors.New("could not sign in")

	// Token errors. All of them are terminal for the token.
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)
