// Package gateway is the typed boundary to the external user-data service.
//
// Every implementation answers with exactly one of: a profile,
// common.ErrorNotFound, or an error wrapping common.ErrGateway. Callers can
// therefore tell "no such user" apart from "could not determine". Clients
// hold no per-request state and are safe for concurrent use.
package gateway

import (
	"context"

	"github.com/dmitrijs2005/showcase/internal/server/models"
)

// UserLookup finds a profile by email.
type UserLookup interface {
	LookupUser(ctx context.Context, email string) (*models.UserProfile, error)
}

// Client is the complete contract with the user-data service. CreateUser
// does not check for an existing profile; that is the caller's job.
type Client interface {
	UserLookup
	CreateUser(ctx context.Context, name, email, avatarURL string) (*models.UserProfile, error)
}
