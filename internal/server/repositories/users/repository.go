// Package users stores user profiles keyed by a unique email.
package users

import (
	"context"

	"github.com/dmitrijs2005/showcase/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
}
