package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/server/models"
)

// ProfileRepository is the storage the StoreClient reads and writes.
type ProfileRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error)
}

// StoreClient serves the gateway contract straight from a profile
// repository. The repository's unique email constraint is what finally
// guarantees one profile per email; a losing concurrent create surfaces as
// common.ErrorAlreadyExists rather than a gateway error.
type StoreClient struct {
	repo ProfileRepository
}

var _ Client = (*StoreClient)(nil)

func NewStoreClient(repo ProfileRepository) *StoreClient {
	return &StoreClient{repo: repo}
}

func (c *StoreClient) LookupUser(ctx context.Context, email string) (*models.UserProfile, error) {
	p, err := c.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: lookup user: %w", common.ErrGateway, err)
	}
	return p, nil
}

func (c *StoreClient) CreateUser(ctx context.Context, name, email, avatarURL string) (*models.UserProfile, error) {
	p, err := c.repo.Create(ctx, &models.UserProfile{Name: name, Email: email, AvatarURL: avatarURL})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return nil, fmt.Errorf("%w: create user: %w", common.ErrGateway, err)
	}
	return p, nil
}
