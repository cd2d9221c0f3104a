package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileRepo struct {
	getOut *models.UserProfile
	getErr error

	createErr error
	created   *models.UserProfile
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *models.UserProfile) (*models.UserProfile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = p
	out := *p
	out.ID = "new-id"
	return &out, nil
}

func TestStoreClient_LookupUser(t *testing.T) {
	tests := []struct {
		name    string
		repo    *fakeProfileRepo
		wantErr error
	}{
		{name: "found", repo: &fakeProfileRepo{getOut: &models.UserProfile{ID: "u1"}}},
		{name: "not found", repo: &fakeProfileRepo{getErr: common.ErrorNotFound}, wantErr: common.ErrorNotFound},
		{name: "db down", repo: &fakeProfileRepo{getErr: errors.New("db down")}, wantErr: common.ErrGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewStoreClient(tt.repo).LookupUser(context.Background(), "a@x.com")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u1", p.ID)
		})
	}
}

func TestStoreClient_CreateUser(t *testing.T) {
	repo := &fakeProfileRepo{}
	p, err := NewStoreClient(repo).CreateUser(context.Background(), "Alice", "a@x.com", "x")
	require.NoError(t, err)

	assert.Equal(t, "new-id", p.ID)
	assert.Equal(t, &models.UserProfile{Name: "Alice", Email: "a@x.com", AvatarURL: "x"}, repo.created)
}

func TestStoreClient_CreateUser_Errors(t *testing.T) {
	_, err := NewStoreClient(&fakeProfileRepo{createErr: common.ErrorAlreadyExists}).
		CreateUser(context.Background(), "A", "a@x.com", "")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.NotErrorIs(t, err, common.ErrGateway)

	_, err = NewStoreClient(&fakeProfileRepo{createErr: errors.New("conn reset")}).
		CreateUser(context.Background(), "A", "a@x.com", "")
	assert.ErrorIs(t, err, common.ErrGateway)
}
