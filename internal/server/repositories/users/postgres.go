package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/dbx"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new profile with a fresh id. A second profile for the
// same email is rejected by the users_email_key index and reported as
// common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, profile *models.UserProfile) (*models.UserProfile, error) {
	query :=
		`INSERT INTO users (id, name, email, avatar_url)
         VALUES ($1, $2, $3, $4)
		 RETURNING id, name, email, description, avatar_url, github_url, linkedin_url
		 `

	row := r.db.QueryRowContext(ctx, query,
		uuid.NewString(), profile.Name, profile.Email, profile.AvatarURL)

	created, err := scanProfile(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.UserProfile, error) {
	query :=
		`SELECT id, name, email, description, avatar_url, github_url, linkedin_url FROM users
		 WHERE email = $1
		 `

	profile, err := scanProfile(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return profile, nil
}

func scanProfile(row *sql.Row) (*models.UserProfile, error) {
	var p models.UserProfile
	var description, github, linkedIn sql.NullString

	if err := row.Scan(&p.ID, &p.Name, &p.Email, &description, &p.AvatarURL, &github, &linkedIn); err != nil {
		return nil, err
	}

	p.Description = nullable(description)
	p.GithubURL = nullable(github)
	p.LinkedInURL = nullable(linkedIn)

	return &p, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
