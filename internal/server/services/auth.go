// Package services contains server-side business logic. AuthService ties the
// token codec, provisioning and session enrichment into the two operations
// the transports expose: sign in and read the session.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/auth"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/dmitrijs2005/showcase/internal/server/provisioning"
	"github.com/dmitrijs2005/showcase/internal/server/session"
)

// AuthService issues session tokens for provisioned identities and turns
// tokens back into enriched sessions.
type AuthService struct {
	codec          *auth.Codec
	secret         []byte
	provisioner    *provisioning.Provisioner
	enricher       *session.Enricher
	requestTimeout time.Duration
	logger         logging.Logger
}

// NewAuthService wires the service. A non-positive requestTimeout leaves
// deadlines to the caller's context.
func NewAuthService(
	codec *auth.Codec,
	secret []byte,
	provisioner *provisioning.Provisioner,
	enricher *session.Enricher,
	requestTimeout time.Duration,
	logger logging.Logger,
) *AuthService {
	return &AuthService{
		codec:          codec,
		secret:         secret,
		provisioner:    provisioner,
		enricher:       enricher,
		requestTimeout: requestTimeout,
		logger:         logger.With("module", "auth_service"),
	}
}

// SignIn provisions identity and returns a signed session token carrying its
// name, email and picture. A refused provisioning yields common.ErrSignInDenied.
func (s *AuthService) SignIn(ctx context.Context, identity models.ExternalIdentity) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if !s.provisioner.EnsureProvisioned(ctx, identity) {
		return "", common.ErrSignInDenied
	}

	token, err := s.codec.Encode(identityClaims(identity), s.secret)
	if err != nil {
		s.logger.Error(ctx, "error encoding token", "email", identity.Email, "error", err)
		return "", common.ErrorInternal
	}

	return token, nil
}

// Session verifies token and returns the enriched session. Any verification
// failure is reported as common.ErrorUnauthorized wrapping the codec error.
func (s *AuthService) Session(ctx context.Context, token string) (*models.Session, error) {
	claims, err := s.codec.Decode(token, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorUnauthorized, err)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	enriched := s.enricher.Enrich(ctx, baseSession(claims))
	return &enriched, nil
}

// IsUnauthorized reports whether err came from token verification.
func IsUnauthorized(err error) bool {
	return errors.Is(err, common.ErrorUnauthorized)
}

func (s *AuthService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

func identityClaims(identity models.ExternalIdentity) auth.Claims {
	return auth.Claims{
		"name":    identity.Name,
		"email":   identity.Email,
		"picture": identity.AvatarURL,
	}
}

// baseSession is the session as the identity provider asserted it, before
// any profile data is merged in.
func baseSession(claims auth.Claims) models.Session {
	return models.Session{
		User: map[string]any{
			"name":  claims.String("name"),
			"email": claims.String("email"),
			"image": claims.String("picture"),
		},
		Expires: claims.ExpiresAt(),
	}
}
