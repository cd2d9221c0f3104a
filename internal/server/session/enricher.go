// Package session attaches internally owned profile data to the session
// asserted by the identity provider.
package session

import (
	"context"
	"errors"
	"maps"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/gateway"
	"github.com/dmitrijs2005/showcase/internal/server/models"
)

var errNoEmail = errors.New("session carries no email")

// Enricher fails open: a session without profile fields is still usable, so
// enrichment trouble is logged and the base session is returned as is.
// Every call queries the gateway; caching, if any, lives in the gateway.
type Enricher struct {
	users  gateway.UserLookup
	logger logging.Logger
}

func NewEnricher(users gateway.UserLookup, logger logging.Logger) *Enricher {
	return &Enricher{users: users, logger: logger.With("module", "session_enricher")}
}

// Enrich returns base with the profile of base's email merged into User;
// profile fields win on collision. base itself is never modified.
func (e *Enricher) Enrich(ctx context.Context, base models.Session) models.Session {
	email := base.Email()
	if email == "" {
		e.logger.Warn(ctx, "session not enriched", "error", errNoEmail)
		return base
	}

	profile, err := e.users.LookupUser(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			e.logger.Warn(ctx, "session not enriched: no profile", "email", email)
		} else {
			e.logger.Warn(ctx, "session not enriched", "email", email, "error", err)
		}
		return base
	}

	enriched := base.Clone()
	if enriched.User == nil {
		enriched.User = make(map[string]any)
	}
	maps.Copy(enriched.User, profile.Fields())

	return enriched
}
