// Package provisioning guarantees an internal user profile exists for every
// externally authenticated identity before a sign-in is accepted.
//
// Per sign-in the flow is Lookup, then Create only if Lookup said NotFound.
// Any gateway failure denies the sign-in; nothing is retried here.
package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/showcase/internal/common"
	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/gateway"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"golang.org/x/sync/singleflight"
)

// Outcome is the terminal state of one provisioning attempt.
type Outcome int

const (
	Denied Outcome = iota
	Found
	Created
)

func (o Outcome) String() string {
	switch o {
	case Found:
		return "found"
	case Created:
		return "created"
	default:
		return "denied"
	}
}

var errMissingEmail = errors.New("identity carries no email")

type Provisioner struct {
	users  gateway.Client
	logger logging.Logger

	// inflight collapses concurrent first sign-ins for one email inside this
	// process. Across processes only the store's unique email constraint
	// prevents a duplicate profile.
	inflight singleflight.Group
}

func NewProvisioner(users gateway.Client, logger logging.Logger) *Provisioner {
	return &Provisioner{
		users:  users,
		logger: logger.With("module", "provisioning"),
	}
}

// EnsureProvisioned reports whether the sign-in may proceed. It fails
// closed: the cause of a denial is logged, never returned.
func (p *Provisioner) EnsureProvisioned(ctx context.Context, identity models.ExternalIdentity) bool {
	outcome, err := p.Provision(ctx, identity)
	if err != nil {
		p.logger.Error(ctx, "sign-in denied", "email", identity.Email, "error", err)
		return false
	}

	p.logger.Info(ctx, "sign-in accepted", "email", identity.Email, "outcome", outcome.String())
	return true
}

// Provision runs the lookup-then-create flow and returns its terminal state.
// A non-nil error always comes with Denied. A caller that joins a flight
// already in progress still gives up at its own deadline; that counts as a
// gateway error.
func (p *Provisioner) Provision(ctx context.Context, identity models.ExternalIdentity) (Outcome, error) {
	if identity.Email == "" {
		return Denied, errMissingEmail
	}

	ch := p.inflight.DoChan(identity.Email, func() (any, error) {
		return p.provision(ctx, identity)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Denied, res.Err
		}
		return res.Val.(Outcome), nil
	case <-ctx.Done():
		return Denied, fmt.Errorf("%w: %w", common.ErrGateway, ctx.Err())
	}
}

func (p *Provisioner) provision(ctx context.Context, identity models.ExternalIdentity) (Outcome, error) {
	_, err := p.users.LookupUser(ctx, identity.Email)
	if err == nil {
		return Found, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return Denied, fmt.Errorf("lookup user: %w", err)
	}

	_, err = p.users.CreateUser(ctx, identity.Name, identity.Email, identity.AvatarURL)
	if err != nil {
		// Somebody else created it between our lookup and create.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return Found, nil
		}
		return Denied, fmt.Errorf("create user: %w", err)
	}

	return Created, nil
}
