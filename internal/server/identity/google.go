// Package identity adapts external identity providers to the session core.
// The only provider is Google, used through OpenID Connect with PKCE.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"golang.org/x/oauth2"
)

// GoogleIssuer is Google's OpenID Connect discovery issuer.
const GoogleIssuer = "https://accounts.google.com"

var (
	ErrMissingConfig   = errors.New("google oauth config missing required fields")
	ErrNoIDToken       = errors.New("token response carries no id_token")
	ErrMissingEmail    = errors.New("id_token carries no email")
	ErrUnverifiedEmail = errors.New("email is not verified by the provider")
)

// GoogleProvider runs the authorization-code flow and turns the verified
// ID token into an ExternalIdentity.
type GoogleProvider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// NewGoogleProvider discovers Google's endpoints and keys.
func NewGoogleProvider(ctx context.Context, clientID, clientSecret, redirectURL string) (*GoogleProvider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, ErrMissingConfig
	}

	provider, err := oidc.NewProvider(ctx, GoogleIssuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return newGoogleProvider(cfg, provider.Verifier(&oidc.Config{ClientID: clientID})), nil
}

func newGoogleProvider(cfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *GoogleProvider {
	return &GoogleProvider{oauthConfig: cfg, verifier: verifier}
}

// AuthCodeURL returns the consent page URL for state, bound to the PKCE
// verifier through its S256 challenge.
func (p *GoogleProvider) AuthCodeURL(state, verifier string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

// Exchange redeems code and returns the identity asserted by the ID token.
func (p *GoogleProvider) Exchange(ctx context.Context, code, verifier string) (models.ExternalIdentity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return models.ExternalIdentity{}, ErrNoIDToken
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims googleClaims
	if err := idToken.Claims(&claims); err != nil {
		return models.ExternalIdentity{}, fmt.Errorf("google id_token claims parse failed: %w", err)
	}

	return claims.identity()
}

type googleClaims struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// identity maps the claims. Email is the key every internal record hangs
// off, so an absent or unverified one is refused.
func (c googleClaims) identity() (models.ExternalIdentity, error) {
	if c.Email == "" {
		return models.ExternalIdentity{}, ErrMissingEmail
	}
	if !c.EmailVerified {
		return models.ExternalIdentity{}, ErrUnverifiedEmail
	}
	return models.ExternalIdentity{Name: c.Name, Email: c.Email, AvatarURL: c.Picture}, nil
}
