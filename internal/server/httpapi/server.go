// Package httpapi serves the browser-facing auth routes with gin: the Google
// sign-in redirect and callback, the session endpoint and sign-out.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/models"
	"github.com/gin-gonic/gin"
)

type authService interface {
	SignIn(ctx context.Context, identity models.ExternalIdentity) (string, error)
	Session(ctx context.Context, token string) (*models.Session, error)
}

// IdentityProvider runs the provider half of the sign-in flow.
type IdentityProvider interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (models.ExternalIdentity, error)
}

// Options tune the cookie and redirect behavior of the handlers.
type Options struct {
	// SessionTTL is the session cookie lifetime; it should match the token TTL.
	SessionTTL time.Duration
	// SecureCookies marks every cookie Secure.
	SecureCookies bool
	// AfterSignIn is where the browser lands after a successful callback.
	AfterSignIn string
}

type HTTPServer struct {
	address  string
	auth     authService
	provider IdentityProvider
	opts     Options
	logger   logging.Logger
}

// NewHTTPServer builds the server. A nil provider leaves the sign-in routes
// unregistered; the session endpoints still work for tokens minted elsewhere.
func NewHTTPServer(a string, l logging.Logger, as authService, provider IdentityProvider, opts Options) *HTTPServer {
	if opts.AfterSignIn == "" {
		opts.AfterSignIn = "/"
	}
	return &HTTPServer{
		address:  a,
		auth:     as,
		provider: provider,
		opts:     opts,
		logger:   l.With("module", "http_server"),
	}
}

// Router returns the gin engine with every route registered.
func (s *HTTPServer) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestID())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/auth")
	if s.provider != nil {
		api.GET("/signin/google", s.signIn)
		api.GET("/callback/google", s.callback)
	}
	api.GET("/session", s.session)
	api.POST("/signout", s.signOut)

	return router
}

// Run serves until ctx is done, then shuts down with a short grace period.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		case <-done:
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
