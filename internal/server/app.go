// Package server assembles the session core from configuration and runs its
// gRPC and HTTP endpoints until the process is told to stop.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/showcase/internal/logging"
	"github.com/dmitrijs2005/showcase/internal/server/auth"
	"github.com/dmitrijs2005/showcase/internal/server/config"
	"github.com/dmitrijs2005/showcase/internal/server/gateway"
	"github.com/dmitrijs2005/showcase/internal/server/httpapi"
	"github.com/dmitrijs2005/showcase/internal/server/identity"
	"github.com/dmitrijs2005/showcase/internal/server/provisioning"
	"github.com/dmitrijs2005/showcase/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/showcase/internal/server/services"
	"github.com/dmitrijs2005/showcase/internal/server/session"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/showcase/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService *services.AuthService
	provider    httpapi.IdentityProvider
	closers     []func() error
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, slog.LevelInfo))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	users, err := app.buildGateway(ctx)
	if err != nil {
		app.close()
		return nil, err
	}

	app.authService = services.NewAuthService(
		auth.NewCodec(c.IssuerID, c.TokenTTL, nil),
		[]byte(c.SigningSecret),
		provisioning.NewProvisioner(users, logger),
		session.NewEnricher(users, logger),
		c.RequestTimeout,
		logger,
	)

	if c.GoogleEnabled() {
		p, err := identity.NewGoogleProvider(ctx, c.GoogleClientID, c.GoogleClientSecret, c.GoogleRedirectURL)
		if err != nil {
			app.close()
			return nil, err
		}
		app.provider = p
	} else {
		logger.Warn(ctx, "google sign-in disabled: no oauth client configured")
	}

	return app, nil
}

// buildGateway picks the user-data backend for the configured mode and puts
// the profile cache in front of it when redis is configured.
func (app *App) buildGateway(ctx context.Context) (gateway.Client, error) {
	c := app.config

	var users gateway.Client

	switch c.GatewayMode {
	case config.GatewayModePostgres:
		db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, db.Close)

		rm := repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		users = gateway.NewStoreClient(rm.Users(db))

	case config.GatewayModeGraphQL:
		users = gateway.NewGraphQLClient(c.GatewayEndpoint, c.GatewayCredential, &http.Client{})

	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownGatewayMode, c.GatewayMode)
	}

	if c.RedisAddr == "" {
		return users, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: c.RedisAddr})
	app.closers = append(app.closers, rdb.Close)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}

	return gateway.NewCachedClient(users, rdb, c.ProfileCacheTTL, app.logger), nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](); err != nil {
			app.logger.Warn(context.Background(), "error closing resource", "error", err)
		}
	}
	app.closers = nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.provider, httpapi.Options{
		SessionTTL:    app.config.TokenTTL,
		SecureCookies: strings.HasPrefix(app.config.GoogleRedirectURL, "https://"),
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is done, or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.close()

	app.logger.Info(ctx, "Starting app...", "gateway_mode", app.config.GatewayMode)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
