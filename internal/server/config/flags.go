package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/showcase/internal/flagx"
)

var serverFlags = []string{
	"-issuer-id", "-signing-secret", "-token-ttl-seconds",
	"-gateway-mode", "-gateway-endpoint", "-gateway-credential",
	"-d", "-a", "-h", "-redis-addr",
	"-google-client-id", "-google-client-secret", "-google-redirect-url",
}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-issuer-id string            iss claim
//	-signing-secret string       HS256 secret
//	-token-ttl-seconds int       session token lifetime, seconds
//	-gateway-mode string         graphql | postgres
//	-gateway-endpoint string     GraphQL endpoint URL
//	-gateway-credential string   GraphQL x-api-key
//	-d string                    PostgreSQL DSN
//	-a string                    gRPC bind address (e.g., ":50051")
//	-h string                    HTTP bind address (e.g., ":3000")
//	-redis-addr string           redis address for the profile cache
//	-google-client-id string
//	-google-client-secret string
//	-google-redirect-url string
//
// args are filtered with flagx.FilterArgs first so that -c/-config and flags
// meant for other components do not collide.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, serverFlags)

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.IssuerID, "issuer-id", config.IssuerID, "token issuer")
	fs.StringVar(&config.SigningSecret, "signing-secret", config.SigningSecret, "token signing secret")
	ttl := fs.Int("token-ttl-seconds", int(config.TokenTTL.Seconds()), "token validity (in seconds)")
	fs.StringVar(&config.GatewayMode, "gateway-mode", config.GatewayMode, "user gateway: graphql or postgres")
	fs.StringVar(&config.GatewayEndpoint, "gateway-endpoint", config.GatewayEndpoint, "graphql endpoint")
	fs.StringVar(&config.GatewayCredential, "gateway-credential", config.GatewayCredential, "graphql api key")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run grpc server")
	fs.StringVar(&config.EndpointAddrHTTP, "h", config.EndpointAddrHTTP, "address and port to run http server")
	fs.StringVar(&config.RedisAddr, "redis-addr", config.RedisAddr, "redis address")
	fs.StringVar(&config.GoogleClientID, "google-client-id", config.GoogleClientID, "google oauth client id")
	fs.StringVar(&config.GoogleClientSecret, "google-client-secret", config.GoogleClientSecret, "google oauth client secret")
	fs.StringVar(&config.GoogleRedirectURL, "google-redirect-url", config.GoogleRedirectURL, "google oauth redirect url")

	if err := fs.Parse(args); err != nil {
		return err
	}

	config.TokenTTL = time.Duration(*ttl) * time.Second
	return nil
}
