package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/showcase/internal/flagx"
	"github.com/dmitrijs2005/showcase/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept both
// strings such as "30s" and integer nanoseconds. Only fields present in the
// file override the defaults.
type JsonConfig struct {
	IssuerID           string         `json:"issuer_id"`
	SigningSecret      string         `json:"signing_secret"`
	TokenTTL           timex.Duration `json:"token_ttl"`
	GatewayMode        string         `json:"gateway_mode"`
	GatewayEndpoint    string         `json:"gateway_endpoint"`
	GatewayCredential  string         `json:"gateway_credential"`
	DatabaseDSN        string         `json:"database_dsn"`
	EndpointAddrGRPC   string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP   string         `json:"endpoint_addr_http"`
	RedisAddr          string         `json:"redis_addr"`
	ProfileCacheTTL    timex.Duration `json:"profile_cache_ttl"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
	GoogleClientID     string         `json:"google_client_id"`
	GoogleClientSecret string         `json:"google_client_secret"`
	GoogleRedirectURL  string         `json:"google_redirect_url"`
}

// parseJson loads the file named by -c or -config, if any, into config.
func parseJson(config *Config, args []string) error {
	path := flagx.JsonConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	c.apply(config)
	return nil
}

func (c *JsonConfig) apply(config *Config) {
	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	setString(&config.IssuerID, c.IssuerID)
	setString(&config.SigningSecret, c.SigningSecret)
	setString(&config.GatewayMode, c.GatewayMode)
	setString(&config.GatewayEndpoint, c.GatewayEndpoint)
	setString(&config.GatewayCredential, c.GatewayCredential)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.GoogleClientID, c.GoogleClientID)
	setString(&config.GoogleClientSecret, c.GoogleClientSecret)
	setString(&config.GoogleRedirectURL, c.GoogleRedirectURL)

	if c.TokenTTL.Duration > 0 {
		config.TokenTTL = c.TokenTTL.Duration
	}
	if c.ProfileCacheTTL.Duration > 0 {
		config.ProfileCacheTTL = c.ProfileCacheTTL.Duration
	}
	if c.RequestTimeout.Duration > 0 {
		config.RequestTimeout = c.RequestTimeout.Duration
	}
}
