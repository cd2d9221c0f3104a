package config

// envVars maps environment variable names to the fields they set.
func envVars(c *Config) map[string]*string {
	return map[string]*string{
		"ISSUER_ID":            &c.IssuerID,
		"SIGNING_SECRET":       &c.SigningSecret,
		"GATEWAY_ENDPOINT":     &c.GatewayEndpoint,
		"GATEWAY_CREDENTIAL":   &c.GatewayCredential,
		"DATABASE_DSN":         &c.DatabaseDSN,
		"REDIS_ADDR":           &c.RedisAddr,
		"GOOGLE_CLIENT_ID":     &c.GoogleClientID,
		"GOOGLE_CLIENT_SECRET": &c.GoogleClientSecret,
		"GOOGLE_REDIRECT_URL":  &c.GoogleRedirectURL,
	}
}

// parseEnv overlays non-empty environment variables onto config.
func parseEnv(config *Config, getenv func(string) string) {
	if getenv == nil {
		return
	}
	for name, field := range envVars(config) {
		if v := getenv(name); v != "" {
			*field = v
		}
	}
}
