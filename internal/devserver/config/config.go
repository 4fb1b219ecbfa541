// Package config handles configuration for the development API server,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the development API server.
//
// Fields:
//   - HTTPAddr / GRPCAddr: bind addresses for the two fronts. An empty
//     GRPCAddr disables the gRPC front.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration / RefreshTokenValidityDuration: token lifetimes.
//     Access tokens are deliberately short-lived so clients hit the refresh path.
//   - SecureCookies: mark the refresh cookie Secure (requires TLS in front).
type Config struct {
	HTTPAddr                     string
	GRPCAddr                     string
	SecretKey                    string
	AccessTokenValidityDuration  time.Duration
	RefreshTokenValidityDuration time.Duration
	SecureCookies                bool
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = ":8080"
	c.GRPCAddr = ":50051"
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 30 * time.Second
	c.RefreshTokenValidityDuration = 10 * time.Minute
	c.SecureCookies = false
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
