package config

import "time"

const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"

	DefaultHealthPath = "/health"
	// GRPCHealthMethod replaces the default health path on the gRPC
	// transport, where a method name needs a service and a method segment.
	GRPCHealthMethod = "/health/check"
)

// Config holds runtime settings for the dashboard client.
//
// Units: all intervals are time.Duration values.
type Config struct {
	ServerURL string
	Transport string
	GRPCAddr  string

	RequestTimeout       time.Duration
	UnreachableThreshold int
	OnlineCheckInterval  time.Duration

	LoginPath   string
	RefreshPath string
	LogoutPath  string
	HealthPath  string
	TokenField  string

	LogBackend string
	LogFormat  string
	LogLevel   string

	RedisAddr    string
	RedisChannel string

	SentryDSN   string
	Environment string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.Transport = TransportHTTP
	c.GRPCAddr = "127.0.0.1:50051"
	c.RequestTimeout = 8 * time.Second
	c.UnreachableThreshold = 3
	c.OnlineCheckInterval = 10 * time.Second
	c.LoginPath = "/auth/login"
	c.RefreshPath = "/auth/refresh-tokens"
	c.LogoutPath = "/auth/logout"
	c.HealthPath = DefaultHealthPath
	c.TokenField = "data"
	c.LogBackend = "slog"
	c.LogFormat = "text"
	c.LogLevel = "info"
	c.RedisChannel = "school:signout"
	c.Environment = "development"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (and an optional .env file), JSON (if present) and
// command-line flags (if present). Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	cfg.applyTransport()
	return cfg
}

func (c *Config) applyTransport() {
	if c.Transport == TransportGRPC && c.HealthPath == DefaultHealthPath {
		c.HealthPath = GRPCHealthMethod
	}
}
