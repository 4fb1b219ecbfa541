package config

import (
	"encoding/json"
	"os"

	"github.com/umerwe/school-frontend-sub001/internal/flagx"
	"github.com/umerwe/school-frontend-sub001/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "8s" or as integer nanoseconds.
type JsonConfig struct {
	ServerURL            string         `json:"server_url"`
	Transport            string         `json:"transport"`
	GRPCAddr             string         `json:"grpc_addr"`
	RequestTimeout       timex.Duration `json:"request_timeout"`
	UnreachableThreshold int            `json:"unreachable_threshold"`
	OnlineCheckInterval  timex.Duration `json:"online_check_interval"`
	LoginPath            string         `json:"login_path"`
	RefreshPath          string         `json:"refresh_path"`
	LogoutPath           string         `json:"logout_path"`
	HealthPath           string         `json:"health_path"`
	TokenField           string         `json:"token_field"`
	LogBackend           string         `json:"log_backend"`
	LogFormat            string         `json:"log_format"`
	LogLevel             string         `json:"log_level"`
	RedisAddr            string         `json:"redis_addr"`
	RedisChannel         string         `json:"redis_channel"`
	SentryDSN            string         `json:"sentry_dsn"`
	Environment          string         `json:"environment"`
}

// parseJson overlays Config with values loaded from a JSON file selected via
// -c or -config. Only fields present with a non-zero value are copied.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.Transport, jc.Transport)
	setString(&cfg.GRPCAddr, jc.GRPCAddr)
	setString(&cfg.LoginPath, jc.LoginPath)
	setString(&cfg.RefreshPath, jc.RefreshPath)
	setString(&cfg.LogoutPath, jc.LogoutPath)
	setString(&cfg.HealthPath, jc.HealthPath)
	setString(&cfg.TokenField, jc.TokenField)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.RedisAddr, jc.RedisAddr)
	setString(&cfg.RedisChannel, jc.RedisChannel)
	setString(&cfg.SentryDSN, jc.SentryDSN)
	setString(&cfg.Environment, jc.Environment)

	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.OnlineCheckInterval.Duration != 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.UnreachableThreshold != 0 {
		cfg.UnreachableThreshold = jc.UnreachableThreshold
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
