package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded before reading variables; missing files are ignored.
// Variables already present in the environment are not overwritten.
var envFile = ".env"

// parseEnv overlays Config with SCHOOL_* environment variables (and
// SENTRY_DSN). Unset variables leave the current value in place; malformed
// numbers or durations panic, like the other loaders.
func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				panic(err)
			}
			*dst = d
		}
	}

	str("SCHOOL_SERVER_URL", &cfg.ServerURL)
	str("SCHOOL_TRANSPORT", &cfg.Transport)
	str("SCHOOL_GRPC_ADDR", &cfg.GRPCAddr)
	dur("SCHOOL_REQUEST_TIMEOUT", &cfg.RequestTimeout)
	dur("SCHOOL_ONLINE_CHECK_INTERVAL", &cfg.OnlineCheckInterval)
	str("SCHOOL_TOKEN_FIELD", &cfg.TokenField)
	str("SCHOOL_LOG_BACKEND", &cfg.LogBackend)
	str("SCHOOL_LOG_FORMAT", &cfg.LogFormat)
	str("SCHOOL_LOG_LEVEL", &cfg.LogLevel)
	str("SCHOOL_REDIS_ADDR", &cfg.RedisAddr)
	str("SCHOOL_REDIS_CHANNEL", &cfg.RedisChannel)
	str("SENTRY_DSN", &cfg.SentryDSN)
	str("SCHOOL_ENV", &cfg.Environment)

	if v, ok := os.LookupEnv("SCHOOL_UNREACHABLE_THRESHOLD"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		cfg.UnreachableThreshold = n
	}
}
