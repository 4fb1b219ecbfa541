// Package config loads runtime configuration for the dashboard client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: an optional .env file (joho/godotenv) and SCHOOL_*
//     variables (see parseEnv).
//  3. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the school API
//	-g string   gRPC endpoint; selects the gRPC transport
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "server_url": "https://api.school.example",
//	  "request_timeout": "8s",
//	  "unreachable_threshold": 3,
//	  "token_field": "data",
//	  "log_backend": "logrus",
//	  "redis_addr": "127.0.0.1:6379"
//	}
package config
