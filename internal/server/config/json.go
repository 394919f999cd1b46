package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/hrportal/internal/flagx"
	"github.com/dmitrijs2005/hrportal/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Durations use timex.Duration so both "30m" and integer nanoseconds work.
// Zero values mean "not set" and leave the current Config value alone.
type JsonConfig struct {
	AppName                     string         `json:"app_name"`
	AppVersion                  string         `json:"app_version"`
	LogLevel                    string         `json:"log_level"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	APIPrefix                   string         `json:"api_prefix"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	HashConcurrency             int            `json:"hash_concurrency"`
	TrustedOrigins              []string       `json:"trusted_origins"`
	ReadTimeout                 timex.Duration `json:"read_timeout"`
	WriteTimeout                timex.Duration `json:"write_timeout"`
	ShutdownTimeout             timex.Duration `json:"shutdown_timeout"`
	HealthCheckInterval         timex.Duration `json:"health_check_interval"`
}

// parseJson loads the file named by -c/-config in args, if any, and overlays
// its non-zero values onto config. An unreadable file or invalid JSON panics.
func parseJson(config *Config, args []string) {
	jsonConfigFile := flagx.ConfigFileFlag(args)
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.AppName, c.AppName)
	setString(&config.AppVersion, c.AppVersion)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.APIPrefix, c.APIPrefix)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)

	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.HashConcurrency != 0 {
		config.HashConcurrency = c.HashConcurrency
	}
	if len(c.TrustedOrigins) > 0 {
		config.TrustedOrigins = c.TrustedOrigins
	}
	if c.ReadTimeout.Duration != 0 {
		config.ReadTimeout = c.ReadTimeout.Duration
	}
	if c.WriteTimeout.Duration != 0 {
		config.WriteTimeout = c.WriteTimeout.Duration
	}
	if c.ShutdownTimeout.Duration != 0 {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	if c.HealthCheckInterval.Duration != 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
