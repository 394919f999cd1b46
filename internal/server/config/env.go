package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// lookupFunc matches os.LookupEnv.
type lookupFunc func(key string) (string, bool)

// loadDotEnv copies variables from ./.env into the process environment.
// Variables already set in the environment win. A missing file is fine.
func loadDotEnv() {
	_ = godotenv.Load()
}

// parseEnv overlays Config with environment variables.
//
// Recognized variables:
//
//	APP_NAME, APP_VERSION, LOG_LEVEL
//	HTTP_ADDR, GRPC_ADDR, API_PREFIX
//	DATABASE_URL
//	SECRET_KEY
//	ACCESS_TOKEN_EXPIRE_MINUTES   integer minutes
//	BCRYPT_COST, HASH_CONCURRENCY integers
//	TRUSTED_ORIGINS               comma separated
//
// Malformed numbers panic, matching the JSON and flag layers.
func parseEnv(config *Config, lookup lookupFunc) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string) (int, bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return 0, false
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			panic(fmt.Errorf("invalid int for %s: %q", key, v))
		}
		return n, true
	}

	str("APP_NAME", &config.AppName)
	str("APP_VERSION", &config.AppVersion)
	str("LOG_LEVEL", &config.LogLevel)
	str("HTTP_ADDR", &config.EndpointAddrHTTP)
	str("GRPC_ADDR", &config.EndpointAddrGRPC)
	str("API_PREFIX", &config.APIPrefix)
	str("DATABASE_URL", &config.DatabaseDSN)
	str("SECRET_KEY", &config.SecretKey)

	if n, ok := num("ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		config.AccessTokenValidityDuration = time.Duration(n) * time.Minute
	}
	if n, ok := num("BCRYPT_COST"); ok {
		config.BcryptCost = n
	}
	if n, ok := num("HASH_CONCURRENCY"); ok {
		config.HashConcurrency = n
	}

	if v, ok := lookup("TRUSTED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		config.TrustedOrigins = origins
	}
}
