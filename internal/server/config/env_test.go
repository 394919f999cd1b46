package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestParseEnv(t *testing.T) {
	var c Config
	c.LoadDefaults()

	parseEnv(&c, mapLookup(map[string]string{
		"APP_NAME":                    "People API",
		"LOG_LEVEL":                   "debug",
		"HTTP_ADDR":                   ":9000",
		"DATABASE_URL":                "postgres://u:p@db:5432/hr",
		"SECRET_KEY":                  "s3cr3t",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "15",
		"BCRYPT_COST":                 "10",
		"HASH_CONCURRENCY":            " 2 ",
		"TRUSTED_ORIGINS":             "https://a.example, https://b.example,,",
	}))

	assert.Equal(t, "People API", c.AppName)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, ":9000", c.EndpointAddrHTTP)
	assert.Equal(t, "postgres://u:p@db:5432/hr", c.DatabaseDSN)
	assert.Equal(t, "s3cr3t", c.SecretKey)
	assert.Equal(t, 15*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 2, c.HashConcurrency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.TrustedOrigins)

	// untouched
	assert.Equal(t, ":50051", c.EndpointAddrGRPC)
	assert.Equal(t, "/api/v1", c.APIPrefix)
}

func TestParseEnv_EmptyValuesIgnored(t *testing.T) {
	var c Config
	c.LoadDefaults()

	parseEnv(&c, mapLookup(map[string]string{"SECRET_KEY": "", "BCRYPT_COST": ""}))

	assert.Equal(t, "dev-secret-key-change-in-production", c.SecretKey)
	assert.Equal(t, 12, c.BcryptCost)
}

func TestParseEnv_BadNumberPanics(t *testing.T) {
	var c Config
	require.Panics(t, func() {
		parseEnv(&c, mapLookup(map[string]string{"ACCESS_TOKEN_EXPIRE_MINUTES": "thirty"}))
	})
}
