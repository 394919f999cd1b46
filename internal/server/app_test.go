package server

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/dmitrijs2005/hrportal/internal/server/config"
	"github.com/dmitrijs2005/hrportal/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseDSN = ""
	c.BcryptCost = bcrypt.MinCost
	c.HashConcurrency = 1
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.EndpointAddrGRPC = "127.0.0.1:0"
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewRepositoryManager(t *testing.T) {
	m, err := NewRepositoryManager("")
	require.NoError(t, err)
	_, ok := m.(*repomanager.InMemoryRepositoryManager)
	assert.True(t, ok)

	m, err = NewRepositoryManager("postgres://u:p@localhost:5432/db?sslmode=disable")
	require.NoError(t, err)
	_, ok = m.(*repomanager.PostgresRepositoryManager)
	assert.True(t, ok)
	assert.NoError(t, m.Close())
}

func TestNewApp_InvalidConfig(t *testing.T) {
	c := testConfig()
	c.SecretKey = ""

	_, err := NewApp(c, logging.Nop{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	app, err := NewApp(testConfig(), logging.Nop{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}

type flakyManager struct {
	repomanager.InMemoryRepositoryManager
	failures int
	pings    int
}

func (m *flakyManager) Ping(context.Context) error {
	m.pings++
	if m.pings <= m.failures {
		return errors.New("connection refused")
	}
	return nil
}

func TestWaitForStorage(t *testing.T) {
	ctx := context.Background()

	m := &flakyManager{failures: 2}
	require.NoError(t, waitForStorage(ctx, m, 3, time.Millisecond))
	assert.Equal(t, 3, m.pings)

	m = &flakyManager{failures: 10}
	err := waitForStorage(ctx, m, 2, time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, 3, m.pings)
}
