package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/dmitrijs2005/hrportal/internal/server"
	"github.com/dmitrijs2005/hrportal/internal/server/config"
	"github.com/dmitrijs2005/hrportal/internal/useradm"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	m, err := server.NewRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.RunMigrations(ctx); err != nil {
		return err
	}

	svc, err := server.NewUserService(cfg, logger, m)
	if err != nil {
		return err
	}

	return useradm.NewApp(svc, os.Stdin, os.Stdout).Run(ctx, os.Args[1:])
}
