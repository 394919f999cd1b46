package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/hrportal/internal/buildinfo"
	"github.com/dmitrijs2005/hrportal/internal/logging"
	"github.com/dmitrijs2005/hrportal/internal/server"
	"github.com/dmitrijs2005/hrportal/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	if v := buildinfo.Version(); v != "" {
		cfg.AppVersion = v
	}

	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
