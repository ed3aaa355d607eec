package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MKhiriev/go-lan-sync/internal/client"
	"github.com/MKhiriev/go-lan-sync/internal/config"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

const defaultLogFileName = "lansync.log"

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		logger.NewLogger("go-lan-sync").Fatal().Err(err).Msg("error getting configs")
	}

	// the terminal belongs to the UI, so logs go to a file
	logFile := cfg.App.LogFile
	if logFile == "" && !cfg.App.Headless {
		logFile = filepath.Join(filepath.Dir(cfg.Storage.DB.DSN), defaultLogFileName)
	}
	log := logger.NewFileLogger("go-lan-sync", logFile)
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
