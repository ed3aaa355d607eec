// Command server runs a headless peer: the sync endpoint and the scheduler
// without a terminal UI. Send SIGUSR1 to signal a return to the foreground.
package main

import (
	"context"
	"fmt"

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

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	printBuildInfo(buildInfo)

	log := logger.NewLogger("go-lan-sync-peer")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	cfg.App.Headless = true

	if cfg.App.LogFile != "" {
		log = logger.NewFileLogger("go-lan-sync-peer", cfg.App.LogFile)
	}
	log.Debug().Any("config", cfg).Msg("received configs")

	ctx := context.Background()

	app, err := client.NewApp(ctx, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating peer")
	}

	if err = app.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("peer run error")
	}
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.BuildVersion())
	fmt.Printf("Build date: %s\n", info.BuildDate())
	fmt.Printf("Build commit: %s\n", info.BuildCommit())
}
