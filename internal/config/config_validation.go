// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/MKhiriev/go-lan-sync/models"
)

const (
	defaultHTTPAddress     = "0.0.0.0:9978"
	defaultPeerPort        = 9978
	defaultDSN             = "./data/lansync.db"
	defaultDeviceType      = "desktop"
	defaultRequestTimeout  = 30 * time.Second
	defaultSyncTimeout     = 10 * time.Second
	defaultProbeTimeout    = time.Second
	defaultScanConcurrency = 64
)

// defaultConfig returns the lowest-priority config layer.
func defaultConfig() *StructuredConfig {
	name, err := os.Hostname()
	if err != nil || name == "" {
		name = "go-lan-sync"
	}
	autoSync := false

	return &StructuredConfig{
		App: App{
			DeviceName: name,
			DeviceType: defaultDeviceType,
		},
		Storage: Storage{DB: DB{DSN: defaultDSN}},
		Server: Server{
			HTTPAddress:    defaultHTTPAddress,
			RequestTimeout: defaultRequestTimeout,
		},
		Adapter: Adapter{
			RequestTimeout: defaultSyncTimeout,
			ProbeTimeout:   defaultProbeTimeout,
		},
		Scanner: Scanner{
			Concurrency: defaultScanConcurrency,
			Port:        defaultPeerPort,
		},
		Sync: Sync{
			Mode:            models.Bidirectional.String(),
			AutoSync:        &autoSync,
			IntervalMinutes: models.DefaultSyncIntervalMinutes,
		},
	}
}

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.RequestTimeout <= 0 {
		return ErrInvalidServerConfigs
	}
	if _, _, err := net.SplitHostPort(cfg.Server.HTTPAddress); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidServerConfigs, err)
	}

	if cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.ProbeTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Scanner.Concurrency < 1 || cfg.Scanner.Port < 1 || cfg.Scanner.Port > 65535 {
		return ErrInvalidScannerConfigs
	}
	for _, subnet := range cfg.Scanner.Subnets {
		if _, _, err := net.ParseCIDR(subnet); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidScannerConfigs, err)
		}
	}

	if _, err := models.ParseSyncModeName(cfg.Sync.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSyncConfigs, err)
	}
	if !models.ValidInterval(cfg.Sync.IntervalMinutes) {
		return fmt.Errorf("%w: interval %d", ErrInvalidSyncConfigs, cfg.Sync.IntervalMinutes)
	}

	return nil
}

// SeedSettings converts the Sync section into the settings written on first
// start.
func (cfg *StructuredConfig) SeedSettings() models.Settings {
	mode, err := models.ParseSyncModeName(cfg.Sync.Mode)
	if err != nil {
		mode = models.Bidirectional
	}

	settings := models.Settings{
		Mode:            mode,
		IntervalMinutes: cfg.Sync.IntervalMinutes,
	}
	if cfg.Sync.AutoSync != nil {
		settings.AutoSync = *cfg.Sync.AutoSync
	}
	if !models.ValidInterval(settings.IntervalMinutes) {
		settings.IntervalMinutes = models.DefaultSyncIntervalMinutes
	}

	return settings
}
