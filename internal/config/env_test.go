// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_DEVICE_NAME": "living-room",
		"APP_DEVICE_TYPE": "tv",
		"APP_HEADLESS":    "true",
		"APP_LOG_FILE":    "/var/log/lansync.log",

		"SERVER_ADDRESS":           "0.0.0.0:9978",
		"SERVER_ADVERTISE_ADDRESS": "http://192.168.1.20:9978",
		"SERVER_REQUEST_TIMEOUT":   "30s",

		"ADAPTER_REQUEST_TIMEOUT": "10s",
		"ADAPTER_PROBE_TIMEOUT":   "1s",

		"SCANNER_CONCURRENCY": "32",
		"SCANNER_PORT":        "9978",
		"SCANNER_SUBNETS":     "192.168.1.0/24,10.0.0.0/24",

		"SYNC_MODE":             "upload",
		"SYNC_AUTO":             "true",
		"SYNC_INTERVAL_MINUTES": "60",

		// Storage has nested prefixes: STORAGE_ + DB_
		"STORAGE_DB_DSN": "/var/lib/lansync/lansync.db",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "living-room", cfg.App.DeviceName)
	assert.Equal(t, "tv", cfg.App.DeviceType)
	assert.True(t, cfg.App.Headless)
	assert.Equal(t, "/var/log/lansync.log", cfg.App.LogFile)

	assert.Equal(t, "0.0.0.0:9978", cfg.Server.HTTPAddress)
	assert.Equal(t, "http://192.168.1.20:9978", cfg.Server.AdvertiseAddress)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)

	assert.Equal(t, 10*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, time.Second, cfg.Adapter.ProbeTimeout)

	assert.Equal(t, 32, cfg.Scanner.Concurrency)
	assert.Equal(t, 9978, cfg.Scanner.Port)
	assert.Equal(t, []string{"192.168.1.0/24", "10.0.0.0/24"}, cfg.Scanner.Subnets)

	assert.Equal(t, "upload", cfg.Sync.Mode)
	require.NotNil(t, cfg.Sync.AutoSync)
	assert.True(t, *cfg.Sync.AutoSync)
	assert.Equal(t, 60, cfg.Sync.IntervalMinutes)

	assert.Equal(t, "/var/lib/lansync/lansync.db", cfg.Storage.DB.DSN)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"APP_DEVICE_NAME": "kitchen",
		"SERVER_ADDRESS":  "localhost:9978",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "kitchen", cfg.App.DeviceName)
	assert.Empty(t, cfg.App.DeviceType)

	assert.Equal(t, "localhost:9978", cfg.Server.HTTPAddress)
	assert.Zero(t, cfg.Server.RequestTimeout)

	// Others untouched
	assert.Empty(t, cfg.Storage.DB.DSN)
	assert.Nil(t, cfg.Sync.AutoSync)
	assert.Empty(t, cfg.JSONFilePath)
}

func TestParseEnv_EmptyEnv(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "", cfg.JSONFilePath)

	assert.Equal(t, App{}, cfg.App)
	assert.Equal(t, Server{}, cfg.Server)
	assert.Equal(t, Storage{}, cfg.Storage)
	assert.Equal(t, Adapter{}, cfg.Adapter)
	assert.Nil(t, cfg.Sync.AutoSync)
}

func TestParseEnv_AutoSyncFalseIsSet(t *testing.T) {
	setEnvVars(t, map[string]string{"SYNC_AUTO": "false"})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	require.NotNil(t, cfg.Sync.AutoSync)
	assert.False(t, *cfg.Sync.AutoSync)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"ADAPTER_REQUEST_TIMEOUT": "invalid_duration",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "env")
}

func TestParseEnv_InvalidInt(t *testing.T) {
	setEnvVars(t, map[string]string{"SCANNER_CONCURRENCY": "many"})

	cfg := &StructuredConfig{}
	assert.ErrorIs(t, parseEnv(cfg), ErrInvalidEnv)
}

func TestParseEnv_DurationFormats(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		expected time.Duration
	}{
		{"minutes", "2m", 2 * time.Minute},
		{"seconds", "30s", 30 * time.Second},
		{"milliseconds", "250ms", 250 * time.Millisecond},
		{"combined", "1m30s", 90 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			envVars := map[string]string{
				"SERVER_REQUEST_TIMEOUT": tt.envValue,
			}
			setEnvVars(t, envVars)

			// Act
			cfg := &StructuredConfig{}
			err := parseEnv(cfg)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.Server.RequestTimeout)
		})
	}
}

// Helpers

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"CONFIG",

		"APP_DEVICE_NAME",
		"APP_DEVICE_TYPE",
		"APP_HEADLESS",
		"APP_LOG_FILE",

		"SERVER_ADDRESS",
		"SERVER_ADVERTISE_ADDRESS",
		"SERVER_REQUEST_TIMEOUT",

		"ADAPTER_REQUEST_TIMEOUT",
		"ADAPTER_PROBE_TIMEOUT",

		"SCANNER_CONCURRENCY",
		"SCANNER_PORT",
		"SCANNER_SUBNETS",

		"SYNC_MODE",
		"SYNC_AUTO",
		"SYNC_INTERVAL_MINUTES",

		"STORAGE_DB_DSN",
	}
	for _, k := range keys {
		_ = os.Unsetenv(k)
	}
}
