// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-lan-sync application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line flags,
// an optional JSON file and finally the built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds device identity and process-level settings.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for the local sqlite database.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds listen address and timeout settings for the peer
	// endpoint other devices call into.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds timeouts for outbound calls to peers.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Scanner holds network scan settings.
	Scanner Scanner `envPrefix:"SCANNER_"`

	// Sync holds the seed values of the persisted sync settings.
	Sync Sync `envPrefix:"SYNC_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// DeviceName is the human-readable name announced to peers.
	// Defaults to the host name.
	// Env: APP_DEVICE_NAME
	DeviceName string `env:"DEVICE_NAME"`

	// DeviceType is a free-form device class announced to peers
	// (e.g. "desktop", "tv").
	// Env: APP_DEVICE_TYPE
	DeviceType string `env:"DEVICE_TYPE"`

	// Headless disables the terminal UI. Foreground resume is then
	// signalled with SIGUSR1.
	// Env: APP_HEADLESS
	Headless bool `env:"HEADLESS"`

	// LogFile is the file the logger writes to while the terminal UI owns
	// stdout. Empty means stdout.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`
}

// Storage groups the configuration for the storage backend.
type Storage struct {
	// DB holds the local database connection settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local sqlite database.
type DB struct {
	// DSN is the sqlite database file path (e.g. "./data/lansync.db").
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the peer endpoint.
type Server struct {
	// HTTPAddress is the TCP address on which the peer endpoint listens,
	// in "host:port" format (e.g. "0.0.0.0:9978").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// AdvertiseAddress is the base address peers should use to reach this
	// device (e.g. "http://192.168.1.20:9978"). When empty it is derived
	// from the first non-loopback IPv4 address and the listen port.
	// Env: SERVER_ADVERTISE_ADDRESS
	AdvertiseAddress string `env:"ADVERTISE_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Adapter holds outbound peer call settings.
type Adapter struct {
	// RequestTimeout bounds a single sync exchange with a peer.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// ProbeTimeout bounds a single discovery probe.
	// Env: ADAPTER_PROBE_TIMEOUT
	ProbeTimeout time.Duration `env:"PROBE_TIMEOUT"`
}

// Scanner holds network scan settings.
type Scanner struct {
	// Concurrency is the maximum number of probes in flight.
	// Env: SCANNER_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`

	// Port is the peer endpoint port probed on every candidate host.
	// Env: SCANNER_PORT
	Port int `env:"PORT"`

	// Subnets overrides interface discovery with explicit IPv4 CIDRs.
	// Env: SCANNER_SUBNETS (comma separated)
	Subnets []string `env:"SUBNETS"`
}

// Sync holds the values written to the settings store on first start.
// Later starts keep whatever the user chose.
type Sync struct {
	// Mode is one of "bidirectional", "upload", "download".
	// Env: SYNC_MODE
	Mode string `env:"MODE"`

	// AutoSync enables automatic sync triggers. Nil means unset.
	// Env: SYNC_AUTO
	AutoSync *bool `env:"AUTO"`

	// IntervalMinutes is the periodic sync interval, one of 10, 30, 60, 120.
	// Env: SYNC_INTERVAL_MINUTES
	IntervalMinutes int `env:"INTERVAL_MINUTES"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. For every field the first source that sets a non-zero
// value wins, in this order:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}
