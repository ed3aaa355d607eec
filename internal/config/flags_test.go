package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNetAddress_String tests the String method of NetAddress
func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{
			name:     "empty address",
			addr:     NetAddress{},
			expected: "",
		},
		{
			name:     "localhost with port",
			addr:     NetAddress{Host: "localhost", Port: 9978},
			expected: "localhost:9978",
		},
		{
			name:     "IP address with port",
			addr:     NetAddress{Host: "192.168.1.1", Port: 8080},
			expected: "192.168.1.1:8080",
		},
		{
			name:     "only port",
			addr:     NetAddress{Port: 9978},
			expected: ":9978",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

// TestNetAddress_Set tests the Set method of NetAddress
func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		expectedAddr NetAddress
		expectError  bool
		errorMsg     string
	}{
		{
			name:         "valid localhost",
			input:        "localhost:9978",
			expectedAddr: NetAddress{Host: "localhost", Port: 9978},
		},
		{
			name:         "valid IPv4",
			input:        "0.0.0.0:9978",
			expectedAddr: NetAddress{Host: "0.0.0.0", Port: 9978},
		},
		{
			name:        "missing port",
			input:       "localhost",
			expectError: true,
			errorMsg:    "need address in a form `host:port`",
		},
		{
			name:        "non-numeric port",
			input:       "localhost:abc",
			expectError: true,
			errorMsg:    "invalid syntax",
		},
		{
			name:        "zero port",
			input:       "localhost:0",
			expectError: true,
			errorMsg:    "port number must be in range 1-65535",
		},
		{
			name:        "port too large",
			input:       "localhost:70000",
			expectError: true,
			errorMsg:    "port number must be in range 1-65535",
		},
		{
			name:        "invalid IP address",
			input:       "invalid.host:8080",
			expectError: true,
			errorMsg:    "incorrect IP-address provided",
		},
		{
			name:        "empty string",
			input:       "",
			expectError: true,
			errorMsg:    "need address in a form `host:port`",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr := &NetAddress{}
			err := addr.Set(tt.input)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedAddr.Host, addr.Host)
				assert.Equal(t, tt.expectedAddr.Port, addr.Port)
			}
		})
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		validate func(t *testing.T, cfg *StructuredConfig)
	}{
		{
			name: "all flags",
			args: []string{
				"-a", "0.0.0.0:9978",
				"-advertise", "http://192.168.1.20:9978",
				"-d", "/tmp/lansync.db",
				"-c", "/path/to/config.json",
				"-name", "living-room",
				"-type", "tv",
				"-headless",
				"-log-file", "/tmp/lansync.log",
				"-request-timeout", "30s",
				"-sync-timeout", "5s",
				"-probe-timeout", "500ms",
				"-scan-concurrency", "16",
				"-scan-port", "9000",
				"-subnet", "10.0.0.0/24",
				"-subnet", "10.0.1.0/24,10.0.2.0/24",
				"-mode", "download",
				"-auto-sync", "true",
				"-interval", "60",
			},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "0.0.0.0:9978", cfg.Server.HTTPAddress)
				assert.Equal(t, "http://192.168.1.20:9978", cfg.Server.AdvertiseAddress)
				assert.Equal(t, "/tmp/lansync.db", cfg.Storage.DB.DSN)
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
				assert.Equal(t, "living-room", cfg.App.DeviceName)
				assert.Equal(t, "tv", cfg.App.DeviceType)
				assert.True(t, cfg.App.Headless)
				assert.Equal(t, "/tmp/lansync.log", cfg.App.LogFile)
				assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
				assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
				assert.Equal(t, 500*time.Millisecond, cfg.Adapter.ProbeTimeout)
				assert.Equal(t, 16, cfg.Scanner.Concurrency)
				assert.Equal(t, 9000, cfg.Scanner.Port)
				assert.Equal(t, []string{"10.0.0.0/24", "10.0.1.0/24", "10.0.2.0/24"}, cfg.Scanner.Subnets)
				assert.Equal(t, "download", cfg.Sync.Mode)
				require.NotNil(t, cfg.Sync.AutoSync)
				assert.True(t, *cfg.Sync.AutoSync)
				assert.Equal(t, 60, cfg.Sync.IntervalMinutes)
			},
		},
		{
			name: "config alias flag",
			args: []string{"-config", "/path/to/config.json"},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
			},
		},
		{
			name: "no flags",
			args: []string{},
			validate: func(t *testing.T, cfg *StructuredConfig) {
				assert.Empty(t, cfg.Server.HTTPAddress)
				assert.Empty(t, cfg.Storage.DB.DSN)
				assert.Empty(t, cfg.JSONFilePath)
				assert.Empty(t, cfg.Scanner.Subnets)
				assert.Nil(t, cfg.Sync.AutoSync)
				assert.False(t, cfg.App.Headless)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args)
			require.NoError(t, err)
			require.NotNil(t, cfg)
			tt.validate(t, cfg)
		})
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "invalid server address format", args: []string{"-a", "invalid"}},
		{name: "invalid port in server address", args: []string{"-a", "localhost:abc"}},
		{name: "invalid subnet", args: []string{"-subnet", "10.0.0.0"}},
		{name: "invalid auto sync", args: []string{"-auto-sync", "maybe"}},
		{name: "unknown flag", args: []string{"-token-sign-key", "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := parseFlags(tt.args)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

// TestNetAddress_SetAndString tests the round-trip of Set and String
func TestNetAddress_SetAndString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"localhost:9978", "localhost:9978"},
		{"127.0.0.1:9090", "127.0.0.1:9090"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			addr := &NetAddress{}
			err := addr.Set(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, addr.String())
		})
	}
}
