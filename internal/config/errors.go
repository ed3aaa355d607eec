package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates an empty database DSN.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidServerConfigs indicates a missing or malformed listen
	// address or a non-positive request timeout.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAdapterConfigs indicates non-positive outbound timeouts.
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidScannerConfigs indicates a bad concurrency, port or subnet.
	ErrInvalidScannerConfigs = errors.New("invalid scanner configuration")
	// ErrInvalidSyncConfigs indicates an unknown sync mode or an interval
	// outside the supported choices.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
)

// ErrInvalidEnv is returned when an environment variable cannot be converted
// to the type of its config field.
var ErrInvalidEnv = errors.New("error getting env configs")
