// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/config"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
)

// Storages groups all repositories into a single value that can be passed
// around the service layer.
type Storages struct {
	DeviceRepository   DeviceRepository
	SettingsRepository SettingsRepository
	HistoryRepository  HistoryRepository
	SourceRepository   SourceRepository

	db *DB
}

// NewStorages initialises the storage layer:
//  1. Opens an SQLite connection to the file path specified in cfg.DB.DSN,
//     creating the database file if it does not yet exist.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Wires every repository to the shared connection.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return newStorages(db, logger), nil
}

func newStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		DeviceRepository:   NewDeviceRepository(db, logger),
		SettingsRepository: NewSettingsRepository(db, logger),
		HistoryRepository:  NewHistoryRepository(db, logger),
		SourceRepository:   NewSourceRepository(db, logger),
		db:                 db,
	}
}

// Close releases the database connection.
func (s *Storages) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
