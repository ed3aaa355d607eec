package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/utils"
	"github.com/MKhiriev/go-lan-sync/models"
)

type settingsRepository struct {
	*DB
	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

func NewSettingsRepository(db *DB, logger *logger.Logger) SettingsRepository {
	return &settingsRepository{
		DB:     db,
		ids:    utils.NewUUIDGenerator(),
		logger: logger,
	}
}

func (r *settingsRepository) Seed(ctx context.Context, initial models.Settings) error {
	query, args, err := buildSeedSettingsQuery(r.ids.Generate(), initial)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "settingsRepository.Seed").Msg("failed to seed settings")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *settingsRepository) Get(ctx context.Context) (models.Settings, error) {
	s, _, err := r.get(ctx)
	return s, err
}

func (r *settingsRepository) LocalID(ctx context.Context) (string, error) {
	_, id, err := r.get(ctx)
	return id, err
}

func (r *settingsRepository) get(ctx context.Context) (models.Settings, string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildGetSettingsQuery()
	if err != nil {
		return models.Settings{}, "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		s       models.Settings
		localID string
		mode    int
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&localID, &mode, &s.AutoSync, &s.IntervalMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, "", ErrSettingsNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "settingsRepository.get").Msg("failed to read settings row")
		return models.Settings{}, "", fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	s.Mode = models.SyncMode(mode)

	return s, localID, nil
}

func (r *settingsRepository) SaveMode(ctx context.Context, mode models.SyncMode) error {
	return r.update(ctx, "sync_mode", int(mode))
}

func (r *settingsRepository) SaveAutoSync(ctx context.Context, enabled bool) error {
	return r.update(ctx, "auto_sync", enabled)
}

func (r *settingsRepository) SaveInterval(ctx context.Context, minutes int) error {
	return r.update(ctx, "interval_minutes", minutes)
}

func (r *settingsRepository) update(ctx context.Context, column string, value any) error {
	query, args, err := buildUpdateSettingQuery(column, value)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "settingsRepository.update").
			Str("column", column).
			Msg("failed to update setting")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrSettingsNotFound
	}

	return nil
}
