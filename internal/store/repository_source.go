package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/models"
)

type sourceRepository struct {
	*DB
	logger *logger.Logger
}

func NewSourceRepository(db *DB, logger *logger.Logger) SourceRepository {
	return &sourceRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *sourceRepository) Active(ctx context.Context) (models.SourceConfig, error) {
	query, args, err := buildActiveSourceQuery()
	if err != nil {
		return models.SourceConfig{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var (
		cfg  models.SourceConfig
		data sql.NullString
	)
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&cfg.ID, &cfg.Name, &cfg.URL, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SourceConfig{}, ErrNoActiveSource
	}
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "sourceRepository.Active").Msg("failed to read active source")
		return models.SourceConfig{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}
	if data.Valid {
		cfg.Data = []byte(data.String)
	}

	return cfg, nil
}

func (r *sourceRepository) Save(ctx context.Context, cfg models.SourceConfig, activate bool) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if activate {
			query, args, err := buildDeactivateSourcesQuery()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
			}
			if _, err = tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
			}
		}

		query, args, err := buildSaveSourceQuery(cfg, activate)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "sourceRepository.Save").
				Int("source_id", cfg.ID).
				Msg("failed to save source")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}

		return nil
	})
}
