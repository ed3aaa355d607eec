package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/models"
)

type historyRepository struct {
	*DB
	logger *logger.Logger
}

func NewHistoryRepository(db *DB, logger *logger.Logger) HistoryRepository {
	return &historyRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *historyRepository) List(ctx context.Context, sourceID int) ([]models.HistoryEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListHistoryQuery(sourceID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "historyRepository.List").Int("source_id", sourceID).Msg("failed to query history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make([]models.HistoryEntry, 0)
	for rows.Next() {
		var (
			e    models.HistoryEntry
			data sql.NullString
		)
		if err = rows.Scan(&e.SourceID, &e.Key, &e.Name, &e.Position, &e.Duration, &e.UpdatedAt, &data); err != nil {
			log.Err(err).Str("func", "historyRepository.List").Msg("failed to scan history row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		if data.Valid {
			e.Data = []byte(data.String)
		}
		entries = append(entries, e)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "historyRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (r *historyRepository) Merge(ctx context.Context, entries ...models.HistoryEntry) error {
	if len(entries) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		return r.insert(ctx, tx, entries)
	})
}

func (r *historyRepository) Replace(ctx context.Context, sourceID int, entries []models.HistoryEntry) error {
	for i := range entries {
		entries[i].SourceID = sourceID
	}

	return r.withTx(ctx, func(tx *sql.Tx) error {
		if err := r.clear(ctx, tx, sourceID); err != nil {
			return err
		}
		return r.insert(ctx, tx, entries)
	})
}

func (r *historyRepository) Clear(ctx context.Context, sourceID int) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		return r.clear(ctx, tx, sourceID)
	})
}

func (r *historyRepository) insert(ctx context.Context, tx *sql.Tx, entries []models.HistoryEntry) error {
	for _, chunk := range chunkHistory(entries, historyBatchSize) {
		query, args, err := buildMergeHistoryQuery(chunk)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
		}

		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			logger.FromContext(ctx).Err(err).
				Str("func", "historyRepository.insert").
				Int("entries", len(chunk)).
				Msg("failed to merge history batch")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
		}
	}

	return nil
}

func (r *historyRepository) clear(ctx context.Context, tx *sql.Tx, sourceID int) error {
	query, args, err := buildClearHistoryQuery(sourceID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "historyRepository.clear").
			Int("source_id", sourceID).
			Msg("failed to clear history")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
