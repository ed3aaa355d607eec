package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/models"
)

type deviceRepository struct {
	*DB
	logger *logger.Logger
}

func NewDeviceRepository(db *DB, logger *logger.Logger) DeviceRepository {
	return &deviceRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *deviceRepository) List(ctx context.Context) ([]models.Device, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListDevicesQuery()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "deviceRepository.List").Msg("failed to execute query for listing devices")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	devices := make([]models.Device, 0)
	for rows.Next() {
		var (
			d        models.Device
			lastSeen int64
		)
		if err = rows.Scan(&d.Address, &d.Name, &lastSeen); err != nil {
			log.Err(err).Str("func", "deviceRepository.List").Msg("failed to scan device row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		d.LastSeen = fromUnixMilli(lastSeen)
		devices = append(devices, d)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).Str("func", "deviceRepository.List").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return devices, nil
}

func (r *deviceRepository) Upsert(ctx context.Context, device models.Device) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertDeviceQuery(device)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Upsert").
			Str("address", device.Address).
			Msg("failed to upsert device")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, address string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildDeleteDeviceQuery(address)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "deviceRepository.Delete").
			Str("address", address).
			Msg("failed to delete device")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrDeviceNotFound
	}

	return nil
}
