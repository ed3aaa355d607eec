package store

import (
	"context"

	"github.com/MKhiriev/go-lan-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// DeviceRepository persists the list of known peers.
type DeviceRepository interface {
	// List returns all devices in order of first insertion.
	List(ctx context.Context) ([]models.Device, error)
	// Upsert inserts a device or updates name and last-seen of a known address.
	Upsert(ctx context.Context, device models.Device) error
	// Delete removes the device with the given address.
	Delete(ctx context.Context, address string) error
}

// SettingsRepository persists the sync settings and the local identity id.
type SettingsRepository interface {
	// Seed writes the initial settings row unless one exists already.
	Seed(ctx context.Context, initial models.Settings) error
	Get(ctx context.Context) (models.Settings, error)
	SaveMode(ctx context.Context, mode models.SyncMode) error
	SaveAutoSync(ctx context.Context, enabled bool) error
	SaveInterval(ctx context.Context, minutes int) error
	// LocalID returns the installation id generated when settings were seeded.
	LocalID(ctx context.Context) (string, error)
}

// HistoryRepository is the local playback history store.
type HistoryRepository interface {
	// List returns every entry of the source, newest first.
	List(ctx context.Context, sourceID int) ([]models.HistoryEntry, error)
	// Merge stores entries; for a (source, key) pair the newer entry wins.
	Merge(ctx context.Context, entries ...models.HistoryEntry) error
	// Replace discards the source's history and stores entries instead.
	Replace(ctx context.Context, sourceID int, entries []models.HistoryEntry) error
	// Clear discards the source's history.
	Clear(ctx context.Context, sourceID int) error
}

// SourceRepository stores content source configurations.
type SourceRepository interface {
	// Active returns the active source or ErrNoActiveSource.
	Active(ctx context.Context) (models.SourceConfig, error)
	// Save stores cfg; when activate is true it becomes the only active source.
	Save(ctx context.Context, cfg models.SourceConfig, activate bool) error
}
