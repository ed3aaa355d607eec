package store

import (
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-lan-sync/models"
)

const (
	devicesTable  = "devices"
	settingsTable = "settings"
	historyTable  = "history"
	sourcesTable  = "sources"

	settingsRowID = 1

	// 7 columns per row keeps a batch under sqlite's 999 variable limit.
	historyBatchSize = 100
)

var (
	deviceColumns   = []string{"address", "name", "last_seen"}
	settingsColumns = []string{"local_id", "sync_mode", "auto_sync", "interval_minutes"}
	historyColumns  = []string{"source_id", "key", "name", "position", "duration", "updated_at", "data"}
	sourceColumns   = []string{"id", "name", "url", "data"}
)

func buildListDevicesQuery() (string, []any, error) {
	return builder().
		Select(deviceColumns...).
		From(devicesTable).
		OrderBy("id ASC").
		ToSql()
}

// buildUpsertDeviceQuery keeps the row id of a known address so list order
// stays the order of first discovery. An empty name keeps the stored one and
// last_seen never moves back.
func buildUpsertDeviceQuery(d models.Device) (string, []any, error) {
	return builder().
		Insert(devicesTable).
		Columns(deviceColumns...).
		Values(d.Address, d.Name, toUnixMilli(d.LastSeen)).
		Suffix("ON CONFLICT(address) DO UPDATE SET " +
			"name = CASE WHEN excluded.name = '' THEN devices.name ELSE excluded.name END, " +
			"last_seen = MAX(devices.last_seen, excluded.last_seen)").
		ToSql()
}

func buildDeleteDeviceQuery(address string) (string, []any, error) {
	return builder().
		Delete(devicesTable).
		Where(sq.Eq{"address": address}).
		ToSql()
}

func buildGetSettingsQuery() (string, []any, error) {
	return builder().
		Select(settingsColumns...).
		From(settingsTable).
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
}

func buildSeedSettingsQuery(localID string, s models.Settings) (string, []any, error) {
	return builder().
		Insert(settingsTable).
		Options("OR IGNORE").
		Columns(append([]string{"id"}, settingsColumns...)...).
		Values(settingsRowID, localID, int(s.Mode), s.AutoSync, s.IntervalMinutes).
		ToSql()
}

func buildUpdateSettingQuery(column string, value any) (string, []any, error) {
	return builder().
		Update(settingsTable).
		Set(column, value).
		Where(sq.Eq{"id": settingsRowID}).
		ToSql()
}

func buildListHistoryQuery(sourceID int) (string, []any, error) {
	return builder().
		Select(historyColumns...).
		From(historyTable).
		Where(sq.Eq{"source_id": sourceID}).
		OrderBy("updated_at DESC", "key ASC").
		ToSql()
}

// buildMergeHistoryQuery inserts entries; an existing (source_id, key) row is
// only overwritten by a strictly newer entry.
func buildMergeHistoryQuery(entries []models.HistoryEntry) (string, []any, error) {
	if len(entries) == 0 {
		return "", nil, fmt.Errorf("%w: no history entries", ErrBuildingSQLQuery)
	}

	q := builder().
		Insert(historyTable).
		Columns(historyColumns...)
	for _, e := range entries {
		q = q.Values(e.SourceID, e.Key, e.Name, e.Position, e.Duration, e.UpdatedAt, nullableJSON(e.Data))
	}

	return q.Suffix(`ON CONFLICT(source_id, key) DO UPDATE SET
		name = excluded.name,
		position = excluded.position,
		duration = excluded.duration,
		updated_at = excluded.updated_at,
		data = excluded.data
		WHERE excluded.updated_at > history.updated_at`).
		ToSql()
}

func buildClearHistoryQuery(sourceID int) (string, []any, error) {
	return builder().
		Delete(historyTable).
		Where(sq.Eq{"source_id": sourceID}).
		ToSql()
}

func buildActiveSourceQuery() (string, []any, error) {
	return builder().
		Select(sourceColumns...).
		From(sourcesTable).
		Where(sq.Eq{"active": true}).
		OrderBy("id ASC").
		Limit(1).
		ToSql()
}

func buildDeactivateSourcesQuery() (string, []any, error) {
	return builder().
		Update(sourcesTable).
		Set("active", false).
		ToSql()
}

func buildSaveSourceQuery(cfg models.SourceConfig, activate bool) (string, []any, error) {
	return builder().
		Insert(sourcesTable).
		Columns(append(sourceColumns, "active")...).
		Values(cfg.ID, cfg.Name, cfg.URL, nullableJSON(cfg.Data), activate).
		// an active row belongs to this device and is only replaced when the
		// caller activates the new config (the row is deactivated first then)
		Suffix("ON CONFLICT(id) DO UPDATE SET name = excluded.name, url = excluded.url, data = excluded.data, active = MAX(active, excluded.active) WHERE sources.active = 0").
		ToSql()
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func toUnixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

func fromUnixMilli(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

func chunkHistory(entries []models.HistoryEntry, size int) [][]models.HistoryEntry {
	var chunks [][]models.HistoryEntry
	for size < len(entries) {
		entries, chunks = entries[size:], append(chunks, entries[:size])
	}
	if len(entries) > 0 {
		chunks = append(chunks, entries)
	}
	return chunks
}
