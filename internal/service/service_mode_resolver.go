package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
)

type modeResolver struct {
	settings store.SettingsRepository

	mu   sync.RWMutex
	mode models.SyncMode

	logger *logger.Logger
}

// NewModeResolver creates a resolver starting in Bidirectional mode until
// Load reads the persisted value.
func NewModeResolver(settings store.SettingsRepository, logger *logger.Logger) ModeResolver {
	return &modeResolver{settings: settings, mode: models.Bidirectional, logger: logger}
}

func (m *modeResolver) Load(ctx context.Context) error {
	settings, err := m.settings.Get(ctx)
	if errors.Is(err, store.ErrSettingsNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load sync mode: %w", err)
	}

	mode := settings.Mode
	if !mode.Valid() {
		m.logger.Warn().Int("mode", int(mode)).Msg("persisted sync mode is invalid, using bidirectional")
		mode = models.Bidirectional
	}

	m.mu.Lock()
	m.mode = mode
	m.mu.Unlock()

	return nil
}

func (m *modeResolver) Current() models.SyncMode {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.mode
}

func (m *modeResolver) Cycle(ctx context.Context) (models.SyncMode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.mode.Next()
	if err := m.settings.SaveMode(ctx, next); err != nil {
		return m.mode, fmt.Errorf("save sync mode: %w", err)
	}
	m.mode = next

	return next, nil
}

func (m *modeResolver) Set(ctx context.Context, mode models.SyncMode) error {
	if !mode.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSyncMode, mode)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.settings.SaveMode(ctx, mode); err != nil {
		return fmt.Errorf("save sync mode: %w", err)
	}
	m.mode = mode

	return nil
}

func (m *modeResolver) ForcePolicy(mode models.SyncMode) ForcePolicy {
	switch mode {
	case models.Download:
		return ForceClearLocal
	case models.Upload:
		return ForceReplaceRemote
	default:
		return ForceReject
	}
}
