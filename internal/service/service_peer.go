package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
)

type peerService struct {
	settings store.SettingsRepository
	history  store.HistoryRepository
	sources  store.SourceRepository

	// self holds name, address and type; the id is read from settings.
	self models.Identity

	logger *logger.Logger
}

func NewPeerService(
	settings store.SettingsRepository,
	history store.HistoryRepository,
	sources store.SourceRepository,
	self models.Identity,
	logger *logger.Logger,
) PeerService {
	return &peerService{
		settings: settings,
		history:  history,
		sources:  sources,
		self:     self,
		logger:   logger,
	}
}

func (p *peerService) Identity(ctx context.Context) (models.Identity, error) {
	id, err := p.settings.LocalID(ctx)
	if err != nil {
		return models.Identity{}, fmt.Errorf("read local id: %w", err)
	}

	identity := p.self
	identity.ID = id

	return identity, nil
}

func (p *peerService) Apply(ctx context.Context, in models.IncomingSync) (models.SyncResponse, error) {
	log := logger.FromContext(ctx).With().
		Str("func", "peerService.Apply").
		Str("sender", in.Sender.ID).
		Str("mode", in.Mode.String()).
		Logger()

	if in.HasConfig {
		if err := p.sources.Save(ctx, in.Config, false); err != nil {
			return models.SyncResponse{}, fmt.Errorf("save sender source config: %w", err)
		}
	}
	sourceID := in.Config.ID

	switch in.Mode {
	case models.Upload:
		if err := p.store(ctx, sourceID, in.Targets, in.Force); err != nil {
			return models.SyncResponse{}, err
		}
		log.Info().Int("received", len(in.Targets)).Bool("force", in.Force).Msg("history received")
		return models.SyncResponse{Targets: []models.HistoryEntry{}}, nil

	case models.Download:
		return p.snapshot(ctx, sourceID)

	case models.Bidirectional:
		if err := p.store(ctx, sourceID, in.Targets, false); err != nil {
			return models.SyncResponse{}, err
		}
		log.Info().Int("received", len(in.Targets)).Msg("history merged")
		return p.snapshot(ctx, sourceID)

	default:
		return models.SyncResponse{}, fmt.Errorf("%w: %d", ErrInvalidSyncMode, in.Mode)
	}
}

func (p *peerService) store(ctx context.Context, sourceID int, entries []models.HistoryEntry, replace bool) error {
	if replace {
		if err := p.history.Replace(ctx, sourceID, entries); err != nil {
			return fmt.Errorf("replace history: %w", err)
		}
		return nil
	}

	if len(entries) == 0 {
		return nil
	}
	if err := p.history.Merge(ctx, entries...); err != nil {
		return fmt.Errorf("merge history: %w", err)
	}

	return nil
}

func (p *peerService) snapshot(ctx context.Context, sourceID int) (models.SyncResponse, error) {
	entries, err := p.history.List(ctx, sourceID)
	if err != nil {
		return models.SyncResponse{}, fmt.Errorf("list history: %w", err)
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}

	return models.SyncResponse{Targets: entries, Length: len(entries)}, nil
}
