package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
)

const msgForcedBidirectional = "forced sync is not handled in bidirectional mode"

type identityProvider interface {
	Identity(ctx context.Context) (models.Identity, error)
}

type syncService struct {
	adapter adapter.PeerAdapter
	history store.HistoryRepository
	sources store.SourceRepository
	modes   ModeResolver
	self    identityProvider

	logger *logger.Logger
}

func NewSyncService(
	peerAdapter adapter.PeerAdapter,
	history store.HistoryRepository,
	sources store.SourceRepository,
	modes ModeResolver,
	self identityProvider,
	logger *logger.Logger,
) SyncService {
	return &syncService{
		adapter: peerAdapter,
		history: history,
		sources: sources,
		modes:   modes,
		self:    self,
		logger:  logger,
	}
}

func (s *syncService) Sync(ctx context.Context, target models.Device, force bool) models.SyncOutcome {
	log := s.logger.With().Str("func", "syncService.Sync").Str("address", target.Address).Logger()

	mode := s.modes.Current()
	policy := s.modes.ForcePolicy(mode)
	if force && policy == ForceReject {
		log.Info().Msg(msgForcedBidirectional)
		return models.Failed(models.OutcomeRejected, msgForcedBidirectional)
	}

	source, err := s.activeSource(ctx)
	if err != nil {
		return localFailure("load active source", err)
	}

	// must happen before the snapshot below is taken
	if force && policy == ForceClearLocal {
		if err = s.history.Clear(ctx, source.ID); err != nil {
			return localFailure("clear local history", err)
		}
		log.Info().Int("source_id", source.ID).Msg("local history cleared for forced download")
	}

	req, err := s.buildRequest(ctx, source, mode, force)
	if err != nil {
		return localFailure("build sync request", err)
	}

	outcome := s.adapter.Send(ctx, target, req)
	if !outcome.OK() {
		log.Warn().Str("outcome", outcome.Kind.String()).Str("message", outcome.Message).Msg("sync failed")
		return outcome
	}

	applied, err := s.apply(ctx, source.ID, mode, force, outcome.Response.Targets)
	if err != nil {
		return localFailure("store received history", err)
	}
	outcome.Applied = applied

	log.Info().
		Str("mode", mode.String()).
		Bool("force", force).
		Int("sent", len(req.Targets)).
		Int("applied", applied).
		Msg("sync finished")

	return outcome
}

func (s *syncService) buildRequest(ctx context.Context, source models.SourceConfig, mode models.SyncMode, force bool) (models.SyncRequest, error) {
	entries, err := s.history.List(ctx, source.ID)
	if err != nil {
		return models.SyncRequest{}, fmt.Errorf("list history: %w", err)
	}

	identity, err := s.self.Identity(ctx)
	if err != nil {
		return models.SyncRequest{}, fmt.Errorf("local identity: %w", err)
	}

	identityJSON, err := json.Marshal(identity)
	if err != nil {
		return models.SyncRequest{}, fmt.Errorf("marshal identity: %w", err)
	}
	configJSON, err := json.Marshal(source)
	if err != nil {
		return models.SyncRequest{}, fmt.Errorf("marshal source config: %w", err)
	}

	return models.SyncRequest{
		Identity: identityJSON,
		Config:   configJSON,
		Targets:  entries,
		Mode:     mode,
		Force:    force,
	}, nil
}

func (s *syncService) apply(ctx context.Context, sourceID int, mode models.SyncMode, force bool, received []models.HistoryEntry) (int, error) {
	if mode == models.Upload {
		return 0, nil
	}

	// the peer answers with history of our source; file it there regardless of its cid
	for i := range received {
		received[i].SourceID = sourceID
	}

	if mode == models.Download && force {
		if err := s.history.Replace(ctx, sourceID, received); err != nil {
			return 0, err
		}
		return len(received), nil
	}

	if len(received) == 0 {
		return 0, nil
	}
	if err := s.history.Merge(ctx, received...); err != nil {
		return 0, err
	}

	return len(received), nil
}

func (s *syncService) activeSource(ctx context.Context) (models.SourceConfig, error) {
	source, err := s.sources.Active(ctx)
	if errors.Is(err, store.ErrNoActiveSource) {
		s.logger.Warn().Msg("no active source configured, syncing the default source")
		return models.SourceConfig{ID: 0, Name: "default"}, nil
	}

	return source, err
}

func localFailure(step string, err error) models.SyncOutcome {
	return models.Failed(models.OutcomeRejected, fmt.Sprintf("%s: %v", step, err))
}
