package service

import (
	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
)

type Services struct {
	Registry       DeviceRegistry
	ModeResolver   ModeResolver
	SyncService    SyncService
	PeerService    PeerService
	Scheduler      Scheduler
	AppInfoService AppInfoService
}

// NewServices builds the service graph. self carries the name, address and
// type announced to peers; its id is read from settings on demand. prober
// answers pairing requests.
func NewServices(
	storages *store.Storages,
	peerAdapter adapter.PeerAdapter,
	scanner Scanner,
	prober Prober,
	self models.Identity,
	buildInfo models.AppBuildInfo,
	logger *logger.Logger,
	opts ...SchedulerOption,
) (*Services, error) {
	appInfo, err := NewAppInfoService(buildInfo, logger.Component("app_info"))
	if err != nil {
		return nil, err
	}

	registry := NewDeviceRegistry(storages.DeviceRepository, logger.Component("registry"))
	modes := NewModeResolver(storages.SettingsRepository, logger.Component("modes"))

	peer := NewPeerValidationService().Wrap(
		NewPeerService(storages.SettingsRepository, storages.HistoryRepository, storages.SourceRepository, self, logger.Component("peer")),
	)
	syncer := NewSyncService(peerAdapter, storages.HistoryRepository, storages.SourceRepository, modes, peer, logger.Component("sync"))

	scheduler := NewScheduler(registry, scanner, prober, syncer, modes, storages.SettingsRepository, logger.Component("scheduler"), opts...)

	return &Services{
		Registry:       registry,
		ModeResolver:   modes,
		SyncService:    syncer,
		PeerService:    peer,
		Scheduler:      scheduler,
		AppInfoService: appInfo,
	}, nil
}
