package tui

import (
	"context"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/models"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	services  *service.Services
	self      models.Identity
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(services *service.Services, self models.Identity, buildInfo models.AppBuildInfo, logger *logger.Logger) (*TUI, error) {
	return &TUI{services: services, self: self, buildInfo: buildInfo, logger: logger}, nil
}

// Run shows the sync settings screen until the user quits or ctx is done.
// Quitting with ctrl+c returns ErrUserQuit.
func (t *TUI) Run(ctx context.Context) error {
	results, unsubscribe := t.services.Scheduler.Subscribe()
	defer unsubscribe()

	pages := map[string]tea.Model{
		pageDevices: NewDevicesModel(ctx, t.services.Scheduler, t.services.ModeResolver, t.self),
		pagePair:    NewPairModel(ctx, t.services.Scheduler),
	}

	root := NewRootModel(pages, pageDevices, t.services.Scheduler, results, t.buildInfo, t.self)
	finalModel, err := tea.NewProgram(
		root,
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	).Run()
	if err != nil {
		t.logger.Err(err).Str("func", "*TUI.Run").Msg("terminal UI stopped with error")
		return err
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}

	return nil
}
