package tui

import (
	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/models"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	pageDevices = "devices"
	pagePair    = "pair"
)

// RootModel is a TUI router:
// 1) keeps active page
// 2) handles global Ctrl+C quit and the build info window
// 3) turns terminal focus into a resume trigger
// 4) keeps the scheduler subscription alive whatever page is active
// 5) handles NavigateTo messages
// 6) delegates all other messages to the active page
type RootModel struct {
	pages   map[string]tea.Model
	current tea.Model

	scheduler service.Scheduler
	results   <-chan service.CycleResult

	quitByUser bool
	buildInfo  models.AppBuildInfo
	self       models.Identity

	showBuildInfo bool
}

// NewRootModel registers all pages and opens startPage.
func NewRootModel(pages map[string]tea.Model, startPage string, scheduler service.Scheduler, results <-chan service.CycleResult, buildInfo models.AppBuildInfo, self models.Identity) RootModel {
	return RootModel{
		pages:     pages,
		current:   pages[startPage],
		scheduler: scheduler,
		results:   results,
		buildInfo: buildInfo,
		self:      self,
	}
}

func (r RootModel) Init() tea.Cmd {
	cmds := []tea.Cmd{waitForResult(r.results)}
	if r.current != nil {
		cmds = append(cmds, r.current.Init())
	}
	return tea.Batch(cmds...)
}

func (r RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Global hotkey for every page.
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c":
			r.quitByUser = true
			return r, tea.Quit
		case "v":
			if r.isDevicesPage() {
				r.showBuildInfo = !r.showBuildInfo
				return r, nil
			}
		case "esc":
			if r.showBuildInfo {
				r.showBuildInfo = false
				return r, nil
			}
		}

		if r.showBuildInfo {
			return r, nil
		}
	}

	switch msg := msg.(type) {
	case tea.FocusMsg:
		scheduler := r.scheduler
		return r, func() tea.Msg {
			return triggerMsg{action: actionResume, result: scheduler.Resume()}
		}
	case subscriptionClosedMsg:
		return r, nil
	case cycleResultMsg, refreshTickMsg, spinner.TickMsg:
		// background updates always reach the devices page
		devices := r.pages[pageDevices]
		if devices == nil {
			return r, nil
		}
		updated, cmd := devices.Update(msg)
		r.pages[pageDevices] = updated
		if r.isDevicesPage() {
			r.current = updated
		}
		if _, ok := msg.(cycleResultMsg); ok {
			return r, tea.Batch(cmd, waitForResult(r.results))
		}
		return r, cmd
	}

	// Cross-page navigation.
	if nav, ok := msg.(NavigateTo); ok {
		next, exists := r.pages[nav.Page]
		if !exists {
			return r, nil
		}

		r.showBuildInfo = false
		r.current = next

		if nav.Payload != nil {
			return r, func() tea.Msg { return nav.Payload }
		}
		if nav.Page == pageDevices {
			return r, nil
		}
		return r, r.current.Init()
	}

	if r.current == nil {
		return r, nil
	}

	updated, cmd := r.current.Update(msg)
	r.current = updated
	return r, cmd
}

func (r RootModel) View() string {
	if r.showBuildInfo {
		return renderBuildInfoWindow(r.buildInfo, r.self)
	}
	if r.current == nil {
		return renderPage("TUI", "", "")
	}
	return r.current.View()
}

func (r RootModel) isDevicesPage() bool {
	_, ok := r.current.(*DevicesModel)
	return ok
}

// waitForResult blocks on the next scheduler result.
func waitForResult(results <-chan service.CycleResult) tea.Cmd {
	if results == nil {
		return nil
	}
	return func() tea.Msg {
		result, ok := <-results
		if !ok {
			return subscriptionClosedMsg{}
		}
		return cycleResultMsg{result: result}
	}
}
