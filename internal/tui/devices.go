// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/models"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	actionSync   = "sync"
	actionDevice = "device"
	actionForce  = "force"
	actionRescan = "rescan"
	actionResume = "resume"
)

const (
	refreshInterval = time.Second
	statusTTL       = 6 * time.Second

	nameColWidth    = 20
	addressColWidth = 28
)

// DevicesModel is the sync settings page: the known devices, the current
// mode, auto sync and interval, and the last manual result.
type DevicesModel struct {
	ctx       context.Context
	scheduler service.Scheduler
	modes     service.ModeResolver
	self      models.Identity

	now            func() time.Time
	writeClipboard func(string) error

	devices []models.Device
	idx     int
	status  service.SchedulerStatus
	spinner spinner.Model

	statusLine string
	statusErr  bool
	statusSeq  int

	choosingInterval bool
	intervalIdx      int

	overlay *errorOverlayModel
}

func NewDevicesModel(ctx context.Context, scheduler service.Scheduler, modes service.ModeResolver, self models.Identity) *DevicesModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot

	m := &DevicesModel{
		ctx:            ctx,
		scheduler:      scheduler,
		modes:          modes,
		self:           self,
		now:            time.Now,
		writeClipboard: clipboard.WriteAll,
		spinner:        s,
	}
	m.reload()
	return m
}

func (m *DevicesModel) Init() tea.Cmd {
	return tea.Batch(refreshTick(), m.spinner.Tick)
}

func (m *DevicesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshTickMsg:
		m.reload()
		return m, refreshTick()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case cycleResultMsg:
		m.reload()
		if line, failed, show := describeResult(msg.result); show {
			return m, m.setStatus(line, failed)
		}
		return m, nil
	case triggerMsg:
		m.reload()
		if line, show := describeTrigger(msg.action, msg.result); show && msg.action != actionResume {
			failed := msg.result != service.TriggerAccepted
			return m, m.setStatus(line, failed)
		}
		return m, nil
	case pairDoneMsg:
		m.reload()
		if msg.err != nil {
			return m, m.setStatus("Не удалось добавить устройство: "+humanizePeerError(msg.err), true)
		}
		line := "Устройство " + deviceLabel(msg.device) + " добавлено"
		if msg.result == service.TriggerDropped {
			line += ", синхронизация уже выполняется"
		}
		return m, m.setStatus(line, false)
	case settingDoneMsg:
		m.reload()
		if msg.err != nil {
			m.overlay = &errorOverlayModel{message: humanizePeerError(msg.err)}
			return m, nil
		}
		return m, m.setStatus(msg.status, false)
	case copiedMsg:
		if msg.err != nil {
			return m, m.setStatus("Ошибка копирования: "+msg.err.Error(), true)
		}
		return m, m.setStatus("Адрес скопирован: "+msg.address, false)
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.statusLine, m.statusErr = "", false
		}
		return m, nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m *DevicesModel) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.overlay != nil {
		if key.Matches(msg, keys.enter, keys.esc) {
			m.overlay = nil
		}
		return m, nil
	}

	if m.choosingInterval {
		return m.updateIntervalChooser(msg)
	}

	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.devices)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.sync):
		return m, m.trigger(actionSync, m.scheduler.SyncNow)
	case key.Matches(msg, keys.enter):
		device, ok := m.selected()
		if !ok {
			return m, m.trigger(actionSync, m.scheduler.SyncNow)
		}
		return m, m.trigger(actionDevice, func() service.TriggerResult {
			return m.scheduler.SyncDevice(device, false)
		})
	case key.Matches(msg, keys.force):
		device, ok := m.selected()
		if !ok {
			return m, m.setStatus("Нет выбранного устройства", true)
		}
		return m, m.trigger(actionForce, func() service.TriggerResult {
			return m.scheduler.SyncDevice(device, true)
		})
	case key.Matches(msg, keys.rescan):
		return m, m.trigger(actionRescan, m.scheduler.Rescan)
	case key.Matches(msg, keys.pair):
		return m, func() tea.Msg { return NavigateTo{Page: pagePair} }
	case key.Matches(msg, keys.forget):
		device, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.forget(device)
	case key.Matches(msg, keys.mode):
		return m, m.cycleMode()
	case key.Matches(msg, keys.autoSync):
		return m, m.toggleAutoSync(!m.status.AutoSync)
	case key.Matches(msg, keys.interval):
		m.choosingInterval = true
		m.intervalIdx = max(slices.Index(models.SyncIntervals, m.status.IntervalMinutes), 0)
	case key.Matches(msg, keys.copy):
		return m, m.copyAddress()
	}

	return m, nil
}

func (m *DevicesModel) updateIntervalChooser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.choosingInterval = false
	case key.Matches(msg, keys.left, keys.up):
		if m.intervalIdx > 0 {
			m.intervalIdx--
		}
	case key.Matches(msg, keys.right, keys.down):
		if m.intervalIdx < len(models.SyncIntervals)-1 {
			m.intervalIdx++
		}
	case key.Matches(msg, keys.enter):
		m.choosingInterval = false
		return m, m.setInterval(models.SyncIntervals[m.intervalIdx])
	}
	return m, nil
}

func (m *DevicesModel) selected() (models.Device, bool) {
	if m.idx < 0 || m.idx >= len(m.devices) {
		return models.Device{}, false
	}
	return m.devices[m.idx], true
}

func (m *DevicesModel) reload() {
	m.status = m.scheduler.Status()
	m.devices = m.scheduler.Devices()
	if m.idx >= len(m.devices) {
		m.idx = len(m.devices) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m *DevicesModel) setStatus(line string, failed bool) tea.Cmd {
	m.statusSeq++
	m.statusLine, m.statusErr = line, failed

	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg { return clearStatusMsg{seq: seq} })
}

func (m *DevicesModel) trigger(action string, fn func() service.TriggerResult) tea.Cmd {
	return func() tea.Msg {
		return triggerMsg{action: action, result: fn()}
	}
}

func (m *DevicesModel) forget(device models.Device) tea.Cmd {
	return func() tea.Msg {
		if err := m.scheduler.Forget(device.Address); err != nil {
			return settingDoneMsg{err: err}
		}
		return settingDoneMsg{status: "Устройство " + deviceLabel(device) + " удалено"}
	}
}

func (m *DevicesModel) cycleMode() tea.Cmd {
	return func() tea.Msg {
		mode, err := m.modes.Cycle(m.ctx)
		if err != nil {
			return settingDoneMsg{err: err}
		}
		return settingDoneMsg{status: "Режим: " + modeName(mode)}
	}
}

func (m *DevicesModel) toggleAutoSync(enabled bool) tea.Cmd {
	return func() tea.Msg {
		if err := m.scheduler.SetAutoSync(enabled); err != nil {
			return settingDoneMsg{err: err}
		}
		return settingDoneMsg{status: "Автосинхронизация: " + onOff(enabled)}
	}
}

func (m *DevicesModel) setInterval(minutes int) tea.Cmd {
	return func() tea.Msg {
		if err := m.scheduler.SetInterval(minutes); err != nil {
			return settingDoneMsg{err: err}
		}
		return settingDoneMsg{status: fmt.Sprintf("Интервал: %d мин", minutes)}
	}
}

func (m *DevicesModel) copyAddress() tea.Cmd {
	address := m.self.Address
	return func() tea.Msg {
		return copiedMsg{address: address, err: m.writeClipboard(address)}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return refreshTickMsg(t) })
}

func (m *DevicesModel) View() string {
	if m.overlay != nil {
		return m.overlay.View()
	}

	var b strings.Builder

	state := "ожидание"
	switch m.status.State {
	case service.StateScanning:
		state = m.spinner.View() + " поиск устройств"
	case service.StateSyncing:
		state = m.spinner.View() + " синхронизация"
	}

	fmt.Fprintf(&b, "Это устройство:     %s (%s)\n", valueOrNA(m.self.Name), valueOrNA(m.self.Address))
	fmt.Fprintf(&b, "Режим:              %s\n", modeName(m.status.Mode))
	fmt.Fprintf(&b, "Автосинхронизация:  %s, каждые %d мин\n", onOff(m.status.AutoSync), m.status.IntervalMinutes)
	if m.status.TimerPending {
		fmt.Fprintf(&b, "Следующая:          %s\n", m.status.NextRun.Format("15:04"))
	}
	fmt.Fprintf(&b, "Состояние:          %s\n", state)
	if last := m.status.LastResult; last != nil && last.Synced && last.Outcome.OK() {
		fmt.Fprintf(&b, "Последняя:          %s, %s\n", deviceLabel(last.Target), lastSeen(last.FinishedAt, m.now()))
	}
	b.WriteString("\n")

	if m.choosingInterval {
		b.WriteString("Интервал синхронизации: ")
		for i, v := range models.SyncIntervals {
			cell := fmt.Sprintf(" %d ", v)
			if i == m.intervalIdx {
				cell = selectedStyle.Render("[" + fmt.Sprint(v) + "]")
			}
			b.WriteString(cell)
		}
		b.WriteString("\n\n")
	}

	if len(m.devices) == 0 {
		b.WriteString("Нет известных устройств. r: поиск, p: добавить по адресу\n")
	} else {
		fmt.Fprintf(&b, "  %s │ %s │ %s\n", padRight("Устройство", nameColWidth), padRight("Адрес", addressColWidth), "Видели")
		b.WriteString(strings.Repeat("─", nameColWidth+2))
		b.WriteString("─┼─")
		b.WriteString(strings.Repeat("─", addressColWidth))
		b.WriteString("─┼──────────\n")
		for i, d := range m.devices {
			cursor := "  "
			if i == m.idx {
				cursor = "> "
			}
			fmt.Fprintf(&b, "%s%s │ %s │ %s\n",
				cursor,
				padRight(fitText(deviceLabel(d), nameColWidth), nameColWidth),
				padRight(fitText(d.Address, addressColWidth), addressColWidth),
				lastSeen(d.LastSeen, m.now()),
			)
		}
	}

	if m.statusLine != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.statusLine))
		} else {
			b.WriteString(okStyle.Render(m.statusLine))
		}
		b.WriteString("\n")
	}

	hotKeys := "s: синхр. │ enter: синхр. с выбранным │ f: принудительно │ r: поиск\n" +
		"p: добавить │ d: удалить │ m: режим │ a: авто │ i: интервал │ y: копир. адрес │ v: версия"
	if m.choosingInterval {
		hotKeys = "←/→: выбор │ enter: сохранить │ esc: отмена"
	}

	return renderPage("СИНХРОНИЗАЦИЯ", strings.TrimRight(b.String(), "\n"), hotKeys)
}
