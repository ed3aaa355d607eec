package tui

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// PairModel asks for the address of a device to pair with. On success it
// navigates back to the devices page with the pairing result.
type PairModel struct {
	ctx       context.Context
	scheduler service.Scheduler

	input      textinput.Model
	submitting bool
	errMsg     string
}

func NewPairModel(ctx context.Context, scheduler service.Scheduler) *PairModel {
	input := textinput.New()
	input.Placeholder = "192.168.1.20:9978"
	input.CharLimit = 128
	input.Width = 40
	input.Focus()

	return &PairModel{
		ctx:       ctx,
		scheduler: scheduler,
		input:     input,
	}
}

func (m *PairModel) Init() tea.Cmd {
	m.input.SetValue("")
	m.errMsg = ""
	m.submitting = false
	return textinput.Blink
}

func (m *PairModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if done, ok := msg.(pairDoneMsg); ok {
		m.submitting = false
		if done.err != nil {
			m.errMsg = humanizePeerError(done.err)
			return m, nil
		}
		return m, func() tea.Msg { return NavigateTo{Page: pageDevices, Payload: done} }
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(keyMsg, keys.esc):
		return m, func() tea.Msg { return NavigateTo{Page: pageDevices} }
	case key.Matches(keyMsg, keys.enter):
		if m.submitting {
			return m, nil
		}
		address := strings.TrimSpace(m.input.Value())
		if address == "" {
			m.errMsg = "Введите адрес устройства"
			return m, nil
		}
		m.submitting = true
		m.errMsg = ""
		return m, m.pair(address)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *PairModel) pair(address string) tea.Cmd {
	return func() tea.Msg {
		device, result, err := m.scheduler.Pair(m.ctx, address)
		return pairDoneMsg{device: device, result: result, err: err}
	}
}

func (m *PairModel) View() string {
	var b strings.Builder

	b.WriteString("Адрес устройства:\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	if m.submitting {
		b.WriteString("\nПроверка устройства...\n")
	}
	if m.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Ошибка: " + m.errMsg))
		b.WriteString("\n")
	}

	return renderPage("ДОБАВИТЬ УСТРОЙСТВО", strings.TrimRight(b.String(), "\n"), "enter: добавить │ esc: назад")
}
