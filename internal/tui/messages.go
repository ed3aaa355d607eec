package tui

import (
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/models"
)

// NavigateTo switches the active page. Payload, when set, is delivered to
// the new page instead of its Init command.
type NavigateTo struct {
	Page    string
	Payload any
}

// cycleResultMsg carries a finished cycle from the scheduler subscription.
type cycleResultMsg struct {
	result service.CycleResult
}

// subscriptionClosedMsg is sent once the scheduler stopped publishing.
type subscriptionClosedMsg struct{}

type triggerMsg struct {
	action string
	result service.TriggerResult
}

type pairDoneMsg struct {
	device models.Device
	result service.TriggerResult
	err    error
}

type settingDoneMsg struct {
	status string
	err    error
}

type refreshTickMsg time.Time

type copiedMsg struct {
	address string
	err     error
}

type clearStatusMsg struct {
	seq int
}
