package tui

import (
	"fmt"
	"time"

	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/models"
	"github.com/dustin/go-humanize"
)

// describeResult returns the status line for a finished cycle. Automatic
// cycles never produce a line: their failures are only logged.
func describeResult(r service.CycleResult) (line string, failed bool, show bool) {
	if r.Trigger.Automatic() {
		return "", false, false
	}

	if r.Trigger == service.TriggerRescan {
		return fmt.Sprintf("Поиск завершен: найдено устройств %d", r.Discovered), false, true
	}

	if !r.Synced {
		return "Устройства в сети не найдены", true, true
	}

	name := deviceLabel(r.Target)
	if !r.Outcome.OK() {
		return fmt.Sprintf("Синхронизация с %s не удалась: %s", name, outcomeText(r.Outcome)), true, true
	}

	return fmt.Sprintf("Синхронизировано с %s, получено записей: %d", name, r.Outcome.Applied), false, true
}

func outcomeText(o models.SyncOutcome) string {
	var kind string
	switch o.Kind {
	case models.OutcomeUnreachable:
		kind = "устройство недоступно"
	case models.OutcomeTimeout:
		kind = "превышено время ожидания"
	case models.OutcomeMalformedResponse:
		kind = "некорректный ответ"
	case models.OutcomeRejected:
		kind = "отклонено"
	default:
		kind = o.Kind.String()
	}

	if o.Message == "" {
		return kind
	}
	return kind + " (" + o.Message + ")"
}

// describeTrigger returns the status line for an immediate trigger answer.
// Accepted triggers are reported later through their cycle result.
func describeTrigger(action string, r service.TriggerResult) (string, bool) {
	switch r {
	case service.TriggerDropped:
		return "Синхронизация уже выполняется", true
	case service.TriggerRejected:
		if action == actionForce {
			return "Принудительная синхронизация недоступна в двустороннем режиме", true
		}
		return "Синхронизация остановлена", true
	case service.TriggerDisabled:
		return "Автосинхронизация выключена", true
	}

	switch action {
	case actionRescan:
		return "Поиск устройств...", true
	case actionSync, actionDevice, actionForce:
		return "Синхронизация...", true
	}
	return "", false
}

func deviceLabel(d models.Device) string {
	if d.Name != "" {
		return d.Name
	}
	return d.Address
}

func modeName(m models.SyncMode) string {
	switch m {
	case models.Bidirectional:
		return "двусторонняя"
	case models.Upload:
		return "только отправка"
	case models.Download:
		return "только получение"
	default:
		return m.String()
	}
}

func lastSeen(t, now time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func onOff(v bool) string {
	if v {
		return "вкл"
	}
	return "выкл"
}
