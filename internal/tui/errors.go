// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"strings"

	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/service"
)

var ErrUserQuit = errors.New("вышел из программы")

func humanizePeerError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, adapter.ErrNotAPeer):
		return "По этому адресу нет устройства с приложением"
	case errors.Is(err, adapter.ErrInvalidAddress), errors.Is(err, service.ErrInvalidAddress):
		return "Неверный адрес"
	case errors.Is(err, service.ErrSchedulerStopped):
		return "Синхронизация остановлена"
	}

	s := strings.ToLower(err.Error())
	if strings.Contains(s, "connection refused") ||
		strings.Contains(s, "dial tcp") ||
		strings.Contains(s, "no such host") ||
		strings.Contains(s, "network is unreachable") ||
		strings.Contains(s, "i/o timeout") ||
		strings.Contains(s, "context deadline exceeded") {
		return "Отсутствует сеть или устройство недоступно"
	}

	return err.Error()
}
