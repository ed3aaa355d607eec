// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"strings"

	"github.com/MKhiriev/go-lan-sync/models"
)

func renderBuildInfoWindow(info models.AppBuildInfo, self models.Identity) string {
	var b strings.Builder

	b.WriteString("Название приложения: go-lan-sync\n")
	b.WriteString("Версия: ")
	b.WriteString(valueOrNA(info.BuildVersion()))
	b.WriteString("\n")
	b.WriteString("Дата: ")
	b.WriteString(valueOrNA(info.BuildDate()))
	b.WriteString("\n")
	b.WriteString("Коммит: ")
	b.WriteString(valueOrNA(info.BuildCommit()))
	b.WriteString("\n\n")
	b.WriteString("Устройство: ")
	b.WriteString(valueOrNA(self.Name))
	b.WriteString("\n")
	b.WriteString("Адрес: ")
	b.WriteString(valueOrNA(self.Address))

	return renderPage("ИНФОРМАЦИЯ О ПРОГРАММЕ", b.String(), "esc: назад")
}

func valueOrNA(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "N/A"
	}
	return v
}
