package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
)

type deviceRegistry struct {
	repo store.DeviceRepository

	mu      sync.RWMutex
	devices []models.Device

	logger *logger.Logger
}

// NewDeviceRegistry creates an empty registry backed by repo. Call Load to
// fill it from storage.
func NewDeviceRegistry(repo store.DeviceRepository, logger *logger.Logger) DeviceRegistry {
	return &deviceRegistry{repo: repo, logger: logger}
}

func (r *deviceRegistry) Load(ctx context.Context) error {
	devices, err := r.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("load devices: %w", err)
	}
	for i := range devices {
		if address, err := adapter.NormalizeAddress(devices[i].Address); err == nil {
			devices[i].Address = address
		}
	}

	r.mu.Lock()
	r.devices = devices
	r.mu.Unlock()

	r.logger.Debug().Int("devices", len(devices)).Msg("device registry loaded")
	return nil
}

func (r *deviceRegistry) List() []models.Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return slices.Clone(r.devices)
}

func (r *deviceRegistry) Add(ctx context.Context, devices ...models.Device) error {
	var errs []error
	for _, device := range devices {
		address, err := adapter.NormalizeAddress(device.Address)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w %q", ErrInvalidAddress, device.Address))
			continue
		}
		device.Address = address

		if err = r.repo.Upsert(ctx, device); err != nil {
			errs = append(errs, fmt.Errorf("save device %s: %w", address, err))
			continue
		}

		r.mu.Lock()
		if i := r.indexOf(address); i >= 0 {
			if device.Name != "" {
				r.devices[i].Name = device.Name
			}
			if device.LastSeen.After(r.devices[i].LastSeen) {
				r.devices[i].LastSeen = device.LastSeen
			}
		} else {
			r.devices = append(r.devices, device)
		}
		r.mu.Unlock()
	}

	return errors.Join(errs...)
}

func (r *deviceRegistry) Remove(ctx context.Context, address string) error {
	if normalized, err := adapter.NormalizeAddress(address); err == nil {
		address = normalized
	}

	if err := r.repo.Delete(ctx, address); err != nil && !errors.Is(err, store.ErrDeviceNotFound) {
		return fmt.Errorf("delete device %s: %w", address, err)
	}

	r.mu.Lock()
	if i := r.indexOf(address); i >= 0 {
		r.devices = slices.Delete(r.devices, i, i+1)
	}
	r.mu.Unlock()

	return nil
}

// indexOf must be called with mu held.
func (r *deviceRegistry) indexOf(address string) int {
	return slices.IndexFunc(r.devices, func(d models.Device) bool {
		return d.Address == address
	})
}

func addresses(devices []models.Device) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.Address)
	}
	return out
}
