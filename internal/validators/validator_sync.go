package validators

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-lan-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	FieldSender    = "sender"
	FieldMode      = "mode"
	FieldConfig    = "config"
	FieldTargets   = "targets"
	FieldKey       = "key"
	FieldSourceID  = "source_id"
	FieldPosition  = "position"
	FieldUpdatedAt = "updated_at"
	FieldAddress   = "address"
)

type SyncValidator struct {
}

func NewSyncValidator() Validator {
	return &SyncValidator{}
}

func (v *SyncValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.IncomingSync:
		return v.validateIncomingSync(ctx, value, fields...)
	case *models.IncomingSync:
		return v.validateIncomingSync(ctx, *value, fields...)

	case models.HistoryEntry:
		return v.validateHistoryEntry(ctx, value, fields...)
	case *models.HistoryEntry:
		return v.validateHistoryEntry(ctx, *value, fields...)

	case models.Device:
		return v.validateDevice(ctx, value, fields...)
	case *models.Device:
		return v.validateDevice(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *SyncValidator) validateIncomingSync(ctx context.Context, in models.IncomingSync, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldSender, FieldMode, FieldConfig, FieldTargets}
	}

	for _, f := range fields {
		switch f {
		case FieldSender:
			if strings.TrimSpace(in.Sender.ID) == "" {
				return ErrInvalidSenderID
			}
		case FieldMode:
			if !in.Mode.Valid() {
				return ErrInvalidSyncMode
			}
		case FieldConfig:
			if in.Config.ID < 0 {
				return ErrInvalidSourceID
			}
		case FieldTargets:
			for i, entry := range in.Targets {
				if err := v.validateHistoryEntry(ctx, entry, FieldKey, FieldPosition, FieldUpdatedAt); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
				// entries travel under the sender's source; anything else is filed wrong
				if entry.SourceID != in.Config.ID {
					return fmt.Errorf("validation error at index %d: %w", i, ErrSourceMismatch)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateHistoryEntry(ctx context.Context, entry models.HistoryEntry, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKey, FieldSourceID, FieldPosition, FieldUpdatedAt}
	}

	for _, f := range fields {
		switch f {
		case FieldKey:
			if strings.TrimSpace(entry.Key) == "" {
				return ErrEmptyHistoryKey
			}
		case FieldSourceID:
			if entry.SourceID < 0 {
				return ErrInvalidSourceID
			}
		case FieldPosition:
			if entry.Position < 0 || entry.Duration < 0 {
				return ErrInvalidPosition
			}
		case FieldUpdatedAt:
			if entry.UpdatedAt < 0 {
				return ErrInvalidUpdatedAt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncValidator) validateDevice(_ context.Context, device models.Device, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldAddress}
	}

	for _, f := range fields {
		switch f {
		case FieldAddress:
			if strings.TrimSpace(device.Address) == "" {
				return ErrEmptyAddress
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
