package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidSenderID  = errors.New("invalid sender ID")
	ErrInvalidSyncMode  = errors.New("invalid sync mode")
	ErrInvalidSourceID  = errors.New("invalid source ID")
	ErrEmptyHistoryKey  = errors.New("history entry key is required")
	ErrSourceMismatch   = errors.New("history entry belongs to another source")
	ErrInvalidPosition  = errors.New("invalid playback position")
	ErrInvalidUpdatedAt = errors.New("invalid update time")
	ErrEmptyAddress     = errors.New("address is required")
)
