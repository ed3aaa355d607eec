package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrInvalidSyncMode     = errors.New("invalid sync mode")
	ErrInvalidInterval     = errors.New("invalid sync interval")
	ErrInvalidAddress      = errors.New("invalid device address")

	ErrVersionIsNotSpecified = errors.New("version is not specified")

	ErrSchedulerStopped = errors.New("scheduler is not running")
)
