package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/app"
	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/internal/store"
)

// errorStatuses is checked in order, so an error wrapping several sentinels
// gets the status of the first one listed.
var errorStatuses = []struct {
	err    error
	status int
}{
	{service.ErrSchedulerStopped, http.StatusServiceUnavailable},

	{store.ErrSettingsNotFound, http.StatusInternalServerError},
	{store.ErrBuildingSQLQuery, http.StatusInternalServerError},
	{store.ErrExecutingQuery, http.StatusInternalServerError},
	{store.ErrBeginningTransaction, http.StatusInternalServerError},
	{store.ErrCommitingTransaction, http.StatusInternalServerError},
	{store.ErrExecutingStatement, http.StatusInternalServerError},
	{store.ErrScanningRow, http.StatusInternalServerError},
	{store.ErrScanningRows, http.StatusInternalServerError},

	{adapter.ErrNotAPeer, http.StatusBadGateway},

	{ErrUnknownAction, http.StatusBadRequest},
	{ErrUnsupportedType, http.StatusBadRequest},
	{ErrInvalidMode, http.StatusBadRequest},
	{ErrInvalidFormField, http.StatusBadRequest},
	{ErrMissingFormField, http.StatusBadRequest},
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrInvalidSyncMode, http.StatusBadRequest},
	{service.ErrInvalidAddress, http.StatusBadRequest},
	{adapter.ErrInvalidAddress, http.StatusBadRequest},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

func applyErrorMessage(err error) string {
	switch statusFromError(err) {
	case http.StatusBadRequest:
		return app.MsgInvalidDataProvided
	case http.StatusInternalServerError:
		return app.MsgApplySyncFailed
	default:
		return app.MsgInternalServerError
	}
}
