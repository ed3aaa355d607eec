package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-lan-sync/internal/adapter"
	"github.com/MKhiriev/go-lan-sync/internal/service"
	"github.com/MKhiriev/go-lan-sync/internal/store"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "bad form", err: fmt.Errorf("%w: device", ErrMissingFormField), want: http.StatusBadRequest},
		{name: "not a peer", err: fmt.Errorf("pair: %w", adapter.ErrNotAPeer), want: http.StatusBadGateway},
		{name: "stopped", err: service.ErrSchedulerStopped, want: http.StatusServiceUnavailable},
		{name: "store", err: fmt.Errorf("merge: %w", store.ErrExecutingStatement), want: http.StatusInternalServerError},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
		{
			name: "store failure wins over invalid data",
			err:  errors.Join(service.ErrInvalidDataProvided, store.ErrExecutingStatement),
			want: http.StatusInternalServerError,
		},
		{
			name: "stopped wins over not a peer",
			err:  fmt.Errorf("%w: %w", adapter.ErrNotAPeer, service.ErrSchedulerStopped),
			want: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				assert.Equal(t, tt.want, statusFromError(tt.err))
			}
		})
	}
}
