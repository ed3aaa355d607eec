package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-lan-sync/internal/logger"
	"github.com/MKhiriev/go-lan-sync/internal/mock"
	"github.com/MKhiriev/go-lan-sync/internal/store"
	"github.com/MKhiriev/go-lan-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestModeResolver_CycleThreeTimesReturnsToStart(t *testing.T) {
	for _, start := range []models.SyncMode{models.Bidirectional, models.Upload, models.Download} {
		t.Run(start.String(), func(t *testing.T) {
			ctrl := gomock.NewController(t)
			settings := mock.NewMockSettingsRepository(ctrl)
			settings.EXPECT().Get(gomock.Any()).Return(models.Settings{Mode: start, IntervalMinutes: 30}, nil)
			settings.EXPECT().SaveMode(gomock.Any(), gomock.Any()).Return(nil).Times(3)

			m := NewModeResolver(settings, logger.Nop())
			require.NoError(t, m.Load(context.Background()))

			var got []models.SyncMode
			for range 3 {
				mode, err := m.Cycle(context.Background())
				require.NoError(t, err)
				got = append(got, mode)
			}

			assert.Equal(t, start, got[2])
			assert.Equal(t, start, m.Current())
			assert.Equal(t, start.Next(), got[0])
		})
	}
}

func TestModeResolver_CycleOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	settings := mock.NewMockSettingsRepository(ctrl)
	gomock.InOrder(
		settings.EXPECT().SaveMode(gomock.Any(), models.Upload).Return(nil),
		settings.EXPECT().SaveMode(gomock.Any(), models.Download).Return(nil),
		settings.EXPECT().SaveMode(gomock.Any(), models.Bidirectional).Return(nil),
	)

	m := NewModeResolver(settings, logger.Nop())
	for range 3 {
		_, err := m.Cycle(context.Background())
		require.NoError(t, err)
	}
}

func TestModeResolver_CyclePersistFailureKeepsMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().SaveMode(gomock.Any(), models.Upload).Return(errors.New("locked"))

	m := NewModeResolver(settings, logger.Nop())
	mode, err := m.Cycle(context.Background())

	require.Error(t, err)
	assert.Equal(t, models.Bidirectional, mode)
	assert.Equal(t, models.Bidirectional, m.Current())
}

func TestModeResolver_Set(t *testing.T) {
	ctrl := gomock.NewController(t)
	settings := mock.NewMockSettingsRepository(ctrl)
	settings.EXPECT().SaveMode(gomock.Any(), models.Download).Return(nil)

	m := NewModeResolver(settings, logger.Nop())
	require.NoError(t, m.Set(context.Background(), models.Download))
	assert.Equal(t, models.Download, m.Current())

	err := m.Set(context.Background(), models.SyncMode(5))
	require.ErrorIs(t, err, ErrInvalidSyncMode)
	assert.Equal(t, models.Download, m.Current())
}

func TestModeResolver_Load(t *testing.T) {
	tests := []struct {
		name    string
		stored  models.Settings
		err     error
		want    models.SyncMode
		wantErr bool
	}{
		{name: "stored upload", stored: models.Settings{Mode: models.Upload}, want: models.Upload},
		{name: "invalid falls back", stored: models.Settings{Mode: 9}, want: models.Bidirectional},
		{name: "no settings row", err: store.ErrSettingsNotFound, want: models.Bidirectional},
		{name: "read error", err: errors.New("boom"), want: models.Bidirectional, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			settings := mock.NewMockSettingsRepository(ctrl)
			settings.EXPECT().Get(gomock.Any()).Return(tt.stored, tt.err)

			m := NewModeResolver(settings, logger.Nop())
			err := m.Load(context.Background())

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, m.Current())
		})
	}
}

func TestModeResolver_ForcePolicy(t *testing.T) {
	m := NewModeResolver(nil, logger.Nop())

	assert.Equal(t, ForceReject, m.ForcePolicy(models.Bidirectional))
	assert.Equal(t, ForceReplaceRemote, m.ForcePolicy(models.Upload))
	assert.Equal(t, ForceClearLocal, m.ForcePolicy(models.Download))
}
