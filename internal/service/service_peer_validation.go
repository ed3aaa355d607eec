package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-lan-sync/internal/validators"
	"github.com/MKhiriev/go-lan-sync/models"
)

type PeerValidationService struct {
	inner     PeerService
	validator validators.Validator
}

func NewPeerValidationService() PeerServiceWrapper {
	return &PeerValidationService{
		validator: validators.NewSyncValidator(),
	}
}

func (v *PeerValidationService) Identity(ctx context.Context) (models.Identity, error) {
	return v.inner.Identity(ctx)
}

func (v *PeerValidationService) Apply(ctx context.Context, in models.IncomingSync) (models.SyncResponse, error) {
	if err := v.validator.Validate(ctx, in); err != nil {
		return models.SyncResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.Apply(ctx, in)
}

func (v *PeerValidationService) Wrap(inner PeerService) PeerService {
	v.inner = inner
	return v
}
