package services

import (
	"context"
	"fmt"
	"time"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

// SettingsStore is the contract of the admin settings singleton.
type SettingsStore interface {
	GetOrCreateDefault(ctx context.Context) (*models.AdminSettings, error)
	Update(ctx context.Context, allowedDateTime *time.Time, isEnabled *bool) (*models.AdminSettings, error)
}

// SettingsService exposes the enrollment window gate.
type SettingsService interface {
	// Status computes the public /allowed view from the settings singleton.
	Status(ctx context.Context) (*dto.AllowedResponse, error)
	// Update applies a partial settings patch.
	Update(ctx context.Context, patch dto.UpdateSettingsRequest) (*models.AdminSettings, error)
}

// settingsServiceImpl implements the SettingsService interface
type settingsServiceImpl struct {
	settings SettingsStore
	// now is swappable for tests
	now func() time.Time
}

// NewSettingsService creates a new settings service instance
func NewSettingsService(settings SettingsStore) SettingsService {
	return &settingsServiceImpl{
		settings: settings,
		now:      time.Now,
	}
}

// Status returns the current window gate state.
func (s *settingsServiceImpl) Status(ctx context.Context) (*dto.AllowedResponse, error) {
	settings, err := s.settings.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading admin settings: %w", err)
	}

	now := s.now()
	return &dto.AllowedResponse{
		Allowed:         settings.AllowedAt(now),
		CurrentTime:     now,
		AllowedDateTime: settings.AllowedDateTime,
		IsEnabled:       settings.IsEnabled,
	}, nil
}

// Update applies the non-nil fields of the patch.
func (s *settingsServiceImpl) Update(ctx context.Context, patch dto.UpdateSettingsRequest) (*models.AdminSettings, error) {
	if patch.AllowedDateTime == nil && patch.IsEnabled == nil {
		return nil, apperrors.NewValidationError("at least one of allowedDateTime or isEnabled is required")
	}

	settings, err := s.settings.Update(ctx, patch.AllowedDateTime, patch.IsEnabled)
	if err != nil {
		return nil, fmt.Errorf("error updating admin settings: %w", err)
	}

	return settings, nil
}
