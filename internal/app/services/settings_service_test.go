package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

type memSettingsStore struct {
	settings models.AdminSettings
}

func (s *memSettingsStore) GetOrCreateDefault(ctx context.Context) (*models.AdminSettings, error) {
	snapshot := s.settings
	return &snapshot, nil
}

func (s *memSettingsStore) Update(ctx context.Context, allowedDateTime *time.Time, isEnabled *bool) (*models.AdminSettings, error) {
	if allowedDateTime != nil {
		s.settings.AllowedDateTime = *allowedDateTime
	}
	if isEnabled != nil {
		s.settings.IsEnabled = *isEnabled
	}
	snapshot := s.settings
	return &snapshot, nil
}

func TestSettingsStatus(t *testing.T) {
	opens := time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		now     time.Time
		enabled bool
		allowed bool
	}{
		{"before window", opens.Add(-time.Hour), true, false},
		{"at window open", opens, true, true},
		{"after window", opens.Add(time.Hour), true, true},
		{"disabled", opens.Add(time.Hour), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &memSettingsStore{settings: models.AdminSettings{
				AllowedDateTime: opens,
				IsEnabled:       tt.enabled,
			}}
			svc := NewSettingsService(store).(*settingsServiceImpl)
			svc.now = func() time.Time { return tt.now }

			status, err := svc.Status(context.Background())
			if err != nil {
				t.Fatalf("Status: %v", err)
			}
			if status.Allowed != tt.allowed {
				t.Errorf("allowed = %v, want %v", status.Allowed, tt.allowed)
			}
			if !status.CurrentTime.Equal(tt.now) {
				t.Errorf("currentTime = %v, want %v", status.CurrentTime, tt.now)
			}
		})
	}
}

func TestSettingsUpdate(t *testing.T) {
	store := &memSettingsStore{settings: models.AdminSettings{IsEnabled: true}}
	svc := NewSettingsService(store)

	opens := time.Date(2026, 9, 2, 9, 0, 0, 0, time.UTC)
	disabled := false
	updated, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{
		AllowedDateTime: &opens,
		IsEnabled:       &disabled,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.AllowedDateTime.Equal(opens) || updated.IsEnabled {
		t.Errorf("updated = %+v, want allowedDateTime %v and disabled", updated, opens)
	}
}

func TestSettingsUpdateEmptyPatch(t *testing.T) {
	svc := NewSettingsService(&memSettingsStore{})
	_, err := svc.Update(context.Background(), dto.UpdateSettingsRequest{})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want ErrValidationFailed", err)
	}
}
