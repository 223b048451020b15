package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/seatwise/internal/app/models"
)

// defaultWindowOffset is how far in the future the enrollment window opens
// when the settings record is first created.
const defaultWindowOffset = 24 * time.Hour

// SettingsRepository handles the admin settings singleton. The record is
// created lazily with defaults on first access.
type SettingsRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanSettings(row pgx.Row) (*models.AdminSettings, error) {
	settings := &models.AdminSettings{}
	err := row.Scan(
		&settings.ID,
		&settings.AllowedDateTime,
		&settings.IsEnabled,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// GetOrCreateDefault returns the settings singleton, inserting the default
// record (window opens 24 hours from now, gate enabled) when none exists yet.
func (r *SettingsRepository) GetOrCreateDefault(ctx context.Context) (*models.AdminSettings, error) {
	query := `
		SELECT id, allowed_date_time, is_enabled, created_at, updated_at
		FROM admin_settings
		ORDER BY id ASC
		LIMIT 1
	`

	settings, err := scanSettings(r.db.QueryRow(ctx, query))
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("error retrieving admin settings: %w", err)
	}

	insert := `
		INSERT INTO admin_settings (allowed_date_time, is_enabled)
		VALUES ($1, TRUE)
		RETURNING id, allowed_date_time, is_enabled, created_at, updated_at
	`

	settings, err = scanSettings(r.db.QueryRow(ctx, insert, time.Now().Add(defaultWindowOffset)))
	if err != nil {
		return nil, fmt.Errorf("error creating default admin settings: %w", err)
	}

	return settings, nil
}

// Update applies the non-nil fields of the patch to the singleton and returns
// the updated record.
func (r *SettingsRepository) Update(ctx context.Context, allowedDateTime *time.Time, isEnabled *bool) (*models.AdminSettings, error) {
	current, err := r.GetOrCreateDefault(ctx)
	if err != nil {
		return nil, err
	}

	update := r.sb.Update("admin_settings").
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": current.ID}).
		Suffix("RETURNING id, allowed_date_time, is_enabled, created_at, updated_at")

	if allowedDateTime != nil {
		update = update.Set("allowed_date_time", *allowedDateTime)
	}
	if isEnabled != nil {
		update = update.Set("is_enabled", *isEnabled)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update settings query: %w", err)
	}

	settings, err := scanSettings(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, fmt.Errorf("error updating admin settings: %w", err)
	}

	return settings, nil
}
