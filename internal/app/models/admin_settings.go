package models

import "time"

// AdminSettings is the singleton record controlling the global enrollment
// window gate. It is lazily created with defaults on first access.
type AdminSettings struct {
	ID              int64     `json:"id" db:"id"`
	AllowedDateTime time.Time `json:"allowedDateTime" db:"allowed_date_time"`
	IsEnabled       bool      `json:"isEnabled" db:"is_enabled"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// AllowedAt reports whether enrollment is open at the given instant.
func (s *AdminSettings) AllowedAt(now time.Time) bool {
	return s.IsEnabled && !now.Before(s.AllowedDateTime)
}
