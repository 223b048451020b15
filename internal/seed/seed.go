package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/emre/seatwise/internal/app/models"
	appRepos "github.com/emre/seatwise/internal/app/repositories"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

// CreateDefaultData ensures the settings singleton exists and, when the
// course table is empty, loads a small demo catalog so a fresh install has
// something to browse.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, defaultSeats int, lgr zerolog.Logger) error {
	courseRepo := appRepos.NewCourseRepository(dbPool)
	settingsRepo := appRepos.NewSettingsRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data...")
	var finalErr error

	// Settings singleton; created with its defaults when missing.
	if _, err := settingsRepo.GetOrCreateDefault(ctx); err != nil {
		lgr.Error().Err(err).Msg("Error ensuring settings singleton")
		finalErr = errors.Join(finalErr, err)
	}

	count, err := courseRepo.CountAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting courses")
		return errors.Join(finalErr, err)
	}
	if count > 0 {
		lgr.Info().Int64("courses", count).Msg("Course catalog already populated, skipping demo data")
		return finalErr
	}

	demo := []*appModels.Course{
		{
			CourseCode:         "cs101",
			CourseName:         "introduction to computer science",
			OfferingDepartment: "cs",
			SeatsAvailable:     defaultSeats,
			AccessibleBy:       []string{"cs", "ec", "me"},
		},
		{
			CourseCode:         "ec201",
			CourseName:         "digital circuits",
			OfferingDepartment: "ec",
			SeatsAvailable:     defaultSeats,
			AccessibleBy:       []string{"ec"},
		},
		{
			CourseCode:         "me105",
			CourseName:         "engineering drawing",
			OfferingDepartment: "me",
			SeatsAvailable:     defaultSeats,
			AccessibleBy:       []string{"me", "cs"},
		},
	}

	for _, course := range demo {
		if err := courseRepo.Create(ctx, course); err != nil && !errors.Is(err, apperrors.ErrCourseAlreadyExists) {
			lgr.Error().Err(err).Str("courseCode", course.CourseCode).Msg("Error creating demo course")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Int("courses", len(demo)).Msg("Demo course catalog created")
	return finalErr
}
