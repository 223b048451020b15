package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

// Events published globally to every connected subscriber on bulk admin
// mutations or on explicit client request.
const (
	EventCourseCountUpdate      = "courseCountUpdate"
	EventCourseStatisticsUpdate = "courseStatisticsUpdate"
)

// ResetScope names a bulk-reset target.
type ResetScope string

const (
	ScopeAll     ResetScope = "all"
	ScopeCourses ResetScope = "courses"
	ScopeUsers   ResetScope = "users"
)

// CourseAdminStore is the course-side contract of the admin surface.
type CourseAdminStore interface {
	Create(ctx context.Context, course *models.Course) error
	ListAll(ctx context.Context) ([]*models.Course, error)
	CountAll(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// StudentAdminStore is the student-side contract of the admin surface.
type StudentAdminStore interface {
	ListAll(ctx context.Context) ([]*models.Student, error)
	CountAll(ctx context.Context) (int64, error)
	CountOpted(ctx context.Context) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// GlobalNotifier publishes named events to every connected subscriber.
type GlobalNotifier interface {
	PublishGlobal(event string, data interface{})
}

// AdminService defines the admin surface: bulk creation, resets and
// read-only aggregate views.
type AdminService interface {
	BulkCreateCourses(ctx context.Context, specs []dto.CreateCourseRequest) ([]*models.Course, []dto.BulkCreateError, error)
	Reset(ctx context.Context, scope ResetScope) error
	UserStats(ctx context.Context) (*dto.UserStatsResponse, error)
	CourseStats(ctx context.Context) ([]dto.CourseStats, error)
	ExportUsersCSV(ctx context.Context, w io.Writer) error
}

// adminServiceImpl implements the AdminService interface
type adminServiceImpl struct {
	courses      CourseAdminStore
	students     StudentAdminStore
	notifier     GlobalNotifier
	defaultSeats int
	logger       zerolog.Logger
}

// NewAdminService creates a new admin service instance
func NewAdminService(
	courses CourseAdminStore,
	students StudentAdminStore,
	notifier GlobalNotifier,
	defaultSeats int,
	logger zerolog.Logger,
) AdminService {
	return &adminServiceImpl{
		courses:      courses,
		students:     students,
		notifier:     notifier,
		defaultSeats: defaultSeats,
		logger:       logger,
	}
}

// BulkCreateCourses creates each spec independently with a per-item duplicate
// check, then broadcasts the new course count when anything was created.
func (s *adminServiceImpl) BulkCreateCourses(ctx context.Context, specs []dto.CreateCourseRequest) ([]*models.Course, []dto.BulkCreateError, error) {
	if len(specs) == 0 {
		return nil, nil, apperrors.NewValidationError("at least one course spec is required")
	}

	created := []*models.Course{}
	createErrors := []dto.BulkCreateError{}

	for _, spec := range specs {
		course, err := s.createCourse(ctx, spec)
		if err != nil {
			createErrors = append(createErrors, dto.BulkCreateError{
				CourseCode: strings.ToLower(strings.TrimSpace(spec.CourseCode)),
				Error:      err.Error(),
			})
			continue
		}
		created = append(created, course)
	}

	if len(created) > 0 {
		count, err := s.courses.CountAll(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to count courses after bulk create")
		} else {
			s.notifier.PublishGlobal(EventCourseCountUpdate, map[string]interface{}{"count": count})
		}
	}

	s.logger.Info().
		Int("created", len(created)).
		Int("failed", len(createErrors)).
		Msg("Bulk course creation finished")

	return created, createErrors, nil
}

func (s *adminServiceImpl) createCourse(ctx context.Context, spec dto.CreateCourseRequest) (*models.Course, error) {
	courseCode := strings.ToLower(strings.TrimSpace(spec.CourseCode))
	if courseCode == "" {
		return nil, apperrors.NewValidationError("courseCode is required")
	}
	if spec.CourseName == "" {
		return nil, apperrors.NewValidationError("courseName is required")
	}
	if strings.TrimSpace(spec.OfferingDepartment) == "" {
		return nil, apperrors.NewValidationError("offeringDepartment is required")
	}
	if len(spec.AccessibleBy) == 0 {
		return nil, apperrors.NewValidationError("accessibleBy must not be empty")
	}

	seats := s.defaultSeats
	if spec.SeatsAvailable != nil {
		if *spec.SeatsAvailable < 0 {
			return nil, apperrors.NewValidationError("seatsAvailable cannot be negative")
		}
		seats = *spec.SeatsAvailable
	}

	accessibleBy := make([]string, 0, len(spec.AccessibleBy))
	for _, tag := range spec.AccessibleBy {
		accessibleBy = append(accessibleBy, strings.ToLower(strings.TrimSpace(tag)))
	}

	course := &models.Course{
		CourseCode:         courseCode,
		CourseName:         strings.ToLower(strings.TrimSpace(spec.CourseName)),
		OfferingDepartment: strings.ToLower(strings.TrimSpace(spec.OfferingDepartment)),
		SeatsAvailable:     seats,
		AccessibleBy:       accessibleBy,
		EnrolledStudents:   []string{},
	}

	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
			return nil, apperrors.ErrCourseAlreadyExists
		}
		return nil, fmt.Errorf("error creating course: %w", err)
	}

	return course, nil
}

// Reset deletes every record in the named scope. Course-affecting scopes
// broadcast the emptied counts to all subscribers.
func (s *adminServiceImpl) Reset(ctx context.Context, scope ResetScope) error {
	coursesAffected := false

	switch scope {
	case ScopeAll:
		if _, err := s.students.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error resetting students: %w", err)
		}
		if _, err := s.courses.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error resetting courses: %w", err)
		}
		coursesAffected = true
	case ScopeCourses:
		if _, err := s.courses.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error resetting courses: %w", err)
		}
		coursesAffected = true
	case ScopeUsers:
		if _, err := s.students.DeleteAll(ctx); err != nil {
			return fmt.Errorf("error resetting students: %w", err)
		}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown reset scope %q", scope))
	}

	s.logger.Warn().Str("scope", string(scope)).Msg("Bulk reset executed")

	if coursesAffected {
		count, err := s.courses.CountAll(ctx)
		if err != nil {
			s.logger.Error().Err(err).Msg("Failed to count courses after reset")
			return nil
		}
		s.notifier.PublishGlobal(EventCourseCountUpdate, map[string]interface{}{"count": count})
		s.notifier.PublishGlobal(EventCourseStatisticsUpdate, []dto.CourseStats{})
	}

	return nil
}

// UserStats returns the registration/opt-in aggregate for the dashboard.
func (s *adminServiceImpl) UserStats(ctx context.Context) (*dto.UserStatsResponse, error) {
	total, err := s.students.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	opted, err := s.students.CountOpted(ctx)
	if err != nil {
		return nil, fmt.Errorf("error counting opted students: %w", err)
	}

	stats := &dto.UserStatsResponse{
		TotalUsers: total,
		OptedUsers: opted,
	}
	if total > 0 {
		stats.OptedPercentage = roundPercent(float64(opted) / float64(total) * 100)
	}

	return stats, nil
}

// CourseStats returns per-course fill statistics for the dashboard.
func (s *adminServiceImpl) CourseStats(ctx context.Context) ([]dto.CourseStats, error) {
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}

	stats := make([]dto.CourseStats, 0, len(courses))
	for _, course := range courses {
		enrolled := len(course.EnrolledStudents)
		capacity := course.TotalCapacity()

		row := dto.CourseStats{
			CourseID:       course.CourseCode,
			CourseName:     course.CourseName,
			SeatsAvailable: course.SeatsAvailable,
			Enrolled:       enrolled,
			Capacity:       capacity,
		}
		if capacity > 0 {
			row.FillPercentage = roundPercent(float64(enrolled) / float64(capacity) * 100)
		}
		stats = append(stats, row)
	}

	return stats, nil
}

// ExportUsersCSV streams every student record to w as CSV.
func (s *adminServiceImpl) ExportUsersCSV(ctx context.Context, w io.Writer) error {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("error listing students: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"name", "email", "registerId", "department", "optedCourse"}); err != nil {
		return fmt.Errorf("error writing CSV header: %w", err)
	}

	for _, student := range students {
		optedCourse := ""
		if student.OptedCourse != nil {
			optedCourse = *student.OptedCourse
		}
		record := []string{student.Name, student.Email, student.RegisterID, student.Department, optedCourse}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("error writing CSV record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// roundPercent keeps percentages to two decimals for the dashboard views.
func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
