package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/pkg/apperrors"
	"github.com/emre/seatwise/internal/pkg/validation"
)

// StudentRegistry is the write-side contract of the student directory used by
// registration.
type StudentRegistry interface {
	Create(ctx context.Context, student *models.Student) error
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

// StudentService handles student registration
type StudentService interface {
	// Register creates a student record. The department is derived from the
	// email identifier; in strict mode the email must match the
	// institutional identifier pattern.
	Register(ctx context.Context, name, email, registerID string) (*models.Student, error)
}

// studentServiceImpl implements the StudentService interface
type studentServiceImpl struct {
	students    StudentRegistry
	strictEmail bool
	emailRegex  *regexp.Regexp
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance. emailDomain is
// only consulted when strictEmail is set.
func NewStudentService(students StudentRegistry, strictEmail bool, emailDomain string, logger zerolog.Logger) StudentService {
	var emailRegex *regexp.Regexp
	if strictEmail {
		emailRegex = validation.StudentEmailPattern(emailDomain)
	}
	return &studentServiceImpl{
		students:    students,
		strictEmail: strictEmail,
		emailRegex:  emailRegex,
		logger:      logger,
	}
}

// Register validates and persists a new student.
func (s *studentServiceImpl) Register(ctx context.Context, name, email, registerID string) (*models.Student, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	registerID = strings.ToLower(strings.TrimSpace(registerID))

	if name == "" || email == "" || registerID == "" {
		return nil, apperrors.NewValidationError("name, email and registerId are required")
	}

	if !validation.CompiledPatterns.Email.MatchString(email) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidStudentEmail, email)
	}

	if s.strictEmail && !s.emailRegex.MatchString(email) {
		return nil, fmt.Errorf("%w: %s does not match the institutional identifier format",
			apperrors.ErrInvalidStudentEmail, email)
	}

	department, ok := validation.DepartmentFromEmail(email)
	if !ok {
		return nil, fmt.Errorf("%w: %s is too short to carry a department tag",
			apperrors.ErrInvalidStudentEmail, email)
	}

	exists, err := s.students.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("error checking student email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrStudentAlreadyExists
	}

	student := &models.Student{
		Name:        name,
		Email:       email,
		RegisterID:  registerID,
		Department:  department,
		OptedCourse: nil,
	}

	// The unique index still backstops the pre-check under a registration race.
	if err := s.students.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudentAlreadyExists) {
			return nil, apperrors.ErrStudentAlreadyExists
		}
		return nil, fmt.Errorf("error registering student: %w", err)
	}

	s.logger.Info().
		Str("email", email).
		Str("department", department).
		Msg("Student registered")

	return student, nil
}
