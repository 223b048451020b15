package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

// CourseCatalog is the read-side contract of the course store used for
// browsing.
type CourseCatalog interface {
	FindByAccess(ctx context.Context, department string) ([]*models.Course, error)
	FindByCode(ctx context.Context, courseCode string) (*models.Course, error)
}

// CourseService defines course browsing operations
type CourseService interface {
	// ListByDepartment returns the courses accessible to a department tag.
	ListByDepartment(ctx context.Context, department string) ([]*models.Course, error)
	// GetByCode returns a single course or apperrors.ErrCourseNotFound.
	GetByCode(ctx context.Context, courseCode string) (*models.Course, error)
}

// courseServiceImpl implements the CourseService interface
type courseServiceImpl struct {
	catalog CourseCatalog
}

// NewCourseService creates a new course service instance
func NewCourseService(catalog CourseCatalog) CourseService {
	return &courseServiceImpl{
		catalog: catalog,
	}
}

// ListByDepartment returns all courses whose access set contains the tag.
func (s *courseServiceImpl) ListByDepartment(ctx context.Context, department string) ([]*models.Course, error) {
	department = strings.ToLower(strings.TrimSpace(department))
	if department == "" {
		return nil, apperrors.NewValidationError("department is required")
	}

	courses, err := s.catalog.FindByAccess(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("error retrieving courses: %w", err)
	}
	return courses, nil
}

// GetByCode retrieves one course by its code.
func (s *courseServiceImpl) GetByCode(ctx context.Context, courseCode string) (*models.Course, error) {
	courseCode = strings.ToLower(strings.TrimSpace(courseCode))
	if courseCode == "" {
		return nil, apperrors.NewValidationError("course code is required")
	}

	course, err := s.catalog.FindByCode(ctx, courseCode)
	if err != nil {
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}
