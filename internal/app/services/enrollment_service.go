package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

// CourseStore is the course-side contract of the reservation protocol. Both
// operations must be atomic per record: TryReserveSeat is the single
// conditional decrement-and-append that serializes seat contention, and
// ReleaseSeat is its inverse, used only for compensation.
type CourseStore interface {
	TryReserveSeat(ctx context.Context, courseCode, email string) (*models.Course, error)
	ReleaseSeat(ctx context.Context, courseCode, email string) error
}

// StudentDirectory is the enrollee-side contract of the reservation protocol.
type StudentDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.Student, error)
	SetOptedCourse(ctx context.Context, email, courseCode string) (*models.Student, error)
}

// SeatNotifier publishes seat-count change events to the subscribers of a
// course group. Delivery is best-effort.
type SeatNotifier interface {
	PublishCourseUpdate(courseCode string, seatsAvailable int)
}

// EnrollmentService coordinates the seat reservation protocol.
type EnrollmentService interface {
	// Reserve claims a seat in the course for the student and returns the
	// remaining seat count. Possible terminal failures:
	// apperrors.ErrNoSeatsOrNotFound, apperrors.ErrStudentNotFound,
	// apperrors.ErrAlreadyEnrolled.
	Reserve(ctx context.Context, courseCode, email string) (int, error)
}

// enrollmentServiceImpl implements the EnrollmentService interface
type enrollmentServiceImpl struct {
	courses      CourseStore
	students     StudentDirectory
	notifier     SeatNotifier
	storeTimeout time.Duration
	logger       zerolog.Logger
}

// NewEnrollmentService creates a new enrollment service instance
func NewEnrollmentService(
	courses CourseStore,
	students StudentDirectory,
	notifier SeatNotifier,
	storeTimeout time.Duration,
	logger zerolog.Logger,
) EnrollmentService {
	return &enrollmentServiceImpl{
		courses:      courses,
		students:     students,
		notifier:     notifier,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

// Reserve runs the two-record reservation protocol:
//
//  1. conditionally claim a seat in the course store (the sole serialization
//     point for seat contention),
//  2. link the course to the student record,
//  3. on success, publish the new seat count to the course's subscribers.
//
// If step 2 fails for any reason, including a timeout, the claimed seat is
// released with a single compensation attempt. Compensation failure is
// logged but does not change the reported outcome; the seat count then
// under-counts availability until manually reconciled. No reservation is
// ever held in a pending state: each call either completes or compensates.
func (s *enrollmentServiceImpl) Reserve(ctx context.Context, courseCode, email string) (int, error) {
	courseCode = strings.ToLower(strings.TrimSpace(courseCode))
	email = strings.ToLower(strings.TrimSpace(email))

	if courseCode == "" || email == "" {
		return 0, apperrors.NewValidationError("course code and email are required")
	}

	// Guard: a student already holding a seat is rejected before a seat is
	// claimed, so the roster can never gain a duplicate entry.
	student, err := s.findStudent(ctx, email)
	if err != nil {
		return 0, err
	}
	if student == nil {
		return 0, apperrors.ErrStudentNotFound
	}
	if student.OptedCourse != nil {
		return 0, apperrors.ErrAlreadyEnrolled
	}

	// Step 1: claim a seat. From here on the seat is durably recorded; there
	// is nothing to undo on the paths that return before step 2.
	course, err := s.reserveSeat(ctx, courseCode, email)
	if err != nil {
		return 0, err
	}
	if course == nil {
		return 0, apperrors.ErrNoSeatsOrNotFound
	}

	// Step 2: link the student to the course. The link only lands while the
	// student holds no course, so a concurrent reservation by the same
	// student loses here even after passing the guard above. Any failed or
	// empty link, a timeout included, compensates the seat claim.
	linked, err := s.linkStudent(ctx, email, courseCode)
	if err != nil || linked == nil {
		s.compensate(courseCode, email)
		if err != nil {
			return 0, fmt.Errorf("linking student %s to %s: %w", email, courseCode, err)
		}
		return 0, apperrors.ErrStudentNotFound
	}

	s.logger.Info().
		Str("courseCode", courseCode).
		Str("email", email).
		Int("seatsAvailable", course.SeatsAvailable).
		Msg("Seat reserved")

	s.notifier.PublishCourseUpdate(course.CourseCode, course.SeatsAvailable)

	return course.SeatsAvailable, nil
}

func (s *enrollmentServiceImpl) findStudent(ctx context.Context, email string) (*models.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	student, err := s.students.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("looking up student %s: %w", email, err)
	}
	return student, nil
}

func (s *enrollmentServiceImpl) reserveSeat(ctx context.Context, courseCode, email string) (*models.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	course, err := s.courses.TryReserveSeat(ctx, courseCode, email)
	if err != nil {
		return nil, fmt.Errorf("reserving seat in %s: %w", courseCode, err)
	}
	return course, nil
}

func (s *enrollmentServiceImpl) linkStudent(ctx context.Context, email, courseCode string) (*models.Student, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	return s.students.SetOptedCourse(ctx, email, courseCode)
}

// compensate releases the seat claimed in step 1. It runs on a fresh context:
// the request context may already be cancelled or expired, and the rollback
// must not be lost to that.
func (s *enrollmentServiceImpl) compensate(courseCode, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), s.storeTimeout)
	defer cancel()

	if err := s.courses.ReleaseSeat(ctx, courseCode, email); err != nil {
		s.logger.Error().
			Err(err).
			Str("courseCode", courseCode).
			Str("email", email).
			Msg("Seat compensation failed; seat count under-counts availability until reconciled")
	}
}
