package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/pkg/apperrors"
	"github.com/emre/seatwise/internal/pkg/dberrors"
)

const courseColumns = `id, course_code, course_name, offering_department, seats_available, accessible_by, enrolled_students`

// CourseRepository handles database operations for courses.
//
// Seat mutations are single conditional UPDATE statements; the database is
// the only serialization point for seat contention. Seat counts are never
// written as a read-then-write pair.
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
	}
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.CourseCode,
		&course.CourseName,
		&course.OfferingDepartment,
		&course.SeatsAvailable,
		&course.AccessibleBy,
		&course.EnrolledStudents,
	)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// TryReserveSeat atomically claims one seat of the course for the given
// student email: it decrements seats_available and appends the email to the
// roster in one statement, guarded by seats_available > 0 and by the email
// not already being on the roster. Returns the post-update record, or
// (nil, nil) when no matching course has a claimable seat - a normal outcome,
// not an error.
func (r *CourseRepository) TryReserveSeat(ctx context.Context, courseCode, email string) (*models.Course, error) {
	query := `
		UPDATE courses
		SET seats_available = seats_available - 1,
		    enrolled_students = array_append(enrolled_students, $2)
		WHERE course_code = $1
		  AND seats_available > 0
		  AND NOT ($2 = ANY(enrolled_students))
		RETURNING ` + courseColumns

	course, err := scanCourse(r.db.QueryRow(ctx, query, courseCode, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error reserving seat: %w", err)
	}

	return course, nil
}

// ReleaseSeat atomically returns one seat to the course and removes the email
// from the roster. It exists only to compensate a reservation whose enrollee
// link failed; callers must invoke it at most once per failed reservation,
// double release is not detected.
func (r *CourseRepository) ReleaseSeat(ctx context.Context, courseCode, email string) error {
	query := `
		UPDATE courses
		SET seats_available = seats_available + 1,
		    enrolled_students = array_remove(enrolled_students, $2)
		WHERE course_code = $1
		  AND $2 = ANY(enrolled_students)
	`

	cmdTag, err := r.db.Exec(ctx, query, courseCode, email)
	if err != nil {
		return fmt.Errorf("error releasing seat: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("release seat: %s holds no seat in %s", email, courseCode)
	}

	return nil
}

// FindByAccess retrieves all courses whose accessible_by set contains the
// given department tag.
func (r *CourseRepository) FindByAccess(ctx context.Context, department string) ([]*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE $1 = ANY(accessible_by)
		ORDER BY course_code ASC
	`

	rows, err := r.db.Query(ctx, query, department)
	if err != nil {
		return nil, fmt.Errorf("error querying courses by access: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// FindByCode retrieves a course by its code. Returns (nil, nil) when no such
// course exists.
func (r *CourseRepository) FindByCode(ctx context.Context, courseCode string) (*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		WHERE course_code = $1
	`

	course, err := scanCourse(r.db.QueryRow(ctx, query, courseCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	return course, nil
}

// Create inserts a new course. Returns apperrors.ErrCourseAlreadyExists when
// the course code is already taken.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (course_code, course_name, offering_department, seats_available, accessible_by, enrolled_students)
		VALUES ($1, $2, $3, $4, $5, '{}')
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		course.CourseCode,
		course.CourseName,
		course.OfferingDepartment,
		course.SeatsAvailable,
		course.AccessibleBy,
	).Scan(&course.ID)

	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrCourseAlreadyExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// CountAll returns the number of courses.
func (r *CourseRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return count, nil
}

// ListAll retrieves every course.
func (r *CourseRepository) ListAll(ctx context.Context) ([]*models.Course, error) {
	query := `
		SELECT ` + courseColumns + `
		FROM courses
		ORDER BY course_code ASC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// DeleteAll removes every course and returns how many were deleted.
func (r *CourseRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM courses`)
	if err != nil {
		return 0, fmt.Errorf("error deleting courses: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
