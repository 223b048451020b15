package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/pkg/apperrors"
	"github.com/emre/seatwise/internal/pkg/dberrors"
	"github.com/emre/seatwise/internal/pkg/logger"
)

var studentColumns = []string{"id", "name", "email", "register_id", "department", "opted_course"}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	student := &models.Student{}
	err := row.Scan(
		&student.ID,
		&student.Name,
		&student.Email,
		&student.RegisterID,
		&student.Department,
		&student.OptedCourse,
	)
	if err != nil {
		return nil, err
	}
	return student, nil
}

// Create inserts a new student. Returns apperrors.ErrStudentAlreadyExists
// when the email is already registered.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	sql, args, err := r.sb.Insert("students").
		Columns("name", "email", "register_id", "department", "opted_course").
		Values(student.Name, student.Email, student.RegisterID, student.Department, student.OptedCourse).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&student.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrStudentAlreadyExists
		}
		logger.Error().Err(err).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// FindByEmail retrieves a student by email. Returns (nil, nil) when the email
// is not registered.
func (r *StudentRepository) FindByEmail(ctx context.Context, email string) (*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		Where(squirrel.Eq{"email": email}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building find student SQL")
		return nil, fmt.Errorf("failed to build find student query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Str("email", email).Msg("Error scanning student row")
		return nil, fmt.Errorf("error getting student by email: %w", err)
	}

	return student, nil
}

// EmailExists checks if a student with the given email is registered.
func (r *StudentRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking student existence: %w", err)
	}
	return exists, nil
}

// SetOptedCourse atomically assigns the student's opted course and returns
// the updated record. The update only lands while opted_course is still NULL,
// so a student who already holds a seat cannot be moved onto a second roster.
// Returns (nil, nil) when no student matches the email or the slot is taken.
func (r *StudentRepository) SetOptedCourse(ctx context.Context, email, courseCode string) (*models.Student, error) {
	sql, args, err := r.sb.Update("students").
		Set("opted_course", courseCode).
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.Eq{"opted_course": nil}).
		Suffix("RETURNING id, name, email, register_id, department, opted_course").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building set opted course SQL")
		return nil, fmt.Errorf("failed to build set opted course query: %w", err)
	}

	student, err := scanStudent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		logger.Error().Err(err).Str("email", email).Msg("Error executing set opted course query")
		return nil, fmt.Errorf("error setting opted course: %w", err)
	}

	return student, nil
}

// ListAll retrieves every registered student ordered by email.
func (r *StudentRepository) ListAll(ctx context.Context) ([]*models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students").
		OrderBy("email ASC").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list students SQL")
		return nil, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list students query")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []*models.Student{}
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning student row during list")
			return nil, fmt.Errorf("error scanning student row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating student rows")
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// CountAll returns the number of registered students.
func (r *StudentRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// CountOpted returns the number of students currently holding a seat.
func (r *StudentRepository) CountOpted(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE opted_course IS NOT NULL`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting opted students: %w", err)
	}
	return count, nil
}

// DeleteAll removes every student and returns how many were deleted.
func (r *StudentRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students`)
	if err != nil {
		return 0, fmt.Errorf("error deleting students: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
