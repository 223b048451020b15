package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	CourseRepository   *CourseRepository
	StudentRepository  *StudentRepository
	SettingsRepository *SettingsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		CourseRepository:   NewCourseRepository(db),
		StudentRepository:  NewStudentRepository(db),
		SettingsRepository: NewSettingsRepository(db),
	}
}
