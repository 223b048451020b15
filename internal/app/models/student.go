package models

// Student defines a registered student based on the 'students' table.
//
// OptedCourse holds the course code of the student's single reserved seat, or
// nil when no seat is held. A student with a non-nil OptedCourse appears in
// exactly that course's roster.
type Student struct {
	ID          int64   `json:"id" db:"id" example:"1"`
	Name        string  `json:"name" db:"name" example:"Jane Doe"`
	Email       string  `json:"email" db:"email" example:"22cs101@school.edu"` // Unique, lowercase
	RegisterID  string  `json:"registerId" db:"register_id" example:"2022103045"`
	Department  string  `json:"department" db:"department" example:"cs"` // Derived from the email
	OptedCourse *string `json:"optedCourse" db:"opted_course"`           // Nullable
}
