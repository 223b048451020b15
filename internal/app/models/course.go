package models

// Course represents a course record with its seat counter and roster.
//
// SeatsAvailable plus the roster length is the course's fixed total capacity;
// it only changes at creation time. All seat mutations go through the
// conditional-update operations on the course repository.
type Course struct {
	ID                 int64    `json:"id" db:"id"`
	CourseCode         string   `json:"courseCode" db:"course_code"`
	CourseName         string   `json:"courseName" db:"course_name"`
	OfferingDepartment string   `json:"offeringDepartment" db:"offering_department"`
	SeatsAvailable     int      `json:"seatsAvailable" db:"seats_available"`
	AccessibleBy       []string `json:"accessibleBy" db:"accessible_by"`
	EnrolledStudents   []string `json:"enrolledStudents" db:"enrolled_students"`
}

// TotalCapacity returns the fixed capacity of the course: free seats plus
// enrolled students.
func (c *Course) TotalCapacity() int {
	return c.SeatsAvailable + len(c.EnrolledStudents)
}

// AccessibleTo reports whether the course is visible to the given department tag.
func (c *Course) AccessibleTo(department string) bool {
	for _, tag := range c.AccessibleBy {
		if tag == department {
			return true
		}
	}
	return false
}
