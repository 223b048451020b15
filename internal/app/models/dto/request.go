package dto

import "time"

// SelectCourseRequest is the body of POST /courses/select.
type SelectCourseRequest struct {
	CourseID string `json:"courseId" binding:"required" example:"cs101"`
	Email    string `json:"email" binding:"required,email" example:"22cs101@school.edu"`
}

// ListCoursesRequest is the body of POST /courses/allcourses.
type ListCoursesRequest struct {
	Department string `json:"department" binding:"required" example:"cs"`
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100" example:"Jane Doe"`
	Email      string `json:"email" binding:"required,email" example:"22cs101@school.edu"`
	RegisterID string `json:"registerId" binding:"required" example:"2022103045"`
}

// CreateCourseRequest describes one course spec for POST /admin/create.
// The endpoint accepts either a single spec or an array of them.
type CreateCourseRequest struct {
	CourseCode         string   `json:"courseCode" binding:"required" example:"cs101"`
	CourseName         string   `json:"courseName" binding:"required" example:"introduction to computer science"`
	OfferingDepartment string   `json:"offeringDepartment" binding:"required" example:"cs"`
	SeatsAvailable     *int     `json:"seatsAvailable,omitempty" binding:"omitempty,min=0" example:"60"`
	AccessibleBy       []string `json:"accessibleBy" binding:"required,min=1"`
}

// UpdateSettingsRequest is the patch body of POST /admin/settings. Absent
// fields are left unchanged.
type UpdateSettingsRequest struct {
	AllowedDateTime *time.Time `json:"allowedDateTime,omitempty" example:"2026-09-01T08:00:00Z"`
	IsEnabled       *bool      `json:"isEnabled,omitempty" example:"true"`
}
