package dto

import "time"

// SelectCourseResponse is returned on a successful seat reservation.
type SelectCourseResponse struct {
	SeatsAvailable int `json:"seatsAvailable" example:"59"`
}

// CourseSummary is the per-course entry of POST /courses/allcourses.
type CourseSummary struct {
	CourseID       string `json:"courseId" example:"cs101"`
	CourseName     string `json:"courseName" example:"introduction to computer science"`
	SeatsAvailable int    `json:"seatsAvailable" example:"42"`
}

// AllowedResponse is returned by GET /allowed.
type AllowedResponse struct {
	Allowed         bool      `json:"allowed" example:"true"`
	CurrentTime     time.Time `json:"currentTime"`
	AllowedDateTime time.Time `json:"allowedDateTime"`
	IsEnabled       bool      `json:"isEnabled" example:"true"`
}

// BulkCreateError reports why one spec of a bulk create was rejected.
type BulkCreateError struct {
	CourseCode string `json:"courseCode" example:"cs101"`
	Error      string `json:"error" example:"course already exists"`
}

// BulkCreateResponse is the body of POST /admin/create. Status is 200 when
// Errors is empty, 207 on partial success and 400 when nothing was created.
type BulkCreateResponse struct {
	Created []CourseSummary   `json:"created"`
	Errors  []BulkCreateError `json:"errors,omitempty"`
}

// UserStatsResponse is the aggregate view of POST /admin/users.
type UserStatsResponse struct {
	TotalUsers      int64   `json:"totalUsers" example:"240"`
	OptedUsers      int64   `json:"optedUsers" example:"180"`
	OptedPercentage float64 `json:"optedPercentage" example:"75"`
}

// CourseStats is one row of the POST /admin/courses dashboard view.
type CourseStats struct {
	CourseID       string  `json:"courseId" example:"cs101"`
	CourseName     string  `json:"courseName" example:"introduction to computer science"`
	SeatsAvailable int     `json:"seatsAvailable" example:"12"`
	Enrolled       int     `json:"enrolled" example:"48"`
	Capacity       int     `json:"capacity" example:"60"`
	FillPercentage float64 `json:"fillPercentage" example:"80"`
}
