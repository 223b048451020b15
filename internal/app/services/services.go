package services

// Services defined in this package:
// - EnrollmentService: the seat reservation coordinator
// - CourseService: course browsing by department access
// - StudentService: student registration
// - AdminService: bulk creation, resets and aggregate views
// - SettingsService: the enrollment window gate
