package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/seatwise/internal/app/models"
	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/app/services"
	"github.com/emre/seatwise/internal/middleware"
)

// CourseController handles course browsing and seat selection
type CourseController struct {
	courseService     services.CourseService
	enrollmentService services.EnrollmentService
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService services.CourseService, enrollmentService services.EnrollmentService) *CourseController {
	return &CourseController{
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// SelectCourse claims a seat in a course
// @Summary Reserve a seat in a course
// @Description Atomically claims one seat of the course for the student. Exactly one of two racing requests for the last seat succeeds.
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.SelectCourseRequest true "Course and student"
// @Success 200 {object} dto.SelectCourseResponse "Seat reserved"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 412 {string} string "No seats, unknown course or unknown student"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/select [post]
func (c *CourseController) SelectCourse(ctx *gin.Context) {
	var req dto.SelectCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	seatsAvailable, err := c.enrollmentService.Reserve(ctx, req.CourseID, req.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SelectCourseResponse{SeatsAvailable: seatsAvailable})
}

// ListByDepartment lists courses accessible to a department
// @Summary List courses accessible to a department
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.ListCoursesRequest true "Department tag"
// @Success 200 {array} dto.CourseSummary "Accessible courses"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {array} dto.CourseSummary "No accessible courses"
// @Router /courses/allcourses [post]
func (c *CourseController) ListByDepartment(ctx *gin.Context) {
	var req dto.ListCoursesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	courses, err := c.courseService.ListByDepartment(ctx, req.Department)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	summaries := mapCourseSummaries(courses)
	if len(summaries) == 0 {
		ctx.JSON(http.StatusNotFound, summaries)
		return
	}

	ctx.JSON(http.StatusOK, summaries)
}

func mapCourseSummaries(courses []*models.Course) []dto.CourseSummary {
	summaries := make([]dto.CourseSummary, 0, len(courses))
	for _, course := range courses {
		summaries = append(summaries, dto.CourseSummary{
			CourseID:       course.CourseCode,
			CourseName:     course.CourseName,
			SeatsAvailable: course.SeatsAvailable,
		})
	}
	return summaries
}
