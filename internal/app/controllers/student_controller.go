package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/app/services"
	"github.com/emre/seatwise/internal/middleware"
)

// StudentController handles student registration
type StudentController struct {
	studentService services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Register creates a student account
// @Summary Register a student
// @Description Creates a student record and returns it. The department tag is derived from the email identifier.
// @Tags students
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Student details"
// @Success 200 {object} models.Student "Created student record"
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 412 {string} string "Email already registered"
// @Router /register [post]
func (c *StudentController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	student, err := c.studentService.Register(ctx, req.Name, req.Email, req.RegisterID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, student)
}
