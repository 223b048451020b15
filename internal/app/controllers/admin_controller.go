package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/app/services"
	"github.com/emre/seatwise/internal/middleware"
	"github.com/emre/seatwise/internal/pkg/apperrors"
)

// AdminController handles the secret-gated admin surface
type AdminController struct {
	adminService    services.AdminService
	settingsService services.SettingsService
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService services.AdminService, settingsService services.SettingsService) *AdminController {
	return &AdminController{
		adminService:    adminService,
		settingsService: settingsService,
	}
}

// CreateCourses bulk-creates courses
// @Summary Create one or more courses
// @Description Accepts a single course spec or an array of specs. Invalid specs are reported individually; valid ones are still created.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body []dto.CreateCourseRequest true "Course specs"
// @Security AdminSecret
// @Success 200 {object} dto.BulkCreateResponse "All specs created"
// @Success 207 {object} dto.BulkCreateResponse "Partial success"
// @Failure 400 {object} dto.BulkCreateResponse "Nothing created"
// @Failure 401 {object} dto.ErrorResponse "Missing or wrong admin secret"
// @Router /admin/create [post]
func (c *AdminController) CreateCourses(ctx *gin.Context) {
	specs, err := decodeCourseSpecs(ctx)
	if err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	created, specErrors, err := c.adminService.BulkCreateCourses(ctx, specs)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.BulkCreateResponse{
		Created: mapCourseSummaries(created),
		Errors:  specErrors,
	}

	switch {
	case len(specErrors) == 0:
		ctx.JSON(http.StatusOK, resp)
	case len(created) == 0:
		ctx.JSON(http.StatusBadRequest, resp)
	default:
		ctx.JSON(http.StatusMultiStatus, resp)
	}
}

// decodeCourseSpecs accepts either a bare spec object or an array of specs.
func decodeCourseSpecs(ctx *gin.Context) ([]dto.CreateCourseRequest, error) {
	raw, err := ctx.GetRawData()
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty request body")
	}

	if trimmed[0] == '[' {
		var specs []dto.CreateCourseRequest
		if err := json.Unmarshal(raw, &specs); err != nil {
			return nil, err
		}
		if len(specs) == 0 {
			return nil, fmt.Errorf("empty course list")
		}
		return specs, nil
	}

	var spec dto.CreateCourseRequest
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, err
	}
	return []dto.CreateCourseRequest{spec}, nil
}

// Reset clears courses, users or both
// @Summary Reset stored data
// @Tags admin
// @Produce json
// @Param scope path string true "Reset scope" Enums(all, courses, users)
// @Security AdminSecret
// @Success 200 {object} map[string]string "Reset done"
// @Failure 400 {object} dto.ErrorResponse "Unknown scope"
// @Failure 401 {object} dto.ErrorResponse "Missing or wrong admin secret"
// @Router /admin/reset/{scope} [post]
func (c *AdminController) Reset(ctx *gin.Context) {
	scope := services.ResetScope(ctx.Param("scope"))
	switch scope {
	case services.ScopeAll, services.ScopeCourses, services.ScopeUsers:
	default:
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(
			apperrors.ErrBadRequest, fmt.Sprintf("unknown reset scope %q", scope)))
		return
	}

	if err := c.adminService.Reset(ctx, scope); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "reset done", "scope": string(scope)})
}

// Users returns aggregate user statistics
// @Summary User registration statistics
// @Tags admin
// @Produce json
// @Security AdminSecret
// @Success 200 {object} dto.UserStatsResponse
// @Failure 401 {object} dto.ErrorResponse "Missing or wrong admin secret"
// @Router /admin/users [post]
func (c *AdminController) Users(ctx *gin.Context) {
	stats, err := c.adminService.UserStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// UsersCSV streams the user roster as CSV
// @Summary Export users as CSV
// @Tags admin
// @Produce text/csv
// @Security AdminSecret
// @Success 200 {string} string "CSV payload"
// @Failure 401 {object} dto.ErrorResponse "Missing or wrong admin secret"
// @Router /admin/users/csv [post]
func (c *AdminController) UsersCSV(ctx *gin.Context) {
	filename := fmt.Sprintf("users-%s.csv", time.Now().UTC().Format("2006-01-02"))
	ctx.Header("Content-Type", "text/csv")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Status(http.StatusOK)

	if err := c.adminService.ExportUsersCSV(ctx, ctx.Writer); err != nil {
		// Headers are already out; abort the stream instead of rewriting the status.
		_ = ctx.Error(err)
	}
}

// Courses returns per-course fill statistics
// @Summary Course fill statistics
// @Tags admin
// @Produce json
// @Security AdminSecret
// @Success 200 {array} dto.CourseStats
// @Failure 401 {object} dto.ErrorResponse "Missing or wrong admin secret"
// @Router /admin/courses [post]
func (c *AdminController) Courses(ctx *gin.Context) {
	stats, err := c.adminService.CourseStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// UpdateSettings patches the enrollment window settings
// @Summary Update enrollment window settings
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.UpdateSettingsRequest true "Settings patch"
// @Security AdminSecret
// @Success 200 {object} models.AdminSettings
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Missing or wrong admin secret"
// @Router /admin/settings [post]
func (c *AdminController) UpdateSettings(ctx *gin.Context) {
	var req dto.UpdateSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	settings, err := c.settingsService.Update(ctx, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, settings)
}
