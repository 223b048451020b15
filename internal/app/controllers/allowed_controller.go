package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/seatwise/internal/app/services"
	"github.com/emre/seatwise/internal/middleware"
)

// AllowedController exposes the public enrollment window check
type AllowedController struct {
	settingsService services.SettingsService
}

// NewAllowedController creates a new AllowedController
func NewAllowedController(settingsService services.SettingsService) *AllowedController {
	return &AllowedController{settingsService: settingsService}
}

// Allowed reports whether enrollment is currently open
// @Summary Check whether enrollment is open
// @Tags public
// @Produce json
// @Success 200 {object} dto.AllowedResponse
// @Router /allowed [get]
func (c *AllowedController) Allowed(ctx *gin.Context) {
	status, err := c.settingsService.Status(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, status)
}
