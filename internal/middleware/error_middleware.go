package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/seatwise/internal/app/models/dto"
	"github.com/emre/seatwise/internal/pkg/apperrors"
	"github.com/emre/seatwise/internal/pkg/logger"
)

// HandleAPIError converts service errors to the HTTP taxonomy at the route
// boundary. Reservation and duplicate failures surface as 412 with a text
// body; validation problems as 400; everything unexpected is logged with
// detail server-side and surfaced as a generic 500.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNoSeatsOrNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrAlreadyEnrolled),
		errors.Is(err, apperrors.ErrStudentAlreadyExists):
		c.String(http.StatusPreconditionFailed, err.Error())
		return

	case errors.Is(err, apperrors.ErrCourseNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Course not found")))
		return

	case errors.Is(err, apperrors.ErrCourseAlreadyExists):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, err.Error())))
		return

	case errors.Is(err, apperrors.ErrInvalidStudentEmail),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error())))
		return

	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Unauthorized")))
		return

	default:
		logger.Error().
			Err(err).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Msg("Unhandled error at route boundary")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
		return
	}
}
