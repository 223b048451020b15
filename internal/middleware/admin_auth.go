package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/seatwise/internal/app/models/dto"
)

// AdminAuthMiddleware gates the admin surface behind a shared secret.
type AdminAuthMiddleware struct {
	secret string
}

// NewAdminAuthMiddleware creates a new AdminAuthMiddleware
func NewAdminAuthMiddleware(secret string) *AdminAuthMiddleware {
	return &AdminAuthMiddleware{secret: secret}
}

// RequireSecret aborts with 401 unless the Authorization header matches the
// configured shared secret exactly.
func (m *AdminAuthMiddleware) RequireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(m.secret)) != 1 {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Missing or incorrect admin secret")
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}
