package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emre/seatwise/internal/app/controllers"
	"github.com/emre/seatwise/internal/middleware"
	"github.com/emre/seatwise/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	adminController *controllers.AdminController,
	allowedController *controllers.AllowedController,
	wsHandler *websocket.Handler,
	adminAuth *middleware.AdminAuthMiddleware,
) {
	// --- Public routes ---
	router.POST("/register", studentController.Register)
	router.GET("/allowed", allowedController.Allowed)

	courses := router.Group("/courses")
	{
		courses.POST("/select", courseController.SelectCourse)
		courses.POST("/allcourses", courseController.ListByDepartment)
	}

	// --- Admin routes (shared-secret gated) ---
	admin := router.Group("/admin")
	admin.Use(adminAuth.RequireSecret())
	{
		admin.POST("/create", adminController.CreateCourses)
		admin.POST("/reset/:scope", adminController.Reset)
		admin.POST("/users", adminController.Users)
		admin.POST("/users/csv", adminController.UsersCSV)
		admin.POST("/courses", adminController.Courses)
		admin.POST("/settings", adminController.UpdateSettings)
	}

	// --- Realtime seat updates ---
	router.GET("/ws", wsHandler.HandleConnection)

	// Liveness probe
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
