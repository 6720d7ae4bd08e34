package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/handler"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
)

// RegisterWorkouts registers the workout resource under /v1/workouts.  All
// routes require a valid JWT.  Ownership scoping (own workouts only unless
// admin) is applied inside the handlers and queries.
func RegisterWorkouts(e *echo.Echo, h *handler.WorkoutHandler, jwtSecret string) {
	g := e.Group("/v1/workouts", middleware.JWTAuth(jwtSecret))

	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}
