package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/fitness-tracker/internal/handler"
	"github.com/iliyamo/fitness-tracker/internal/middleware"
	"github.com/iliyamo/fitness-tracker/internal/model"
)

// RegisterUsers registers the user resource under /v1/users.  All routes
// require a valid JWT; per-resource ownership decisions happen inside the
// handlers, while the role-change endpoint carries an additional admin
// gate at the routing level.
func RegisterUsers(e *echo.Echo, h *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1/users", middleware.JWTAuth(jwtSecret))

	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	// Role transitions are admin-only before the handler even runs; the
	// self-demotion rail is enforced inside UpdateRole.
	g.PUT("/:id/role", h.UpdateRole, middleware.RequireRole(model.RoleAdmin))
}
