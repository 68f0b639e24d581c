package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-management/internal/handler"
	"github.com/iliyamo/school-management/internal/middleware"
)

// RegisterAdmin registers the administrative user-management routes.
// Every route requires a valid access token carrying the Admin role.
func RegisterAdmin(e *echo.Echo, u *handler.UserHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole(RoleAdmin))

	g.GET("/users", u.List)
	g.GET("/users/:id", u.Get)
	g.GET("/users/:id/roles", u.Roles)
	g.POST("/users/:id/roles", u.AssignRole)
	g.DELETE("/users/:id/roles/:role", u.RemoveRole)
	g.POST("/users/:id/activate", u.Activate)
	g.POST("/users/:id/deactivate", u.Deactivate)

	// Housekeeping: purge expired rows from the refresh token ledger.
	g.POST("/tokens/sweep", u.SweepTokens)
}
