package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/school-management/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/school-management/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Role names used by the authorization middleware.  Roles are created
// on demand when assigned, but these three are the ones routes care
// about.
const (
	RoleAdmin   = "Admin"
	RoleTeacher = "Teacher"
	RoleStudent = "Student"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// The /healthz endpoint can be used by load balancers or monitoring
	// systems to verify that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication‑related routes and applies
// the necessary middleware.  Unauthenticated operations live under
// /v1/auth, while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, u *handler.UserHandler, jwtSecret string) {
	// Operations that do not require an existing session: register,
	// login, refresh and the password reset flow.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token: the presented token is marked
	// used and a brand new pair is returned.
	g.POST("/refresh", a.Refresh)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)

	// Routes that require a valid access token.  The JWTAuth middleware
	// populates user_id, email and roles in the request context.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Logout is authenticated: it revokes every refresh token that
	// belongs to the caller, terminating all of their sessions.
	auth.POST("/auth/logout", a.Logout)
	auth.POST("/auth/change-password", a.ChangePassword)
	auth.GET("/me", u.Me)
	auth.PATCH("/me", u.UpdateMe)
}
