package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/school-management/internal/handler"
	"github.com/iliyamo/school-management/internal/middleware"
)

// RegisterRecords registers the student and teacher record endpoints.
// Reads are open to any authenticated staff member or student; writes
// are restricted to Admin and Teacher roles.
func RegisterRecords(e *echo.Echo, s *handler.StudentHandler, t *handler.TeacherHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))

	staff := middleware.RequireRole(RoleAdmin, RoleTeacher)

	g.GET("/students", s.List)
	g.GET("/students/:id", s.Get)
	g.POST("/students", s.Create, staff)
	g.PUT("/students/:id", s.Update, staff)
	g.DELETE("/students/:id", s.Delete, staff)

	g.GET("/teachers", t.List)
	g.GET("/teachers/:id", t.Get)
	g.POST("/teachers", t.Create, staff)
	g.PUT("/teachers/:id", t.Update, staff)
	// Only an Admin may remove a teacher record.
	g.DELETE("/teachers/:id", t.Delete, middleware.RequireRole(RoleAdmin))
}
