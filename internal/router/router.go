package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/config"
	"github.com/Oggm2/registroServicio/internal/handler"
	"github.com/Oggm2/registroServicio/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	studentHandler *handler.StudentHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	serviceHandler *handler.ServiceHandler,
	attendanceHandler *handler.AttendanceHandler,
	partnerHandler *handler.PartnerHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes. Credential endpoints are rate limited per client IP.
	loginLimit := rateLimiter(rate.Limit(5.0 / 60.0), 5)
	registerLimit := rateLimiter(rate.Limit(3.0 / 60.0), 3)

	api.POST("/auth/login", authHandler.Login, loginLimit)
	api.POST("/auth/register", authHandler.Register, registerLimit)
	api.POST("/auth/forgot-password", authHandler.ForgotPassword, registerLimit)
	api.POST("/auth/reset-password", authHandler.ResetPassword, loginLimit)
	api.GET("/carreras", studentHandler.Careers)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return &auth.Claims{}
		},
	}))

	anyRole := auth.RequireRoles(model.RoleAdmin, model.RoleStaff, model.RoleStudent)
	staffUp := auth.RequireRoles(model.RoleAdmin, model.RoleStaff)
	adminOnly := auth.RequireRoles(model.RoleAdmin)

	secured.GET("/auth/me", authHandler.Me, anyRole)
	secured.POST("/auth/change-password", authHandler.ChangePassword, anyRole)

	// Student self-service
	secured.GET("/estudiantes/perfil", studentHandler.Profile, auth.RequireRoles(model.RoleStudent))
	secured.PUT("/estudiantes/perfil", studentHandler.UpdateProfile, auth.RequireRoles(model.RoleStudent))
	secured.GET("/estudiantes/mis-proyectos", studentHandler.MyEnrollments, auth.RequireRoles(model.RoleStudent))
	secured.GET("/estudiantes/buscar", studentHandler.Search, staffUp)

	// Catalog
	secured.GET("/servicios", serviceHandler.List, anyRole)
	secured.GET("/servicios/periodos", serviceHandler.Periods, anyRole)
	secured.POST("/servicios", serviceHandler.Create, adminOnly)
	secured.PUT("/servicios/:id", serviceHandler.Update, adminOnly)
	secured.PUT("/servicios/:id/cupo", serviceHandler.UpdateCapacity, adminOnly)
	secured.DELETE("/servicios/:id", serviceHandler.Delete, adminOnly)

	// Pre-registration (created by staff on behalf of students)
	secured.POST("/preregistros", enrollmentHandler.Enroll, staffUp)
	secured.DELETE("/preregistros/:id", enrollmentHandler.Cancel, anyRole)
	secured.GET("/preregistros", enrollmentHandler.List, staffUp)

	// Fair attendance
	secured.POST("/asistencias-feria", attendanceHandler.Register, auth.RequireRoles(model.RoleStudent))
	secured.GET("/asistencias-feria/mi-registro", attendanceHandler.Check, auth.RequireRoles(model.RoleStudent))
	secured.PUT("/asistencias-feria/:id", attendanceHandler.Reschedule, anyRole)
	secured.PUT("/asistencias-feria/:id/validar", attendanceHandler.Validate, staffUp)
	secured.GET("/asistencias-feria/dentro", attendanceHandler.Occupancy, staffUp)

	// Partners
	secured.GET("/socios-formadores", partnerHandler.List, staffUp)
	secured.GET("/socios-formadores/stats", partnerHandler.Stats, staffUp)
	secured.GET("/socios-formadores/:id/detalle", partnerHandler.Detail, staffUp)
	secured.POST("/socios-formadores", partnerHandler.Create, adminOnly)
	secured.PUT("/socios-formadores/:id", partnerHandler.Update, adminOnly)
	secured.DELETE("/socios-formadores/:id", partnerHandler.Delete, adminOnly)

	// Dashboard and exports
	secured.GET("/dashboard/stats", adminHandler.Dashboard, adminOnly)
	secured.GET("/reportes/estudiantes", adminHandler.StudentReport, adminOnly)
	secured.GET("/reportes/preregistros", adminHandler.EnrollmentReport, adminOnly)

	// Account management
	secured.GET("/admin/estudiantes", adminHandler.ListStudents, adminOnly)
	secured.POST("/admin/estudiantes", adminHandler.CreateStudent, adminOnly)
	secured.DELETE("/admin/estudiantes/:id", adminHandler.DeleteStudent, adminOnly)
	secured.GET("/admin/becarios", adminHandler.ListStaff, adminOnly)
	secured.POST("/admin/becarios", adminHandler.CreateStaff, adminOnly)
	secured.DELETE("/admin/becarios/:id", adminHandler.DeleteStaff, adminOnly)
	secured.POST("/admin/usuarios/:id/reset-password", adminHandler.ResetUserPassword, adminOnly)
}

// rateLimiter builds an in-memory per-IP limiter for credential endpoints.
func rateLimiter(limit rate.Limit, burst int) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:  limit,
			Burst: burst,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "demasiadas peticiones, intenta más tarde")
		},
	})
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
