package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/export"
	"github.com/Oggm2/registroServicio/internal/service"
)

// AdminHandler handles the dashboard, exports and account management.
type AdminHandler struct {
	statsService   service.StatsService
	studentService service.StudentService
	authService    service.AuthService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(
	statsService service.StatsService,
	studentService service.StudentService,
	authService service.AuthService,
) *AdminHandler {
	return &AdminHandler{
		statsService:   statsService,
		studentService: studentService,
		authService:    authService,
	}
}

// CreateStudentRequest is the admin variant of student registration.
type CreateStudentRequest struct {
	Username  string `json:"username" validate:"required,min=4,max=80"`
	Password  string `json:"password" validate:"required,min=6"`
	FullName  string `json:"nombre_completo" validate:"required"`
	Matricula string `json:"matricula" validate:"required"`
	CareerID  uint   `json:"carrera_id" validate:"required"`
	Phone     string `json:"celular"`
	AltEmail  string `json:"correo_alterno" validate:"omitempty,email"`
}

// CreateStaffRequest opens a staff account.
type CreateStaffRequest struct {
	Username string `json:"username" validate:"required,min=4,max=80"`
	Password string `json:"password" validate:"required,min=6"`
}

// AdminResetPasswordRequest sets a user's password directly.
type AdminResetPasswordRequest struct {
	NewPassword string `json:"password_nueva" validate:"required,min=6"`
}

// Dashboard godoc
// @Summary Estadísticas del dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param periodo query string false "Filtrar por periodo"
// @Success 200 {object} service.Dashboard
// @Router /dashboard/stats [get]
func (h *AdminHandler) Dashboard(c echo.Context) error {
	dashboard, err := h.statsService.Dashboard(c.Request().Context(), c.QueryParam("periodo"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}

// StudentReport godoc
// @Summary Exportar el reporte de estudiantes
// @Tags reportes
// @Produce octet-stream
// @Security BearerAuth
// @Param formato query string false "csv o excel" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} errors.ErrorResponse
// @Router /reportes/estudiantes [get]
func (h *AdminHandler) StudentReport(c echo.Context) error {
	header, rows, err := h.statsService.StudentReportRows(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return h.download(c, "estudiantes", "Estudiantes", header, rows)
}

// EnrollmentReport godoc
// @Summary Exportar el reporte de pre-registros
// @Tags reportes
// @Produce octet-stream
// @Security BearerAuth
// @Param formato query string false "csv o excel" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} errors.ErrorResponse
// @Router /reportes/preregistros [get]
func (h *AdminHandler) EnrollmentReport(c echo.Context) error {
	header, rows, err := h.statsService.EnrollmentReportRows(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return h.download(c, "preregistros", "Preregistros", header, rows)
}

func (h *AdminHandler) download(c echo.Context, name, sheet string, header []string, rows [][]string) error {
	exporter, err := export.New(c.QueryParam("formato"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	data, err := exporter.Render(sheet, header, rows)
	if err != nil {
		return httpError(err)
	}

	filename := fmt.Sprintf("%s.%s", name, exporter.Extension())
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Blob(http.StatusOK, exporter.ContentType(), data)
}

// ListStudents godoc
// @Summary Listar estudiantes
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Buscar por nombre, matrícula o usuario"
// @Param page query int false "Página"
// @Param per_page query int false "Tamaño de página"
// @Success 200 {object} map[string]interface{}
// @Router /admin/estudiantes [get]
func (h *AdminHandler) ListStudents(c echo.Context) error {
	page, perPage := pageParams(c)
	rows, pagination, err := h.studentService.ListStudents(c.Request().Context(), c.QueryParam("q"), page, perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"estudiantes": rows,
		"paginacion":  pagination,
	})
}

// CreateStudent godoc
// @Summary Dar de alta un estudiante
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStudentRequest true "Datos del estudiante"
// @Success 201 {object} model.Student
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/estudiantes [post]
func (h *AdminHandler) CreateStudent(c echo.Context) error {
	var req CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.studentService.CreateStudent(c.Request().Context(), service.CreateStudentInput{
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		Matricula: req.Matricula,
		CareerID:  req.CareerID,
		Phone:     req.Phone,
		AltEmail:  req.AltEmail,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, student)
}

// DeleteStudent godoc
// @Summary Dar de baja un estudiante
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del estudiante"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/estudiantes/{id} [delete]
func (h *AdminHandler) DeleteStudent(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.studentService.DeleteStudent(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "estudiante eliminado"})
}

// ListStaff godoc
// @Summary Listar becarios
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página"
// @Param per_page query int false "Tamaño de página"
// @Success 200 {object} map[string]interface{}
// @Router /admin/becarios [get]
func (h *AdminHandler) ListStaff(c echo.Context) error {
	page, perPage := pageParams(c)
	users, pagination, err := h.authService.ListStaff(c.Request().Context(), page, perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"becarios":   users,
		"paginacion": pagination,
	})
}

// CreateStaff godoc
// @Summary Dar de alta un becario
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStaffRequest true "Credenciales"
// @Success 201 {object} model.User
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/becarios [post]
func (h *AdminHandler) CreateStaff(c echo.Context) error {
	var req CreateStaffRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.CreateStaff(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// DeleteStaff godoc
// @Summary Dar de baja un becario
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del usuario"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/becarios/{id} [delete]
func (h *AdminHandler) DeleteStaff(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.authService.DeleteStaff(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "becario eliminado"})
}

// ResetUserPassword godoc
// @Summary Restablecer la contraseña de un usuario
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del usuario"
// @Param request body AdminResetPasswordRequest true "Contraseña nueva"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/usuarios/{id}/reset-password [post]
func (h *AdminHandler) ResetUserPassword(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req AdminResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ResetUserPassword(c.Request().Context(), id, req.NewPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "contraseña restablecida"})
}
