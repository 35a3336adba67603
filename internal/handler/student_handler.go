package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/service"
)

// StudentHandler handles student profile and directory endpoints.
type StudentHandler struct {
	studentService service.StudentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(studentService service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// UpdateProfileRequest carries the student-editable profile fields.
type UpdateProfileRequest struct {
	Phone    *string `json:"celular"`
	AltEmail *string `json:"correo_alterno" validate:"omitempty,email"`
}

// Profile godoc
// @Summary Perfil del estudiante autenticado
// @Tags estudiantes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.Student
// @Failure 404 {object} errors.ErrorResponse
// @Router /estudiantes/perfil [get]
func (h *StudentHandler) Profile(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	student, err := h.studentService.Profile(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, student)
}

// UpdateProfile godoc
// @Summary Editar el perfil propio
// @Tags estudiantes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Campos editables"
// @Success 200 {object} model.Student
// @Failure 409 {object} errors.ErrorResponse
// @Router /estudiantes/perfil [put]
func (h *StudentHandler) UpdateProfile(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := auth.ClaimsFrom(c)
	student, err := h.studentService.UpdateProfile(c.Request().Context(), claims.UserID, service.UpdateProfileInput{
		Phone:    req.Phone,
		AltEmail: req.AltEmail,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, student)
}

// MyEnrollments godoc
// @Summary Pre-registros del estudiante autenticado
// @Tags estudiantes
// @Produce json
// @Security BearerAuth
// @Param periodo query string false "Filtrar por periodo"
// @Success 200 {array} repository.StudentEnrollmentRow
// @Failure 404 {object} errors.ErrorResponse
// @Router /estudiantes/mis-proyectos [get]
func (h *StudentHandler) MyEnrollments(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	rows, err := h.studentService.MyEnrollments(c.Request().Context(), claims.UserID, c.QueryParam("periodo"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Search godoc
// @Summary Buscar estudiantes por matrícula o nombre
// @Tags estudiantes
// @Produce json
// @Security BearerAuth
// @Param q query string true "Matrícula o nombre"
// @Success 200 {array} service.StudentSearchResult
// @Failure 400 {object} errors.ErrorResponse
// @Router /estudiantes/buscar [get]
func (h *StudentHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "el parámetro q es requerido",
			Code:  "QUERY_REQUIRED",
		})
	}

	results, err := h.studentService.Search(c.Request().Context(), q)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, results)
}

// Careers godoc
// @Summary Catálogo de carreras
// @Tags estudiantes
// @Produce json
// @Success 200 {array} model.Career
// @Router /carreras [get]
func (h *StudentHandler) Careers(c echo.Context) error {
	careers, err := h.studentService.ListCareers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, careers)
}
