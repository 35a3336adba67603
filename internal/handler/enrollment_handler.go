package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/errors"
	"github.com/Oggm2/registroServicio/internal/service"
)

// EnrollmentHandler handles pre-registration endpoints.
type EnrollmentHandler struct {
	enrollmentService service.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(enrollmentService service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentService: enrollmentService}
}

// EnrollRequest represents a pre-registration request. Only staff enroll
// students, always by id.
type EnrollRequest struct {
	CRN       string `json:"crn" validate:"required"`
	StudentID uint   `json:"estudiante_id"`
}

// Enroll godoc
// @Summary Pre-registrar a un estudiante en un servicio
// @Tags preregistros
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EnrollRequest true "CRN del servicio"
// @Success 201 {object} model.Enrollment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /preregistros [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	var req EnrollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if req.StudentID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "estudiante_id es requerido",
			Code:  "STUDENT_ID_REQUIRED",
		})
	}

	enrollment, err := h.enrollmentService.Enroll(c.Request().Context(), req.StudentID, req.CRN)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// Cancel godoc
// @Summary Cancelar un pre-registro
// @Tags preregistros
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del pre-registro"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /preregistros/{id} [delete]
func (h *EnrollmentHandler) Cancel(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	claims := auth.ClaimsFrom(c)
	if err := h.enrollmentService.Cancel(c.Request().Context(), id, claims.UserID, claims.Role); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "pre-registro cancelado"})
}

// List godoc
// @Summary Listar pre-registros
// @Tags preregistros
// @Produce json
// @Security BearerAuth
// @Param periodo query string false "Filtrar por periodo"
// @Param carrera query string false "Filtrar por carrera"
// @Success 200 {array} repository.EnrollmentRow
// @Failure 401 {object} errors.ErrorResponse
// @Router /preregistros [get]
func (h *EnrollmentHandler) List(c echo.Context) error {
	rows, err := h.enrollmentService.List(c.Request().Context(), c.QueryParam("periodo"), c.QueryParam("carrera"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}
