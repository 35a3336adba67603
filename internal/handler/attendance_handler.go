package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/auth"
	"github.com/Oggm2/registroServicio/internal/model"
	"github.com/Oggm2/registroServicio/internal/service"
)

// AttendanceHandler handles fair attendance endpoints.
type AttendanceHandler struct {
	attendanceService service.AttendanceService
}

// NewAttendanceHandler creates a new attendance handler.
func NewAttendanceHandler(attendanceService service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceService: attendanceService}
}

// RegisterAttendanceRequest books a time slot at the fair.
type RegisterAttendanceRequest struct {
	TimeSlot string `json:"horario_seleccionado" validate:"required"`
}

// ValidateAttendanceRequest moves a record to a new status.
type ValidateAttendanceRequest struct {
	Status string `json:"estatus_asistencia" validate:"required"`
}

// Register godoc
// @Summary Registrar asistencia a la feria
// @Tags asistencias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RegisterAttendanceRequest true "Horario elegido"
// @Success 201 {object} model.AttendanceRecord
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /asistencias-feria [post]
func (h *AttendanceHandler) Register(c echo.Context) error {
	var req RegisterAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := auth.ClaimsFrom(c)
	record, err := h.attendanceService.Register(c.Request().Context(), claims.UserID, req.TimeSlot)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, record)
}

// Check godoc
// @Summary Consultar el registro de asistencia propio
// @Tags asistencias
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /asistencias-feria/mi-registro [get]
func (h *AttendanceHandler) Check(c echo.Context) error {
	claims := auth.ClaimsFrom(c)
	record, err := h.attendanceService.Check(c.Request().Context(), claims.UserID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"registrado": record != nil,
		"registro":   record,
	})
}

// Reschedule godoc
// @Summary Cambiar el horario elegido
// @Tags asistencias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del registro"
// @Param request body RegisterAttendanceRequest true "Horario nuevo"
// @Success 200 {object} model.AttendanceRecord
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /asistencias-feria/{id} [put]
func (h *AttendanceHandler) Reschedule(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req RegisterAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	claims := auth.ClaimsFrom(c)
	record, err := h.attendanceService.Reschedule(c.Request().Context(), id, claims.UserID, claims.Role, req.TimeSlot)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// Validate godoc
// @Summary Validar la asistencia de un estudiante
// @Tags asistencias
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del registro"
// @Param request body ValidateAttendanceRequest true "Estatus nuevo"
// @Success 200 {object} model.AttendanceRecord
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /asistencias-feria/{id}/validar [put]
func (h *AttendanceHandler) Validate(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req ValidateAttendanceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	record, err := h.attendanceService.Validate(c.Request().Context(), id, model.AttendanceStatus(req.Status))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, record)
}

// Occupancy godoc
// @Summary Ocupación actual de la feria
// @Tags asistencias
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.FairOccupancy
// @Router /asistencias-feria/dentro [get]
func (h *AttendanceHandler) Occupancy(c echo.Context) error {
	occupancy, err := h.attendanceService.Occupancy(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, occupancy)
}
