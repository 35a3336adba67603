package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/service"
)

// PartnerHandler handles sponsoring partner endpoints.
type PartnerHandler struct {
	partnerService service.PartnerService
}

// NewPartnerHandler creates a new partner handler.
func NewPartnerHandler(partnerService service.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// PartnerRequest carries the partner name for create and update.
type PartnerRequest struct {
	Name string `json:"nombre" validate:"required,max=200"`
}

// List godoc
// @Summary Listar socios formadores
// @Tags socios-formadores
// @Produce json
// @Security BearerAuth
// @Param q query string false "Buscar por nombre"
// @Param page query int false "Página"
// @Param per_page query int false "Tamaño de página"
// @Success 200 {object} map[string]interface{}
// @Router /socios-formadores [get]
func (h *PartnerHandler) List(c echo.Context) error {
	page, perPage := pageParams(c)
	partners, pagination, err := h.partnerService.List(c.Request().Context(), c.QueryParam("q"), page, perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"socios_formadores": partners,
		"paginacion":        pagination,
	})
}

// Create godoc
// @Summary Crear un socio formador
// @Tags socios-formadores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PartnerRequest true "Nombre"
// @Success 201 {object} model.Partner
// @Failure 409 {object} errors.ErrorResponse
// @Router /socios-formadores [post]
func (h *PartnerHandler) Create(c echo.Context) error {
	var req PartnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	partner, err := h.partnerService.Create(c.Request().Context(), req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, partner)
}

// Update godoc
// @Summary Renombrar un socio formador
// @Tags socios-formadores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del socio"
// @Param request body PartnerRequest true "Nombre nuevo"
// @Success 200 {object} model.Partner
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /socios-formadores/{id} [put]
func (h *PartnerHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req PartnerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	partner, err := h.partnerService.Update(c.Request().Context(), id, req.Name)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, partner)
}

// Delete godoc
// @Summary Eliminar un socio formador
// @Tags socios-formadores
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del socio"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /socios-formadores/{id} [delete]
func (h *PartnerHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.partnerService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "socio formador eliminado"})
}

// Detail godoc
// @Summary Detalle de un socio con sus servicios
// @Tags socios-formadores
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del socio"
// @Success 200 {object} service.PartnerDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /socios-formadores/{id}/detalle [get]
func (h *PartnerHandler) Detail(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	detail, err := h.partnerService.Detail(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, detail)
}

// Stats godoc
// @Summary Totales de servicios e inscritos por socio
// @Tags socios-formadores
// @Produce json
// @Security BearerAuth
// @Success 200 {array} repository.PartnerStatsRow
// @Router /socios-formadores/stats [get]
func (h *PartnerHandler) Stats(c echo.Context) error {
	rows, err := h.partnerService.Stats(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, rows)
}
