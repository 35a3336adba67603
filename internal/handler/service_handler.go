package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Oggm2/registroServicio/internal/service"
)

// ServiceHandler handles the social service catalog endpoints.
type ServiceHandler struct {
	catalogService service.CatalogService
}

// NewServiceHandler creates a new service handler.
func NewServiceHandler(catalogService service.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalogService: catalogService}
}

// CreateServiceRequest represents a new catalog entry.
type CreateServiceRequest struct {
	Description string `json:"descripcion" validate:"required,max=300"`
	CRN         string `json:"crn" validate:"required"`
	Period      string `json:"periodo" validate:"required"`
	MaxCapacity *int   `json:"cupo_maximo" validate:"omitempty,min=0"`
	PartnerID   *uint  `json:"socio_formador_id"`
}

// UpdateServiceRequest is a partial edit; absent fields stay untouched.
type UpdateServiceRequest struct {
	Description *string `json:"descripcion" validate:"omitempty,max=300"`
	CRN         *string `json:"crn"`
	Period      *string `json:"periodo"`
	MaxCapacity *int    `json:"cupo_maximo" validate:"omitempty,min=0"`
	PartnerID   *uint   `json:"socio_formador_id"`
}

// UpdateCapacityRequest adjusts only the quota.
type UpdateCapacityRequest struct {
	MaxCapacity *int `json:"cupo_maximo" validate:"required,min=0"`
}

// List godoc
// @Summary Listar servicios con cupo
// @Tags servicios
// @Produce json
// @Security BearerAuth
// @Param q query string false "Buscar por descripción o CRN"
// @Param page query int false "Página"
// @Param per_page query int false "Tamaño de página"
// @Success 200 {object} map[string]interface{}
// @Router /servicios [get]
func (h *ServiceHandler) List(c echo.Context) error {
	page, perPage := pageParams(c)
	rows, pagination, err := h.catalogService.List(c.Request().Context(), c.QueryParam("q"), page, perPage)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"servicios":  rows,
		"paginacion": pagination,
	})
}

// Create godoc
// @Summary Crear un servicio
// @Tags servicios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateServiceRequest true "Datos del servicio"
// @Success 201 {object} model.Service
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /servicios [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	var req CreateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.catalogService.Create(c.Request().Context(), service.CreateServiceInput{
		Description: req.Description,
		CRN:         req.CRN,
		Period:      req.Period,
		MaxCapacity: req.MaxCapacity,
		PartnerID:   req.PartnerID,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, svc)
}

// Update godoc
// @Summary Editar un servicio
// @Tags servicios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del servicio"
// @Param request body UpdateServiceRequest true "Campos a editar"
// @Success 200 {object} model.Service
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /servicios/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req UpdateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.catalogService.Update(c.Request().Context(), id, service.UpdateServiceInput{
		Description: req.Description,
		CRN:         req.CRN,
		Period:      req.Period,
		MaxCapacity: req.MaxCapacity,
		PartnerID:   req.PartnerID,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, svc)
}

// UpdateCapacity godoc
// @Summary Ajustar el cupo de un servicio
// @Tags servicios
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del servicio"
// @Param request body UpdateCapacityRequest true "Cupo nuevo"
// @Success 200 {object} model.Service
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /servicios/{id}/cupo [put]
func (h *ServiceHandler) UpdateCapacity(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req UpdateCapacityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cuerpo de la petición inválido")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	svc, err := h.catalogService.UpdateCapacity(c.Request().Context(), id, *req.MaxCapacity)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, svc)
}

// Delete godoc
// @Summary Eliminar un servicio
// @Tags servicios
// @Produce json
// @Security BearerAuth
// @Param id path int true "ID del servicio"
// @Success 200 {object} map[string]string
// @Failure 404 {object} errors.ErrorResponse
// @Router /servicios/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	if err := h.catalogService.Delete(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"mensaje": "servicio eliminado"})
}

// Periods godoc
// @Summary Listar periodos disponibles
// @Tags servicios
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Router /servicios/periodos [get]
func (h *ServiceHandler) Periods(c echo.Context) error {
	periods, err := h.catalogService.Periods(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, periods)
}
