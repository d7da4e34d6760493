package handler

import (
	"net/http"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/middleware"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type VentaHandler struct {
	ventas service.VentaService
}

func NewVentaHandler(ventas service.VentaService) *VentaHandler {
	return &VentaHandler{ventas: ventas}
}

// Registrar godoc
// @Summary  Registrar una venta
// @Tags     ventas
// @Accept   json
// @Produce  json
// @Param    request body dto.RegistrarVentaRequest true "Venta"
// @Success  201 {object} dto.VentaResponse
// @Failure  422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router   /v1/ventas [post]
func (h *VentaHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.ventas.Registrar(c.Request.Context(), claims.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary  Listar ventas de una fecha
// @Tags     ventas
// @Produce  json
// @Param    fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Param    page  query int    false "página"
// @Param    limit query int    false "tamaño de página"
// @Success  200 {object} dto.VentaListResponse
// @Security BearerAuth
// @Router   /v1/ventas [get]
func (h *VentaHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parámetros de consulta inválidos"))
		return
	}
	resp, err := h.ventas.Listar(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Obtener godoc
// @Summary  Obtener una venta
// @Tags     ventas
// @Produce  json
// @Param    id path string true "ID de la venta"
// @Success  200 {object} dto.VentaResponse
// @Failure  404 {object} apierror.APIError
// @Security BearerAuth
// @Router   /v1/ventas/{id} [get]
func (h *VentaHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	resp, err := h.ventas.Obtener(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
