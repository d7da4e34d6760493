package handler

import (
	"net/http"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/middleware"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GastoHandler struct {
	gastos service.GastoService
}

func NewGastoHandler(gastos service.GastoService) *GastoHandler {
	return &GastoHandler{gastos: gastos}
}

// Registrar godoc
// @Summary  Registrar un gasto de personal
// @Tags     gastos
// @Accept   json
// @Produce  json
// @Param    request body dto.RegistrarGastoRequest true "Gasto"
// @Success  201 {object} dto.GastoResponse
// @Security BearerAuth
// @Router   /v1/gastos [post]
func (h *GastoHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.gastos.Registrar(c.Request.Context(), claims.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Resolver godoc
// @Summary  Aprobar o rechazar un gasto pendiente
// @Tags     gastos
// @Accept   json
// @Produce  json
// @Param    id      path string                   true "ID del gasto"
// @Param    request body dto.ResolverGastoRequest true "Resolución"
// @Success  200 {object} dto.GastoResponse
// @Security BearerAuth
// @Router   /v1/gastos/{id}/resolver [patch]
func (h *GastoHandler) Resolver(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	var req dto.ResolverGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.gastos.Resolver(c.Request.Context(), id, claims.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary  Listar los gastos de una fecha
// @Tags     gastos
// @Produce  json
// @Param    fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Success  200 {array} dto.GastoResponse
// @Security BearerAuth
// @Router   /v1/gastos [get]
func (h *GastoHandler) Listar(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	resp, err := h.gastos.ListarPorFecha(c.Request.Context(), fecha)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Resumen godoc
// @Summary  Resumen de gastos de una fecha por estado
// @Tags     gastos
// @Produce  json
// @Param    fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Success  200 {object} dto.ResumenGastosResponse
// @Security BearerAuth
// @Router   /v1/gastos/resumen [get]
func (h *GastoHandler) Resumen(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	resp, err := h.gastos.ResumenPorFecha(c.Request.Context(), fecha)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
