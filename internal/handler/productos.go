package handler

import (
	"net/http"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductoHandler struct {
	productos service.ProductoService
}

func NewProductoHandler(productos service.ProductoService) *ProductoHandler {
	return &ProductoHandler{productos: productos}
}

func (h *ProductoHandler) Crear(c *gin.Context) {
	var req dto.CrearProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.productos.Crear(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductoHandler) Actualizar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	var req dto.ActualizarProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.productos.Actualizar(c.Request.Context(), id, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar godoc
// @Summary  Listar el catálogo
// @Tags     productos
// @Produce  json
// @Param    incluir_inactivos query bool false "incluye productos desactivados"
// @Success  200 {array} dto.ProductoResponse
// @Security BearerAuth
// @Router   /v1/productos [get]
func (h *ProductoHandler) Listar(c *gin.Context) {
	incluirInactivos := c.Query("incluir_inactivos") == "true"
	resp, err := h.productos.Listar(c.Request.Context(), incluirInactivos)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductoHandler) Desactivar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("id inválido"))
		return
	}
	if err := h.productos.Desactivar(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProductoHandler) CrearCategoria(c *gin.Context) {
	var req dto.CategoriaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.productos.CrearCategoria(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductoHandler) ListarCategorias(c *gin.Context) {
	resp, err := h.productos.ListarCategorias(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
