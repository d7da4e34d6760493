package handler

import (
	"net/http"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/middleware"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type CierreHandler struct {
	cierres service.CierreService
}

func NewCierreHandler(cierres service.CierreService) *CierreHandler {
	return &CierreHandler{cierres: cierres}
}

// Registrar godoc
// @Summary  Registrar el cierre de caja del día
// @Description Congela los totales del día, calcula el saldo esperado y la
// @Description diferencia contra el efectivo contado. Un segundo cierre para
// @Description la misma fecha y cajero responde 409.
// @Tags     cierres
// @Accept   json
// @Produce  json
// @Param    request body dto.RegistrarCierreRequest true "Cierre"
// @Success  201 {object} dto.RegistrarCierreResponse
// @Failure  409 {object} apierror.APIError
// @Security BearerAuth
// @Router   /v1/cierres [post]
func (h *CierreHandler) Registrar(c *gin.Context) {
	var req dto.RegistrarCierreRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	resp, err := h.cierres.Registrar(c.Request.Context(), claims.UserID, req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ObtenerPorFecha godoc
// @Summary  Consultar el cierre de una fecha
// @Description Un día sin cierre responde 200 con cuerpo null, nunca error:
// @Description la ausencia de cierre es un estado válido.
// @Tags     cierres
// @Produce  json
// @Param    fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Success  200 {object} dto.CierreResponse
// @Security BearerAuth
// @Router   /v1/cierres [get]
func (h *CierreHandler) ObtenerPorFecha(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	resp, err := h.cierres.ObtenerPorFecha(c.Request.Context(), fecha)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historial godoc
// @Summary  Historial de cierres en un rango
// @Tags     cierres
// @Produce  json
// @Param    desde query string true "YYYY-MM-DD"
// @Param    hasta query string true "YYYY-MM-DD"
// @Success  200 {array} dto.CierreResponse
// @Security BearerAuth
// @Router   /v1/cierres/historial [get]
func (h *CierreHandler) Historial(c *gin.Context) {
	desde, hasta := c.Query("desde"), c.Query("hasta")
	if desde == "" || hasta == "" {
		c.JSON(http.StatusBadRequest, apierror.New("desde y hasta son requeridos"))
		return
	}
	resp, err := h.cierres.ListarPorRango(c.Request.Context(), desde, hasta)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Comparativo godoc
// @Summary  Comparativo resumen vs. cierre de una fecha
// @Tags     cierres
// @Produce  json
// @Param    fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Success  200 {object} dto.ComparativoDiaResponse
// @Security BearerAuth
// @Router   /v1/cierres/comparativo [get]
func (h *CierreHandler) Comparativo(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	resp, err := h.cierres.ComparativoDia(c.Request.Context(), fecha)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ExportarPDF godoc
// @Summary  Exportar el historial de cierres como PDF
// @Tags     cierres
// @Produce  application/pdf
// @Param    desde query string true "YYYY-MM-DD"
// @Param    hasta query string true "YYYY-MM-DD"
// @Success  200 {file} file
// @Security BearerAuth
// @Router   /v1/cierres/historial/pdf [get]
func (h *CierreHandler) ExportarPDF(c *gin.Context) {
	desde, hasta := c.Query("desde"), c.Query("hasta")
	if desde == "" || hasta == "" {
		c.JSON(http.StatusBadRequest, apierror.New("desde y hasta son requeridos"))
		return
	}
	path, err := h.cierres.ExportarHistorialPDF(c.Request.Context(), desde, hasta)
	if err != nil {
		c.Error(err)
		return
	}
	c.FileAttachment(path, "cierres_"+desde+"_"+hasta+".pdf")
}
