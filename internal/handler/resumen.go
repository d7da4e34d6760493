package handler

import (
	"net/http"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"

	"github.com/gin-gonic/gin"
)

type ResumenHandler struct {
	resumenes service.ResumenService
}

func NewResumenHandler(resumenes service.ResumenService) *ResumenHandler {
	return &ResumenHandler{resumenes: resumenes}
}

// Diario godoc
// @Summary  Resumen de ventas de un día
// @Description Proyección calculada al vuelo sobre las ventas registradas:
// @Description totales por método de pago, por cajero y ranking de productos.
// @Tags     resumen
// @Produce  json
// @Param    fecha query string false "YYYY-MM-DD, por defecto hoy"
// @Success  200 {object} dto.ResumenDiarioResponse
// @Security BearerAuth
// @Router   /v1/resumen/diario [get]
func (h *ResumenHandler) Diario(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		fecha = time.Now().Format("2006-01-02")
	}
	resp, err := h.resumenes.ResumenDiario(c.Request.Context(), fecha)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rango godoc
// @Summary  Resumen de ventas de un rango de fechas
// @Tags     resumen
// @Produce  json
// @Param    desde query string true "YYYY-MM-DD"
// @Param    hasta query string true "YYYY-MM-DD"
// @Success  200 {object} dto.ResumenDiarioResponse
// @Security BearerAuth
// @Router   /v1/resumen/rango [get]
func (h *ResumenHandler) Rango(c *gin.Context) {
	desde, hasta := c.Query("desde"), c.Query("hasta")
	if desde == "" || hasta == "" {
		c.JSON(http.StatusBadRequest, apierror.New("desde y hasta son requeridos"))
		return
	}
	resp, err := h.resumenes.ResumenRango(c.Request.Context(), desde, hasta)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
