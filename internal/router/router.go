package router

import (
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/config"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/handler"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Health    *handler.HealthHandler
	Auth      *handler.AuthHandler
	Ventas    *handler.VentaHandler
	Resumen   *handler.ResumenHandler
	Cierres   *handler.CierreHandler
	Gastos    *handler.GastoHandler
	Productos *handler.ProductoHandler
}

// New builds the gin engine with the full middleware chain and route table.
// Route access by rol: cajeros operate the register, supervisores resuelven
// gastos y revisan cierres, administradores gestionan usuarios. RequireRole
// siempre deja pasar al administrador.
func New(cfg *config.Config, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Recovery(),
		middleware.ErrorHandler(),
		middleware.CORS(),
	)

	engine.GET("/health/live", h.Health.Live)
	engine.GET("/health/ready", h.Health.Ready)

	if cfg.Env != "production" {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := engine.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/login", middleware.RateLimit(5, time.Minute), h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)

	priv := v1.Group("")
	priv.Use(middleware.JWTAuth(cfg.JWTSecret))

	ventas := priv.Group("/ventas")
	ventas.POST("", h.Ventas.Registrar)
	ventas.GET("", h.Ventas.Listar)
	ventas.GET("/:id", h.Ventas.Obtener)

	resumen := priv.Group("/resumen")
	resumen.GET("/diario", h.Resumen.Diario)
	resumen.GET("/rango", h.Resumen.Rango)

	cierres := priv.Group("/cierres")
	cierres.POST("", h.Cierres.Registrar)
	cierres.GET("", h.Cierres.ObtenerPorFecha)
	cierres.GET("/comparativo", h.Cierres.Comparativo)
	cierres.GET("/historial", middleware.RequireRole("supervisor"), h.Cierres.Historial)
	cierres.GET("/historial/pdf", middleware.RequireRole("supervisor"), h.Cierres.ExportarPDF)

	gastos := priv.Group("/gastos")
	gastos.POST("", h.Gastos.Registrar)
	gastos.GET("", h.Gastos.Listar)
	gastos.GET("/resumen", h.Gastos.Resumen)
	gastos.PATCH("/:id/resolver", middleware.RequireRole("supervisor"), h.Gastos.Resolver)

	productos := priv.Group("/productos")
	productos.GET("", h.Productos.Listar)
	productos.GET("/categorias", h.Productos.ListarCategorias)
	productos.POST("", middleware.RequireRole("supervisor"), h.Productos.Crear)
	productos.PUT("/:id", middleware.RequireRole("supervisor"), h.Productos.Actualizar)
	productos.DELETE("/:id", middleware.RequireRole("supervisor"), h.Productos.Desactivar)
	productos.POST("/categorias", middleware.RequireRole("supervisor"), h.Productos.CrearCategoria)

	usuarios := priv.Group("/usuarios", middleware.RequireRole("administrador"))
	usuarios.GET("", h.Auth.ListarUsuarios)
	usuarios.POST("", h.Auth.CrearUsuario)
	usuarios.PUT("/:id", h.Auth.ActualizarUsuario)
	usuarios.DELETE("/:id", h.Auth.DesactivarUsuario)
	usuarios.POST("/:id/reactivar", h.Auth.ReactivarUsuario)

	return engine
}
