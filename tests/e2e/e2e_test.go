//go:build integration

// End-to-end suite: levanta PostgreSQL y Redis reales con testcontainers y
// ejercita el flujo completo de un día de caja contra el router HTTP.
//
//	go test -tags integration ./tests/e2e/
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/config"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/handler"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/infra"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/router"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

type entorno struct {
	srv   *httptest.Server
	token string
}

func levantarEntorno(t *testing.T) *entorno {
	t.Helper()
	ctx := context.Background()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("toroloco"),
		tcpostgres.WithUsername("toroloco"),
		tcpostgres.WithPassword("toroloco"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	rd, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = rd.Terminate(ctx) })

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	redisURL, err := rd.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase(dsn)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(redisURL)
	require.NoError(t, err)

	cfg := &config.Config{
		Env:                "test",
		JWTSecret:          "secreto-de-prueba",
		UmbralAlertaCierre: "0.50",
		PDFStoragePath:     t.TempDir(),
	}

	ventaRepo := repository.NewVentaRepository(db)
	cierreRepo := repository.NewCierreRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	comprobanteRepo := repository.NewComprobanteRepository(db)

	dispatcher := worker.NewDispatcher(rdb)

	resumenService := service.NewResumenService(ventaRepo)
	cierreService := service.NewCierreService(cierreRepo, ventaRepo, gastoRepo, resumenService, dispatcher,
		infra.GenerarHistorialCierresPDF, service.CierreServiceConfig{UmbralAlerta: decimal.RequireFromString("0.50"), PDFStoragePath: cfg.PDFStoragePath})
	ventaService := service.NewVentaService(ventaRepo, productoRepo, comprobanteRepo, dispatcher)
	gastoService := service.NewGastoService(gastoRepo)
	productoService := service.NewProductoService(productoRepo)
	authService := service.NewAuthService(usuarioRepo, cfg.JWTSecret, time.Hour, 2*time.Hour)

	breaker := infra.NewCircuitBreaker(5, time.Minute)
	sunat := infra.NewSUNATClient("http://localhost:1", "20000000001", breaker)

	engine := router.New(cfg, router.Handlers{
		Health:    handler.NewHealthHandler(db, rdb, sunat),
		Auth:      handler.NewAuthHandler(authService),
		Ventas:    handler.NewVentaHandler(ventaService),
		Resumen:   handler.NewResumenHandler(resumenService),
		Cierres:   handler.NewCierreHandler(cierreService),
		Gastos:    handler.NewGastoHandler(gastoService),
		Productos: handler.NewProductoHandler(productoService),
	})
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte("clave-segura"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, usuarioRepo.Create(ctx, &model.Usuario{
		Username: "admin", Nombre: "Admin de prueba",
		PasswordHash: string(hash), Rol: "administrador", Activo: true,
	}))

	e := &entorno{srv: srv}
	var login struct {
		AccessToken string `json:"access_token"`
	}
	status := e.post(t, "/v1/auth/login", map[string]any{"username": "admin", "password": "clave-segura"}, &login)
	require.Equal(t, http.StatusOK, status)
	e.token = login.AccessToken
	return e
}

func (e *entorno) do(t *testing.T, method, path string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *entorno) post(t *testing.T, path string, body, out any) int {
	return e.do(t, http.MethodPost, path, body, out)
}

func (e *entorno) get(t *testing.T, path string, out any) int {
	return e.do(t, http.MethodGet, path, nil, out)
}

func TestDiaDeCajaCompleto(t *testing.T) {
	e := levantarEntorno(t)
	hoy := time.Now().Format("2006-01-02")

	// catálogo
	var producto struct {
		ID string `json:"id"`
	}
	status := e.post(t, "/v1/productos", map[string]any{
		"nombre": "Lomo saltado", "precio_venta": "35.40",
	}, &producto)
	require.Equal(t, http.StatusCreated, status)

	// dos ventas en efectivo
	for i := 0; i < 2; i++ {
		status = e.post(t, "/v1/ventas", map[string]any{
			"items":       []map[string]any{{"producto_id": producto.ID, "cantidad": 1}},
			"metodo_pago": "efectivo",
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	// resumen del día
	var resumen struct {
		TotalVentas      string `json:"total_ventas"`
		NumTransacciones int    `json:"num_transacciones"`
	}
	status = e.get(t, "/v1/resumen/diario?fecha="+hoy, &resumen)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 2, resumen.NumTransacciones)
	assert.Equal(t, "70.8", resumen.TotalVentas)

	// consultar un día sin cierre: 200 con cuerpo null
	var cierreAusente *json.RawMessage
	status = e.get(t, "/v1/cierres?fecha="+hoy, &cierreAusente)
	require.Equal(t, http.StatusOK, status)

	// cierre con lo contado exacto
	apertura := time.Now().Add(-8 * time.Hour).Format(time.RFC3339)
	var cierre struct {
		Cierre struct {
			Clasificacion string `json:"clasificacion"`
			Diferencia    string `json:"diferencia"`
		} `json:"cierre"`
	}
	status = e.post(t, "/v1/cierres", map[string]any{
		"fecha": hoy, "apertura_at": apertura, "efectivo_contado": "70.80",
	}, &cierre)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "cuadrado", cierre.Cierre.Clasificacion)

	// un segundo cierre del mismo día y cajero choca con el índice parcial
	status = e.post(t, "/v1/cierres", map[string]any{
		"fecha": hoy, "apertura_at": apertura, "efectivo_contado": "70.80",
	}, nil)
	require.Equal(t, http.StatusConflict, status)

	// historial (rol administrador pasa todos los RequireRole)
	var historial []json.RawMessage
	status = e.get(t, fmt.Sprintf("/v1/cierres/historial?desde=%s&hasta=%s", hoy, hoy), &historial)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, historial, 1)
}

func TestVentaConBoletaAsignaCorrelativo(t *testing.T) {
	e := levantarEntorno(t)

	var producto struct {
		ID string `json:"id"`
	}
	status := e.post(t, "/v1/productos", map[string]any{
		"nombre": "Anticucho", "precio_venta": "20.00",
	}, &producto)
	require.Equal(t, http.StatusCreated, status)

	var venta struct {
		Serie       *string `json:"serie"`
		Correlativo *int64  `json:"correlativo"`
	}
	status = e.post(t, "/v1/ventas", map[string]any{
		"items":          []map[string]any{{"producto_id": producto.ID, "cantidad": 1}},
		"metodo_pago":    "yape",
		"tipo_documento": "boleta",
	}, &venta)
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, venta.Serie)
	assert.Equal(t, "B001", *venta.Serie)
	require.NotNil(t, venta.Correlativo)
	assert.Equal(t, int64(1), *venta.Correlativo)
}
