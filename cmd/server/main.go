package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/config"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/handler"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/infra"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/router"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/service"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// @title        Toro Loco Cayma: API de caja
// @version      1.0
// @description  Registro de ventas, resumen diario y cierre de caja.
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo cargar la configuración")
	}

	configurarLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a PostgreSQL")
	}
	log.Info().Msg("PostgreSQL conectado y migrado")

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a Redis")
	}
	log.Info().Msg("Redis conectado")

	breaker := infra.NewCircuitBreaker(5, 2*time.Minute)
	sunat := infra.NewSUNATClient(cfg.SUNATSidecarURL, cfg.SUNATRUCEmisor, breaker)
	remitente := cfg.SMTPUser
	if remitente == "" {
		remitente = "caja@torolococayma.pe"
	}
	mailer := infra.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, remitente)

	// Repositorios
	ventaRepo := repository.NewVentaRepository(db)
	cierreRepo := repository.NewCierreRepository(db)
	gastoRepo := repository.NewGastoRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	usuarioRepo := repository.NewUsuarioRepository(db)
	comprobanteRepo := repository.NewComprobanteRepository(db)

	// Workers
	dispatcher := worker.NewDispatcher(rdb)
	comprobanteWorker := worker.NewComprobanteWorker(comprobanteRepo, ventaRepo, sunat, dispatcher)
	emailWorker := worker.NewEmailWorker(mailer)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	worker.StartPool(workerCtx, rdb, cfg.WorkerPoolSize, worker.Handlers{
		worker.TipoEmitirComprobante: comprobanteWorker.Handle,
		worker.TipoEnviarEmail:       emailWorker.Handle,
	})
	worker.StartRetryCron(workerCtx, comprobanteRepo, dispatcher, breaker.Allow)

	// Servicios
	umbral, err := decimal.NewFromString(cfg.UmbralAlertaCierre)
	if err != nil {
		log.Fatal().Err(err).Str("valor", cfg.UmbralAlertaCierre).Msg("UMBRAL_ALERTA_CIERRE inválido")
	}
	resumenService := service.NewResumenService(ventaRepo)
	cierreService := service.NewCierreService(cierreRepo, ventaRepo, gastoRepo, resumenService, dispatcher, infra.GenerarHistorialCierresPDF, service.CierreServiceConfig{
		UmbralAlerta:    umbral,
		PDFStoragePath:  cfg.PDFStoragePath,
		EmailSupervisor: cfg.EmailSupervisor,
	})
	ventaService := service.NewVentaService(ventaRepo, productoRepo, comprobanteRepo, dispatcher)
	gastoService := service.NewGastoService(gastoRepo)
	productoService := service.NewProductoService(productoRepo)
	authService := service.NewAuthService(
		usuarioRepo,
		cfg.JWTSecret,
		time.Duration(cfg.JWTExpirationHours)*time.Hour,
		time.Duration(cfg.JWTRefreshHours)*time.Hour,
	)

	engine := router.New(cfg, router.Handlers{
		Health:    handler.NewHealthHandler(db, rdb, sunat),
		Auth:      handler.NewAuthHandler(authService),
		Ventas:    handler.NewVentaHandler(ventaService),
		Resumen:   handler.NewResumenHandler(resumenService),
		Cierres:   handler.NewCierreHandler(cierreService),
		Gastos:    handler.NewGastoHandler(gastoService),
		Productos: handler.NewProductoHandler(productoService),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Str("env", cfg.Env).Msg("servidor HTTP iniciado")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("el servidor HTTP terminó con error")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida")

	cancelWorkers()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado forzado del servidor HTTP")
	}
	if err := rdb.Close(); err != nil {
		log.Error().Err(err).Msg("cierre de Redis con error")
	}
	log.Info().Msg("servidor detenido")
}

func configurarLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
