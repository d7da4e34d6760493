package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// umbralCuadrado is the tolerance under which a discrepancy counts as an
// exact match (sub-céntimo rounding noise).
var umbralCuadrado = decimal.RequireFromString("0.01")

// SaldoEsperadoFn computes the cash the drawer should hold at close from the
// day's effective cash sales and approved expenses. Injectable so branches
// with a fixed opening float can swap the formula without touching the
// service.
type SaldoEsperadoFn func(ventasEfectivo, gastosAprobados decimal.Decimal) decimal.Decimal

// SaldoEsperadoPorDefecto: cash sales minus approved expenses paid from the
// drawer.
func SaldoEsperadoPorDefecto(ventasEfectivo, gastosAprobados decimal.Decimal) decimal.Decimal {
	return ventasEfectivo.Sub(gastosAprobados)
}

type CierreService interface {
	// Registrar closes the register for (fecha, cajero). The per-method
	// totals, expected balance and discrepancy are recomputed server-side;
	// the client only declares the counted cash.
	Registrar(ctx context.Context, cajeroID uuid.UUID, req dto.RegistrarCierreRequest) (*dto.RegistrarCierreResponse, error)
	// ObtenerPorFecha returns the closed record for a date, or nil (without
	// error) when the day was never closed.
	ObtenerPorFecha(ctx context.Context, fecha string) (*dto.CierreResponse, error)
	ListarPorRango(ctx context.Context, desde, hasta string) ([]dto.CierreResponse, error)
	ComparativoDia(ctx context.Context, fecha string) (*dto.ComparativoDiaResponse, error)
	// ExportarHistorialPDF renders the range's closures to a PDF file and
	// returns its path.
	ExportarHistorialPDF(ctx context.Context, desde, hasta string) (string, error)
}

// CierreServiceConfig carries the tunables the composition root resolves from
// env config. Zero values fall back to sane defaults.
type CierreServiceConfig struct {
	SaldoEsperado   SaldoEsperadoFn
	UmbralAlerta    decimal.Decimal
	PDFStoragePath  string
	EmailSupervisor string
}

type cierreService struct {
	cierreRepo repository.CierreRepository
	ventaRepo  repository.VentaRepository
	gastoRepo  repository.GastoRepository
	resumenes  ResumenService
	dispatcher *worker.Dispatcher
	generarPDF func([]model.CierreCaja, string, string, string) (string, error)
	cfg        CierreServiceConfig
}

func NewCierreService(
	cierreRepo repository.CierreRepository,
	ventaRepo repository.VentaRepository,
	gastoRepo repository.GastoRepository,
	resumenes ResumenService,
	dispatcher *worker.Dispatcher,
	generarPDF func(cierres []model.CierreCaja, desde, hasta, dir string) (string, error),
	cfg CierreServiceConfig,
) CierreService {
	if cfg.SaldoEsperado == nil {
		cfg.SaldoEsperado = SaldoEsperadoPorDefecto
	}
	if cfg.UmbralAlerta.IsZero() {
		cfg.UmbralAlerta = decimal.RequireFromString("0.50")
	}
	return &cierreService{
		cierreRepo: cierreRepo,
		ventaRepo:  ventaRepo,
		gastoRepo:  gastoRepo,
		resumenes:  resumenes,
		dispatcher: dispatcher,
		generarPDF: generarPDF,
		cfg:        cfg,
	}
}

// ─── Registro ────────────────────────────────────────────────────────────────

func (s *cierreService) Registrar(ctx context.Context, cajeroID uuid.UUID, req dto.RegistrarCierreRequest) (*dto.RegistrarCierreResponse, error) {
	if err := validarFecha(req.Fecha); err != nil {
		return nil, err
	}
	if req.EfectivoContado == nil {
		return nil, apierror.New("el efectivo contado es requerido")
	}
	efectivoContado := *req.EfectivoContado
	if efectivoContado.IsNegative() {
		return nil, apierror.New("el efectivo contado no puede ser negativo")
	}
	aperturaAt, err := time.Parse(time.RFC3339, req.AperturaAt)
	if err != nil {
		return nil, apierror.New("apertura_at inválida, se espera RFC3339")
	}
	cierreAt := time.Now()
	if req.CierreAt != nil {
		cierreAt, err = time.Parse(time.RFC3339, *req.CierreAt)
		if err != nil {
			return nil, apierror.New("cierre_at inválida, se espera RFC3339")
		}
	}

	ventas, err := s.ventaRepo.ListByFecha(ctx, req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("listar ventas del día: %w", err)
	}
	if len(ventas) == 0 {
		return nil, apierror.New("no hay ventas registradas para la fecha, nada que cerrar")
	}

	// Per-method totals and transaction count need only the sale headers.
	resumen := ResumirVentas(req.Fecha, ventas, nil)

	gastos, err := s.gastoRepo.ResumenPorFecha(ctx, req.Fecha)
	if err != nil {
		return nil, fmt.Errorf("resumen de gastos: %w", err)
	}

	ventasEfectivo := montoPorMetodo(resumen, model.MetodoEfectivo)
	saldoEsperado := s.cfg.SaldoEsperado(ventasEfectivo, gastos.TotalAprobado)
	diferencia := efectivoContado.Sub(saldoEsperado)
	clasificacion, alertas := s.clasificar(diferencia)

	if gastos.TotalPendiente.IsPositive() {
		alertas = append(alertas, dto.AlertaCierre{
			Severidad: "baja",
			Mensaje:   fmt.Sprintf("hay S/ %s en gastos pendientes de aprobación que no se descontaron del saldo esperado", gastos.TotalPendiente.StringFixed(2)),
		})
	}

	fechaT, _ := time.Parse("2006-01-02", req.Fecha)
	cierre := model.CierreCaja{
		Fecha:            fechaT,
		AperturaAt:       aperturaAt,
		CierreAt:         &cierreAt,
		CajeroID:         cajeroID,
		EfectivoContado:  efectivoContado,
		NumTransacciones: resumen.NumTransacciones,
		GastosAprobados:  gastos.TotalAprobado,
		SaldoEsperado:    saldoEsperado,
		Diferencia:       diferencia,
		Clasificacion:    clasificacion,
		Estado:           "cerrado",
		Observaciones:    req.Observaciones,
	}
	aplicarTotales(&cierre, resumen)

	if err := s.cierreRepo.Create(ctx, &cierre); err != nil {
		// ErrCierreDuplicado pasa tal cual: el handler lo mapea a 409.
		return nil, err
	}

	log.Info().
		Str("fecha", req.Fecha).
		Str("cajero_id", cajeroID.String()).
		Str("diferencia", diferencia.StringFixed(2)).
		Str("clasificacion", clasificacion).
		Msg("cierre de caja registrado")

	s.notificarSiRequiereRevision(ctx, &cierre, alertas)

	return &dto.RegistrarCierreResponse{
		Cierre:  toCierreResponse(cierre),
		Alertas: alertas,
	}, nil
}

// clasificar buckets a discrepancy and produces its advisory alerts. Alerts
// inform, they never block a close.
func (s *cierreService) clasificar(diferencia decimal.Decimal) (string, []dto.AlertaCierre) {
	abs := diferencia.Abs()
	switch {
	case abs.LessThan(umbralCuadrado):
		return "cuadrado", []dto.AlertaCierre{{
			Severidad: "info",
			Mensaje:   "caja cuadrada, sin diferencias",
		}}
	case abs.LessThanOrEqual(s.cfg.UmbralAlerta):
		return "leve", []dto.AlertaCierre{{
			Severidad: "media",
			Mensaje:   fmt.Sprintf("diferencia leve de S/ %s dentro del umbral tolerado", diferencia.StringFixed(2)),
		}}
	default:
		sentido := "faltante"
		if diferencia.IsPositive() {
			sentido = "sobrante"
		}
		return "requiere_revision", []dto.AlertaCierre{{
			Severidad: "alta",
			Mensaje:   fmt.Sprintf("diferencia de S/ %s (%s) supera el umbral, requiere revisión del supervisor", diferencia.StringFixed(2), sentido),
		}}
	}
}

// notificarSiRequiereRevision emails the supervisor when the close lands in
// requiere_revision. Best effort: a queue failure is logged, never returned.
func (s *cierreService) notificarSiRequiereRevision(ctx context.Context, cierre *model.CierreCaja, alertas []dto.AlertaCierre) {
	if cierre.Clasificacion != "requiere_revision" || s.dispatcher == nil || s.cfg.EmailSupervisor == "" {
		return
	}
	cuerpo := fmt.Sprintf(
		"Cierre de caja del %s con diferencia de S/ %s.\nEfectivo contado: S/ %s\nSaldo esperado: S/ %s\n",
		cierre.Fecha.Format("2006-01-02"),
		cierre.Diferencia.StringFixed(2),
		cierre.EfectivoContado.StringFixed(2),
		cierre.SaldoEsperado.StringFixed(2),
	)
	for _, a := range alertas {
		cuerpo += fmt.Sprintf("[%s] %s\n", a.Severidad, a.Mensaje)
	}
	payload := worker.EnviarEmailPayload{
		Para:   []string{s.cfg.EmailSupervisor},
		Asunto: fmt.Sprintf("Cierre de caja %s requiere revisión", cierre.Fecha.Format("2006-01-02")),
		Cuerpo: cuerpo,
	}
	if err := s.dispatcher.Enqueue(ctx, worker.TipoEnviarEmail, payload); err != nil {
		log.Error().Err(err).Msg("no se pudo encolar la alerta de cierre al supervisor")
	}
}

// ─── Consulta e historial ────────────────────────────────────────────────────

func (s *cierreService) ObtenerPorFecha(ctx context.Context, fecha string) (*dto.CierreResponse, error) {
	if err := validarFecha(fecha); err != nil {
		return nil, err
	}
	cierres, err := s.cierreRepo.FindByFecha(ctx, fecha)
	if err != nil {
		return nil, err
	}
	// El almacenamiento puede devolver cero o varios registros por fecha
	// (borradores "abierto" junto al cerrado). Solo el cerrado cuenta;
	// su ausencia es un día sin cierre, no un error.
	for _, c := range cierres {
		if c.Estado == "cerrado" && c.Fecha.Format("2006-01-02") == fecha {
			resp := toCierreResponse(c)
			return &resp, nil
		}
	}
	return nil, nil
}

func (s *cierreService) ListarPorRango(ctx context.Context, desde, hasta string) ([]dto.CierreResponse, error) {
	if err := validarRango(desde, hasta); err != nil {
		return nil, err
	}
	cierres, err := s.cierreRepo.ListByRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CierreResponse, 0, len(cierres))
	for _, c := range cierres {
		out = append(out, toCierreResponse(c))
	}
	return out, nil
}

func (s *cierreService) ComparativoDia(ctx context.Context, fecha string) (*dto.ComparativoDiaResponse, error) {
	resumen, err := s.resumenes.ResumenDiario(ctx, fecha)
	if err != nil {
		return nil, err
	}
	cierre, err := s.ObtenerPorFecha(ctx, fecha)
	if err != nil {
		return nil, err
	}

	resp := &dto.ComparativoDiaResponse{
		Fecha:   fecha,
		Resumen: *resumen,
		Cierre:  cierre,
	}
	if cierre == nil {
		return resp, nil
	}

	// Recompute the expected balance from today's data instead of reusing the
	// frozen snapshot: if sales or expenses changed after the close, the
	// comparison surfaces it.
	gastos, err := s.gastoRepo.ResumenPorFecha(ctx, fecha)
	if err != nil {
		return nil, fmt.Errorf("resumen de gastos: %w", err)
	}
	ventasEfectivo := montoPorMetodo(resumen, model.MetodoEfectivo)
	saldoFresco := s.cfg.SaldoEsperado(ventasEfectivo, gastos.TotalAprobado)
	diferencia := cierre.EfectivoContado.Sub(saldoFresco)
	cuadrado := diferencia.Abs().LessThan(umbralCuadrado)

	resp.Diferencia = &diferencia
	resp.Cuadrado = &cuadrado
	return resp, nil
}

func (s *cierreService) ExportarHistorialPDF(ctx context.Context, desde, hasta string) (string, error) {
	if err := validarRango(desde, hasta); err != nil {
		return "", err
	}
	cierres, err := s.cierreRepo.ListByRango(ctx, desde, hasta)
	if err != nil {
		return "", err
	}
	if len(cierres) == 0 {
		return "", apierror.New("no hay cierres en el rango solicitado")
	}
	path, err := s.generarPDF(cierres, desde, hasta, s.cfg.PDFStoragePath)
	if err != nil {
		return "", fmt.Errorf("generar PDF de historial: %w", err)
	}
	log.Info().Str("desde", desde).Str("hasta", hasta).Str("path", path).Msg("historial de cierres exportado")
	return path, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// montoPorMetodo pulls one method's accumulated amount out of a resumen.
func montoPorMetodo(resumen *dto.ResumenDiarioResponse, metodo string) decimal.Decimal {
	for _, m := range resumen.PorMetodo {
		if m.Metodo == metodo {
			return m.Monto
		}
	}
	return decimal.Zero
}

func aplicarTotales(c *model.CierreCaja, resumen *dto.ResumenDiarioResponse) {
	c.TotalEfectivo = montoPorMetodo(resumen, model.MetodoEfectivo)
	c.TotalTarjeta = montoPorMetodo(resumen, model.MetodoTarjeta)
	c.TotalTransferencia = montoPorMetodo(resumen, model.MetodoTransferencia)
	c.TotalYape = montoPorMetodo(resumen, model.MetodoYape)
	c.TotalPlin = montoPorMetodo(resumen, model.MetodoPlin)
	c.TotalRappi = montoPorMetodo(resumen, model.MetodoRappi)
	c.TotalPedidosYa = montoPorMetodo(resumen, model.MetodoPedidosYa)
	c.TotalDidi = montoPorMetodo(resumen, model.MetodoDidi)
}

func toCierreResponse(c model.CierreCaja) dto.CierreResponse {
	resp := dto.CierreResponse{
		ID:              c.ID.String(),
		Fecha:           c.Fecha.Format("2006-01-02"),
		AperturaAt:      c.AperturaAt.Format(time.RFC3339),
		CajeroID:        c.CajeroID.String(),
		EfectivoContado: c.EfectivoContado,
		Totales: dto.TotalesPorMetodo{
			Efectivo:      c.TotalEfectivo,
			Tarjeta:       c.TotalTarjeta,
			Transferencia: c.TotalTransferencia,
			Yape:          c.TotalYape,
			Plin:          c.TotalPlin,
			Rappi:         c.TotalRappi,
			PedidosYa:     c.TotalPedidosYa,
			Didi:          c.TotalDidi,
		},
		NumTransacciones: c.NumTransacciones,
		GastosAprobados:  c.GastosAprobados,
		SaldoEsperado:    c.SaldoEsperado,
		Diferencia:       c.Diferencia,
		Clasificacion:    c.Clasificacion,
		Estado:           c.Estado,
		Observaciones:    c.Observaciones,
	}
	if c.CierreAt != nil {
		ts := c.CierreAt.Format(time.RFC3339)
		resp.CierreAt = &ts
	}
	if c.Cajero != nil {
		resp.CajeroNombre = c.Cajero.Nombre
	}
	return resp
}
