package service

import (
	"context"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type GastoService interface {
	Registrar(ctx context.Context, registradoPor uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error)
	// Resolver approves or rejects a pending expense. Resolved expenses are
	// final: the expected balance of a past close never silently changes.
	Resolver(ctx context.Context, gastoID, aprobadoPor uuid.UUID, req dto.ResolverGastoRequest) (*dto.GastoResponse, error)
	ListarPorFecha(ctx context.Context, fecha string) ([]dto.GastoResponse, error)
	ResumenPorFecha(ctx context.Context, fecha string) (*dto.ResumenGastosResponse, error)
}

type gastoService struct {
	gastoRepo repository.GastoRepository
}

func NewGastoService(gastoRepo repository.GastoRepository) GastoService {
	return &gastoService{gastoRepo: gastoRepo}
}

func (s *gastoService) Registrar(ctx context.Context, registradoPor uuid.UUID, req dto.RegistrarGastoRequest) (*dto.GastoResponse, error) {
	fecha, err := time.Parse("2006-01-02", req.Fecha)
	if err != nil {
		return nil, apierror.New("fecha inválida, se espera YYYY-MM-DD")
	}
	if !req.Monto.IsPositive() {
		return nil, apierror.New("el monto del gasto debe ser mayor a cero")
	}

	gasto := model.Gasto{
		Fecha:         fecha,
		Concepto:      req.Concepto,
		Beneficiario:  req.Beneficiario,
		Monto:         req.Monto,
		Estado:        "pendiente",
		RegistradoPor: registradoPor,
	}
	if err := s.gastoRepo.Create(ctx, &gasto); err != nil {
		return nil, err
	}

	log.Info().
		Str("gasto_id", gasto.ID.String()).
		Str("monto", gasto.Monto.StringFixed(2)).
		Str("beneficiario", gasto.Beneficiario).
		Msg("gasto registrado")

	resp := toGastoResponse(gasto)
	return &resp, nil
}

func (s *gastoService) Resolver(ctx context.Context, gastoID, aprobadoPor uuid.UUID, req dto.ResolverGastoRequest) (*dto.GastoResponse, error) {
	gasto, err := s.gastoRepo.FindByID(ctx, gastoID)
	if err != nil {
		return nil, err
	}
	if gasto.Estado != "pendiente" {
		return nil, apierror.New("el gasto ya fue resuelto, no puede modificarse")
	}

	gasto.Estado = req.Estado
	gasto.AprobadoPor = &aprobadoPor
	if req.Observaciones != nil {
		gasto.Observaciones = req.Observaciones
	}
	if err := s.gastoRepo.Update(ctx, gasto); err != nil {
		return nil, err
	}

	log.Info().
		Str("gasto_id", gasto.ID.String()).
		Str("estado", gasto.Estado).
		Str("aprobado_por", aprobadoPor.String()).
		Msg("gasto resuelto")

	resp := toGastoResponse(*gasto)
	return &resp, nil
}

func (s *gastoService) ListarPorFecha(ctx context.Context, fecha string) ([]dto.GastoResponse, error) {
	if err := validarFecha(fecha); err != nil {
		return nil, err
	}
	gastos, err := s.gastoRepo.ListByFecha(ctx, fecha)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GastoResponse, 0, len(gastos))
	for _, g := range gastos {
		out = append(out, toGastoResponse(g))
	}
	return out, nil
}

func (s *gastoService) ResumenPorFecha(ctx context.Context, fecha string) (*dto.ResumenGastosResponse, error) {
	if err := validarFecha(fecha); err != nil {
		return nil, err
	}
	resumen, err := s.gastoRepo.ResumenPorFecha(ctx, fecha)
	if err != nil {
		return nil, err
	}
	return &dto.ResumenGastosResponse{
		Fecha:          fecha,
		TotalAprobado:  resumen.TotalAprobado,
		TotalPendiente: resumen.TotalPendiente,
		TotalRechazado: resumen.TotalRechazado,
		Cantidad:       resumen.Cantidad,
	}, nil
}

func toGastoResponse(g model.Gasto) dto.GastoResponse {
	resp := dto.GastoResponse{
		ID:            g.ID.String(),
		Fecha:         g.Fecha.Format("2006-01-02"),
		Concepto:      g.Concepto,
		Beneficiario:  g.Beneficiario,
		Monto:         g.Monto,
		Estado:        g.Estado,
		RegistradoPor: g.RegistradoPor.String(),
		Observaciones: g.Observaciones,
		CreatedAt:     g.CreatedAt.Format(time.RFC3339),
	}
	if g.AprobadoPor != nil {
		id := g.AprobadoPor.String()
		resp.AprobadoPor = &id
	}
	return resp
}
