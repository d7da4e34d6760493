package repository

import (
	"context"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ResumenGastos aggregates one date's expenses by estado.
type ResumenGastos struct {
	TotalAprobado  decimal.Decimal
	TotalPendiente decimal.Decimal
	TotalRechazado decimal.Decimal
	Cantidad       int
}

type GastoRepository interface {
	Create(ctx context.Context, g *model.Gasto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error)
	Update(ctx context.Context, g *model.Gasto) error
	ListByFecha(ctx context.Context, fecha string) ([]model.Gasto, error)
	ResumenPorFecha(ctx context.Context, fecha string) (*ResumenGastos, error)
}

type gastoRepo struct{ db *gorm.DB }

func NewGastoRepository(db *gorm.DB) GastoRepository { return &gastoRepo{db: db} }

func (r *gastoRepo) Create(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *gastoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Gasto, error) {
	var g model.Gasto
	err := r.db.WithContext(ctx).First(&g, id).Error
	return &g, err
}

func (r *gastoRepo) Update(ctx context.Context, g *model.Gasto) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *gastoRepo) ListByFecha(ctx context.Context, fecha string) ([]model.Gasto, error) {
	var gastos []model.Gasto
	err := r.db.WithContext(ctx).
		Where("fecha = ?", fecha).
		Order("created_at ASC").
		Find(&gastos).Error
	return gastos, err
}

func (r *gastoRepo) ResumenPorFecha(ctx context.Context, fecha string) (*ResumenGastos, error) {
	rows := []struct {
		Estado string
		Total  decimal.Decimal
		N      int
	}{}
	err := r.db.WithContext(ctx).Model(&model.Gasto{}).
		Select("estado, COALESCE(SUM(monto), 0) AS total, COUNT(*) AS n").
		Where("fecha = ?", fecha).
		Group("estado").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	resumen := &ResumenGastos{
		TotalAprobado:  decimal.Zero,
		TotalPendiente: decimal.Zero,
		TotalRechazado: decimal.Zero,
	}
	for _, row := range rows {
		resumen.Cantidad += row.N
		switch row.Estado {
		case "aprobado":
			resumen.TotalAprobado = row.Total
		case "pendiente":
			resumen.TotalPendiente = row.Total
		case "rechazado":
			resumen.TotalRechazado = row.Total
		}
	}
	return resumen, nil
}
