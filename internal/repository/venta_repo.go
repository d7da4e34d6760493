package repository

import (
	"context"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	// ListByFecha returns the bare sales for one date (no detalles).
	ListByFecha(ctx context.Context, fecha string) ([]model.Venta, error)
	ListByRango(ctx context.Context, desde, hasta string) ([]model.Venta, error)
	// ListDetalles batch-fetches line items for a set of sales in one query.
	ListDetalles(ctx context.Context, ventaIDs []uuid.UUID) ([]model.VentaDetalle, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	// SetComprobanteEmitido is the only mutation a Venta ever receives.
	SetComprobanteEmitido(ctx context.Context, id uuid.UUID) error
	NextCorrelativo(ctx context.Context, tx *gorm.DB, serie string) (int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in the service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).Preload("Detalles").Preload("Cajero").First(&v, id).Error
	return &v, err
}

func (r *ventaRepo) ListByFecha(ctx context.Context, fecha string) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("DATE(created_at) = ?", fecha).
		Preload("Cajero").
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListByRango(ctx context.Context, desde, hasta string) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Where("DATE(created_at) BETWEEN ? AND ?", desde, hasta).
		Preload("Cajero").
		Order("created_at ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) ListDetalles(ctx context.Context, ventaIDs []uuid.UUID) ([]model.VentaDetalle, error) {
	if len(ventaIDs) == 0 {
		return nil, nil
	}
	var detalles []model.VentaDetalle
	err := r.db.WithContext(ctx).
		Where("venta_id IN ?", ventaIDs).
		Order("created_at ASC").
		Find(&detalles).Error
	return detalles, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.Fecha != "" {
		q = q.Where("DATE(created_at) = ?", filter.Fecha)
	} else {
		// Default: today
		q = q.Where("DATE(created_at) = CURRENT_DATE")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Detalles").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

func (r *ventaRepo) SetComprobanteEmitido(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Venta{}).
		Where("id = ?", id).
		Update("comprobante_emitido", true).Error
}

func (r *ventaRepo) NextCorrelativo(ctx context.Context, tx *gorm.DB, serie string) (int64, error) {
	// One PostgreSQL sequence per serie keeps correlativos gap-aware and atomic.
	var num int64
	err := tx.WithContext(ctx).Raw("SELECT nextval(?)", "comprobantes_"+serie+"_seq").Scan(&num).Error
	return num, err
}
