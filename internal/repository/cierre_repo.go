package repository

import (
	"context"
	"errors"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"

	"gorm.io/gorm"
)

// ErrCierreDuplicado is returned when a second "cerrado" record for the same
// (fecha, cajero) hits the partial unique index. The service layer turns it
// into a user-facing message; the race window of fetch-then-check is gone.
var ErrCierreDuplicado = errors.New("ya existe un cierre de caja para esta fecha")

type CierreRepository interface {
	// Create persists a closure atomically (create-if-absent semantics).
	Create(ctx context.Context, c *model.CierreCaja) error
	// FindByFecha defensively returns a collection: historic data may hold
	// stray "abierto" drafts alongside the authoritative closed record.
	FindByFecha(ctx context.Context, fecha string) ([]model.CierreCaja, error)
	// ListByRango returns closed records in [desde, hasta], ascending by fecha.
	ListByRango(ctx context.Context, desde, hasta string) ([]model.CierreCaja, error)
}

type cierreRepo struct{ db *gorm.DB }

func NewCierreRepository(db *gorm.DB) CierreRepository { return &cierreRepo{db: db} }

func (r *cierreRepo) Create(ctx context.Context, c *model.CierreCaja) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCierreDuplicado
	}
	return err
}

func (r *cierreRepo) FindByFecha(ctx context.Context, fecha string) ([]model.CierreCaja, error) {
	var cierres []model.CierreCaja
	err := r.db.WithContext(ctx).
		Where("fecha = ?", fecha).
		Preload("Cajero").
		Order("created_at ASC").
		Find(&cierres).Error
	return cierres, err
}

func (r *cierreRepo) ListByRango(ctx context.Context, desde, hasta string) ([]model.CierreCaja, error) {
	var cierres []model.CierreCaja
	err := r.db.WithContext(ctx).
		Where("fecha BETWEEN ? AND ? AND estado = 'cerrado'", desde, hasta).
		Preload("Cajero").
		Order("fecha ASC").
		Find(&cierres).Error
	return cierres, err
}
