package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CierreCaja is the end-of-shift cash reconciliation record for a cashier
// on a given date. Estado: "abierto" | "cerrado".
//
// At most one record per (fecha, cajero) may be "cerrado", enforced by a
// partial unique index created in infra.NewDatabase, so two concurrent close
// submissions cannot both commit.
type CierreCaja struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha      time.Time `gorm:"type:date;not null;index"`
	AperturaAt time.Time `gorm:"not null"`
	CierreAt   *time.Time
	CajeroID   uuid.UUID `gorm:"type:uuid;not null;index"`

	// EfectivoContado is the cash the cashier physically counted and declared.
	EfectivoContado decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	// Per-method totals as computed by the sales aggregator for the date.
	TotalEfectivo      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTarjeta       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTransferencia decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalYape          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPlin          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalRappi         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalPedidosYa     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:total_pedidosya"`
	TotalDidi          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	NumTransacciones int `gorm:"not null;default:0"`

	// GastosAprobados is the approved personnel-expense total for the date,
	// fetched server-side at close time (never trusted from the client).
	GastosAprobados decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// SaldoEsperado = f(ventas en efectivo, gastos aprobados); Diferencia =
	// EfectivoContado − SaldoEsperado. Both derived at close, then frozen.
	SaldoEsperado decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Diferencia    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	// Clasificacion: "cuadrado" | "leve" | "requiere_revision"
	Clasificacion string `gorm:"type:varchar(20);not null;default:'cuadrado'"`

	Estado        string `gorm:"type:varchar(20);not null;default:'abierto'"`
	Observaciones *string

	CreatedAt time.Time
	UpdatedAt time.Time

	Cajero *Usuario `gorm:"foreignKey:CajeroID"`
}

func (CierreCaja) TableName() string { return "cierres_caja" }
