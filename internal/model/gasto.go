package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Gasto is a personnel expense charged against the register.
// Estado: "pendiente" | "aprobado" | "rechazado".
// Only approved expenses enter the expected-balance computation at close.
type Gasto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Fecha        time.Time       `gorm:"type:date;not null;index"`
	Concepto     string          `gorm:"not null"`
	Beneficiario string          `gorm:"not null"`
	Monto        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'pendiente'"`

	RegistradoPor uuid.UUID  `gorm:"type:uuid;not null"`
	AprobadoPor   *uuid.UUID `gorm:"type:uuid"`
	Observaciones *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Gasto) TableName() string { return "gastos" }
