package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Comprobante stores a fiscal receipt (CPE) submitted to SUNAT via the sidecar.
// Tipo: "boleta" | "factura"
// Estado: "pendiente" | "aceptado" | "rechazado" | "error"
type Comprobante struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID     uuid.UUID `gorm:"type:uuid;index;not null"`
	Tipo        string    `gorm:"type:varchar(20);not null"`
	Serie       string    `gorm:"type:varchar(10);not null"`
	Correlativo int64     `gorm:"not null"`

	ReceptorTipoDoc *string `gorm:"type:varchar(10)"`
	ReceptorNumDoc  *string `gorm:"type:varchar(15)"`
	ReceptorNombre  *string
	// ReceptorEmail, when present, gets the receipt mailed after acceptance.
	ReceptorEmail *string `gorm:"type:varchar(255)"`

	MontoGravado decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	MontoIGV     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0;column:monto_igv"`
	MontoTotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`

	Estado string `gorm:"type:varchar(20);not null;default:'pendiente'"`
	// HashCPE is the document digest returned by SUNAT on acceptance.
	HashCPE       *string `gorm:"type:varchar(64);column:hash_cpe"`
	Observaciones *string

	// Retry fields, used by retry_cron to re-attempt failed sidecar calls
	RetryCount  int        `gorm:"not null;default:0"`
	NextRetryAt *time.Time `gorm:"column:next_retry_at"`
	LastError   *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Comprobante) TableName() string { return "comprobantes" }
