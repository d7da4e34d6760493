package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type RegistrarGastoRequest struct {
	Fecha        string          `json:"fecha"        validate:"required,datetime=2006-01-02"`
	Concepto     string          `json:"concepto"     validate:"required,min=3"`
	Beneficiario string          `json:"beneficiario" validate:"required"`
	Monto        decimal.Decimal `json:"monto"        validate:"required,gt=0"`
}

type ResolverGastoRequest struct {
	Estado        string  `json:"estado" validate:"required,oneof=aprobado rechazado"`
	Observaciones *string `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type GastoResponse struct {
	ID            string          `json:"id"`
	Fecha         string          `json:"fecha"`
	Concepto      string          `json:"concepto"`
	Beneficiario  string          `json:"beneficiario"`
	Monto         decimal.Decimal `json:"monto"`
	Estado        string          `json:"estado"`
	RegistradoPor string          `json:"registrado_por"`
	AprobadoPor   *string         `json:"aprobado_por"`
	Observaciones *string         `json:"observaciones"`
	CreatedAt     string          `json:"created_at"`
}

// ResumenGastosResponse feeds the expected-balance computation at close time.
type ResumenGastosResponse struct {
	Fecha          string          `json:"fecha"`
	TotalAprobado  decimal.Decimal `json:"total_aprobado"`
	TotalPendiente decimal.Decimal `json:"total_pendiente"`
	TotalRechazado decimal.Decimal `json:"total_rechazado"`
	Cantidad       int             `json:"cantidad"`
}
