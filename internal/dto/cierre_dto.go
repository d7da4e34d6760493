package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// RegistrarCierreRequest is the cashier's end-of-day submission.
// Per-method totals are NOT accepted from the client: the server recomputes
// them from the day's sales so the closure always reflects system truth.
// EfectivoContado is a pointer: counting S/ 0.00 is a legitimate declaration,
// omitting the count altogether is not.
type RegistrarCierreRequest struct {
	Fecha           string           `json:"fecha"            validate:"required,datetime=2006-01-02"`
	AperturaAt      string           `json:"apertura_at"      validate:"required"`
	CierreAt        *string          `json:"cierre_at"`
	EfectivoContado *decimal.Decimal `json:"efectivo_contado" validate:"required"`
	Observaciones   *string          `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// TotalesPorMetodo mirrors the persisted per-method breakdown of a closure.
type TotalesPorMetodo struct {
	Efectivo      decimal.Decimal `json:"efectivo"`
	Tarjeta       decimal.Decimal `json:"tarjeta"`
	Transferencia decimal.Decimal `json:"transferencia"`
	Yape          decimal.Decimal `json:"yape"`
	Plin          decimal.Decimal `json:"plin"`
	Rappi         decimal.Decimal `json:"rappi"`
	PedidosYa     decimal.Decimal `json:"pedidosya"`
	Didi          decimal.Decimal `json:"didi"`
}

// AlertaCierre is an advisory message returned with a closure.
// Severidad: "info" | "baja" | "media" | "alta". Alerts never block the close.
type AlertaCierre struct {
	Severidad string `json:"severidad"`
	Mensaje   string `json:"mensaje"`
}

type CierreResponse struct {
	ID               string           `json:"id"`
	Fecha            string           `json:"fecha"`
	AperturaAt       string           `json:"apertura_at"`
	CierreAt         *string          `json:"cierre_at"`
	CajeroID         string           `json:"cajero_id"`
	CajeroNombre     string           `json:"cajero_nombre"`
	EfectivoContado  decimal.Decimal  `json:"efectivo_contado"`
	Totales          TotalesPorMetodo `json:"totales_por_metodo"`
	NumTransacciones int              `json:"num_transacciones"`
	GastosAprobados  decimal.Decimal  `json:"gastos_aprobados"`
	SaldoEsperado    decimal.Decimal  `json:"saldo_esperado"`
	Diferencia       decimal.Decimal  `json:"diferencia"`
	Clasificacion    string           `json:"clasificacion"`
	Estado           string           `json:"estado"`
	Observaciones    *string          `json:"observaciones"`
}

// RegistrarCierreResponse wraps the persisted closure plus advisory alerts.
type RegistrarCierreResponse struct {
	Cierre  CierreResponse `json:"cierre"`
	Alertas []AlertaCierre `json:"alertas"`
}

// ComparativoDiaResponse pairs the freshly computed sales projection with the
// persisted closure for the same date, so callers can render "system truth"
// against "reported truth". Cierre is nil when the day was never closed.
type ComparativoDiaResponse struct {
	Fecha      string                `json:"fecha"`
	Resumen    ResumenDiarioResponse `json:"resumen"`
	Cierre     *CierreResponse       `json:"cierre"`
	Diferencia *decimal.Decimal      `json:"diferencia"`
	Cuadrado   *bool                 `json:"cuadrado"`
}
