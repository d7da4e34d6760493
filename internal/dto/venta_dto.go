package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from the query string of GET /v1/ventas.
type VentaFilter struct {
	Fecha string `form:"fecha"` // YYYY-MM-DD; empty = today
	Page  int    `form:"page,default=1"   validate:"min=1"`
	Limit int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemVentaRequest struct {
	ProductoID  string `json:"producto_id"  validate:"required,uuid"`
	Cantidad    int    `json:"cantidad"     validate:"required,min=1"`
	EsMayorista bool   `json:"es_mayorista"`
}

type RegistrarVentaRequest struct {
	Items      []ItemVentaRequest `json:"items"       validate:"required,min=1,dive"`
	MetodoPago string             `json:"metodo_pago" validate:"required,oneof=efectivo tarjeta transferencia yape plin rappi pedidosya didi"`

	// Comprobante data, all optional: "sin comprobante" is a valid sale.
	TipoDocumento  *string `json:"tipo_documento"   validate:"omitempty,oneof=boleta factura"`
	ClienteTipoDoc *string `json:"cliente_tipo_doc" validate:"omitempty,oneof=DNI RUC"`
	ClienteNumDoc  *string `json:"cliente_num_doc"`
	ClienteNombre  *string `json:"cliente_nombre"`
	ClienteEmail   *string `json:"cliente_email"    validate:"omitempty,email"`

	ConDescuento   bool            `json:"con_descuento"`
	MontoDescuento decimal.Decimal `json:"monto_descuento" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemVentaResponse struct {
	ProductoID     string          `json:"producto_id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioConIGV   decimal.Decimal `json:"precio_con_igv"`
	SubtotalConIGV decimal.Decimal `json:"subtotal_con_igv"`
	EsMayorista    bool            `json:"es_mayorista"`
}

type VentaResponse struct {
	ID                 string              `json:"id"`
	Items              []ItemVentaResponse `json:"items"`
	Total              decimal.Decimal     `json:"total"`
	TotalConIGV        decimal.Decimal     `json:"total_con_igv"`
	MontoEfectivo      decimal.Decimal     `json:"monto_efectivo"`
	MetodoPago         string              `json:"metodo_pago"`
	CajeroID           string              `json:"cajero_id"`
	TipoDocumento      *string             `json:"tipo_documento"`
	Serie              *string             `json:"serie"`
	Correlativo        *int64              `json:"correlativo"`
	ComprobanteEmitido bool                `json:"comprobante_emitido"`
	ConDescuento       bool                `json:"con_descuento"`
	MontoDescuento     decimal.Decimal     `json:"monto_descuento"`
	CreatedAt          string              `json:"created_at"`
}
