package dto

import "github.com/shopspring/decimal"

// ─── Resumen de ventas (projection, never persisted) ─────────────────────────

// MetodoResumen accumulates effective amounts for one payment method.
type MetodoResumen struct {
	Metodo   string          `json:"metodo"`
	Monto    decimal.Decimal `json:"monto"`
	Cantidad int             `json:"cantidad"`
}

// CajeroResumen accumulates effective amounts for one cashier.
type CajeroResumen struct {
	CajeroID       string          `json:"cajero_id"`
	CajeroNombre   string          `json:"cajero_nombre"`
	Monto          decimal.Decimal `json:"monto"`
	Cantidad       int             `json:"cantidad"`
	TicketPromedio decimal.Decimal `json:"ticket_promedio"`
}

// ProductoRanking is one row of the top-products table.
type ProductoRanking struct {
	ProductoID string          `json:"producto_id"`
	Nombre     string          `json:"nombre"`
	Cantidad   int             `json:"cantidad"`
	Total      decimal.Decimal `json:"total"`
}

// ResumenDiarioResponse is the full sales projection for a date (or range).
// Fully re-derivable from ventas + detalles; it has no lifecycle of its own.
type ResumenDiarioResponse struct {
	Fecha            string          `json:"fecha"`
	TotalVentas      decimal.Decimal `json:"total_ventas"`
	NumTransacciones int             `json:"num_transacciones"`
	TicketPromedio   decimal.Decimal `json:"ticket_promedio"`

	PorMetodo    []MetodoResumen   `json:"por_metodo"`
	PorCajero    []CajeroResumen   `json:"por_cajero"`
	TopProductos []ProductoRanking `json:"top_productos"`

	VentasMayorista        decimal.Decimal `json:"ventas_mayorista"`
	VentasMinorista        decimal.Decimal `json:"ventas_minorista"`
	TransaccionesMayorista int             `json:"transacciones_mayorista"`
	TransaccionesMinorista int             `json:"transacciones_minorista"`

	TotalDescuentos           decimal.Decimal `json:"total_descuentos"`
	TransaccionesConDescuento int             `json:"transacciones_con_descuento"`
}
