package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Nombre          string           `json:"nombre"           validate:"required"`
	Descripcion     *string          `json:"descripcion"`
	CategoriaID     *string          `json:"categoria_id"     validate:"omitempty,uuid"`
	PrecioVenta     decimal.Decimal  `json:"precio_venta"     validate:"required,gt=0"`
	PrecioMayorista *decimal.Decimal `json:"precio_mayorista"`
}

type ActualizarProductoRequest struct {
	Nombre          string           `json:"nombre"`
	Descripcion     *string          `json:"descripcion"`
	CategoriaID     *string          `json:"categoria_id" validate:"omitempty,uuid"`
	PrecioVenta     *decimal.Decimal `json:"precio_venta"`
	PrecioMayorista *decimal.Decimal `json:"precio_mayorista"`
}

type CategoriaRequest struct {
	Nombre      string  `json:"nombre" validate:"required"`
	Descripcion *string `json:"descripcion"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID              string           `json:"id"`
	Nombre          string           `json:"nombre"`
	Descripcion     *string          `json:"descripcion"`
	CategoriaID     *string          `json:"categoria_id"`
	Categoria       *string          `json:"categoria"`
	PrecioVenta     decimal.Decimal  `json:"precio_venta"`
	PrecioMayorista *decimal.Decimal `json:"precio_mayorista"`
	Activo          bool             `json:"activo"`
}

type CategoriaResponse struct {
	ID          string  `json:"id"`
	Nombre      string  `json:"nombre"`
	Descripcion *string `json:"descripcion"`
	Activo      bool    `json:"activo"`
}
