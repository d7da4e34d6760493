package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment methods accepted at the register. Anything outside this list is
// grouped under MetodoOtros when aggregating, never rejected.
const (
	MetodoEfectivo      = "efectivo"
	MetodoTarjeta       = "tarjeta"
	MetodoTransferencia = "transferencia"
	MetodoYape          = "yape"
	MetodoPlin          = "plin"
	MetodoRappi         = "rappi"
	MetodoPedidosYa     = "pedidosya"
	MetodoDidi          = "didi"
	MetodoOtros         = "otros"
)

// MetodosPago lists the fixed payment-method enumeration in display order.
var MetodosPago = []string{
	MetodoEfectivo, MetodoTarjeta, MetodoTransferencia,
	MetodoYape, MetodoPlin,
	MetodoRappi, MetodoPedidosYa, MetodoDidi,
}

// Venta is one completed transaction at the point of sale.
// Once created it is immutable, with a single exception: ComprobanteEmitido
// is stamped by the SUNAT worker after the e-invoice is confirmed.
type Venta struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // sin IGV
	TotalConIGV decimal.Decimal `gorm:"type:decimal(12,2);not null;column:total_con_igv"`
	MetodoPago  string          `gorm:"type:varchar(20);not null;index"`
	CajeroID    uuid.UUID       `gorm:"type:uuid;not null;index"`

	// Fiscal document reference, all nullable: "sin comprobante" is a valid sale.
	TipoDocumento *string `gorm:"type:varchar(20)"` // "boleta" | "factura"
	Serie         *string `gorm:"type:varchar(10)"`
	Correlativo   *int64

	// Receptor data (nullable for consumidor final)
	ClienteTipoDoc *string `gorm:"type:varchar(10)"` // "DNI" | "RUC"
	ClienteNumDoc  *string `gorm:"type:varchar(15)"`
	ClienteNombre  *string
	ClienteEmail   *string `gorm:"type:varchar(255)"`

	ComprobanteEmitido bool `gorm:"not null;default:false"`

	ConDescuento   bool            `gorm:"not null;default:false"`
	MontoDescuento decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time

	Detalles []VentaDetalle `gorm:"foreignKey:VentaID;constraint:OnDelete:CASCADE"`
	Cajero   *Usuario       `gorm:"foreignKey:CajeroID"`
}

func (Venta) TableName() string { return "ventas" }

// MontoEfectivo is the sale's effective monetary contribution:
// total con IGV minus the applied discount. This is the canonical unit for
// every aggregation; raw totals are never summed directly.
func (v Venta) MontoEfectivo() decimal.Decimal {
	if v.ConDescuento {
		return v.TotalConIGV.Sub(v.MontoDescuento)
	}
	return v.TotalConIGV
}

// VentaDetalle is one line item, owned by its Venta (deleted with it).
// ProductoNombre is a snapshot: later catalog renames do not rewrite history.
type VentaDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoNombre string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"` // sin IGV
	PrecioConIGV   decimal.Decimal `gorm:"type:decimal(12,2);not null;column:precio_con_igv"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null"` // sin IGV
	SubtotalConIGV decimal.Decimal `gorm:"type:decimal(12,2);not null;column:subtotal_con_igv"`
	// EsMayorista marks a line priced at the bulk rate instead of retail.
	EsMayorista bool `gorm:"not null;default:false"`
	CreatedAt   time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (VentaDetalle) TableName() string { return "venta_detalles" }
