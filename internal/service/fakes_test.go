package service

import (
	"context"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// In-memory repository fakes. They implement only what the services under
// test exercise; unused methods return zero values.

type ventaRepoFake struct {
	ventas   []model.Venta
	detalles []model.VentaDetalle

	nextCorrelativo map[string]int64
	emitidas        []uuid.UUID
}

func newVentaRepoFake() *ventaRepoFake {
	return &ventaRepoFake{nextCorrelativo: make(map[string]int64)}
}

func (f *ventaRepoFake) DB() *gorm.DB { return nil }

func (f *ventaRepoFake) Create(_ context.Context, _ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Detalles {
		v.Detalles[i].VentaID = v.ID
	}
	f.ventas = append(f.ventas, *v)
	f.detalles = append(f.detalles, v.Detalles...)
	return nil
}

func (f *ventaRepoFake) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	for i := range f.ventas {
		if f.ventas[i].ID == id {
			return &f.ventas[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *ventaRepoFake) ListByFecha(_ context.Context, fecha string) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range f.ventas {
		if v.CreatedAt.Format("2006-01-02") == fecha {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *ventaRepoFake) ListByRango(_ context.Context, desde, hasta string) ([]model.Venta, error) {
	var out []model.Venta
	for _, v := range f.ventas {
		d := v.CreatedAt.Format("2006-01-02")
		if d >= desde && d <= hasta {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *ventaRepoFake) ListDetalles(_ context.Context, ventaIDs []uuid.UUID) ([]model.VentaDetalle, error) {
	ids := make(map[uuid.UUID]bool, len(ventaIDs))
	for _, id := range ventaIDs {
		ids[id] = true
	}
	var out []model.VentaDetalle
	for _, d := range f.detalles {
		if ids[d.VentaID] {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *ventaRepoFake) List(_ context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	ventas, _ := f.ListByFecha(context.Background(), filter.Fecha)
	return ventas, int64(len(ventas)), nil
}

func (f *ventaRepoFake) SetComprobanteEmitido(_ context.Context, id uuid.UUID) error {
	f.emitidas = append(f.emitidas, id)
	for i := range f.ventas {
		if f.ventas[i].ID == id {
			f.ventas[i].ComprobanteEmitido = true
		}
	}
	return nil
}

func (f *ventaRepoFake) NextCorrelativo(_ context.Context, _ *gorm.DB, serie string) (int64, error) {
	f.nextCorrelativo[serie]++
	return f.nextCorrelativo[serie], nil
}

type cierreRepoFake struct {
	cierres []model.CierreCaja
}

func (f *cierreRepoFake) Create(_ context.Context, c *model.CierreCaja) error {
	for _, existente := range f.cierres {
		if existente.Estado == "cerrado" && c.Estado == "cerrado" &&
			existente.Fecha.Equal(c.Fecha) && existente.CajeroID == c.CajeroID {
			return repository.ErrCierreDuplicado
		}
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.cierres = append(f.cierres, *c)
	return nil
}

func (f *cierreRepoFake) FindByFecha(_ context.Context, fecha string) ([]model.CierreCaja, error) {
	var out []model.CierreCaja
	for _, c := range f.cierres {
		if c.Fecha.Format("2006-01-02") == fecha {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *cierreRepoFake) ListByRango(_ context.Context, desde, hasta string) ([]model.CierreCaja, error) {
	var out []model.CierreCaja
	for _, c := range f.cierres {
		d := c.Fecha.Format("2006-01-02")
		if c.Estado == "cerrado" && d >= desde && d <= hasta {
			out = append(out, c)
		}
	}
	return out, nil
}

type gastoRepoFake struct {
	gastos []model.Gasto
}

func (f *gastoRepoFake) Create(_ context.Context, g *model.Gasto) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	f.gastos = append(f.gastos, *g)
	return nil
}

func (f *gastoRepoFake) FindByID(_ context.Context, id uuid.UUID) (*model.Gasto, error) {
	for i := range f.gastos {
		if f.gastos[i].ID == id {
			g := f.gastos[i]
			return &g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *gastoRepoFake) Update(_ context.Context, g *model.Gasto) error {
	for i := range f.gastos {
		if f.gastos[i].ID == g.ID {
			f.gastos[i] = *g
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *gastoRepoFake) ListByFecha(_ context.Context, fecha string) ([]model.Gasto, error) {
	var out []model.Gasto
	for _, g := range f.gastos {
		if g.Fecha.Format("2006-01-02") == fecha {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *gastoRepoFake) ResumenPorFecha(_ context.Context, fecha string) (*repository.ResumenGastos, error) {
	resumen := &repository.ResumenGastos{}
	for _, g := range f.gastos {
		if g.Fecha.Format("2006-01-02") != fecha {
			continue
		}
		resumen.Cantidad++
		switch g.Estado {
		case "aprobado":
			resumen.TotalAprobado = resumen.TotalAprobado.Add(g.Monto)
		case "pendiente":
			resumen.TotalPendiente = resumen.TotalPendiente.Add(g.Monto)
		case "rechazado":
			resumen.TotalRechazado = resumen.TotalRechazado.Add(g.Monto)
		}
	}
	return resumen, nil
}

type productoRepoFake struct {
	productos []model.Producto
}

func (f *productoRepoFake) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	f.productos = append(f.productos, *p)
	return nil
}

func (f *productoRepoFake) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	for i := range f.productos {
		if f.productos[i].ID == id {
			p := f.productos[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *productoRepoFake) List(_ context.Context, incluirInactivos bool) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range f.productos {
		if incluirInactivos || p.Activo {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *productoRepoFake) Update(_ context.Context, p *model.Producto) error {
	for i := range f.productos {
		if f.productos[i].ID == p.ID {
			f.productos[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *productoRepoFake) SoftDelete(_ context.Context, id uuid.UUID) error {
	for i := range f.productos {
		if f.productos[i].ID == id {
			f.productos[i].Activo = false
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *productoRepoFake) CreateCategoria(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (f *productoRepoFake) ListCategorias(_ context.Context) ([]model.Categoria, error) {
	return nil, nil
}

type comprobanteRepoFake struct {
	comprobantes []model.Comprobante
}

func (f *comprobanteRepoFake) Create(_ context.Context, c *model.Comprobante) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	f.comprobantes = append(f.comprobantes, *c)
	return nil
}

func (f *comprobanteRepoFake) Update(_ context.Context, c *model.Comprobante) error {
	for i := range f.comprobantes {
		if f.comprobantes[i].ID == c.ID {
			f.comprobantes[i] = *c
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *comprobanteRepoFake) FindByID(_ context.Context, id uuid.UUID) (*model.Comprobante, error) {
	for i := range f.comprobantes {
		if f.comprobantes[i].ID == id {
			c := f.comprobantes[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *comprobanteRepoFake) FindByVentaID(_ context.Context, ventaID uuid.UUID) (*model.Comprobante, error) {
	for i := range f.comprobantes {
		if f.comprobantes[i].VentaID == ventaID {
			c := f.comprobantes[i]
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *comprobanteRepoFake) ListPendingRetries(_ context.Context, now time.Time, limit int) ([]model.Comprobante, error) {
	var out []model.Comprobante
	for _, c := range f.comprobantes {
		if c.Estado == "pendiente" && c.NextRetryAt != nil && !c.NextRetryAt.After(now) {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

// ─── Builders ────────────────────────────────────────────────────────────────

func ventaDePrueba(fecha string, metodo string, totalConIGV string) model.Venta {
	t, _ := time.Parse("2006-01-02", fecha)
	total := decimal.RequireFromString(totalConIGV)
	return model.Venta{
		ID:          uuid.New(),
		Total:       total.Div(igvFactor).Round(2),
		TotalConIGV: total,
		MetodoPago:  metodo,
		CajeroID:    uuid.New(),
		CreatedAt:   t.Add(12 * time.Hour),
	}
}
