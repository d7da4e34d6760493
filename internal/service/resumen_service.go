package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// topProductosN caps the product ranking returned in every resumen.
const topProductosN = 10

type ResumenService interface {
	ResumenDiario(ctx context.Context, fecha string) (*dto.ResumenDiarioResponse, error)
	ResumenRango(ctx context.Context, desde, hasta string) (*dto.ResumenDiarioResponse, error)
}

type resumenService struct {
	ventaRepo repository.VentaRepository
}

func NewResumenService(ventaRepo repository.VentaRepository) ResumenService {
	return &resumenService{ventaRepo: ventaRepo}
}

func (s *resumenService) ResumenDiario(ctx context.Context, fecha string) (*dto.ResumenDiarioResponse, error) {
	if err := validarFecha(fecha); err != nil {
		return nil, err
	}
	ventas, err := s.ventaRepo.ListByFecha(ctx, fecha)
	if err != nil {
		return nil, err
	}
	detalles, err := s.fetchDetalles(ctx, ventas)
	if err != nil {
		return nil, err
	}
	return ResumirVentas(fecha, ventas, detalles), nil
}

func (s *resumenService) ResumenRango(ctx context.Context, desde, hasta string) (*dto.ResumenDiarioResponse, error) {
	if err := validarRango(desde, hasta); err != nil {
		return nil, err
	}
	ventas, err := s.ventaRepo.ListByRango(ctx, desde, hasta)
	if err != nil {
		return nil, err
	}
	detalles, err := s.fetchDetalles(ctx, ventas)
	if err != nil {
		return nil, err
	}
	return ResumirVentas(desde+"/"+hasta, ventas, detalles), nil
}

// fetchDetalles batch-loads line items for the given sales and groups them by
// venta. One query replaces the per-sale fan-out the old frontend performed,
// so a partial-failure state cannot occur: either all detalles arrive or the
// whole aggregation fails.
func (s *resumenService) fetchDetalles(ctx context.Context, ventas []model.Venta) (map[uuid.UUID][]model.VentaDetalle, error) {
	ids := make([]uuid.UUID, 0, len(ventas))
	for _, v := range ventas {
		ids = append(ids, v.ID)
	}
	detalles, err := s.ventaRepo.ListDetalles(ctx, ids)
	if err != nil {
		return nil, err
	}
	porVenta := make(map[uuid.UUID][]model.VentaDetalle, len(ventas))
	for _, d := range detalles {
		porVenta[d.VentaID] = append(porVenta[d.VentaID], d)
	}
	return porVenta, nil
}

// ResumirVentas projects a set of sales (plus their line items, keyed by sale
// id) into a ResumenDiario. It is a pure function of its inputs: no I/O, no
// hidden state, deterministic output, safe to recompute on every request.
//
// Every aggregation uses the sale's monto efectivo (total con IGV minus
// discount), never the raw total.
func ResumirVentas(fecha string, ventas []model.Venta, detalles map[uuid.UUID][]model.VentaDetalle) *dto.ResumenDiarioResponse {
	resumen := &dto.ResumenDiarioResponse{
		Fecha:           fecha,
		TotalVentas:     decimal.Zero,
		TicketPromedio:  decimal.Zero,
		PorMetodo:       []dto.MetodoResumen{},
		PorCajero:       []dto.CajeroResumen{},
		TopProductos:    []dto.ProductoRanking{},
		VentasMayorista: decimal.Zero,
		VentasMinorista: decimal.Zero,
		TotalDescuentos: decimal.Zero,
	}
	if len(ventas) == 0 {
		return resumen
	}

	metodoIdx := make(map[string]int)
	cajeroIdx := make(map[uuid.UUID]int)
	productoIdx := make(map[uuid.UUID]int)

	for _, v := range ventas {
		monto := v.MontoEfectivo()
		resumen.TotalVentas = resumen.TotalVentas.Add(monto)
		resumen.NumTransacciones++

		// Payment method: unknown methods land in "otros", never an error.
		metodo := normalizarMetodo(v.MetodoPago)
		if i, ok := metodoIdx[metodo]; ok {
			resumen.PorMetodo[i].Monto = resumen.PorMetodo[i].Monto.Add(monto)
			resumen.PorMetodo[i].Cantidad++
		} else {
			metodoIdx[metodo] = len(resumen.PorMetodo)
			resumen.PorMetodo = append(resumen.PorMetodo, dto.MetodoResumen{
				Metodo: metodo, Monto: monto, Cantidad: 1,
			})
		}

		// Cashier
		if i, ok := cajeroIdx[v.CajeroID]; ok {
			resumen.PorCajero[i].Monto = resumen.PorCajero[i].Monto.Add(monto)
			resumen.PorCajero[i].Cantidad++
		} else {
			nombre := ""
			if v.Cajero != nil {
				nombre = v.Cajero.Nombre
			}
			cajeroIdx[v.CajeroID] = len(resumen.PorCajero)
			resumen.PorCajero = append(resumen.PorCajero, dto.CajeroResumen{
				CajeroID: v.CajeroID.String(), CajeroNombre: nombre,
				Monto: monto, Cantidad: 1,
			})
		}

		// Discounts: raw amounts, not netted.
		if v.MontoDescuento.IsPositive() {
			resumen.TotalDescuentos = resumen.TotalDescuentos.Add(v.MontoDescuento)
			resumen.TransaccionesConDescuento++
		}

		// Mayorista/minorista split and product ranking work on line items,
		// attributing the sale-level discount proportionally to each line.
		items := detalles[v.ID]
		if len(items) == 0 {
			continue
		}
		factor := factorDescuento(v)
		esMayorista := false
		for _, item := range items {
			montoLinea := item.SubtotalConIGV.Mul(factor)
			if item.EsMayorista {
				esMayorista = true
				resumen.VentasMayorista = resumen.VentasMayorista.Add(montoLinea)
			} else {
				resumen.VentasMinorista = resumen.VentasMinorista.Add(montoLinea)
			}

			if i, ok := productoIdx[item.ProductoID]; ok {
				resumen.TopProductos[i].Cantidad += item.Cantidad
				resumen.TopProductos[i].Total = resumen.TopProductos[i].Total.Add(montoLinea)
			} else {
				productoIdx[item.ProductoID] = len(resumen.TopProductos)
				resumen.TopProductos = append(resumen.TopProductos, dto.ProductoRanking{
					ProductoID: item.ProductoID.String(),
					Nombre:     item.ProductoNombre,
					Cantidad:   item.Cantidad,
					Total:      montoLinea,
				})
			}
		}
		// A single mayorista line makes the whole sale a mayorista transaction.
		if esMayorista {
			resumen.TransaccionesMayorista++
		} else {
			resumen.TransaccionesMinorista++
		}
	}

	resumen.TicketPromedio = resumen.TotalVentas.Div(decimal.NewFromInt(int64(resumen.NumTransacciones)))

	for i := range resumen.PorCajero {
		c := &resumen.PorCajero[i]
		c.TicketPromedio = c.Monto.Div(decimal.NewFromInt(int64(c.Cantidad)))
	}

	// Stable sort keeps first-appearance order for equal quantities.
	sort.SliceStable(resumen.TopProductos, func(i, j int) bool {
		return resumen.TopProductos[i].Cantidad > resumen.TopProductos[j].Cantidad
	})
	if len(resumen.TopProductos) > topProductosN {
		resumen.TopProductos = resumen.TopProductos[:topProductosN]
	}

	return resumen
}

// factorDescuento returns the proportional discount factor applied to each
// line: (total − descuento) / total, or 1 when the sale has no discount or a
// zero total.
func factorDescuento(v model.Venta) decimal.Decimal {
	if !v.ConDescuento || v.TotalConIGV.IsZero() {
		return decimal.NewFromInt(1)
	}
	return v.TotalConIGV.Sub(v.MontoDescuento).Div(v.TotalConIGV)
}

func normalizarMetodo(metodo string) string {
	m := strings.ToLower(strings.TrimSpace(metodo))
	for _, conocido := range model.MetodosPago {
		if m == conocido {
			return m
		}
	}
	return model.MetodoOtros
}

func validarFecha(fecha string) error {
	if _, err := time.Parse("2006-01-02", fecha); err != nil {
		return apierror.New(fmt.Sprintf("fecha inválida %q: se espera YYYY-MM-DD", fecha))
	}
	return nil
}

func validarRango(desde, hasta string) error {
	if err := validarFecha(desde); err != nil {
		return err
	}
	if err := validarFecha(hasta); err != nil {
		return err
	}
	if hasta < desde {
		return apierror.New(fmt.Sprintf("rango inválido: %s es posterior a %s", desde, hasta))
	}
	return nil
}
