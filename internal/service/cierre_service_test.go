package service

import (
	"context"
	"testing"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCierreFixture(t *testing.T) (*cierreRepoFake, *ventaRepoFake, *gastoRepoFake, CierreService) {
	t.Helper()
	cierres := &cierreRepoFake{}
	ventas := newVentaRepoFake()
	gastos := &gastoRepoFake{}
	svc := NewCierreService(cierres, ventas, gastos, NewResumenService(ventas), nil, nil, CierreServiceConfig{})
	return cierres, ventas, gastos, svc
}

func cierreRequest(fecha, efectivo string) dto.RegistrarCierreRequest {
	apertura, _ := time.Parse("2006-01-02", fecha)
	aperturaStr := apertura.Add(8 * time.Hour).Format(time.RFC3339)
	monto := dec(efectivo)
	return dto.RegistrarCierreRequest{
		Fecha:           fecha,
		AperturaAt:      aperturaStr,
		EfectivoContado: &monto,
	}
}

func TestRegistrarCierreCalculaDiferencia(t *testing.T) {
	_, ventas, gastos, svc := newCierreFixture(t)
	ctx := context.Background()

	v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "200.00")
	require.NoError(t, ventas.Create(ctx, nil, &v))
	tarjeta := ventaDePrueba("2026-08-28", model.MetodoTarjeta, "80.00")
	require.NoError(t, ventas.Create(ctx, nil, &tarjeta))

	fechaGasto, _ := time.Parse("2006-01-02", "2026-08-28")
	require.NoError(t, gastos.Create(ctx, &model.Gasto{Fecha: fechaGasto, Monto: dec("50.00"), Estado: "aprobado"}))
	require.NoError(t, gastos.Create(ctx, &model.Gasto{Fecha: fechaGasto, Monto: dec("999.00"), Estado: "rechazado"}))

	// saldo esperado = 200 efectivo − 50 gastos aprobados = 150
	resp, err := svc.Registrar(ctx, uuid.New(), cierreRequest("2026-08-28", "148.00"))
	require.NoError(t, err)

	cierre := resp.Cierre
	assert.Equal(t, "150.00", cierre.SaldoEsperado.StringFixed(2))
	assert.Equal(t, "-2.00", cierre.Diferencia.StringFixed(2))
	assert.Equal(t, "requiere_revision", cierre.Clasificacion)
	assert.Equal(t, "cerrado", cierre.Estado)
	assert.Equal(t, 2, cierre.NumTransacciones)
	assert.Equal(t, "200.00", cierre.Totales.Efectivo.StringFixed(2))
	assert.Equal(t, "80.00", cierre.Totales.Tarjeta.StringFixed(2))

	require.NotEmpty(t, resp.Alertas)
	assert.Equal(t, "alta", resp.Alertas[0].Severidad)
}

func TestRegistrarCierreClasificacion(t *testing.T) {
	casos := []struct {
		nombre        string
		contado       string
		clasificacion string
		severidad     string
	}{
		{"cuadrado", "100.00", "cuadrado", "info"},
		{"sub centimo", "100.005", "cuadrado", "info"},
		{"leve en el borde", "100.50", "leve", "media"},
		{"faltante grande", "97.00", "requiere_revision", "alta"},
	}

	for _, tc := range casos {
		t.Run(tc.nombre, func(t *testing.T) {
			_, ventas, _, svc := newCierreFixture(t)
			ctx := context.Background()
			v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "100.00")
			require.NoError(t, ventas.Create(ctx, nil, &v))

			resp, err := svc.Registrar(ctx, uuid.New(), cierreRequest("2026-08-28", tc.contado))
			require.NoError(t, err)
			assert.Equal(t, tc.clasificacion, resp.Cierre.Clasificacion)
			require.NotEmpty(t, resp.Alertas)
			assert.Equal(t, tc.severidad, resp.Alertas[0].Severidad)
		})
	}
}

func TestRegistrarCierreSinVentas(t *testing.T) {
	_, _, _, svc := newCierreFixture(t)

	_, err := svc.Registrar(context.Background(), uuid.New(), cierreRequest("2026-08-28", "0.00"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no hay ventas")
}

func TestRegistrarCierreEfectivoNegativo(t *testing.T) {
	_, ventas, _, svc := newCierreFixture(t)
	ctx := context.Background()
	v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "100.00")
	require.NoError(t, ventas.Create(ctx, nil, &v))

	req := cierreRequest("2026-08-28", "0.00")
	negativo := dec("-1.00")
	req.EfectivoContado = &negativo
	_, err := svc.Registrar(ctx, uuid.New(), req)
	require.Error(t, err)
}

// Omitting the counted cash must never close the day as if S/ 0.00 had been
// declared: the request is rejected before anything is persisted.
func TestRegistrarCierreSinEfectivoContado(t *testing.T) {
	cierres, ventas, _, svc := newCierreFixture(t)
	ctx := context.Background()
	v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "100.00")
	require.NoError(t, ventas.Create(ctx, nil, &v))

	req := cierreRequest("2026-08-28", "0.00")
	req.EfectivoContado = nil
	_, err := svc.Registrar(ctx, uuid.New(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "efectivo contado es requerido")

	guardados, err := cierres.FindByFecha(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Empty(t, guardados)

	// declaring an explicit 0.00 count is still a valid close
	resp, err := svc.Registrar(ctx, uuid.New(), cierreRequest("2026-08-28", "0.00"))
	require.NoError(t, err)
	assert.True(t, dec("0.00").Equal(resp.Cierre.EfectivoContado))
}

func TestRegistrarCierreDuplicado(t *testing.T) {
	_, ventas, _, svc := newCierreFixture(t)
	ctx := context.Background()
	v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "100.00")
	require.NoError(t, ventas.Create(ctx, nil, &v))

	cajero := uuid.New()
	_, err := svc.Registrar(ctx, cajero, cierreRequest("2026-08-28", "100.00"))
	require.NoError(t, err)

	_, err = svc.Registrar(ctx, cajero, cierreRequest("2026-08-28", "100.00"))
	require.ErrorIs(t, err, repository.ErrCierreDuplicado)
}

func TestRegistrarCierreAlertaGastosPendientes(t *testing.T) {
	_, ventas, gastos, svc := newCierreFixture(t)
	ctx := context.Background()
	v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "100.00")
	require.NoError(t, ventas.Create(ctx, nil, &v))
	fechaGasto, _ := time.Parse("2006-01-02", "2026-08-28")
	require.NoError(t, gastos.Create(ctx, &model.Gasto{Fecha: fechaGasto, Monto: dec("20.00"), Estado: "pendiente"}))

	resp, err := svc.Registrar(ctx, uuid.New(), cierreRequest("2026-08-28", "100.00"))
	require.NoError(t, err)

	// gastos pendientes no entran al saldo esperado, pero generan alerta
	assert.Equal(t, "100.00", resp.Cierre.SaldoEsperado.StringFixed(2))
	var tieneAlertaPendiente bool
	for _, a := range resp.Alertas {
		if a.Severidad == "baja" {
			tieneAlertaPendiente = true
		}
	}
	assert.True(t, tieneAlertaPendiente)
}

func TestObtenerPorFechaAusenteEsNil(t *testing.T) {
	_, _, _, svc := newCierreFixture(t)

	cierre, err := svc.ObtenerPorFecha(context.Background(), "2026-08-28")
	require.NoError(t, err, "la ausencia de cierre no es un error")
	assert.Nil(t, cierre)
}

func TestObtenerPorFechaIgnoraBorradoresAbiertos(t *testing.T) {
	cierres, _, _, svc := newCierreFixture(t)
	ctx := context.Background()

	fecha, _ := time.Parse("2006-01-02", "2026-08-28")
	require.NoError(t, cierres.Create(ctx, &model.CierreCaja{Fecha: fecha, CajeroID: uuid.New(), Estado: "abierto"}))

	cierre, err := svc.ObtenerPorFecha(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Nil(t, cierre, "un borrador abierto no cuenta como cierre")

	require.NoError(t, cierres.Create(ctx, &model.CierreCaja{
		Fecha: fecha, CajeroID: uuid.New(), Estado: "cerrado",
		EfectivoContado: dec("80.00"), Clasificacion: "cuadrado",
	}))

	cierre, err = svc.ObtenerPorFecha(ctx, "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, cierre)
	assert.Equal(t, "cerrado", cierre.Estado)

	// Lecturas repetidas devuelven lo mismo: consultar nunca muta estado.
	otra, err := svc.ObtenerPorFecha(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, cierre, otra)
}

func TestListarPorRangoAscendente(t *testing.T) {
	cierres, _, _, svc := newCierreFixture(t)
	ctx := context.Background()

	for _, dia := range []string{"2026-08-27", "2026-08-25", "2026-08-26"} {
		fecha, _ := time.Parse("2006-01-02", dia)
		require.NoError(t, cierres.Create(ctx, &model.CierreCaja{Fecha: fecha, CajeroID: uuid.New(), Estado: "cerrado"}))
	}

	lista, err := svc.ListarPorRango(ctx, "2026-08-25", "2026-08-27")
	require.NoError(t, err)
	require.Len(t, lista, 3)
}

func TestComparativoDia(t *testing.T) {
	_, ventas, _, svc := newCierreFixture(t)
	ctx := context.Background()

	v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "120.00")
	require.NoError(t, ventas.Create(ctx, nil, &v))

	// sin cierre: el comparativo devuelve solo el resumen
	comp, err := svc.ComparativoDia(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Nil(t, comp.Cierre)
	assert.Nil(t, comp.Diferencia)
	assert.Equal(t, "120.00", comp.Resumen.TotalVentas.StringFixed(2))

	_, err = svc.Registrar(ctx, uuid.New(), cierreRequest("2026-08-28", "120.00"))
	require.NoError(t, err)

	comp, err = svc.ComparativoDia(ctx, "2026-08-28")
	require.NoError(t, err)
	require.NotNil(t, comp.Cierre)
	require.NotNil(t, comp.Diferencia)
	assert.True(t, comp.Diferencia.IsZero())
	require.NotNil(t, comp.Cuadrado)
	assert.True(t, *comp.Cuadrado)
}

func TestSaldoEsperadoInyectable(t *testing.T) {
	cierres := &cierreRepoFake{}
	ventas := newVentaRepoFake()
	gastos := &gastoRepoFake{}
	// sucursal con fondo fijo de apertura de S/ 100
	conFondo := func(ventasEfectivo, gastosAprobados decimal.Decimal) decimal.Decimal {
		return ventasEfectivo.Sub(gastosAprobados).Add(dec("100.00"))
	}
	svc := NewCierreService(cierres, ventas, gastos, NewResumenService(ventas), nil, nil, CierreServiceConfig{SaldoEsperado: conFondo})

	ctx := context.Background()
	v := ventaDePrueba("2026-08-28", model.MetodoEfectivo, "50.00")
	require.NoError(t, ventas.Create(ctx, nil, &v))

	resp, err := svc.Registrar(ctx, uuid.New(), cierreRequest("2026-08-28", "150.00"))
	require.NoError(t, err)
	assert.Equal(t, "150.00", resp.Cierre.SaldoEsperado.StringFixed(2))
	assert.Equal(t, "cuadrado", resp.Cierre.Clasificacion)
}
