package service

import (
	"context"
	"testing"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrarYResolverGasto(t *testing.T) {
	repo := &gastoRepoFake{}
	svc := NewGastoService(repo)
	ctx := context.Background()

	registrado, err := svc.Registrar(ctx, uuid.New(), dto.RegistrarGastoRequest{
		Fecha:        "2026-08-28",
		Concepto:     "Adelanto de sueldo",
		Beneficiario: "Cocinero turno tarde",
		Monto:        dec("80.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "pendiente", registrado.Estado)

	supervisor := uuid.New()
	gastoID, _ := uuid.Parse(registrado.ID)
	resuelto, err := svc.Resolver(ctx, gastoID, supervisor, dto.ResolverGastoRequest{Estado: "aprobado"})
	require.NoError(t, err)
	assert.Equal(t, "aprobado", resuelto.Estado)
	require.NotNil(t, resuelto.AprobadoPor)
	assert.Equal(t, supervisor.String(), *resuelto.AprobadoPor)

	// un gasto resuelto es final
	_, err = svc.Resolver(ctx, gastoID, supervisor, dto.ResolverGastoRequest{Estado: "rechazado"})
	require.Error(t, err)
}

func TestResumenGastosSoloCuentaAprobados(t *testing.T) {
	repo := &gastoRepoFake{}
	svc := NewGastoService(repo)
	ctx := context.Background()
	registrador := uuid.New()
	supervisor := uuid.New()

	aprobado, err := svc.Registrar(ctx, registrador, dto.RegistrarGastoRequest{
		Fecha: "2026-08-28", Concepto: "Compra de gas", Beneficiario: "Proveedor", Monto: dec("45.00"),
	})
	require.NoError(t, err)
	id, _ := uuid.Parse(aprobado.ID)
	_, err = svc.Resolver(ctx, id, supervisor, dto.ResolverGastoRequest{Estado: "aprobado"})
	require.NoError(t, err)

	_, err = svc.Registrar(ctx, registrador, dto.RegistrarGastoRequest{
		Fecha: "2026-08-28", Concepto: "Taxi de insumos", Beneficiario: "Mozo", Monto: dec("15.00"),
	})
	require.NoError(t, err)

	resumen, err := svc.ResumenPorFecha(ctx, "2026-08-28")
	require.NoError(t, err)
	assert.Equal(t, "45.00", resumen.TotalAprobado.StringFixed(2))
	assert.Equal(t, "15.00", resumen.TotalPendiente.StringFixed(2))
	assert.Equal(t, 2, resumen.Cantidad)
}

func TestRegistrarGastoMontoInvalido(t *testing.T) {
	svc := NewGastoService(&gastoRepoFake{})

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarGastoRequest{
		Fecha: "2026-08-28", Concepto: "Nada", Beneficiario: "Nadie", Monto: dec("0"),
	})
	require.Error(t, err)
}
