package service

import (
	"context"
	"testing"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVentaFixture(t *testing.T) (*ventaRepoFake, *productoRepoFake, *comprobanteRepoFake, VentaService) {
	t.Helper()
	ventas := newVentaRepoFake()
	productos := &productoRepoFake{}
	comprobantes := &comprobanteRepoFake{}
	svc := NewVentaService(ventas, productos, comprobantes, nil)
	return ventas, productos, comprobantes, svc
}

func productoDePrueba(t *testing.T, productos *productoRepoFake, nombre, precio string, mayorista *string) uuid.UUID {
	t.Helper()
	p := model.Producto{Nombre: nombre, PrecioVenta: dec(precio), Activo: true}
	if mayorista != nil {
		pm := dec(*mayorista)
		p.PrecioMayorista = &pm
	}
	require.NoError(t, productos.Create(context.Background(), &p))
	return p.ID
}

func TestRegistrarVentaCalculaTotales(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	lomoID := productoDePrueba(t, productos, "Lomo saltado", "35.40", nil)

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: lomoID.String(), Cantidad: 2}},
		MetodoPago: model.MetodoEfectivo,
	})
	require.NoError(t, err)

	assert.Equal(t, "70.80", resp.TotalConIGV.StringFixed(2))
	assert.Equal(t, "60.00", resp.Total.StringFixed(2), "total sin IGV al 18%")
	assert.Equal(t, "70.80", resp.MontoEfectivo.StringFixed(2))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Lomo saltado", resp.Items[0].Producto)
}

func TestRegistrarVentaDescuentoMayorAlTotal(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	id := productoDePrueba(t, productos, "Anticucho", "20.00", nil)

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:          []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}},
		MetodoPago:     model.MetodoEfectivo,
		ConDescuento:   true,
		MontoDescuento: dec("25.00"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "excede el total")
}

func TestRegistrarVentaDescuentoSinFlag(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	id := productoDePrueba(t, productos, "Anticucho", "20.00", nil)

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:          []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}},
		MetodoPago:     model.MetodoEfectivo,
		MontoDescuento: dec("5.00"),
	})
	require.Error(t, err, "monto positivo sin con_descuento se rechaza")
}

func TestRegistrarVentaPrecioMayorista(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	mayorista := "28.00"
	id := productoDePrueba(t, productos, "Parrilla", "35.00", &mayorista)

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1, EsMayorista: true}},
		MetodoPago: model.MetodoRappi,
	})
	require.NoError(t, err)
	assert.Equal(t, "28.00", resp.TotalConIGV.StringFixed(2))
	assert.True(t, resp.Items[0].EsMayorista)
}

func TestRegistrarVentaMayoristaSinPrecio(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	id := productoDePrueba(t, productos, "Chicha", "8.00", nil)

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1, EsMayorista: true}},
		MetodoPago: model.MetodoEfectivo,
	})
	require.Error(t, err)
}

func TestRegistrarVentaProductoInactivo(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	id := productoDePrueba(t, productos, "Retirado", "10.00", nil)
	require.NoError(t, productos.SoftDelete(context.Background(), id))

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:      []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}},
		MetodoPago: model.MetodoEfectivo,
	})
	require.Error(t, err)
}

func TestRegistrarVentaConBoleta(t *testing.T) {
	_, productos, comprobantes, svc := newVentaFixture(t)
	id := productoDePrueba(t, productos, "Lomo saltado", "35.40", nil)
	boleta := "boleta"
	email := "cliente@example.pe"

	resp, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:         []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}},
		MetodoPago:    model.MetodoYape,
		TipoDocumento: &boleta,
		ClienteEmail:  &email,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.Serie)
	assert.Equal(t, "B001", *resp.Serie)
	require.NotNil(t, resp.Correlativo)
	assert.Equal(t, int64(1), *resp.Correlativo)
	assert.False(t, resp.ComprobanteEmitido, "la emisión es asíncrona")

	require.Len(t, comprobantes.comprobantes, 1)
	comp := comprobantes.comprobantes[0]
	assert.Equal(t, "pendiente", comp.Estado)
	assert.Equal(t, "35.40", comp.MontoTotal.StringFixed(2))
	assert.True(t, comp.MontoGravado.Add(comp.MontoIGV).Equal(comp.MontoTotal))
	// el correo del cliente viaja con el comprobante para el recibo post-emisión
	require.NotNil(t, comp.ReceptorEmail)
	assert.Equal(t, email, *comp.ReceptorEmail)
}

func TestRegistrarVentaFacturaSinRUC(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	id := productoDePrueba(t, productos, "Parrilla", "90.00", nil)
	factura := "factura"
	dni := "DNI"
	num := "12345678"

	_, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items:          []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}},
		MetodoPago:     model.MetodoTransferencia,
		TipoDocumento:  &factura,
		ClienteTipoDoc: &dni,
		ClienteNumDoc:  &num,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUC")
}

func TestCorrelativosPorSerie(t *testing.T) {
	_, productos, _, svc := newVentaFixture(t)
	id := productoDePrueba(t, productos, "Anticucho", "20.00", nil)
	boleta, factura := "boleta", "factura"
	ruc := "RUC"
	numRUC := "20123456789"
	razon := "Inversiones Cayma SAC"

	primera, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}}, MetodoPago: model.MetodoEfectivo, TipoDocumento: &boleta,
	})
	require.NoError(t, err)
	segunda, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}}, MetodoPago: model.MetodoEfectivo, TipoDocumento: &boleta,
	})
	require.NoError(t, err)
	conFactura, err := svc.Registrar(context.Background(), uuid.New(), dto.RegistrarVentaRequest{
		Items: []dto.ItemVentaRequest{{ProductoID: id.String(), Cantidad: 1}}, MetodoPago: model.MetodoEfectivo,
		TipoDocumento: &factura, ClienteTipoDoc: &ruc, ClienteNumDoc: &numRUC, ClienteNombre: &razon,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), *primera.Correlativo)
	assert.Equal(t, int64(2), *segunda.Correlativo)
	assert.Equal(t, "F001", *conFactura.Serie)
	assert.Equal(t, int64(1), *conFactura.Correlativo, "cada serie lleva su propio correlativo")
}
