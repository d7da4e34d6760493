package service

import (
	"context"
	"fmt"
	"time"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// igvFactor converts precios con IGV to their taxable base (IGV 18%, Perú).
var igvFactor = decimal.RequireFromString("1.18")

const (
	serieBoleta  = "B001"
	serieFactura = "F001"
)

type VentaService interface {
	// Registrar creates a sale with its line items in one transaction.
	// When the sale carries comprobante data, the serie/correlativo are
	// assigned inside the same transaction and the CPE is queued for the
	// SUNAT worker after commit.
	Registrar(ctx context.Context, cajeroID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	ventaRepo       repository.VentaRepository
	productoRepo    repository.ProductoRepository
	comprobanteRepo repository.ComprobanteRepository
	dispatcher      *worker.Dispatcher
}

func NewVentaService(
	ventaRepo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	comprobanteRepo repository.ComprobanteRepository,
	dispatcher *worker.Dispatcher,
) VentaService {
	return &ventaService{
		ventaRepo:       ventaRepo,
		productoRepo:    productoRepo,
		comprobanteRepo: comprobanteRepo,
		dispatcher:      dispatcher,
	}
}

func (s *ventaService) Registrar(ctx context.Context, cajeroID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	venta := model.Venta{
		MetodoPago:     req.MetodoPago,
		CajeroID:       cajeroID,
		ConDescuento:   req.ConDescuento,
		MontoDescuento: req.MontoDescuento,
		ClienteTipoDoc: req.ClienteTipoDoc,
		ClienteNumDoc:  req.ClienteNumDoc,
		ClienteNombre:  req.ClienteNombre,
		ClienteEmail:   req.ClienteEmail,
	}

	if err := s.armarDetalles(ctx, &venta, req.Items); err != nil {
		return nil, err
	}
	if err := validarDescuento(&venta); err != nil {
		return nil, err
	}
	if err := validarComprobante(req); err != nil {
		return nil, err
	}

	var comprobante *model.Comprobante
	err := runTx(ctx, s.ventaRepo.DB(), func(tx *gorm.DB) error {
		if req.TipoDocumento != nil {
			serie := serieBoleta
			if *req.TipoDocumento == "factura" {
				serie = serieFactura
			}
			correlativo, err := s.ventaRepo.NextCorrelativo(ctx, tx, serie)
			if err != nil {
				return fmt.Errorf("asignar correlativo: %w", err)
			}
			venta.TipoDocumento = req.TipoDocumento
			venta.Serie = &serie
			venta.Correlativo = &correlativo
		}

		if err := s.ventaRepo.Create(ctx, tx, &venta); err != nil {
			return fmt.Errorf("crear venta: %w", err)
		}

		if venta.TipoDocumento != nil {
			comprobante = armarComprobante(&venta)
			if err := s.comprobanteRepo.Create(ctx, comprobante); err != nil {
				return fmt.Errorf("crear comprobante: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("metodo", venta.MetodoPago).
		Str("total", venta.TotalConIGV.StringFixed(2)).
		Msg("venta registrada")

	s.encolarEmision(ctx, comprobante)

	resp := toVentaResponse(venta)
	return &resp, nil
}

// armarDetalles resolves every requested item against the catalog, snapshots
// names and prices, and accumulates the sale totals.
func (s *ventaService) armarDetalles(ctx context.Context, venta *model.Venta, items []dto.ItemVentaRequest) error {
	venta.Total = decimal.Zero
	venta.TotalConIGV = decimal.Zero

	for _, item := range items {
		productoID, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return apierror.New(fmt.Sprintf("producto_id inválido: %s", item.ProductoID))
		}
		producto, err := s.productoRepo.FindByID(ctx, productoID)
		if err != nil {
			return apierror.New(fmt.Sprintf("producto %s no encontrado", item.ProductoID))
		}
		if !producto.Activo {
			return apierror.New(fmt.Sprintf("producto %q está inactivo", producto.Nombre))
		}

		precioConIGV := producto.PrecioVenta
		if item.EsMayorista {
			if producto.PrecioMayorista == nil {
				return apierror.New(fmt.Sprintf("producto %q no tiene precio mayorista", producto.Nombre))
			}
			precioConIGV = *producto.PrecioMayorista
		}

		cantidad := decimal.NewFromInt(int64(item.Cantidad))
		subtotalConIGV := precioConIGV.Mul(cantidad)

		detalle := model.VentaDetalle{
			ProductoID:     producto.ID,
			ProductoNombre: producto.Nombre,
			Cantidad:       item.Cantidad,
			PrecioConIGV:   precioConIGV,
			PrecioUnitario: sinIGV(precioConIGV),
			SubtotalConIGV: subtotalConIGV,
			Subtotal:       sinIGV(subtotalConIGV),
			EsMayorista:    item.EsMayorista,
		}
		venta.Detalles = append(venta.Detalles, detalle)
		venta.Total = venta.Total.Add(detalle.Subtotal)
		venta.TotalConIGV = venta.TotalConIGV.Add(detalle.SubtotalConIGV)
	}
	return nil
}

// validarDescuento enforces the clamp at the door: a discount can never
// exceed the sale total, and a positive amount requires the flag. The
// aggregator downstream trusts this invariant.
func validarDescuento(venta *model.Venta) error {
	if venta.MontoDescuento.IsNegative() {
		return apierror.New("el descuento no puede ser negativo")
	}
	if venta.MontoDescuento.IsPositive() && !venta.ConDescuento {
		return apierror.New("monto_descuento requiere con_descuento=true")
	}
	if venta.ConDescuento && venta.MontoDescuento.GreaterThan(venta.TotalConIGV) {
		return apierror.New(fmt.Sprintf(
			"el descuento S/ %s excede el total de la venta S/ %s",
			venta.MontoDescuento.StringFixed(2), venta.TotalConIGV.StringFixed(2)))
	}
	return nil
}

// validarComprobante checks the fiscal constraints: a factura is only valid
// against a RUC.
func validarComprobante(req dto.RegistrarVentaRequest) error {
	if req.TipoDocumento == nil {
		return nil
	}
	if *req.TipoDocumento == "factura" {
		if req.ClienteTipoDoc == nil || *req.ClienteTipoDoc != "RUC" || req.ClienteNumDoc == nil || len(*req.ClienteNumDoc) != 11 {
			return apierror.New("una factura requiere cliente con RUC de 11 dígitos")
		}
	}
	return nil
}

func armarComprobante(venta *model.Venta) *model.Comprobante {
	total := venta.MontoEfectivo()
	gravado := sinIGV(total)
	return &model.Comprobante{
		VentaID:         venta.ID,
		Tipo:            *venta.TipoDocumento,
		Serie:           *venta.Serie,
		Correlativo:     *venta.Correlativo,
		ReceptorTipoDoc: venta.ClienteTipoDoc,
		ReceptorNumDoc:  venta.ClienteNumDoc,
		ReceptorNombre:  venta.ClienteNombre,
		ReceptorEmail:   venta.ClienteEmail,
		MontoGravado:    gravado,
		MontoIGV:        total.Sub(gravado),
		MontoTotal:      total,
		Estado:          "pendiente",
	}
}

// encolarEmision queues the CPE for the SUNAT worker. The sale is already
// committed so an enqueue failure must not fail the request: the comprobante
// gets a next_retry_at and the retry cron re-enqueues it.
func (s *ventaService) encolarEmision(ctx context.Context, comprobante *model.Comprobante) {
	if comprobante == nil || s.dispatcher == nil {
		return
	}
	payload := worker.EmitirComprobantePayload{ComprobanteID: comprobante.ID}
	if err := s.dispatcher.Enqueue(ctx, worker.TipoEmitirComprobante, payload); err != nil {
		log.Error().Err(err).Str("comprobante_id", comprobante.ID.String()).Msg("encolado de emisión falló, se delega al retry cron")
		ahora := time.Now()
		comprobante.NextRetryAt = &ahora
		if uerr := s.comprobanteRepo.Update(ctx, comprobante); uerr != nil {
			log.Error().Err(uerr).Str("comprobante_id", comprobante.ID.String()).Msg("no se pudo programar el reintento")
		}
	}
}

// ─── Consultas ───────────────────────────────────────────────────────────────

func (s *ventaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.ventaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toVentaResponse(*venta)
	return &resp, nil
}

func (s *ventaService) Listar(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Fecha == "" {
		filter.Fecha = time.Now().Format("2006-01-02")
	}
	if err := validarFecha(filter.Fecha); err != nil {
		return nil, err
	}
	ventas, total, err := s.ventaRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	resp := &dto.VentaListResponse{
		Data:  make([]dto.VentaResponse, 0, len(ventas)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for _, v := range ventas {
		resp.Data = append(resp.Data, toVentaResponse(v))
	}
	return resp, nil
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// sinIGV strips the 18% IGV from an inclusive amount, rounded to céntimos.
func sinIGV(conIGV decimal.Decimal) decimal.Decimal {
	return conIGV.Div(igvFactor).Round(2)
}

func toVentaResponse(v model.Venta) dto.VentaResponse {
	resp := dto.VentaResponse{
		ID:                 v.ID.String(),
		Items:              make([]dto.ItemVentaResponse, 0, len(v.Detalles)),
		Total:              v.Total,
		TotalConIGV:        v.TotalConIGV,
		MontoEfectivo:      v.MontoEfectivo(),
		MetodoPago:         v.MetodoPago,
		CajeroID:           v.CajeroID.String(),
		TipoDocumento:      v.TipoDocumento,
		Serie:              v.Serie,
		Correlativo:        v.Correlativo,
		ComprobanteEmitido: v.ComprobanteEmitido,
		ConDescuento:       v.ConDescuento,
		MontoDescuento:     v.MontoDescuento,
		CreatedAt:          v.CreatedAt.Format(time.RFC3339),
	}
	for _, d := range v.Detalles {
		resp.Items = append(resp.Items, dto.ItemVentaResponse{
			ProductoID:     d.ProductoID.String(),
			Producto:       d.ProductoNombre,
			Cantidad:       d.Cantidad,
			PrecioConIGV:   d.PrecioConIGV,
			SubtotalConIGV: d.SubtotalConIGV,
			EsMayorista:    d.EsMayorista,
		})
	}
	return resp
}
