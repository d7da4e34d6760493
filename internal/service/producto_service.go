package service

import (
	"context"
	"fmt"

	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/apierror"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/dto"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/model"
	"github.com/JaimeRodriguez2505/ToroLocoCayma-sub002/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	CrearCategoria(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error)
	ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error)
}

type productoService struct {
	productoRepo repository.ProductoRepository
}

func NewProductoService(productoRepo repository.ProductoRepository) ProductoService {
	return &productoService{productoRepo: productoRepo}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if err := validarPrecios(req.PrecioVenta, req.PrecioMayorista); err != nil {
		return nil, err
	}
	producto := model.Producto{
		Nombre:          req.Nombre,
		Descripcion:     req.Descripcion,
		PrecioVenta:     req.PrecioVenta,
		PrecioMayorista: req.PrecioMayorista,
		Activo:          true,
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, apierror.New("categoria_id inválido")
		}
		producto.CategoriaID = &categoriaID
	}
	if err := s.productoRepo.Create(ctx, &producto); err != nil {
		return nil, err
	}
	resp := toProductoResponse(producto)
	return &resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := s.productoRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Nombre != "" {
		producto.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		producto.Descripcion = req.Descripcion
	}
	if req.PrecioVenta != nil {
		producto.PrecioVenta = *req.PrecioVenta
	}
	if req.PrecioMayorista != nil {
		producto.PrecioMayorista = req.PrecioMayorista
	}
	if err := validarPrecios(producto.PrecioVenta, producto.PrecioMayorista); err != nil {
		return nil, err
	}
	if req.CategoriaID != nil {
		categoriaID, err := uuid.Parse(*req.CategoriaID)
		if err != nil {
			return nil, apierror.New("categoria_id inválido")
		}
		producto.CategoriaID = &categoriaID
	}
	if err := s.productoRepo.Update(ctx, producto); err != nil {
		return nil, err
	}
	resp := toProductoResponse(*producto)
	return &resp, nil
}

func (s *productoService) Listar(ctx context.Context, incluirInactivos bool) ([]dto.ProductoResponse, error) {
	productos, err := s.productoRepo.List(ctx, incluirInactivos)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, toProductoResponse(p))
	}
	return out, nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	return s.productoRepo.SoftDelete(ctx, id)
}

func (s *productoService) CrearCategoria(ctx context.Context, req dto.CategoriaRequest) (*dto.CategoriaResponse, error) {
	categoria := model.Categoria{
		Nombre:      req.Nombre,
		Descripcion: req.Descripcion,
		Activo:      true,
	}
	if err := s.productoRepo.CreateCategoria(ctx, &categoria); err != nil {
		return nil, err
	}
	return &dto.CategoriaResponse{
		ID:          categoria.ID.String(),
		Nombre:      categoria.Nombre,
		Descripcion: categoria.Descripcion,
		Activo:      categoria.Activo,
	}, nil
}

func (s *productoService) ListarCategorias(ctx context.Context) ([]dto.CategoriaResponse, error) {
	categorias, err := s.productoRepo.ListCategorias(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoriaResponse, 0, len(categorias))
	for _, c := range categorias {
		out = append(out, dto.CategoriaResponse{
			ID:          c.ID.String(),
			Nombre:      c.Nombre,
			Descripcion: c.Descripcion,
			Activo:      c.Activo,
		})
	}
	return out, nil
}

// validarPrecios keeps the bulk rate strictly below retail.
func validarPrecios(precioVenta decimal.Decimal, precioMayorista *decimal.Decimal) error {
	if !precioVenta.IsPositive() {
		return apierror.New("precio_venta debe ser mayor a cero")
	}
	if precioMayorista != nil {
		if !precioMayorista.IsPositive() {
			return apierror.New("precio_mayorista debe ser mayor a cero")
		}
		if precioMayorista.GreaterThanOrEqual(precioVenta) {
			return apierror.New(fmt.Sprintf(
				"precio_mayorista S/ %s debe ser menor al precio de venta S/ %s",
				precioMayorista.StringFixed(2), precioVenta.StringFixed(2)))
		}
	}
	return nil
}

func toProductoResponse(p model.Producto) dto.ProductoResponse {
	resp := dto.ProductoResponse{
		ID:              p.ID.String(),
		Nombre:          p.Nombre,
		Descripcion:     p.Descripcion,
		PrecioVenta:     p.PrecioVenta,
		PrecioMayorista: p.PrecioMayorista,
		Activo:          p.Activo,
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.Categoria = &p.Categoria.Nombre
	}
	return resp
}
