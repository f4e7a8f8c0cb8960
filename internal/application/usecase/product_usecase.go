package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

// cantidadPorDefecto se usa cuando el candidato no trae cantidad.
const cantidadPorDefecto = 1

// CantidadMaxima tope por fila, también para la suma de un upsert (la columna es INTEGER).
const CantidadMaxima = 1_000_000

func checkCantidad(n int) error {
	if n < 0 {
		return invalid("la cantidad no puede ser negativa")
	}
	if n > CantidadMaxima {
		return invalid(fmt.Sprintf("la cantidad no puede superar %d", CantidadMaxima))
	}
	return nil
}

// UpsertResult fila persistida por el upsert y si fue creada o fusionada.
type UpsertResult struct {
	Product *entity.Product
	Created bool
}

// Outcome devuelve dto.OutcomeCreated o dto.OutcomeUpdated.
func (r UpsertResult) Outcome() string {
	if r.Created {
		return dto.OutcomeCreated
	}
	return dto.OutcomeUpdated
}

// ProductUseCase carga de la instantánea, upsert por clave natural, edición y borrado de filas.
type ProductUseCase struct {
	store repository.ProductStore
	log   *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(store repository.ProductStore, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{store: store, log: log}
}

// LoadAll trae la instantánea completa ordenada por fecha_compra descendente.
func (uc *ProductUseCase) LoadAll(ctx context.Context) ([]*entity.Product, error) {
	rows, err := uc.store.Select(ctx, repository.Filter{
		Order: &repository.Order{Field: repository.OrderByFechaCompra, Descending: true},
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("cargar historial")
		return nil, remoteError("load all", err)
	}
	return rows, nil
}

// Upsert inserta el candidato o, si ya existe una fila con el mismo (nombre_producto, categoria),
// suma la cantidad a la primera encontrada sin tocar impacto ni sugerencia.
// Los campos se comparan y guardan tal cual llegan; el recorte solo decide si están vacíos.
// Lectura y escritura son dos llamadas separadas: no es atómico frente a otros escritores.
func (uc *ProductUseCase) Upsert(ctx context.Context, in dto.UpsertProductRequest) (*UpsertResult, error) {
	nombre, categoria := in.NombreProducto, in.Categoria
	impacto, sugerencia := in.ImpactoAmbiental, in.SugerenciaSostenible
	if blank(nombre) || blank(categoria) || blank(impacto) || blank(sugerencia) {
		return nil, invalid("todos los campos son obligatorios")
	}
	cantidad := cantidadPorDefecto
	if in.Cantidad != nil {
		cantidad = *in.Cantidad
	}
	if err := checkCantidad(cantidad); err != nil {
		return nil, err
	}

	existing, err := uc.store.Select(ctx, repository.ByNombreYCategoria(nombre, categoria))
	if err != nil {
		uc.log.Error().Err(err).Str("producto", nombre).Msg("buscar producto existente")
		return nil, remoteError("upsert lookup", err)
	}

	if len(existing) > 0 {
		current := existing[0]
		total := current.Cantidad + cantidad
		if total > CantidadMaxima {
			return nil, invalid(fmt.Sprintf("la cantidad acumulada (%d) supera el máximo %d", total, CantidadMaxima))
		}
		if err := uc.store.Update(ctx, current.ID, repository.Patch{Cantidad: &total}); err != nil {
			uc.log.Error().Err(err).Str("id", current.ID).Msg("actualizar cantidad")
			return nil, remoteError("upsert update", err)
		}
		current.Cantidad = total
		uc.log.Debug().Str("id", current.ID).Int("cantidad", total).Msg("cantidad actualizada del producto existente")
		return &UpsertResult{Product: current}, nil
	}

	created, err := uc.store.Insert(ctx, &entity.Product{
		NombreLista:          entity.NombreListaPorDefecto,
		NombreProducto:       nombre,
		Categoria:            categoria,
		ImpactoAmbiental:     impacto,
		SugerenciaSostenible: sugerencia,
		Cantidad:             cantidad,
		Frecuencia:           0,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("producto", nombre).Msg("insertar producto")
		return nil, remoteError("upsert insert", err)
	}
	uc.log.Debug().Str("id", created.ID).Msg("producto agregado")
	return &UpsertResult{Product: created, Created: true}, nil
}

// SaveEdit sobrescribe nombre, categoría, impacto, sugerencia y cantidad de la fila id.
func (uc *ProductUseCase) SaveEdit(ctx context.Context, id string, in dto.UpdateProductRequest) error {
	if strings.TrimSpace(id) == "" {
		return invalid("id es requerido")
	}
	nombre, categoria := in.NombreProducto, in.Categoria
	if blank(nombre) || blank(categoria) {
		return invalid("nombre_producto y categoria son requeridos")
	}
	if err := checkCantidad(in.Cantidad); err != nil {
		return err
	}
	impacto, sugerencia := in.ImpactoAmbiental, in.SugerenciaSostenible
	cantidad := in.Cantidad

	err := uc.store.Update(ctx, id, repository.Patch{
		NombreProducto:       &nombre,
		Categoria:            &categoria,
		ImpactoAmbiental:     &impacto,
		SugerenciaSostenible: &sugerencia,
		Cantidad:             &cantidad,
	})
	if err != nil {
		uc.log.Error().Err(err).Str("id", id).Msg("actualizar producto")
		return remoteError("save edit", err)
	}
	return nil
}

// Delete elimina la fila id.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("id es requerido")
	}
	n, err := uc.store.Delete(ctx, repository.ByID(id))
	if err != nil {
		uc.log.Error().Err(err).Str("id", id).Msg("eliminar producto")
		return remoteError("delete", err)
	}
	if n == 0 {
		return notFound("producto " + id)
	}
	return nil
}
