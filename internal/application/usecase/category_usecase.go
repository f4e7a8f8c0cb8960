package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/internal/domain/ecolista"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

// CategoryUseCase registro de categorías derivado de las filas existentes.
type CategoryUseCase struct {
	store repository.ProductStore
	log   *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(store repository.ProductStore, log *logger.Logger) *CategoryUseCase {
	return &CategoryUseCase{store: store, log: log}
}

// List categorías distintas y no vacías de la tabla.
func (uc *CategoryUseCase) List(ctx context.Context) ([]string, error) {
	rows, err := uc.store.Select(ctx, repository.Filter{
		Order: &repository.Order{Field: repository.OrderByFechaCompra, Descending: true},
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("obtener categorías")
		return nil, remoteError("list categories", err)
	}
	return ecolista.ListCategories(rows), nil
}

// Add registra la categoría insertando una fila marcador. La existencia se verifica contra
// el almacén, no contra una copia local.
func (uc *CategoryUseCase) Add(ctx context.Context, name string) (string, error) {
	if blank(name) {
		return "", invalid("el nombre de la categoría no puede estar vacío")
	}
	existing, err := uc.store.Select(ctx, repository.ByCategoria(name))
	if err != nil {
		uc.log.Error().Err(err).Str("categoria", name).Msg("verificar categoría")
		return "", remoteError("add category lookup", err)
	}
	if len(existing) > 0 {
		return "", fmt.Errorf("%w: la categoría %q ya existe", domain.ErrDuplicate, name)
	}
	if _, err := uc.store.Insert(ctx, entity.NewCategoryPlaceholder(name)); err != nil {
		uc.log.Error().Err(err).Str("categoria", name).Msg("agregar categoría")
		return "", remoteError("add category", err)
	}
	uc.log.Info().Str("categoria", name).Msg("categoría agregada")
	return name, nil
}

// Remove borra en cascada todas las filas de la categoría, incluidos productos reales.
// Devuelve cuántas filas se borraron.
func (uc *CategoryUseCase) Remove(ctx context.Context, name string) (int64, error) {
	if name == "" {
		return 0, invalid("categoría requerida")
	}
	n, err := uc.store.Delete(ctx, repository.ByCategoria(name))
	if err != nil {
		uc.log.Error().Err(err).Str("categoria", name).Msg("eliminar categoría")
		return 0, remoteError("remove category", err)
	}
	uc.log.Info().Str("categoria", name).Int64("filas", n).Msg("categoría eliminada")
	return n, nil
}
