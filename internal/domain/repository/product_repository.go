package repository

import (
	"context"

	"github.com/jhoicas/ecolista-api/internal/domain/entity"
)

// OrderField campo por el que el almacén puede ordenar filas.
type OrderField string

// Campos de orden soportados.
const (
	OrderByFechaCompra OrderField = "fecha_compra"
	OrderByNombre      OrderField = "nombre_producto"
)

// Order criterio de orden ascendente o descendente.
type Order struct {
	Field      OrderField
	Descending bool
}

// Filter condiciones de igualdad (AND) sobre una fila. Los campos vacíos no filtran.
type Filter struct {
	ID             string
	NombreProducto *string
	Categoria      *string
	Order          *Order
}

// IsEmpty indica si el filtro no restringe ninguna fila.
func (f Filter) IsEmpty() bool {
	return f.ID == "" && f.NombreProducto == nil && f.Categoria == nil
}

// Matches evalúa las condiciones de igualdad del filtro sobre un producto.
func (f Filter) Matches(p *entity.Product) bool {
	if f.ID != "" && p.ID != f.ID {
		return false
	}
	if f.NombreProducto != nil && p.NombreProducto != *f.NombreProducto {
		return false
	}
	if f.Categoria != nil && p.Categoria != *f.Categoria {
		return false
	}
	return true
}

// ByID filtra por identificador.
func ByID(id string) Filter { return Filter{ID: id} }

// ByCategoria filtra por categoría exacta.
func ByCategoria(categoria string) Filter { return Filter{Categoria: &categoria} }

// ByNombreYCategoria filtra por la clave natural (nombre_producto, categoria).
func ByNombreYCategoria(nombre, categoria string) Filter {
	return Filter{NombreProducto: &nombre, Categoria: &categoria}
}

// Patch cambios parciales de una fila. Solo se aplican los campos no nulos; Frecuencia no es editable.
type Patch struct {
	NombreProducto       *string
	Categoria            *string
	ImpactoAmbiental     *string
	SugerenciaSostenible *string
	Cantidad             *int
}

// Apply aplica el patch sobre una copia del producto.
func (p Patch) Apply(prod *entity.Product) {
	if p.NombreProducto != nil {
		prod.NombreProducto = *p.NombreProducto
	}
	if p.Categoria != nil {
		prod.Categoria = *p.Categoria
	}
	if p.ImpactoAmbiental != nil {
		prod.ImpactoAmbiental = *p.ImpactoAmbiental
	}
	if p.SugerenciaSostenible != nil {
		prod.SugerenciaSostenible = *p.SugerenciaSostenible
	}
	if p.Cantidad != nil {
		prod.Cantidad = *p.Cantidad
	}
}

// ProductStore define el puerto del almacén remoto de filas (DIP): CRUD por fila con filtros
// de igualdad y orden por un campo. Update sobre un id inexistente devuelve domain.ErrNotFound.
type ProductStore interface {
	Select(ctx context.Context, f Filter) ([]*entity.Product, error)
	Insert(ctx context.Context, product *entity.Product) (*entity.Product, error)
	Update(ctx context.Context, id string, patch Patch) error
	// Delete elimina todas las filas que cumplen el filtro. Un filtro vacío se rechaza.
	Delete(ctx context.Context, f Filter) (int64, error)
}
