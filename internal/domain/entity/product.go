package entity

import "time"

// NombreListaPorDefecto es la lista a la que se asignan todas las filas nuevas.
const NombreListaPorDefecto = "Lista Personalizada"

// Product representa una fila de la lista de compras ecológica (tabla eco_lista).
// Una fila con NombreProducto vacío y Cantidad 0 es un marcador de categoría.
type Product struct {
	ID                   string
	NombreLista          string
	NombreProducto       string
	Categoria            string
	ImpactoAmbiental     string
	SugerenciaSostenible string
	Cantidad             int
	Frecuencia           int       // mantenido por el almacén, nunca recalculado aquí
	FechaCompra          time.Time // clave de orden del listado general
}

// IsCategoryPlaceholder indica si la fila solo registra el nombre de una categoría.
func (p Product) IsCategoryPlaceholder() bool {
	return p.NombreProducto == "" && p.ImpactoAmbiental == "" && p.SugerenciaSostenible == "" && p.Cantidad == 0
}

// NewCategoryPlaceholder construye la fila marcador para registrar una categoría sin productos.
func NewCategoryPlaceholder(categoria string) *Product {
	return &Product{
		NombreLista: NombreListaPorDefecto,
		Categoria:   categoria,
	}
}

// AggregatedProduct es una vista derivada (no persistida): el primer producto encontrado
// con un nombre dado, anotado con la suma de cantidades de todas las filas con ese nombre.
type AggregatedProduct struct {
	Product
	CantidadTotal int
}
