// Package ecolista contiene las vistas puras sobre la instantánea de filas cargada:
// registro de categorías, filtro por categoría, búsqueda y ranking de frecuentes.
// Ninguna función modifica las filas recibidas.
package ecolista

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/ecolista-api/internal/domain/entity"
)

// ViewMode estado lógico de la vista mostrada.
type ViewMode string

// Estados de la vista.
const (
	ModeAll        ViewMode = "all"
	ModeByCategory ViewMode = "category"
	ModeByQuery    ViewMode = "query"
	ModeFrequent   ViewMode = "frequent"
)

// View secuencia ordenada derivada de {rows, mode}. En ModeFrequent se llena Aggregated;
// en el resto, Products.
type View struct {
	Mode       ViewMode
	Arg        string
	Products   []*entity.Product
	Aggregated []entity.AggregatedProduct
}

// Len cantidad de elementos visibles.
func (v View) Len() int {
	if v.Mode == ModeFrequent {
		return len(v.Aggregated)
	}
	return len(v.Products)
}

// Compute recalcula la vista para el modo dado. arg es la categoría o el texto según el modo.
func Compute(rows []*entity.Product, mode ViewMode, arg string) View {
	switch mode {
	case ModeByCategory:
		if arg == "" {
			return View{Mode: ModeAll, Products: All(rows)}
		}
		return View{Mode: mode, Arg: arg, Products: FilterByCategory(rows, arg)}
	case ModeByQuery:
		if arg == "" {
			return View{Mode: ModeAll, Products: All(rows)}
		}
		return View{Mode: mode, Arg: arg, Products: Search(rows, arg)}
	case ModeFrequent:
		return View{Mode: mode, Aggregated: Frequent(rows)}
	default:
		return View{Mode: ModeAll, Products: All(rows)}
	}
}

// All devuelve una copia del slice en el orden definido por el almacén.
func All(rows []*entity.Product) []*entity.Product {
	out := make([]*entity.Product, len(rows))
	copy(out, rows)
	return out
}

// ListCategories categorías distintas y no vacías, en orden de primera aparición.
func ListCategories(rows []*entity.Product) []string {
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0)
	for _, r := range rows {
		if r.Categoria == "" {
			continue
		}
		if _, ok := seen[r.Categoria]; ok {
			continue
		}
		seen[r.Categoria] = struct{}{}
		out = append(out, r.Categoria)
	}
	return out
}

// FilterByCategory filas cuya categoría es exactamente cat, conservando el orden relativo.
func FilterByCategory(rows []*entity.Product, cat string) []*entity.Product {
	out := make([]*entity.Product, 0)
	for _, r := range rows {
		if r.Categoria == cat {
			out = append(out, r)
		}
	}
	return out
}

// Search filas cuyo nombre o categoría contienen text sin distinguir mayúsculas.
// Texto vacío devuelve todas las filas.
func Search(rows []*entity.Product, text string) []*entity.Product {
	if text == "" {
		return All(rows)
	}
	fold := cases.Fold()
	needle := fold.String(text)
	out := make([]*entity.Product, 0)
	for _, r := range rows {
		if strings.Contains(fold.String(r.NombreProducto), needle) ||
			strings.Contains(fold.String(r.Categoria), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Frequent agrupa por nombre de producto sumando cantidades. El representante de cada grupo
// es la primera fila encontrada; el resultado se ordena por CantidadTotal descendente y los
// empates conservan el orden de aparición.
func Frequent(rows []*entity.Product) []entity.AggregatedProduct {
	index := make(map[string]int, len(rows))
	out := make([]entity.AggregatedProduct, 0)
	for _, r := range rows {
		if i, ok := index[r.NombreProducto]; ok {
			out[i].CantidadTotal += r.Cantidad
			continue
		}
		index[r.NombreProducto] = len(out)
		out = append(out, entity.AggregatedProduct{Product: *r, CantidadTotal: r.Cantidad})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CantidadTotal > out[j].CantidadTotal
	})
	return out
}
