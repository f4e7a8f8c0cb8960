// Package analytics contiene los casos de uso de solo lectura para el tablero de la lista.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/internal/domain/ecolista"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
)

const summaryTop = 5 // productos en el widget de frecuentes

// SummaryUseCase arma el resumen de la lista a partir de una sola lectura del almacén.
type SummaryUseCase struct {
	store repository.ProductStore
	now   func() time.Time
}

// NewSummaryUseCase construye el caso de uso.
func NewSummaryUseCase(store repository.ProductStore) *SummaryUseCase {
	return &SummaryUseCase{store: store, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (uc *SummaryUseCase) WithClock(now func() time.Time) *SummaryUseCase {
	uc.now = now
	return uc
}

// GetSummary totales, desglose por categoría en orden de aparición, compras del mes
// en curso y top de frecuentes. Los marcadores de categoría no cuentan como productos.
func (uc *SummaryUseCase) GetSummary(ctx context.Context) (*dto.SummaryResponse, error) {
	rows, err := uc.store.Select(ctx, repository.Filter{})
	if err != nil {
		return nil, fmt.Errorf("%w: resumen: %w", domain.ErrRemote, err)
	}

	now := uc.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	out := &dto.SummaryResponse{
		Categorias: []dto.CategorySummary{},
		Top:        []dto.TopProduct{},
		DateLabel:  monthLabel(now),
	}
	products := make([]*entity.Product, 0, len(rows))
	byCat := make(map[string]int)
	for _, r := range rows {
		if r.IsCategoryPlaceholder() {
			continue
		}
		products = append(products, r)
		out.TotalProductos++
		out.TotalUnidades += r.Cantidad
		if !r.FechaCompra.Before(monthStart) {
			out.CompradosEsteMes++
		}
		i, ok := byCat[r.Categoria]
		if !ok {
			i = len(out.Categorias)
			byCat[r.Categoria] = i
			out.Categorias = append(out.Categorias, dto.CategorySummary{Categoria: r.Categoria})
		}
		out.Categorias[i].Productos++
		out.Categorias[i].Unidades += r.Cantidad
	}

	for _, agg := range ecolista.Frequent(products) {
		if len(out.Top) == summaryTop {
			break
		}
		out.Top = append(out.Top, dto.TopProduct{
			NombreProducto: agg.NombreProducto,
			Categoria:      agg.Categoria,
			CantidadTotal:  agg.CantidadTotal,
		})
	}
	return out, nil
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
