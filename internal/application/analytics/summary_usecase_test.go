package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/infrastructure/memory"
)

func TestGetSummary(t *testing.T) {
	now := time.Date(2026, time.February, 14, 10, 0, 0, 0, time.UTC)
	store := memory.NewProductStore()
	ctx := context.Background()
	rows := []*entity.Product{
		{NombreProducto: "Arroz", Categoria: "Granos", Cantidad: 2, FechaCompra: now.AddDate(0, -1, 0)},
		{NombreProducto: "Leche", Categoria: "Lácteos", Cantidad: 3, FechaCompra: now},
		{NombreProducto: "Arroz", Categoria: "Despensa", Cantidad: 4, FechaCompra: now},
		entity.NewCategoryPlaceholder("Bebidas"),
	}
	for _, r := range rows {
		_, err := store.Insert(ctx, r)
		require.NoError(t, err)
	}

	got, err := NewSummaryUseCase(store).WithClock(func() time.Time { return now }).GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, got.TotalProductos)
	assert.Equal(t, 9, got.TotalUnidades)
	assert.Equal(t, 2, got.CompradosEsteMes)
	assert.Equal(t, "Febrero 2026", got.DateLabel)
	require.Len(t, got.Categorias, 3, "el marcador Bebidas no aparece")
	assert.Equal(t, "Granos", got.Categorias[0].Categoria)
	assert.Equal(t, 3, got.Categorias[1].Unidades)
	require.Len(t, got.Top, 2)
	assert.Equal(t, "Arroz", got.Top[0].NombreProducto)
	assert.Equal(t, 6, got.Top[0].CantidadTotal)
}

func TestGetSummary_ListaVacia(t *testing.T) {
	got, err := NewSummaryUseCase(memory.NewProductStore()).GetSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.TotalProductos)
	assert.NotNil(t, got.Categorias)
	assert.NotNil(t, got.Top)
}

func TestGetSummary_FallaRemota(t *testing.T) {
	store := memory.NewProductStore()
	store.FailOn(memory.OpSelect, errors.New("timeout"))
	_, err := NewSummaryUseCase(store).GetSummary(context.Background())
	assert.ErrorIs(t, err, domain.ErrRemote)
}
