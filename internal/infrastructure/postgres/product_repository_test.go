package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
	"github.com/jhoicas/ecolista-api/pkg/config"
)

func TestWhereClause(t *testing.T) {
	where, args := whereClause(repository.ByNombreYCategoria("Arroz", "Granos"))
	assert.Equal(t, " WHERE nombre_producto = $1 AND categoria = $2", where)
	assert.Equal(t, []any{"Arroz", "Granos"}, args)

	where, args = whereClause(repository.ByID("abc"))
	assert.Equal(t, " WHERE id = $1", where)
	assert.Equal(t, []any{"abc"}, args)

	where, args = whereClause(repository.Filter{})
	assert.Empty(t, where)
	assert.Nil(t, args)
}

func TestOrderClause(t *testing.T) {
	got, err := orderClause(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = orderClause(&repository.Order{Field: repository.OrderByFechaCompra, Descending: true})
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY fecha_compra DESC, id", got)

	got, err = orderClause(&repository.Order{Field: repository.OrderByNombre})
	require.NoError(t, err)
	assert.Equal(t, " ORDER BY nombre_producto ASC, id", got)

	_, err = orderClause(&repository.Order{Field: "cantidad; DROP TABLE eco_lista"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDelete_FiltroVacioNoTocaLaBase(t *testing.T) {
	repo := NewProductRepository(nil)
	_, err := repo.Delete(context.Background(), repository.Filter{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Integración: requiere TEST_DATABASE_URL apuntando a una base desechable.
func TestProductRepo_Integracion(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	defer pool.Close()
	require.NoError(t, Migrate(pool))
	require.NoError(t, Migrate(pool), "las migraciones deben ser idempotentes")

	repo := NewProductRepository(pool)
	cat := "test-integracion"
	_, _ = repo.Delete(ctx, repository.ByCategoria(cat))

	created, err := repo.Insert(ctx, &entity.Product{NombreProducto: "Arroz", Categoria: cat, Cantidad: 2})
	require.NoError(t, err)
	assert.Equal(t, entity.NombreListaPorDefecto, created.NombreLista)

	qty := 5
	require.NoError(t, repo.Update(ctx, created.ID, repository.Patch{Cantidad: &qty}))

	rows, err := repo.Select(ctx, repository.ByNombreYCategoria("Arroz", cat))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5, rows[0].Cantidad)
	assert.Equal(t, 0, rows[0].Frecuencia)

	err = repo.Update(ctx, "no-existe", repository.Patch{Cantidad: &qty})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	n, err := repo.Delete(ctx, repository.ByCategoria(cat))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
