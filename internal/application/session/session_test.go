package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ecolista-api/internal/application/dto"
	"github.com/jhoicas/ecolista-api/internal/application/session"
	"github.com/jhoicas/ecolista-api/internal/application/usecase"
	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/internal/domain/ecolista"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/infrastructure/memory"
	"github.com/jhoicas/ecolista-api/pkg/logger"
)

type harness struct {
	store   *memory.ProductStore
	clock   *fakeClock
	sess    *session.Session
	mu      sync.Mutex
	changes []session.Snapshot
}

func (h *harness) recorded() []session.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]session.Snapshot, len(h.changes))
	copy(out, h.changes)
	return out
}

func newHarness(t *testing.T, rows ...*entity.Product) *harness {
	t.Helper()
	h := &harness{store: memory.NewProductStore(), clock: &fakeClock{}}
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()
	for i, r := range rows {
		r.FechaCompra = base.Add(time.Duration(len(rows)-i) * time.Hour)
		_, err := h.store.Insert(ctx, r)
		require.NoError(t, err)
	}
	log := logger.Nop()
	h.sess = session.New(
		usecase.NewProductUseCase(h.store, log),
		usecase.NewCategoryUseCase(h.store, log),
		session.Options{
			AfterFunc: h.clock.AfterFunc,
			OnChange: func(s session.Snapshot) {
				h.mu.Lock()
				h.changes = append(h.changes, s)
				h.mu.Unlock()
			},
		},
	)
	t.Cleanup(h.sess.Close)
	require.NoError(t, h.sess.LoadAll(ctx))
	return h
}

func names(v ecolista.View) []string {
	out := make([]string, 0, v.Len())
	if v.Mode == ecolista.ModeFrequent {
		for _, a := range v.Aggregated {
			out = append(out, a.NombreProducto)
		}
		return out
	}
	for _, p := range v.Products {
		out = append(out, p.NombreProducto)
	}
	return out
}

func sample() []*entity.Product {
	// Orden de inserción = orden de fecha_compra descendente.
	return []*entity.Product{
		{NombreProducto: "Jabón", Categoria: "Limpieza", Cantidad: 2},
		{NombreProducto: "Arroz", Categoria: "Granos", Cantidad: 5},
		{NombreProducto: "Cloro", Categoria: "Limpieza", Cantidad: 1},
		{NombreProducto: "Jabón", Categoria: "Hogar", Cantidad: 4},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Máquina de estados de la vista
// ──────────────────────────────────────────────────────────────────────────────

func TestSession_LoadAllMuestraTodoYCategorias(t *testing.T) {
	h := newHarness(t, sample()...)
	snap := h.sess.Snapshot()

	assert.Equal(t, ecolista.ModeAll, snap.View.Mode)
	assert.Equal(t, []string{"Jabón", "Arroz", "Cloro", "Jabón"}, names(snap.View))
	assert.Equal(t, []string{"Limpieza", "Granos", "Hogar"}, snap.Categories)
	assert.False(t, snap.Loading)
}

func TestSession_DebounceUnaSolaRecomputacion(t *testing.T) {
	h := newHarness(t, sample()...)
	before := len(h.recorded())

	h.sess.Search("a")
	h.clock.Advance(100 * time.Millisecond)
	h.sess.Search("ab")
	h.clock.Advance(100 * time.Millisecond)
	h.sess.Search("abc")
	h.clock.Advance(299 * time.Millisecond)
	assert.Len(t, h.recorded(), before, "las pulsaciones intermedias no actualizan la vista")
	assert.Equal(t, "abc", h.sess.Snapshot().QueryText)

	h.clock.Advance(time.Millisecond)
	changes := h.recorded()[before:]
	require.Len(t, changes, 1, "exactamente una recomputación")
	assert.Equal(t, ecolista.ModeByQuery, changes[0].View.Mode)
	assert.Equal(t, "abc", changes[0].View.Arg)
}

func TestSession_BusquedaFiltraPorNombreOCategoria(t *testing.T) {
	h := newHarness(t, sample()...)

	h.sess.Search("LIMP")
	h.clock.Advance(session.DefaultDebounce)
	assert.Equal(t, []string{"Jabón", "Cloro"}, names(h.sess.Snapshot().View))

	h.sess.Search("")
	h.clock.Advance(session.DefaultDebounce)
	assert.Equal(t, ecolista.ModeAll, h.sess.Snapshot().View.Mode)
}

func TestSession_BusquedaIdempotente(t *testing.T) {
	h := newHarness(t, sample()...)

	h.sess.Search("jab")
	h.clock.Advance(session.DefaultDebounce)
	first := names(h.sess.Snapshot().View)

	h.sess.Search("jab")
	h.clock.Advance(session.DefaultDebounce)
	assert.Equal(t, first, names(h.sess.Snapshot().View))
}

func TestSession_CloseCancelaBusquedaPendiente(t *testing.T) {
	h := newHarness(t, sample()...)
	before := len(h.recorded())

	h.sess.Search("arroz")
	h.sess.Close()
	h.clock.Advance(time.Second)

	assert.Len(t, h.recorded(), before)
	assert.Equal(t, ecolista.ModeAll, h.sess.Snapshot().View.Mode)
}

func TestSession_CategoriaLimpiaBusqueda(t *testing.T) {
	h := newHarness(t, sample()...)

	h.sess.Search("arr")
	h.sess.FilterByCategory("Limpieza")
	h.clock.Advance(time.Second)

	snap := h.sess.Snapshot()
	assert.Equal(t, ecolista.ModeByCategory, snap.View.Mode)
	assert.Empty(t, snap.QueryText)
	assert.Equal(t, []string{"Jabón", "Cloro"}, names(snap.View), "la búsqueda pendiente no debe pisar el filtro")

	h.sess.FilterByCategory("")
	assert.Equal(t, ecolista.ModeAll, h.sess.Snapshot().View.Mode)
}

func TestSession_Frecuentes(t *testing.T) {
	h := newHarness(t, sample()...)

	h.sess.ShowFrequent()
	snap := h.sess.Snapshot()
	require.Equal(t, ecolista.ModeFrequent, snap.View.Mode)
	// Jabón(2+4=6), Arroz(5), Cloro(1)
	assert.Equal(t, []string{"Jabón", "Arroz", "Cloro"}, names(snap.View))
	assert.Equal(t, 6, snap.View.Aggregated[0].CantidadTotal)
}

func TestSession_RecargaConservaCategoriaYSaleDeFrecuentes(t *testing.T) {
	h := newHarness(t, sample()...)
	ctx := context.Background()

	h.sess.FilterByCategory("Granos")
	_, err := h.sess.UpsertProduct(ctx, dto.UpsertProductRequest{
		NombreProducto: "Lentejas", Categoria: "Granos",
		ImpactoAmbiental: "bajo", SugerenciaSostenible: "a granel",
	})
	require.NoError(t, err)
	snap := h.sess.Snapshot()
	assert.Equal(t, ecolista.ModeByCategory, snap.View.Mode)
	assert.ElementsMatch(t, []string{"Arroz", "Lentejas"}, names(snap.View))

	h.sess.ShowFrequent()
	require.NoError(t, h.sess.LoadAll(ctx))
	assert.Equal(t, ecolista.ModeAll, h.sess.Snapshot().View.Mode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Coordinador de edición y borrado
// ──────────────────────────────────────────────────────────────────────────────

func TestSession_SaveEditRecarga(t *testing.T) {
	h := newHarness(t, sample()...)
	ctx := context.Background()
	target := h.sess.Snapshot().View.Products[1]

	err := h.sess.SaveEdit(ctx, target.ID, dto.UpdateProductRequest{
		NombreProducto: "Arroz integral", Categoria: "Granos", Cantidad: 9,
	})
	require.NoError(t, err)

	got := h.sess.Snapshot().View.Products[1]
	assert.Equal(t, "Arroz integral", got.NombreProducto)
	assert.Equal(t, 9, got.Cantidad)
}

func TestSession_DeleteFallidoNoCambiaLaVista(t *testing.T) {
	h := newHarness(t, sample()...)
	ctx := context.Background()
	h.sess.FilterByCategory("Limpieza")
	before := h.sess.Snapshot()

	h.store.FailOn(memory.OpDelete, errors.New("red caída"))
	err := h.sess.DeleteProduct(ctx, before.View.Products[0].ID)

	assert.ErrorIs(t, err, domain.ErrRemote)
	after := h.sess.Snapshot()
	assert.Equal(t, names(before.View), names(after.View))
	assert.Equal(t, before.View.Mode, after.View.Mode)
	assert.False(t, after.Loading)
}

func TestSession_DeleteRecarga(t *testing.T) {
	h := newHarness(t, sample()...)
	ctx := context.Background()
	first := h.sess.Snapshot().View.Products[0]

	require.NoError(t, h.sess.DeleteProduct(ctx, first.ID))
	assert.Equal(t, []string{"Arroz", "Cloro", "Jabón"}, names(h.sess.Snapshot().View))
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro de categorías
// ──────────────────────────────────────────────────────────────────────────────

func TestSession_RemoveCategoryCascada(t *testing.T) {
	h := newHarness(t,
		&entity.Product{NombreProducto: "p1", Categoria: "Limpieza", Cantidad: 1},
		&entity.Product{NombreProducto: "p2", Categoria: "Limpieza", Cantidad: 1},
		&entity.Product{NombreProducto: "p3", Categoria: "Granos", Cantidad: 1},
	)

	n, err := h.sess.RemoveCategory(context.Background(), "Limpieza")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	snap := h.sess.Snapshot()
	assert.Equal(t, []string{"p3"}, names(snap.View))
	assert.Equal(t, []string{"Granos"}, snap.Categories)
}

func TestSession_RemoveCategoryRecargaFallidaQuedaDesactualizada(t *testing.T) {
	h := newHarness(t,
		&entity.Product{NombreProducto: "p1", Categoria: "Limpieza", Cantidad: 1},
		&entity.Product{NombreProducto: "p3", Categoria: "Granos", Cantidad: 1},
	)
	h.store.FailOn(memory.OpSelect, errors.New("timeout"))

	_, err := h.sess.RemoveCategory(context.Background(), "Limpieza")
	require.NoError(t, err, "la falla de la recarga no se propaga")

	snap := h.sess.Snapshot()
	assert.Equal(t, []string{"p1", "p3"}, names(snap.View), "las filas quedan desactualizadas")
	assert.Equal(t, []string{"Granos"}, snap.Categories)
}

func TestSession_AddCategory(t *testing.T) {
	h := newHarness(t, sample()...)
	ctx := context.Background()

	added, err := h.sess.AddCategory(ctx, "Bebidas")
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", added)
	assert.Contains(t, h.sess.Snapshot().Categories, "Bebidas")

	_, err = h.sess.AddCategory(ctx, "Granos")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
