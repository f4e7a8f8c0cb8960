// Package memory implementa el almacén de filas en proceso. Se usa en modo desarrollo
// (STORE_DRIVER=memory) y como doble de pruebas de los casos de uso.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
)

var _ repository.ProductStore = (*ProductStore)(nil)

type row struct {
	product entity.Product
	seq     uint64
}

// Op identifica una operación del almacén para inyectar fallas.
type Op string

// Operaciones del almacén.
const (
	OpSelect Op = "select"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ProductStore almacén en memoria con la misma semántica que el adaptador PostgreSQL.
type ProductStore struct {
	mu     sync.RWMutex
	rows   map[string]*row
	seq    uint64
	now    func() time.Time
	faults map[Op]error
	calls  map[Op]int
}

// NewProductStore construye un almacén vacío.
func NewProductStore() *ProductStore {
	return &ProductStore{
		rows:   make(map[string]*row),
		now:    time.Now,
		faults: make(map[Op]error),
		calls:  make(map[Op]int),
	}
}

// FailOn hace que las siguientes llamadas a op devuelvan err hasta que se llame con nil.
func (s *ProductStore) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.faults, op)
		return
	}
	s.faults[op] = err
}

// Calls cantidad de invocaciones recibidas por op.
func (s *ProductStore) Calls(op Op) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

func (s *ProductStore) enter(ctx context.Context, op Op) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[op]++
	return s.faults[op]
}

// WithClock reemplaza el reloj usado para fecha_compra.
func (s *ProductStore) WithClock(now func() time.Time) *ProductStore {
	s.now = now
	return s
}

// Select devuelve copias de las filas que cumplen el filtro. Sin orden explícito se
// devuelven en orden de inserción.
func (s *ProductStore) Select(ctx context.Context, f repository.Filter) ([]*entity.Product, error) {
	if err := s.enter(ctx, OpSelect); err != nil {
		return nil, err
	}
	s.mu.RLock()
	matched := make([]*row, 0, len(s.rows))
	for _, r := range s.rows {
		if f.Matches(&r.product) {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	if f.Order != nil {
		sort.SliceStable(matched, func(i, j int) bool {
			if f.Order.Descending {
				return lessBy(f.Order.Field, matched[j], matched[i])
			}
			return lessBy(f.Order.Field, matched[i], matched[j])
		})
	}

	out := make([]*entity.Product, 0, len(matched))
	for _, r := range matched {
		cp := r.product
		out = append(out, &cp)
	}
	return out, nil
}

func lessBy(field repository.OrderField, a, b *row) bool {
	switch field {
	case repository.OrderByNombre:
		if a.product.NombreProducto != b.product.NombreProducto {
			return a.product.NombreProducto < b.product.NombreProducto
		}
	default:
		if !a.product.FechaCompra.Equal(b.product.FechaCompra) {
			return a.product.FechaCompra.Before(b.product.FechaCompra)
		}
	}
	return a.seq < b.seq
}

// Insert persiste una nueva fila asignando id y fecha_compra.
func (s *ProductStore) Insert(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := s.enter(ctx, OpInsert); err != nil {
		return nil, err
	}
	cp := *product
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.NombreLista == "" {
		cp.NombreLista = entity.NombreListaPorDefecto
	}
	if cp.FechaCompra.IsZero() {
		cp.FechaCompra = s.now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[cp.ID]; ok {
		return nil, fmt.Errorf("insert product %s: %w", cp.ID, domain.ErrDuplicate)
	}
	s.seq++
	s.rows[cp.ID] = &row{product: cp, seq: s.seq}
	out := cp
	return &out, nil
}

// Update aplica el patch sobre la fila id.
func (s *ProductStore) Update(ctx context.Context, id string, patch repository.Patch) error {
	if err := s.enter(ctx, OpUpdate); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("update product %s: %w", id, domain.ErrNotFound)
	}
	patch.Apply(&r.product)
	return nil
}

// Delete elimina las filas que cumplen el filtro y devuelve cuántas se borraron.
func (s *ProductStore) Delete(ctx context.Context, f repository.Filter) (int64, error) {
	if err := s.enter(ctx, OpDelete); err != nil {
		return 0, err
	}
	if f.IsEmpty() {
		return 0, fmt.Errorf("delete products: filtro vacío: %w", domain.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.rows {
		if f.Matches(&r.product) {
			delete(s.rows, id)
			n++
		}
	}
	return n, nil
}
