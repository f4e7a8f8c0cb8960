package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ecolista-api/internal/domain"
	"github.com/jhoicas/ecolista-api/internal/domain/entity"
	"github.com/jhoicas/ecolista-api/internal/domain/repository"
)

var _ repository.ProductStore = (*ProductRepo)(nil)

const productColumns = `id, nombre_lista, nombre_producto, categoria, impacto_ambiental, sugerencia_sostenible, cantidad, frecuencia, fecha_compra`

var orderColumns = map[repository.OrderField]string{
	repository.OrderByFechaCompra: "fecha_compra",
	repository.OrderByNombre:      "nombre_producto",
}

// ProductRepo implementación del almacén remoto sobre la tabla eco_lista (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Select lista las filas que cumplen el filtro, en el orden pedido.
func (r *ProductRepo) Select(ctx context.Context, f repository.Filter) ([]*entity.Product, error) {
	where, args := whereClause(f)
	order, err := orderClause(f.Order)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + productColumns + ` FROM eco_lista` + where + order

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select products: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Insert persiste una nueva fila y devuelve la fila almacenada.
func (r *ProductRepo) Insert(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	id := product.ID
	if id == "" {
		id = uuid.New().String()
	}
	lista := product.NombreLista
	if lista == "" {
		lista = entity.NombreListaPorDefecto
	}
	fecha := product.FechaCompra
	if fecha.IsZero() {
		fecha = time.Now().UTC()
	}
	query := `
		INSERT INTO eco_lista (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + productColumns
	row := r.q.QueryRow(ctx, query,
		id, lista, product.NombreProducto, product.Categoria, product.ImpactoAmbiental,
		product.SugerenciaSostenible, product.Cantidad, product.Frecuencia, fecha,
	)
	out, err := scanProduct(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert product: %w", domain.ErrDuplicate)
		}
		if isCheckViolation(err) {
			return nil, fmt.Errorf("insert product: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("insert product: %w", err)
	}
	return out, nil
}

// Update aplica los campos presentes del patch sobre la fila id.
func (r *ProductRepo) Update(ctx context.Context, id string, patch repository.Patch) error {
	sets := make([]string, 0, 5)
	args := []any{id}
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.NombreProducto != nil {
		set("nombre_producto", *patch.NombreProducto)
	}
	if patch.Categoria != nil {
		set("categoria", *patch.Categoria)
	}
	if patch.ImpactoAmbiental != nil {
		set("impacto_ambiental", *patch.ImpactoAmbiental)
	}
	if patch.SugerenciaSostenible != nil {
		set("sugerencia_sostenible", *patch.SugerenciaSostenible)
	}
	if patch.Cantidad != nil {
		set("cantidad", *patch.Cantidad)
	}
	if len(sets) == 0 {
		return nil
	}

	query := `UPDATE eco_lista SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update product: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Delete elimina las filas que cumplen el filtro. Un filtro vacío se rechaza para no vaciar la tabla.
func (r *ProductRepo) Delete(ctx context.Context, f repository.Filter) (int64, error) {
	if f.IsEmpty() {
		return 0, fmt.Errorf("delete products: filtro vacío: %w", domain.ErrInvalidInput)
	}
	where, args := whereClause(f)
	cmd, err := r.q.Exec(ctx, `DELETE FROM eco_lista`+where, args...)
	if err != nil {
		return 0, fmt.Errorf("delete products: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func whereClause(f repository.Filter) (string, []any) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 3)
	eq := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.ID != "" {
		eq("id", f.ID)
	}
	if f.NombreProducto != nil {
		eq("nombre_producto", *f.NombreProducto)
	}
	if f.Categoria != nil {
		eq("categoria", *f.Categoria)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// orderClause traduce el orden pedido; las columnas salen de una lista cerrada, nunca del llamador.
func orderClause(o *repository.Order) (string, error) {
	if o == nil {
		return "", nil
	}
	col, ok := orderColumns[o.Field]
	if !ok {
		return "", fmt.Errorf("orden no soportado %q: %w", o.Field, domain.ErrInvalidInput)
	}
	dir := "ASC"
	if o.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id", col, dir), nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(
		&p.ID, &p.NombreLista, &p.NombreProducto, &p.Categoria, &p.ImpactoAmbiental,
		&p.SugerenciaSostenible, &p.Cantidad, &p.Frecuencia, &p.FechaCompra,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
