package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, stock, price, alert_level, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Stock, product.Price, product.AlertLevel,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// List devuelve el catálogo completo en orden de creación.
func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return collectProducts(rows)
}

// Update escribe solo las columnas presentes en patch (NULL conserva el valor actual).
func (r *ProductRepo) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	query := `
		UPDATE products SET
			name = COALESCE($2, name),
			stock = COALESCE($3, stock),
			price = COALESCE($4, price),
			alert_level = COALESCE($5, alert_level),
			updated_at = $6
		WHERE id = $1
		RETURNING ` + productColumns
	p, err := scanProduct(r.q.QueryRow(ctx, query,
		id, patch.Name, patch.Stock, patch.Price, patch.AlertLevel, patch.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock descuenta en una sola sentencia condicionada a stock >= qty.
// Cero filas afectadas significa producto inexistente o stock insuficiente.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	query := `
		UPDATE products SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementStock suma qty sin condición.
func (r *ProductRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	query := `UPDATE products SET stock = stock + $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, qty)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListLowStock productos con stock < alert_level, opcionalmente restringido a ids.
func (r *ProductRepo) ListLowStock(ctx context.Context, ids []string) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE stock < alert_level`
	args := []any{}
	if len(ids) > 0 {
		query += ` AND id = ANY($1)`
		args = append(args, ids)
	}
	query += ` ORDER BY name`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	return collectProducts(rows)
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Stock, &p.Price, &p.AlertLevel, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func collectProducts(rows pgx.Rows) ([]*entity.Product, error) {
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
