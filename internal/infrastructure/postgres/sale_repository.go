package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo persiste ventas en sales y sale_items.
type SaleRepo struct {
	db DB
}

// NewSaleRepository construye el adaptador. Necesita DB (pool) porque Create abre transacción.
func NewSaleRepository(db DB) *SaleRepo {
	return &SaleRepo{db: db}
}

// Create inserta la cabecera y las líneas en una misma transacción.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now().UTC()
	}
	return runInTx(ctx, r.db, func(q Querier) error {
		_, err := q.Exec(ctx,
			`INSERT INTO sales (id, total, cashier, created_at) VALUES ($1, $2, $3, $4)`,
			sale.ID, sale.Total, sale.Cashier, sale.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		for i, it := range sale.Items {
			_, err := q.Exec(ctx,
				`INSERT INTO sale_items (sale_id, position, product_id, quantity, price) VALUES ($1, $2, $3, $4, $5)`,
				sale.ID, i, it.ProductID, it.Quantity, it.Price,
			)
			if err != nil {
				return fmt.Errorf("insert sale item: %w", err)
			}
		}
		return nil
	})
}

// GetByID obtiene la venta con sus líneas y el producto actual de cada una.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	err := r.db.QueryRow(ctx,
		`SELECT id, total, cashier, created_at FROM sales WHERE id = $1`, id,
	).Scan(&s.ID, &s.Total, &s.Cashier, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	sales := []*entity.Sale{&s}
	if err := r.loadItems(ctx, sales); err != nil {
		return nil, err
	}
	return &s, nil
}

// List página de ventas desde la más reciente y el total de ventas.
func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM sales`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, total, cashier, created_at FROM sales
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Sale, 0, limit)
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.Total, &s.Cashier, &s.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	rows.Close()

	if err := r.loadItems(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// loadItems carga las líneas de todas las ventas en una consulta. LEFT JOIN: si el producto
// fue eliminado la línea queda con Product nil.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
		s.Items = make([]entity.SaleItem, 0)
	}

	rows, err := r.db.Query(ctx, `
		SELECT si.sale_id, si.product_id, si.quantity, si.price, p.name, p.price
		FROM sale_items si
		LEFT JOIN products p ON p.id = si.product_id
		WHERE si.sale_id = ANY($1)
		ORDER BY si.sale_id, si.position`, ids)
	if err != nil {
		return fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			saleID       string
			it           entity.SaleItem
			productName  *string
			productPrice *decimal.Decimal
		)
		if err := rows.Scan(&saleID, &it.ProductID, &it.Quantity, &it.Price, &productName, &productPrice); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if productName != nil && productPrice != nil {
			it.Product = &entity.ProductRef{ID: it.ProductID, Name: *productName, Price: *productPrice}
		}
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	return rows.Err()
}
