package postgres

import (
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

func newSale() *entity.Sale {
	items := []entity.SaleItem{
		{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(10)},
		{ProductID: "p2", Quantity: 1, Price: decimal.RequireFromString("3.5")},
	}
	return &entity.Sale{Items: items, Total: entity.ComputeTotal(items), Cashier: "ana"}
}

func TestSaleRepo_Create(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name        string
		expectedErr error
		prepareFn   func(t *testing.T, mock pgxmock.PgxConnIface)
	}

	tests := []testCase{
		{
			name: "inserta cabecera y líneas en una transacción",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO sales").
					WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "ana", pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("INSERT INTO sale_items").
					WithArgs(pgxmock.AnyArg(), 0, "p1", 2, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("INSERT INTO sale_items").
					WithArgs(pgxmock.AnyArg(), 1, "p2", 1, pgxmock.AnyArg()).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "falla una línea y se hace rollback",
			prepareFn: func(t *testing.T, mock pgxmock.PgxConnIface) {
				t.Helper()
				mock.ExpectBegin()
				mock.ExpectExec("INSERT INTO sales").
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec("INSERT INTO sale_items").
					WillReturnError(assert.AnError)
				mock.ExpectRollback()
			},
			expectedErr: assert.AnError,
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mock, err := pgxmock.NewConn()
			require.NoError(t, err)
			defer mock.Close(t.Context())

			tt.prepareFn(t, mock)

			sale := newSale()
			err = NewSaleRepository(mock).Create(t.Context(), sale)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, sale.ID)
				assert.False(t, sale.CreatedAt.IsZero())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSaleRepo_GetByID_ResuelveProducto(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(t.Context())

	now := time.Now().UTC()
	name := "Café"
	listPrice := decimal.NewFromInt(12)
	mock.ExpectQuery("SELECT id, total, cashier, created_at FROM sales WHERE id").
		WithArgs("s1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "total", "cashier", "created_at"}).
			AddRow("s1", decimal.NewFromInt(20), "ana", now))
	mock.ExpectQuery("FROM sale_items si").
		WithArgs([]string{"s1"}).
		WillReturnRows(pgxmock.NewRows([]string{"sale_id", "product_id", "quantity", "price", "name", "price"}).
			AddRow("s1", "p1", 2, decimal.NewFromInt(10), &name, &listPrice))

	sale, err := NewSaleRepository(mock).GetByID(t.Context(), "s1")
	require.NoError(t, err)
	require.NotNil(t, sale)
	require.Len(t, sale.Items, 1)
	require.NotNil(t, sale.Items[0].Product)
	assert.Equal(t, "Café", sale.Items[0].Product.Name)
	assert.True(t, listPrice.Equal(sale.Items[0].Product.Price))
	assert.True(t, decimal.NewFromInt(10).Equal(sale.Items[0].Price))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepo_List(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	defer mock.Close(t.Context())

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT count").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("FROM sales").
		WithArgs(2, 0).
		WillReturnRows(pgxmock.NewRows([]string{"id", "total", "cashier", "created_at"}).
			AddRow("s3", decimal.NewFromInt(5), "", now).
			AddRow("s2", decimal.NewFromInt(7), "", now.Add(-time.Minute)))
	mock.ExpectQuery("FROM sale_items si").
		WithArgs([]string{"s3", "s2"}).
		WillReturnRows(pgxmock.NewRows([]string{"sale_id", "product_id", "quantity", "price", "name", "price"}).
			AddRow("s2", "p1", 7, decimal.NewFromInt(1), nil, nil).
			AddRow("s3", "p1", 5, decimal.NewFromInt(1), nil, nil))

	list, total, err := NewSaleRepository(mock).List(t.Context(), 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "s3", list[0].ID)
	require.Len(t, list[1].Items, 1)
	assert.Equal(t, 7, list[1].Items[0].Quantity)
	assert.Nil(t, list[1].Items[0].Product)
	assert.NoError(t, mock.ExpectationsWereMet())
}
