package postgres

import (
	"context"
	"fmt"
)

// runInTx inicia una transacción, ejecuta fn con la tx y hace Commit o Rollback.
func runInTx(ctx context.Context, db DB, fn func(q Querier) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
