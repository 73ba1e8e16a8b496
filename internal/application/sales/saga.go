package sales

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/ventas-api/pkg/logger"
)

// StockCompensator devuelve stock descontado por una venta que no se completó.
type StockCompensator interface {
	IncrementStock(ctx context.Context, id string, qty int) error
}

// stockStep descuento ya aplicado en el almacén.
type stockStep struct {
	ProductID string
	Quantity  int
}

// stockSaga registra, en orden, los descuentos aplicados durante una venta para poder
// revertirlos con incrementos compensatorios si un paso posterior falla.
type stockSaga struct {
	compensator StockCompensator
	log         *logger.Logger
	steps       []stockStep
}

func newStockSaga(compensator StockCompensator, log *logger.Logger) *stockSaga {
	return &stockSaga{compensator: compensator, log: log}
}

// record agrega un descuento exitoso.
func (s *stockSaga) record(productID string, qty int) {
	s.steps = append(s.steps, stockStep{ProductID: productID, Quantity: qty})
}

// applied devuelve una copia de los descuentos registrados.
func (s *stockSaga) applied() []stockStep {
	out := make([]stockStep, len(s.steps))
	copy(out, s.steps)
	return out
}

// compensate lanza un incremento por cada descuento registrado, en paralelo y sin orden.
// Los fallos se registran en el log y no se propagan; devuelve cuántos fallaron.
// Usa un contexto sin cancelación: una desconexión del cliente no debe cortar el rollback.
func (s *stockSaga) compensate(ctx context.Context) int {
	if len(s.steps) == 0 {
		return 0
	}
	ctx = context.WithoutCancel(ctx)

	var failed atomic.Int32
	var g errgroup.Group
	for _, step := range s.steps {
		g.Go(func() error {
			if err := s.compensator.IncrementStock(ctx, step.ProductID, step.Quantity); err != nil {
				failed.Add(1)
				s.log.Error().Err(err).
					Str("product_id", step.ProductID).
					Int("quantity", step.Quantity).
					Msg("error al revertir stock")
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.log.Warn().
			Int("failed", int(failed.Load())).
			Int("steps", len(s.steps)).
			Msg("rollback de venta incompleto, conciliar stock manualmente")
	}
	return int(failed.Load())
}
