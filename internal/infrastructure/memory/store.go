package memory

import (
	"sync"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// Store almacén en memoria para STORE_DRIVER=memory y tests. Un único mutex serializa
// las escrituras, así el descuento condicional es atómico igual que en las bases reales.
type Store struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	sales    []entity.Sale
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{products: make(map[string]entity.Product)}
}

func cloneSale(s entity.Sale) entity.Sale {
	items := make([]entity.SaleItem, len(s.Items))
	copy(items, s.Items)
	for i := range items {
		items[i].Product = nil
	}
	s.Items = items
	return s
}
