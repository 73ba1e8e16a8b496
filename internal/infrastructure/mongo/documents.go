package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// Los precios se guardan como Decimal128 para no perder precisión en BSON.

type productDocument struct {
	ID         string               `bson:"_id"`
	Name       string               `bson:"name"`
	Stock      int                  `bson:"stock"`
	Price      primitive.Decimal128 `bson:"price"`
	AlertLevel int                  `bson:"alert_level"`
	CreatedAt  time.Time            `bson:"created_at"`
	UpdatedAt  time.Time            `bson:"updated_at"`
}

type saleItemDocument struct {
	ProductID string               `bson:"product_id"`
	Quantity  int                  `bson:"quantity"`
	Price     primitive.Decimal128 `bson:"price"`
}

type saleDocument struct {
	ID        string               `bson:"_id"`
	Items     []saleItemDocument   `bson:"items"`
	Total     primitive.Decimal128 `bson:"total"`
	Cashier   string               `bson:"cashier"`
	CreatedAt time.Time            `bson:"created_at"`
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("decimal128 %s: %w", d.String(), err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decimal %s: %w", v.String(), err)
	}
	return d, nil
}

func newProductDocument(p *entity.Product) (productDocument, error) {
	price, err := toDecimal128(p.Price)
	if err != nil {
		return productDocument{}, err
	}
	return productDocument{
		ID:         p.ID,
		Name:       p.Name,
		Stock:      p.Stock,
		Price:      price,
		AlertLevel: p.AlertLevel,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}, nil
}

// patchSet arma el $set con los campos presentes; stock solo entra si viene en el patch.
func patchSet(p entity.ProductPatch) (bson.M, error) {
	set := bson.M{"updated_at": p.UpdatedAt}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Stock != nil {
		set["stock"] = *p.Stock
	}
	if p.Price != nil {
		price, err := toDecimal128(*p.Price)
		if err != nil {
			return nil, err
		}
		set["price"] = price
	}
	if p.AlertLevel != nil {
		set["alert_level"] = *p.AlertLevel
	}
	return set, nil
}

func (d productDocument) toEntity() (*entity.Product, error) {
	price, err := fromDecimal128(d.Price)
	if err != nil {
		return nil, err
	}
	return &entity.Product{
		ID:         d.ID,
		Name:       d.Name,
		Stock:      d.Stock,
		Price:      price,
		AlertLevel: d.AlertLevel,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}, nil
}

func newSaleDocument(s *entity.Sale) (saleDocument, error) {
	total, err := toDecimal128(s.Total)
	if err != nil {
		return saleDocument{}, err
	}
	items := make([]saleItemDocument, 0, len(s.Items))
	for _, it := range s.Items {
		price, err := toDecimal128(it.Price)
		if err != nil {
			return saleDocument{}, err
		}
		items = append(items, saleItemDocument{ProductID: it.ProductID, Quantity: it.Quantity, Price: price})
	}
	return saleDocument{ID: s.ID, Items: items, Total: total, Cashier: s.Cashier, CreatedAt: s.CreatedAt}, nil
}

func (d saleDocument) toEntity() (*entity.Sale, error) {
	total, err := fromDecimal128(d.Total)
	if err != nil {
		return nil, err
	}
	items := make([]entity.SaleItem, 0, len(d.Items))
	for _, it := range d.Items {
		price, err := fromDecimal128(it.Price)
		if err != nil {
			return nil, err
		}
		items = append(items, entity.SaleItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: price})
	}
	return &entity.Sale{ID: d.ID, Items: items, Total: total, Cashier: d.Cashier, CreatedAt: d.CreatedAt}, nil
}
