package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo guarda cada venta como un documento con sus líneas embebidas.
type SaleRepo struct {
	sales    *mongo.Collection
	products *mongo.Collection
}

// NewSaleRepository construye el adaptador.
func NewSaleRepository(db *mongo.Database) *SaleRepo {
	return &SaleRepo{
		sales:    db.Collection(salesCollection),
		products: db.Collection(productsCollection),
	}
}

func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	if sale.ID == "" {
		sale.ID = uuid.New().String()
	}
	if sale.CreatedAt.IsZero() {
		// BSON guarda milisegundos.
		sale.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	}
	doc, err := newSaleDocument(sale)
	if err != nil {
		return err
	}
	if _, err := r.sales.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return nil
}

func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var doc saleDocument
	if err := r.sales.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	sale, err := doc.toEntity()
	if err != nil {
		return nil, err
	}
	if err := r.populate(ctx, []*entity.Sale{sale}); err != nil {
		return nil, err
	}
	return sale, nil
}

func (r *SaleRepo) List(ctx context.Context, limit, offset int) ([]*entity.Sale, int, error) {
	total, err := r.sales.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count sales: %w", err)
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cursor, err := r.sales.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list sales: %w", err)
	}
	var docs []saleDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode sales: %w", err)
	}
	list := make([]*entity.Sale, 0, len(docs))
	for _, d := range docs {
		s, err := d.toEntity()
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
	}
	if err := r.populate(ctx, list); err != nil {
		return nil, 0, err
	}
	return list, int(total), nil
}

// populate resuelve nombre y precio actual con una sola consulta $in sobre products.
func (r *SaleRepo) populate(ctx context.Context, sales []*entity.Sale) error {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, s := range sales {
		for _, it := range s.Items {
			if _, ok := seen[it.ProductID]; !ok {
				seen[it.ProductID] = struct{}{}
				ids = append(ids, it.ProductID)
			}
		}
	}
	if len(ids) == 0 {
		return nil
	}

	cursor, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return fmt.Errorf("populate products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return fmt.Errorf("decode products: %w", err)
	}
	refs := make(map[string]*entity.ProductRef, len(docs))
	for _, d := range docs {
		p, err := d.toEntity()
		if err != nil {
			return err
		}
		refs[p.ID] = &entity.ProductRef{ID: p.ID, Name: p.Name, Price: p.Price}
	}
	for _, s := range sales {
		for i := range s.Items {
			s.Items[i].Product = refs[s.Items[i].ProductID]
		}
	}
	return nil
}
