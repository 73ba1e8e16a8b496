package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre la colección products.
type ProductRepo struct {
	coll *mongo.Collection
}

// NewProductRepository construye el adaptador.
func NewProductRepository(db *mongo.Database) *ProductRepo {
	return &ProductRepo{coll: db.Collection(productsCollection)}
}

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	doc, err := newProductDocument(product)
	if err != nil {
		return err
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	var doc productDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return doc.toEntity()
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{}, opts)
}

// Update hace $set solo de los campos presentes y devuelve el documento resultante.
func (r *ProductRepo) Update(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	set, err := patchSet(patch)
	if err != nil {
		return nil, err
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc productDocument
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return doc.toEntity()
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DecrementStock filtro condicional + $inc en una sola operación del servidor.
func (r *ProductRepo) DecrementStock(ctx context.Context, id string, qty int) (bool, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{
			"$inc": bson.M{"stock": -qty},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return res.MatchedCount == 1, nil
}

func (r *ProductRepo) IncrementStock(ctx context.Context, id string, qty int) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"stock": qty},
			"$set": bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ProductRepo) ListLowStock(ctx context.Context, ids []string) ([]*entity.Product, error) {
	filter := bson.M{"$expr": bson.M{"$lt": bson.A{"$stock", "$alert_level"}}}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": ids}
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
}

func (r *ProductRepo) find(ctx context.Context, filter any, opts *options.FindOptions) ([]*entity.Product, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	list := make([]*entity.Product, 0, len(docs))
	for _, d := range docs {
		p, err := d.toEntity()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}
