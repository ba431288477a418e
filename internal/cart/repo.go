// Package cart provides the repository interface and MongoDB implementation
// for managing shopping carts.
package cart

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mcastro-dev/tienda-ecom/internal/product"
)

var (
	ErrNotFound     = errors.New("carrito no encontrado")
	ErrItemNotFound = errors.New("producto no encontrado en el carrito")
)

type Repository interface {
	Create(ctx context.Context) (*Cart, error)
	ListAll(ctx context.Context) ([]Cart, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Cart, error)
	ReplaceItems(ctx context.Context, id primitive.ObjectID, items []Item) (*Cart, error)
	AddOrIncrement(ctx context.Context, cartID, productID primitive.ObjectID) (*Cart, error)
	SetQuantity(ctx context.Context, cartID, productID primitive.ObjectID, quantity int) (*Cart, error)
	RemoveItem(ctx context.Context, cartID, productID primitive.ObjectID) (*Cart, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRepo struct {
	col      *mongo.Collection
	products *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		col:      db.Collection("carts"),
		products: db.Collection("products"),
	}
}

func (r *MongoRepo) Create(ctx context.Context) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	c := &Cart{
		ID:        primitive.NewObjectID(),
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *MongoRepo) ListAll(ctx context.Context) ([]Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Cart
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var c Cart
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.populate(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// populate expande cada referencia al documento completo del producto.
// Referencias colgantes (producto borrado) quedan sin expandir.
func (r *MongoRepo) populate(ctx context.Context, c *Cart) error {
	if len(c.Items) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	cur, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	var docs []product.Product
	if err := cur.All(ctx, &docs); err != nil {
		return err
	}
	byID := make(map[primitive.ObjectID]*product.Product, len(docs))
	for i := range docs {
		byID[docs[i].ID] = &docs[i]
	}
	for i := range c.Items {
		c.Items[i].Product = byID[c.Items[i].ProductID]
	}
	return nil
}

func (r *MongoRepo) ReplaceItems(ctx context.Context, id primitive.ObjectID, items []Item) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if items == nil {
		items = []Item{}
	}
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"products": items, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// AddOrIncrement merges productID into the cart in a single database
// operation per step: increment the entry in place when it exists, otherwise
// push a fresh entry with quantity 1. Both updates are conditional on the
// entry's presence/absence, so concurrent calls never lose an increment and
// never produce duplicate entries; when the guarded push loses to a
// concurrent insert the increment is retried.
func (r *MongoRepo) AddOrIncrement(ctx context.Context, cartID, productID primitive.ObjectID) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now().UTC()
	for {
		res, err := r.col.UpdateOne(ctx,
			bson.M{"_id": cartID, "products.product": productID},
			bson.M{
				"$inc": bson.M{"products.$.quantity": 1},
				"$set": bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount > 0 {
			return r.GetByID(ctx, cartID)
		}

		res, err = r.col.UpdateOne(ctx,
			bson.M{"_id": cartID, "products.product": bson.M{"$ne": productID}},
			bson.M{
				"$push": bson.M{"products": Item{ProductID: productID, Quantity: 1}},
				"$set":  bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount > 0 {
			return r.GetByID(ctx, cartID)
		}

		// Ninguna de las dos actualizaciones coincidió: o el carrito no
		// existe, o una inserción concurrente ganó y toca reintentar.
		n, err := r.col.CountDocuments(ctx, bson.M{"_id": cartID})
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, ErrNotFound
		}
	}
}

func (r *MongoRepo) SetQuantity(ctx context.Context, cartID, productID primitive.ObjectID, quantity int) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": cartID, "products.product": productID},
		bson.M{
			"$set": bson.M{
				"products.$.quantity": quantity,
				"updatedAt":           time.Now().UTC(),
			},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, r.missing(ctx, cartID)
	}
	return r.GetByID(ctx, cartID)
}

func (r *MongoRepo) RemoveItem(ctx context.Context, cartID, productID primitive.ObjectID) (*Cart, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": cartID, "products.product": productID},
		bson.M{
			"$pull": bson.M{"products": bson.M{"product": productID}},
			"$set":  bson.M{"updatedAt": time.Now().UTC()},
		},
	)
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, r.missing(ctx, cartID)
	}
	return r.GetByID(ctx, cartID)
}

// missing decides which not-found applies when a per-item update matched
// nothing: the whole cart, or just the entry.
func (r *MongoRepo) missing(ctx context.Context, cartID primitive.ObjectID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": cartID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return ErrItemNotFound
}

func (r *MongoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
