// Package product provides the repository interface and MongoDB implementation
// for managing products.
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("producto no encontrado")
	ErrDuplicateCode = errors.New("codigo de producto duplicado")
)

// Filter restricts a listing. The zero value matches everything.
type Filter struct {
	Category string
	InStock  bool
}

func (f Filter) query() bson.M {
	q := bson.M{}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.InStock {
		q["stock"] = bson.M{"$gt": 0}
	}
	return q
}

// Sort orders a listing. Dir follows the store convention: 1 ascending,
// -1 descending. The zero value keeps the store's default order.
type Sort struct {
	Field string
	Dir   int
}

type PageQuery struct {
	Limit  int
	Page   int
	Filter Filter
	Sort   Sort
}

type Repository interface {
	List(ctx context.Context, f Filter) ([]Product, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*Product, error)
	GetByCode(ctx context.Context, code string) (*Product, error)
	ListPage(ctx context.Context, q PageQuery) (*Page, error)
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, id primitive.ObjectID, ch Changes) (*Product, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MongoRepo struct{ col *mongo.Collection }

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{col: db.Collection("products")}
}

// EnsureIndexes creates the unique index backing the code invariant.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoRepo) List(ctx context.Context, f Filter) ([]Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := r.col.Find(ctx, f.query())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepo) GetByCode(ctx context.Context, code string) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p Product
	err := r.col.FindOne(ctx, bson.M{"code": strings.ToLower(code)}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MongoRepo) ListPage(ctx context.Context, q PageQuery) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page <= 0 {
		page = 1
	}

	filter := q.Filter.query()
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSkip(int64(page-1) * int64(limit)).
		SetLimit(int64(limit))
	if q.Sort.Field != "" && q.Sort.Dir != 0 {
		opts.SetSort(bson.D{{Key: q.Sort.Field, Value: q.Sort.Dir}})
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []Product
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	return NewPage(docs, total, limit, page), nil
}

func (r *MongoRepo) Create(ctx context.Context, p *Product) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	p.Code = strings.ToLower(p.Code)
	if _, err := r.GetByCode(ctx, p.Code); err == nil {
		return ErrDuplicateCode
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now

	_, err := r.col.InsertOne(ctx, p)
	if mongo.IsDuplicateKeyError(err) {
		// el índice único gana la carrera entre chequeo e inserción
		return ErrDuplicateCode
	}
	return err
}

func (r *MongoRepo) Update(ctx context.Context, id primitive.ObjectID, ch Changes) (*Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"updatedAt": time.Now().UTC()}
	if ch.Title != nil {
		set["title"] = *ch.Title
	}
	if ch.Description != nil {
		set["description"] = *ch.Description
	}
	if ch.Price != nil {
		set["price"] = *ch.Price
	}
	if ch.Code != nil {
		code := strings.ToLower(*ch.Code)
		if other, err := r.GetByCode(ctx, code); err == nil && other.ID != id {
			return nil, ErrDuplicateCode
		} else if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		set["code"] = code
	}
	if ch.Stock != nil {
		set["stock"] = *ch.Stock
	}
	if ch.Status != nil {
		set["status"] = *ch.Status
	}
	if ch.Category != nil {
		set["category"] = *ch.Category
	}

	var p Product
	err := r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateCode
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
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
