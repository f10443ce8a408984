package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backoffice/internal/domain"
)

// MongoProducts коллекция products
type MongoProducts struct{ coll *mongo.Collection }

func NewMongoProducts(db *mongo.Database) *MongoProducts {
	return &MongoProducts{coll: db.Collection(collProducts)}
}

var _ ProductRepository = (*MongoProducts)(nil)

func (r *MongoProducts) Create(ctx context.Context, p *domain.Product) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	_, err := r.coll.InsertOne(ctx, p)
	return mapMongoErr(err)
}

func (r *MongoProducts) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	var p domain.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, mapMongoErr(err)
	}
	return &p, nil
}

func (r *MongoProducts) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProducts) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoProducts) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	filter := bson.M{}
	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		filter["$or"] = bson.A{bson.M{"productName": re}, bson.M{"productCode": re}}
	}
	if f.Category != nil {
		filter["category"] = *f.Category
	}
	cur, err := r.coll.Find(ctx, filter, newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSize атомарно заменяет элемент sizes через позиционный оператор
func (r *MongoProducts) UpdateSize(ctx context.Context, id primitive.ObjectID, v domain.SizeVariant) (*domain.Product, error) {
	filter := bson.M{"_id": id, "sizes.size": v.Size}
	update := bson.M{"$set": bson.M{"sizes.$": v, "updatedAt": time.Now().UTC()}}
	var p domain.Product
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&p); err != nil {
		return nil, mapMongoErr(err)
	}
	return &p, nil
}

func (r *MongoProducts) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

// MongoCategories коллекция categories
type MongoCategories struct{ coll *mongo.Collection }

func NewMongoCategories(db *mongo.Database) *MongoCategories {
	return &MongoCategories{coll: db.Collection(collCategories)}
}

var _ CategoryRepository = (*MongoCategories)(nil)

func (r *MongoCategories) Create(ctx context.Context, c *domain.Category) error {
	c.ID = primitive.NewObjectID()
	c.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, c)
	return mapMongoErr(err)
}

func (r *MongoCategories) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	var c domain.Category
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, mapMongoErr(err)
	}
	return &c, nil
}

func (r *MongoCategories) List(ctx context.Context) ([]domain.Category, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Category, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoCategories) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}
