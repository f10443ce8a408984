package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backoffice/internal/domain"
)

// MongoAdmins коллекция admins
type MongoAdmins struct{ coll *mongo.Collection }

func NewMongoAdmins(db *mongo.Database) *MongoAdmins {
	return &MongoAdmins{coll: db.Collection(collAdmins)}
}

var _ AdminRepository = (*MongoAdmins)(nil)

func (r *MongoAdmins) Create(ctx context.Context, a *domain.Admin) error {
	a.ID = primitive.NewObjectID()
	a.CreatedAt = time.Now().UTC()
	a.UpdatedAt = a.CreatedAt
	_, err := r.coll.InsertOne(ctx, a)
	return mapMongoErr(err)
}

func (r *MongoAdmins) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, mapMongoErr(err)
	}
	return &a, nil
}

func (r *MongoAdmins) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		return nil, mapMongoErr(err)
	}
	return &a, nil
}

func (r *MongoAdmins) List(ctx context.Context, role *domain.Role) ([]domain.Admin, error) {
	filter := bson.M{}
	if role != nil {
		filter["role"] = *role
	}
	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Admin, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoAdmins) Update(ctx context.Context, a *domain.Admin) error {
	a.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": bson.M{
		"name":      a.Name,
		"email":     a.Email,
		"phone":     a.Phone,
		"role":      a.Role,
		"updatedAt": a.UpdatedAt,
	}})
	if err != nil {
		return mapMongoErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAdmins) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"password":  hash,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoAdmins) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
