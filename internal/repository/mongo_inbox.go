package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/domain"
)

// MongoEnquiries коллекция enquiries
type MongoEnquiries struct{ coll *mongo.Collection }

func NewMongoEnquiries(db *mongo.Database) *MongoEnquiries {
	return &MongoEnquiries{coll: db.Collection(collEnquiries)}
}

var _ EnquiryRepository = (*MongoEnquiries)(nil)

func (r *MongoEnquiries) Create(ctx context.Context, e *domain.Enquiry) error {
	e.ID = primitive.NewObjectID()
	e.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, e)
	return mapMongoErr(err)
}

func (r *MongoEnquiries) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error) {
	var e domain.Enquiry
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, mapMongoErr(err)
	}
	return &e, nil
}

func (r *MongoEnquiries) List(ctx context.Context) ([]domain.Enquiry, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Enquiry, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoEnquiries) MarkRead(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error) {
	var e domain.Enquiry
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"read": true}}, returnAfter()).Decode(&e)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &e, nil
}

func (r *MongoEnquiries) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoEnquiries) CountUnread(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"read": bson.M{"$ne": true}})
}

// MongoContactMessages коллекция contactmessages
type MongoContactMessages struct{ coll *mongo.Collection }

func NewMongoContactMessages(db *mongo.Database) *MongoContactMessages {
	return &MongoContactMessages{coll: db.Collection(collContactMessages)}
}

var _ ContactMessageRepository = (*MongoContactMessages)(nil)

func (r *MongoContactMessages) Create(ctx context.Context, m *domain.ContactMessage) error {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, m)
	return mapMongoErr(err)
}

func (r *MongoContactMessages) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, mapMongoErr(err)
	}
	return &m, nil
}

func (r *MongoContactMessages) List(ctx context.Context) ([]domain.ContactMessage, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.ContactMessage, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoContactMessages) SetVisited(ctx context.Context, id primitive.ObjectID, visited bool) (*domain.ContactMessage, error) {
	var m domain.ContactMessage
	err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"visited": visited}}, returnAfter()).Decode(&m)
	if err != nil {
		return nil, mapMongoErr(err)
	}
	return &m, nil
}

// MongoLogs коллекция logs
type MongoLogs struct{ coll *mongo.Collection }

func NewMongoLogs(db *mongo.Database) *MongoLogs {
	return &MongoLogs{coll: db.Collection(collLogs)}
}

var _ LogRepository = (*MongoLogs)(nil)

func (r *MongoLogs) Create(ctx context.Context, l *domain.Log) error {
	l.ID = primitive.NewObjectID()
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now().UTC()
	}
	_, err := r.coll.InsertOne(ctx, l)
	return err
}

func (r *MongoLogs) List(ctx context.Context) ([]domain.Log, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst("timestamp"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Log, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoLogs) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoLogs) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
