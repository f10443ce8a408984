package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// имена коллекций совпадают с теми, что создавала прежняя версия сервиса
const (
	collAdmins          = "admins"
	collProducts        = "products"
	collOrders          = "orders"
	collCategories      = "categories"
	collEnquiries       = "enquiries"
	collContactMessages = "contactmessages"
	collLogs            = "logs"
)

// MongoStore держит клиент и базу; репозитории строятся поверх Database()
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// ConnectMongo подключается и проверяет соединение пингом
func ConnectMongo(ctx context.Context, uri, database string, maxPool uint64) (*MongoStore, error) {
	opts := options.Client().ApplyURI(uri)
	if maxPool > 0 {
		opts.SetMaxPoolSize(maxPool)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Database() *mongo.Database { return s.db }

func (s *MongoStore) Close(ctx context.Context) error { return s.client.Disconnect(ctx) }

// EnsureIndexes создаёт уникальные индексы, на которые опираются ErrDuplicate
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		collAdmins:     {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		collProducts:   {{Keys: bson.D{{Key: "productCode", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		collCategories: {{Keys: bson.D{{Key: "name", Value: 1}}, Options: unique}},
		collOrders:     {{Keys: bson.D{{Key: "orderId", Value: 1}}, Options: unique}, {Keys: bson.D{{Key: "createdAt", Value: -1}}}},
		collLogs:       {{Keys: bson.D{{Key: "timestamp", Value: -1}}}},
	}
	for coll, models := range specs {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// mapMongoErr переводит ошибки драйвера в ошибки репозитория
func mapMongoErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}

func newestFirst(field string) *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: field, Value: -1}})
}

func returnAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
