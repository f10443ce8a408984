package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/domain"
)

// MongoOrders коллекция orders
type MongoOrders struct{ coll *mongo.Collection }

func NewMongoOrders(db *mongo.Database) *MongoOrders {
	return &MongoOrders{coll: db.Collection(collOrders)}
}

var _ OrderRepository = (*MongoOrders)(nil)

func (r *MongoOrders) Create(ctx context.Context, o *domain.Order) error {
	o.ID = primitive.NewObjectID()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	o.UpdatedAt = o.CreatedAt
	_, err := r.coll.InsertOne(ctx, o)
	return mapMongoErr(err)
}

func (r *MongoOrders) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	var o domain.Order
	if err := r.coll.FindOne(ctx, bson.M{"orderId": orderID}).Decode(&o); err != nil {
		return nil, mapMongoErr(err)
	}
	return &o, nil
}

func (r *MongoOrders) List(ctx context.Context) ([]domain.Order, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, newestFirst("createdAt"))
	if err != nil {
		return nil, err
	}
	out := make([]domain.Order, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus: терминальный статус проверяется в фильтре самой записи,
// поэтому параллельный запрос не выведет заказ из Delivered/Cancelled.
func (r *MongoOrders) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, payment domain.PaymentStatus) (*domain.Order, error) {
	filter := bson.M{
		"orderId":     orderID,
		"orderStatus": bson.M{"$nin": domain.TerminalOrderStatuses},
	}
	update := bson.M{"$set": bson.M{
		"orderStatus":   status,
		"paymentStatus": payment,
		"updatedAt":     time.Now().UTC(),
	}}
	var o domain.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, update, returnAfter()).Decode(&o)
	if err == nil {
		return &o, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	n, cerr := r.coll.CountDocuments(ctx, bson.M{"orderId": orderID})
	if cerr != nil {
		return nil, cerr
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}

func (r *MongoOrders) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{})
}

type sumResult struct {
	Total float64 `bson:"total"`
}

func (r *MongoOrders) sum(ctx context.Context, match bson.M) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$totalAmount"}}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	var rows []sumResult
	if err := cur.All(ctx, &rows); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// Revenue: оплаченные заказы и ожидаемая выручка (не оплачены и не отменены)
func (r *MongoOrders) Revenue(ctx context.Context) (paid, expected float64, err error) {
	paid, err = r.sum(ctx, bson.M{"paymentStatus": domain.PaymentStatusPaid})
	if err != nil {
		return 0, 0, err
	}
	expected, err = r.sum(ctx, bson.M{
		"paymentStatus": bson.M{"$ne": domain.PaymentStatusPaid},
		"orderStatus":   bson.M{"$ne": domain.OrderStatusCancelled},
	})
	if err != nil {
		return 0, 0, err
	}
	return paid, expected, nil
}

func (r *MongoOrders) DailyCounts(ctx context.Context) ([]domain.DailyOrders, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
				"day":   bson.M{"$dayOfMonth": "$createdAt"},
			},
			"orders": bson.M{"$sum": 1},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id": 0,
			"date": bson.M{"$dateFromParts": bson.M{
				"year":  "$_id.year",
				"month": "$_id.month",
				"day":   "$_id.day",
			}},
			"orders": 1,
		}}},
		{{Key: "$sort", Value: bson.M{"date": 1}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	out := make([]domain.DailyOrders, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
