package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"backoffice/internal/domain"
)

func orderDoc(orderID string, status domain.OrderStatus, payment domain.PaymentStatus) bson.D {
	return bson.D{
		{Key: "_id", Value: primitive.NewObjectID()},
		{Key: "orderId", Value: orderID},
		{Key: "orderStatus", Value: string(status)},
		{Key: "paymentStatus", Value: string(payment)},
		{Key: "totalAmount", Value: 120.5},
		{Key: "createdAt", Value: time.Date(2025, 4, 2, 8, 0, 0, 0, time.UTC)},
	}
}

func TestMongoOrders(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("get by order id", func(mt *mtest.T) {
		repo := NewMongoOrders(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.orders", mtest.FirstBatch,
			orderDoc("1001", domain.OrderStatusPending, domain.PaymentStatusPending)))

		o, err := repo.GetByOrderID(context.Background(), "1001")
		if err != nil {
			mt.Fatalf("get: %v", err)
		}
		if o.OrderID != "1001" || o.TotalAmount != 120.5 || o.OrderStatus != domain.OrderStatusPending {
			mt.Fatalf("unexpected order %+v", o)
		}
	})

	mt.Run("get missing order", func(mt *mtest.T) {
		repo := NewMongoOrders(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "db.orders", mtest.FirstBatch))

		if _, err := repo.GetByOrderID(context.Background(), "404"); !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})

	mt.Run("update status", func(mt *mtest.T) {
		repo := NewMongoOrders(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{
			Key:   "value",
			Value: orderDoc("1001", domain.OrderStatusDelivered, domain.PaymentStatusPaid),
		}))

		o, err := repo.UpdateStatus(context.Background(), "1001", domain.OrderStatusDelivered, domain.PaymentStatusPaid)
		if err != nil {
			mt.Fatalf("update: %v", err)
		}
		if o.PaymentStatus != domain.PaymentStatusPaid {
			mt.Fatalf("expected paid, got %s", o.PaymentStatus)
		}
	})

	mt.Run("update terminal order conflicts", func(mt *mtest.T) {
		repo := NewMongoOrders(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "db.orders", mtest.FirstBatch, bson.D{{Key: "n", Value: 1}}),
		)

		_, err := repo.UpdateStatus(context.Background(), "1001", domain.OrderStatusShipped, domain.PaymentStatusPaid)
		if !errors.Is(err, ErrConflict) {
			mt.Fatalf("expected conflict, got %v", err)
		}
	})

	mt.Run("update missing order", func(mt *mtest.T) {
		repo := NewMongoOrders(mt.DB)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}),
			mtest.CreateCursorResponse(0, "db.orders", mtest.FirstBatch),
		)

		_, err := repo.UpdateStatus(context.Background(), "404", domain.OrderStatusShipped, domain.PaymentStatusPending)
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})
}

func TestMongoCategories_Duplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("duplicate name", func(mt *mtest.T) {
		repo := NewMongoCategories(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: db.categories index: name_1",
		}))

		err := repo.Create(context.Background(), &domain.Category{Name: "Kurtas"})
		if !errors.Is(err, ErrDuplicate) {
			mt.Fatalf("expected duplicate, got %v", err)
		}
	})
}

func TestMongoProducts_UpdateSize(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("size not found", func(mt *mtest.T) {
		repo := NewMongoProducts(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := repo.UpdateSize(context.Background(), primitive.NewObjectID(), domain.SizeVariant{Size: "XXL", Stock: 3})
		if !errors.Is(err, ErrNotFound) {
			mt.Fatalf("expected not found, got %v", err)
		}
	})
}
