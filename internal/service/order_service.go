package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/events"
	"backoffice/internal/repository"
)

// OrderService реализует переходы статусов заказа
type OrderService struct {
	orders    repository.OrderRepository
	publisher events.Publisher
	diag      *log.Logger
}

func NewOrderService(orders repository.OrderRepository, publisher events.Publisher, diag *log.Logger) *OrderService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if diag == nil {
		diag = log.Default()
	}
	return &OrderService{orders: orders, publisher: publisher, diag: diag}
}

func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.orders.List(ctx)
}

// GetOrder возвращает заказ по orderId
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByOrderID(ctx, orderID)
}

// PaymentAfter статус оплаты после перехода: Delivered -> Paid, Cancelled -> Failed
func PaymentAfter(status domain.OrderStatus, current domain.PaymentStatus) domain.PaymentStatus {
	switch status {
	case domain.OrderStatusDelivered:
		return domain.PaymentStatusPaid
	case domain.OrderStatusCancelled:
		return domain.PaymentStatusFailed
	}
	return current
}

// UpdateStatus меняет статус заказа, если он ещё не Delivered/Cancelled.
// Проверка терминального статуса повторяется в условии самой записи.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidInput
	}
	if !status.Valid() {
		return nil, invalid("unknown order status %q", status)
	}
	current, err := s.orders.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if current.OrderStatus.Terminal() {
		return nil, wrapf(ErrInvalidTransition, "order %s is %s", orderID, current.OrderStatus)
	}

	updated, err := s.orders.UpdateStatus(ctx, orderID, status, PaymentAfter(status, current.PaymentStatus))
	if errors.Is(err, repository.ErrConflict) {
		return nil, wrapf(ErrInvalidTransition, "order %s", orderID)
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, current.OrderStatus, updated)
	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, from domain.OrderStatus, o *domain.Order) {
	ev := events.OrderStatusChanged{
		OrderID:       o.OrderID,
		From:          string(from),
		To:            string(o.OrderStatus),
		PaymentStatus: string(o.PaymentStatus),
		At:            time.Now().UTC(),
	}
	if id, ok := auth.FromContext(ctx); ok {
		ev.ChangedBy = id.ID.Hex()
	}
	if err := s.publisher.Publish(ctx, events.KeyOrderStatusChanged, ev); err != nil {
		s.diag.Printf("publish %s for order %s: %v", events.KeyOrderStatusChanged, o.OrderID, err)
	}
}
