// Package events публикует доменные события (смена статуса заказа) в брокер.
package events

import (
	"context"
	"sync"
	"time"
)

const KeyOrderStatusChanged = "order.status.changed"

// OrderStatusChanged событие после успешной смены статуса заказа
type OrderStatusChanged struct {
	OrderID       string    `json:"orderId"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	PaymentStatus string    `json:"paymentStatus"`
	ChangedBy     string    `json:"changedBy,omitempty"`
	At            time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, key string, v any) error
	Close() error
}

// Nop ничего не публикует (AMQP_URL не задан)
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }

// Message опубликованное событие в Memory
type Message struct {
	Key     string
	Payload any
}

// Memory запоминает события в памяти (тесты)
type Memory struct {
	mu   sync.Mutex
	msgs []Message
	Err  error
}

func (m *Memory) Publish(_ context.Context, key string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.msgs = append(m.msgs, Message{Key: key, Payload: v})
	return nil
}

func (m *Memory) Close() error { return nil }

func (m *Memory) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.msgs...)
}
