package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/onsi/gomega"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"
)

type mockChannel struct{ mock.Mock }

func (m *mockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	c := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return c.Get(0).(amqp.Queue), c.Error(1)
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	return m.Called(exchange, key, mandatory, immediate, msg).Error(0)
}

func (m *mockChannel) Close() error { return nil }

type mockConnection struct {
	mock.Mock
	ch *mockChannel
}

func (m *mockConnection) Channel() (channel, error) {
	c := m.Called()
	if err := c.Error(0); err != nil {
		return nil, err
	}
	return m.ch, nil
}

func (m *mockConnection) Close() error { return m.Called().Error(0) }

func TestAMQPPublisher_Publish(t *testing.T) {
	g := NewWithT(t)

	ch := &mockChannel{}
	conn := &mockConnection{ch: ch}
	conn.On("Channel").Return(nil)
	ch.On("QueueDeclare", "order-events", true, false, false, false, amqp.Table(nil)).Return(amqp.Queue{Name: "order-events"}, nil)

	var sent amqp.Publishing
	ch.On("PublishWithContext", "", "order-events", false, false, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(4).(amqp.Publishing) }).
		Return(nil)

	p, err := newAMQPPublisher(conn, "order-events")
	g.Expect(err).NotTo(HaveOccurred())

	ev := OrderStatusChanged{OrderID: "1001", From: "Pending", To: "Delivered", PaymentStatus: "Paid", At: time.Now().UTC()}
	g.Expect(p.Publish(context.Background(), KeyOrderStatusChanged, ev)).To(Succeed())

	g.Expect(sent.Type).To(Equal(KeyOrderStatusChanged))
	g.Expect(sent.ContentType).To(Equal("application/json"))
	g.Expect(sent.DeliveryMode).To(Equal(amqp.Persistent))
	g.Expect(sent.MessageId).NotTo(BeEmpty())

	var got OrderStatusChanged
	g.Expect(json.Unmarshal(sent.Body, &got)).To(Succeed())
	g.Expect(got.OrderID).To(Equal("1001"))
	g.Expect(got.To).To(Equal("Delivered"))
	ch.AssertExpectations(t)
}

func TestAMQPPublisher_Errors(t *testing.T) {
	g := NewWithT(t)

	ch := &mockChannel{}
	conn := &mockConnection{ch: ch}
	conn.On("Channel").Return(nil)
	ch.On("QueueDeclare", "q", true, false, false, false, amqp.Table(nil)).Return(amqp.Queue{}, errors.New("access refused"))

	_, err := newAMQPPublisher(conn, "q")
	g.Expect(err).To(MatchError(ContainSubstring("declare queue q")))

	broken := &mockConnection{}
	broken.On("Channel").Return(errors.New("connection closed"))
	p := &AMQPPublisher{conn: broken, queue: "q"}
	g.Expect(p.Publish(context.Background(), KeyOrderStatusChanged, OrderStatusChanged{})).
		To(MatchError(ContainSubstring("connection closed")))
}

func TestMemory(t *testing.T) {
	g := NewWithT(t)
	m := &Memory{}
	g.Expect(m.Publish(context.Background(), "a", 1)).To(Succeed())
	g.Expect(m.Messages()).To(HaveLen(1))
	g.Expect(m.Messages()[0].Key).To(Equal("a"))

	m.Err = errors.New("down")
	g.Expect(m.Publish(context.Background(), "b", 2)).To(HaveOccurred())
	g.Expect(m.Messages()).To(HaveLen(1))

	g.Expect(Nop{}.Publish(context.Background(), "c", nil)).To(Succeed())
}
