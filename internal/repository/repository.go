package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
)

var (
	// ErrNotFound возвращается, когда сущность не найдена
	ErrNotFound = errors.New("not found")
	// ErrDuplicate нарушение уникального ключа (email, код товара, имя категории)
	ErrDuplicate = errors.New("already exists")
	// ErrConflict условная запись не применилась: документ изменился
	ErrConflict = errors.New("write conflict")
)

// ProductFilter параметры фильтрации списка товаров
type ProductFilter struct {
	Query    string
	Category *primitive.ObjectID
}

// ProductRepository интерфейс репозитория товаров
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
	// UpdateSize перезаписывает одну запись sizes с тем же размером
	UpdateSize(ctx context.Context, id primitive.ObjectID, v domain.SizeVariant) (*domain.Product, error)
	Count(ctx context.Context) (int64, error)
}

// OrderRepository интерфейс репозитория заказов
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	// UpdateStatus применяет статус только если заказ ещё не в терминальном состоянии,
	// иначе ErrConflict
	UpdateStatus(ctx context.Context, orderID string, status domain.OrderStatus, payment domain.PaymentStatus) (*domain.Order, error)
	Count(ctx context.Context) (int64, error)
	Revenue(ctx context.Context) (paid, expected float64, err error)
	DailyCounts(ctx context.Context) ([]domain.DailyOrders, error)
}

type AdminRepository interface {
	Create(ctx context.Context, a *domain.Admin) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	// List с role == nil возвращает все учётные записи
	List(ctx context.Context, role *domain.Role) ([]domain.Admin, error)
	Update(ctx context.Context, a *domain.Admin) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Count(ctx context.Context) (int64, error)
}

type EnquiryRepository interface {
	Create(ctx context.Context, e *domain.Enquiry) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error)
	List(ctx context.Context) ([]domain.Enquiry, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	CountUnread(ctx context.Context) (int64, error)
}

type ContactMessageRepository interface {
	Create(ctx context.Context, m *domain.ContactMessage) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ContactMessage, error)
	List(ctx context.Context) ([]domain.ContactMessage, error)
	SetVisited(ctx context.Context, id primitive.ObjectID, visited bool) (*domain.ContactMessage, error)
}

// LogRepository журнал действий: только добавление и удаление
type LogRepository interface {
	Create(ctx context.Context, l *domain.Log) error
	List(ctx context.Context) ([]domain.Log, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func dayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
