package domain

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role роль учётной записи, определяет доступ к маршрутам
type Role string

const (
	RoleUser       Role = "user"
	RoleStaff      Role = "staff"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// Admin учётная запись (администратор, сотрудник или покупатель)
type Admin struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	PasswordHash string             `json:"-" bson:"password"`
	Role         Role               `json:"role" bson:"role"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// MediaKind тип медиафайла товара
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

type Media struct {
	Type MediaKind `json:"type" bson:"type"`
	URL  string    `json:"url" bson:"url"`
}

type Color struct {
	Name string `json:"name" bson:"name"`
	Hex  string `json:"hex" bson:"hex"`
}

// SizeVariant цена и остаток для одного размера
type SizeVariant struct {
	Size          string  `json:"size" bson:"size"`
	Price         float64 `json:"price" bson:"price"`
	DiscountPrice float64 `json:"discountPrice,omitempty" bson:"discountPrice,omitempty"`
	Stock         int64   `json:"stock" bson:"stock"`
}

// LabelValue строка вида "метка: значение"
type LabelValue struct {
	Label string `json:"label" bson:"label"`
	Value string `json:"value" bson:"value"`
}

type DetailedDescription struct {
	Paragraph1 string `json:"paragraph1,omitempty" bson:"paragraph1,omitempty"`
	Paragraph2 string `json:"paragraph2,omitempty" bson:"paragraph2,omitempty"`
}

type ProductDetails struct {
	Fabric          string `json:"fabric,omitempty" bson:"fabric,omitempty"`
	FitType         string `json:"fitType,omitempty" bson:"fitType,omitempty"`
	Length          string `json:"length,omitempty" bson:"length,omitempty"`
	SleeveNeckType  string `json:"sleeveNeckType,omitempty" bson:"sleeveNeckType,omitempty"`
	PatternPrint    string `json:"patternPrint,omitempty" bson:"patternPrint,omitempty"`
	OccasionType    string `json:"occasionType,omitempty" bson:"occasionType,omitempty"`
	WashCare        string `json:"washCare,omitempty" bson:"washCare,omitempty"`
	CountryOfOrigin string `json:"countryOfOrigin,omitempty" bson:"countryOfOrigin,omitempty"`
	DeliveryReturns string `json:"deliveryReturns,omitempty" bson:"deliveryReturns,omitempty"`
}

// Product представляет товар каталога
type Product struct {
	ID                  primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	ProductCode         string              `json:"productCode" bson:"productCode"`
	ProductName         string              `json:"productName" bson:"productName"`
	Category            primitive.ObjectID  `json:"category" bson:"category"`
	CategoryName        string              `json:"categoryName,omitempty" bson:"-"`
	Brand               string              `json:"brand,omitempty" bson:"brand,omitempty"`
	Media               []Media             `json:"media" bson:"media"`
	Thumbnail           string              `json:"thumbnail,omitempty" bson:"thumbnail,omitempty"`
	Description         string              `json:"description,omitempty" bson:"description,omitempty"`
	DetailedDescription DetailedDescription `json:"detailedDescription" bson:"detailedDescription"`
	Colors              []Color             `json:"colors" bson:"colors"`
	Sizes               []SizeVariant       `json:"sizes" bson:"sizes"`
	Details             ProductDetails      `json:"details" bson:"details"`
	MaterialWashing     []LabelValue        `json:"materialWashing" bson:"materialWashing"`
	SizeShape           []LabelValue        `json:"sizeShape" bson:"sizeShape"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// InStock true, если хотя бы у одного размера есть остаток
func (p Product) InStock() bool {
	for _, s := range p.Sizes {
		if s.Stock > 0 {
			return true
		}
	}
	return false
}

// SizeIndex возвращает позицию размера или -1
func (p Product) SizeIndex(label string) int {
	for i, s := range p.Sizes {
		if s.Size == label {
			return i
		}
	}
	return -1
}

func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		InStock bool `json:"inStock"`
	}{plain: plain(p), InStock: p.InStock()})
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal статусы, после которых заказ больше не меняется
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// TerminalOrderStatuses для фильтров хранилища
var TerminalOrderStatuses = []OrderStatus{OrderStatusDelivered, OrderStatusCancelled}

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// OrderItem позиция в заказе
type OrderItem struct {
	Product     primitive.ObjectID `json:"product" bson:"product"`
	ProductName string             `json:"productName,omitempty" bson:"productName,omitempty"`
	Quantity    int64              `json:"quantity" bson:"quantity"`
	Size        string             `json:"size,omitempty" bson:"size,omitempty"`
	Color       string             `json:"color,omitempty" bson:"color,omitempty"`
	Price       float64            `json:"price" bson:"price"`
}

type ShippingInfo struct {
	FullName   string `json:"fullName,omitempty" bson:"fullName,omitempty"`
	Phone      string `json:"phone,omitempty" bson:"phone,omitempty"`
	Address    string `json:"address,omitempty" bson:"address,omitempty"`
	City       string `json:"city,omitempty" bson:"city,omitempty"`
	State      string `json:"state,omitempty" bson:"state,omitempty"`
	PostalCode string `json:"postalCode,omitempty" bson:"postalCode,omitempty"`
	Country    string `json:"country,omitempty" bson:"country,omitempty"`
}

// Order сущность заказа
type Order struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	OrderID       string             `json:"orderId" bson:"orderId"`
	User          primitive.ObjectID `json:"user,omitempty" bson:"user,omitempty"`
	Items         []OrderItem        `json:"items" bson:"items"`
	ShippingInfo  ShippingInfo       `json:"shippingInfo" bson:"shippingInfo"`
	OrderStatus   OrderStatus        `json:"orderStatus" bson:"orderStatus"`
	PaymentStatus PaymentStatus      `json:"paymentStatus" bson:"paymentStatus"`
	PaymentMethod string             `json:"paymentMethod,omitempty" bson:"paymentMethod,omitempty"`
	TotalAmount   float64            `json:"totalAmount" bson:"totalAmount"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

type Category struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Enquiry запрос покупателя по товару
type Enquiry struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	Name        string              `json:"name" bson:"name" validate:"required"`
	Email       string              `json:"email" bson:"email" validate:"required,email"`
	Phone       string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Product     *primitive.ObjectID `json:"product,omitempty" bson:"product,omitempty"`
	ProductName string              `json:"productName,omitempty" bson:"productName,omitempty"`
	Message     string              `json:"message" bson:"message" validate:"required"`
	Read        bool                `json:"read" bson:"read"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// ContactMessage сообщение из формы обратной связи
type ContactMessage struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name" validate:"required"`
	Email     string             `json:"email" bson:"email" validate:"required,email"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string             `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string             `json:"message" bson:"message" validate:"required"`
	Visited   bool               `json:"visited" bson:"visited"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Log запись журнала действий
type Log struct {
	ID        primitive.ObjectID  `json:"_id" bson:"_id,omitempty"`
	UserID    *primitive.ObjectID `json:"userId" bson:"userId"`
	UserName  string              `json:"userName" bson:"userName"`
	UserRole  string              `json:"userRole" bson:"userRole"`
	Method    string              `json:"method" bson:"method"`
	Endpoint  string              `json:"endpoint" bson:"endpoint"`
	Action    string              `json:"action" bson:"action"`
	Details   string              `json:"details" bson:"details"`
	Timestamp time.Time           `json:"timestamp" bson:"timestamp"`
}

// DailyOrders количество заказов за день (UTC)
type DailyOrders struct {
	Date   time.Time `json:"date" bson:"date"`
	Orders int64     `json:"orders" bson:"orders"`
}

// DashboardSummary сводка для главной страницы админки
type DashboardSummary struct {
	TotalRevenue    float64       `json:"totalRevenue"`
	ExpectedRevenue float64       `json:"expectedRevenue"`
	TotalOrders     int64         `json:"totalOrders"`
	TotalProducts   int64         `json:"totalProducts"`
	TotalCategories int64         `json:"totalCategories"`
	UnreadEnquiries int64         `json:"unreadEnquiries"`
	ChartData       []DailyOrders `json:"chartData"`
}
