package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

// ProductService инкапсулирует бизнес-логику вокруг товаров
type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
}

func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categories: categories}
}

func (s *ProductService) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if err := s.normalize(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, wrapf(err, "create product %s", p.ProductCode)
	}
	s.fillCategory(ctx, &p)
	return &p, nil
}

func (s *ProductService) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if id.IsZero() {
		return nil, ErrInvalidInput
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.fillCategory(ctx, p)
	return p, nil
}

// Update полностью заменяет товар; createdAt сохраняется хранилищем
func (s *ProductService) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	if p.ID.IsZero() {
		return nil, ErrInvalidInput
	}
	if err := s.normalize(ctx, &p); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, &p); err != nil {
		return nil, wrapf(err, "update product %s", p.ID.Hex())
	}
	s.fillCategory(ctx, &p)
	return &p, nil
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return ErrInvalidInput
	}
	return s.repo.Delete(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	for i := range list {
		list[i].CategoryName = names[list[i].Category]
	}
	return list, nil
}

// InventoryUpdate новые значения для одного размера; nil поле не меняется
type InventoryUpdate struct {
	Size            string   `json:"size"`
	Stock           *int64   `json:"stock,omitempty"`
	Price           *float64 `json:"price,omitempty"`
	DiscountPrice   *float64 `json:"discountPrice,omitempty"`
	DiscountPercent *float64 `json:"discountPercent,omitempty"`
}

func (u InventoryUpdate) validate() error {
	if strings.TrimSpace(u.Size) == "" {
		return invalid("size is required")
	}
	if u.Stock != nil && *u.Stock < 0 {
		return invalid("stock must not be negative")
	}
	if u.Price != nil && *u.Price < 0 {
		return invalid("price must not be negative")
	}
	if u.DiscountPrice != nil && *u.DiscountPrice < 0 {
		return invalid("discountPrice must not be negative")
	}
	if u.DiscountPercent != nil && (*u.DiscountPercent < 0 || *u.DiscountPercent > 100) {
		return invalid("discountPercent must be within 0..100")
	}
	return nil
}

// UpdateInventory перезаписывает остаток и цены одного размера товара.
// Если размера нет, товар не меняется и возвращается ErrNotFound.
func (s *ProductService) UpdateInventory(ctx context.Context, id primitive.ObjectID, u InventoryUpdate) (*domain.Product, error) {
	if id.IsZero() {
		return nil, ErrInvalidInput
	}
	if err := u.validate(); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	size := strings.TrimSpace(u.Size)
	idx := p.SizeIndex(size)
	if idx < 0 {
		return nil, wrapf(repository.ErrNotFound, "size %q", size)
	}

	v := p.Sizes[idx]
	if u.Stock != nil {
		v.Stock = *u.Stock
	}
	if u.Price != nil {
		v.Price = *u.Price
	}
	switch {
	case u.DiscountPrice != nil:
		v.DiscountPrice = *u.DiscountPrice
	case u.DiscountPercent != nil:
		v.DiscountPrice = discounted(v.Price, *u.DiscountPercent)
	}

	updated, err := s.repo.UpdateSize(ctx, id, v)
	if err != nil {
		return nil, wrapf(err, "update size %q", size)
	}
	s.fillCategory(ctx, updated)
	return updated, nil
}

// discounted цена со скидкой в процентах, до копеек
func discounted(price, percent float64) float64 {
	return math.Round(price*(100-percent)) / 100
}

func (s *ProductService) normalize(ctx context.Context, p *domain.Product) error {
	p.ProductCode = strings.ToUpper(strings.TrimSpace(p.ProductCode))
	p.ProductName = strings.TrimSpace(p.ProductName)
	if p.ProductCode == "" || p.ProductName == "" {
		return invalid("productCode and productName are required")
	}
	if p.Category.IsZero() {
		return invalid("category is required")
	}
	if _, err := s.categories.GetByID(ctx, p.Category); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("unknown category %s", p.Category.Hex())
		}
		return err
	}

	seen := make(map[string]bool, len(p.Sizes))
	for i := range p.Sizes {
		sv := &p.Sizes[i]
		sv.Size = strings.TrimSpace(sv.Size)
		if sv.Size == "" {
			return invalid("size label is required")
		}
		if seen[sv.Size] {
			return invalid("duplicate size %q", sv.Size)
		}
		seen[sv.Size] = true
		if sv.Price < 0 || sv.DiscountPrice < 0 || sv.Stock < 0 {
			return invalid("size %q: negative price or stock", sv.Size)
		}
	}
	for _, c := range p.Colors {
		if strings.TrimSpace(c.Name) == "" {
			return invalid("color name is required")
		}
	}
	for _, lv := range append(append([]domain.LabelValue(nil), p.MaterialWashing...), p.SizeShape...) {
		if strings.TrimSpace(lv.Label) == "" {
			return invalid("label is required")
		}
	}

	if p.Media == nil {
		p.Media = []domain.Media{}
	}
	if p.Colors == nil {
		p.Colors = []domain.Color{}
	}
	if p.Sizes == nil {
		p.Sizes = []domain.SizeVariant{}
	}
	if p.MaterialWashing == nil {
		p.MaterialWashing = []domain.LabelValue{}
	}
	if p.SizeShape == nil {
		p.SizeShape = []domain.LabelValue{}
	}
	return nil
}

func (s *ProductService) fillCategory(ctx context.Context, p *domain.Product) {
	if c, err := s.categories.GetByID(ctx, p.Category); err == nil {
		p.CategoryName = c.Name
	}
}

func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
