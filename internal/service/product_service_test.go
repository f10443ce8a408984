package service

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

func setupPS(t *testing.T) (*ProductService, primitive.ObjectID) {
	t.Helper()
	store := repository.NewMemoryStore()
	cats := repository.NewMemoryCategories(store)
	c := domain.Category{Name: "Shirts"}
	if err := cats.Create(context.Background(), &c); err != nil {
		t.Fatal(err)
	}
	return NewProductService(store, cats), c.ID
}

func shirt(category primitive.ObjectID) domain.Product {
	return domain.Product{
		ProductCode: " ls-01 ",
		ProductName: "Linen Shirt",
		Category:    category,
		Colors:      []domain.Color{{Name: "White", Hex: "#ffffff"}},
		Sizes: []domain.SizeVariant{
			{Size: "M", Price: 1000, Stock: 3},
			{Size: "L", Price: 1100, DiscountPrice: 990, Stock: 0},
		},
	}
}

func TestProduct_Create_Valid(t *testing.T) {
	ctx := context.Background()
	ps, cat := setupPS(t)
	p, err := ps.Create(ctx, shirt(cat))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.ID.IsZero() {
		t.Fatalf("expected id assigned")
	}
	if p.ProductCode != "LS-01" {
		t.Fatalf("expected upper-cased code, got %q", p.ProductCode)
	}
	if p.CategoryName != "Shirts" {
		t.Fatalf("expected category name, got %q", p.CategoryName)
	}
	if p.Media == nil || p.MaterialWashing == nil {
		t.Fatalf("expected empty slices instead of nil")
	}
	if !p.InStock() {
		t.Fatalf("expected in stock")
	}
}

func TestProduct_Create_Invalid(t *testing.T) {
	ctx := context.Background()
	ps, cat := setupPS(t)
	mutate := []func(p *domain.Product){
		func(p *domain.Product) { p.ProductName = " " },
		func(p *domain.Product) { p.ProductCode = "" },
		func(p *domain.Product) { p.Category = primitive.NilObjectID },
		func(p *domain.Product) { p.Category = primitive.NewObjectID() },
		func(p *domain.Product) { p.Sizes[1].Size = "M" },
		func(p *domain.Product) { p.Sizes[0].Stock = -1 },
		func(p *domain.Product) { p.Sizes[0].Price = -5 },
		func(p *domain.Product) { p.Colors[0].Name = "" },
		func(p *domain.Product) { p.SizeShape = []domain.LabelValue{{Label: " ", Value: "x"}} },
	}
	for i, m := range mutate {
		p := shirt(cat)
		m(&p)
		if _, err := ps.Create(ctx, p); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestProduct_Create_DuplicateCode(t *testing.T) {
	ctx := context.Background()
	ps, cat := setupPS(t)
	if _, err := ps.Create(ctx, shirt(cat)); err != nil {
		t.Fatal(err)
	}
	if _, err := ps.Create(ctx, shirt(cat)); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected duplicate, got %v", err)
	}
}

func TestProduct_Update_Get_Delete(t *testing.T) {
	ctx := context.Background()
	ps, cat := setupPS(t)
	p, _ := ps.Create(ctx, shirt(cat))

	// get
	got, err := ps.GetByID(ctx, p.ID)
	if err != nil || got.ID != p.ID {
		t.Fatalf("get failed: %v", err)
	}

	// update
	p.ProductName = "Linen Shirt Slim"
	p.Brand = "Acme"
	up, err := ps.Update(ctx, *p)
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	if up.ProductName != "Linen Shirt Slim" || up.Brand != "Acme" {
		t.Fatalf("not updated")
	}
	if !up.CreatedAt.Equal(p.CreatedAt) {
		t.Fatalf("createdAt changed")
	}

	// delete
	if err := ps.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete err: %v", err)
	}
	if _, err := ps.GetByID(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := ps.Delete(ctx, p.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestProduct_List_Filtering(t *testing.T) {
	ctx := context.Background()
	ps, cat := setupPS(t)
	must := func(p *domain.Product, err error) *domain.Product {
		if err != nil {
			t.Fatal(err)
		}
		return p
	}
	a := shirt(cat)
	b := shirt(cat)
	b.ProductCode, b.ProductName = "KT-7", "Cotton Kurta"
	_ = must(ps.Create(ctx, a))
	_ = must(ps.Create(ctx, b))

	list, err := ps.List(ctx, repository.ProductFilter{Query: "kurta"})
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(list) != 1 || list[0].ProductCode != "KT-7" {
		t.Fatalf("expected only the kurta, got %+v", list)
	}
	if list[0].CategoryName != "Shirts" {
		t.Fatalf("expected category name filled")
	}

	other := primitive.NewObjectID()
	list, err = ps.List(ctx, repository.ProductFilter{Category: &other})
	if err != nil {
		t.Fatalf("list err: %v", err)
	}
	if len(list) != 0 {
		t.Fatalf("category filter failed")
	}
}

func ptr[T any](v T) *T { return &v }

func TestProduct_UpdateInventory(t *testing.T) {
	ctx := context.Background()
	ps, cat := setupPS(t)
	p, _ := ps.Create(ctx, shirt(cat))

	up, err := ps.UpdateInventory(ctx, p.ID, InventoryUpdate{Size: "L", Stock: ptr[int64](12), Price: ptr(1200.0)})
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	l := up.Sizes[up.SizeIndex("L")]
	if l.Stock != 12 || l.Price != 1200 || l.DiscountPrice != 990 {
		t.Fatalf("unexpected L variant %+v", l)
	}
	if m := up.Sizes[up.SizeIndex("M")]; m.Stock != 3 || m.Price != 1000 {
		t.Fatalf("other size changed: %+v", m)
	}

	// discountPercent from the new price
	up, err = ps.UpdateInventory(ctx, p.ID, InventoryUpdate{Size: "M", Price: ptr(999.0), DiscountPercent: ptr(10.0)})
	if err != nil {
		t.Fatalf("update err: %v", err)
	}
	if m := up.Sizes[up.SizeIndex("M")]; m.DiscountPrice != 899.1 {
		t.Fatalf("expected 899.1, got %v", m.DiscountPrice)
	}
}

func TestProduct_UpdateInventory_Errors(t *testing.T) {
	ctx := context.Background()
	ps, cat := setupPS(t)
	p, _ := ps.Create(ctx, shirt(cat))

	_, err := ps.UpdateInventory(ctx, p.ID, InventoryUpdate{Size: "XXL", Stock: ptr[int64](5)})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for missing size, got %v", err)
	}
	got, _ := ps.GetByID(ctx, p.ID)
	if len(got.Sizes) != 2 || got.Sizes[0].Stock != 3 || got.Sizes[1].Stock != 0 {
		t.Fatalf("sizes changed after failed update: %+v", got.Sizes)
	}

	if _, err := ps.UpdateInventory(ctx, primitive.NewObjectID(), InventoryUpdate{Size: "M"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for missing product, got %v", err)
	}

	bad := []InventoryUpdate{
		{Size: ""},
		{Size: "M", Stock: ptr[int64](-1)},
		{Size: "M", Price: ptr(-1.0)},
		{Size: "M", DiscountPrice: ptr(-1.0)},
		{Size: "M", DiscountPercent: ptr(101.0)},
	}
	for i, u := range bad {
		if _, err := ps.UpdateInventory(ctx, p.ID, u); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}
