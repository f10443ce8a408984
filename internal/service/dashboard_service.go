package service

import (
	"context"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

type DashboardService struct {
	orders     repository.OrderRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	enquiries  repository.EnquiryRepository
}

func NewDashboardService(orders repository.OrderRepository, products repository.ProductRepository,
	categories repository.CategoryRepository, enquiries repository.EnquiryRepository) *DashboardService {
	return &DashboardService{orders: orders, products: products, categories: categories, enquiries: enquiries}
}

// Summary выручка, счётчики и количество заказов по дням
func (s *DashboardService) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var (
		sum domain.DashboardSummary
		err error
	)
	if sum.TotalRevenue, sum.ExpectedRevenue, err = s.orders.Revenue(ctx); err != nil {
		return nil, wrapf(err, "revenue")
	}
	if sum.TotalOrders, err = s.orders.Count(ctx); err != nil {
		return nil, wrapf(err, "count orders")
	}
	if sum.TotalProducts, err = s.products.Count(ctx); err != nil {
		return nil, wrapf(err, "count products")
	}
	if sum.TotalCategories, err = s.categories.Count(ctx); err != nil {
		return nil, wrapf(err, "count categories")
	}
	if sum.UnreadEnquiries, err = s.enquiries.CountUnread(ctx); err != nil {
		return nil, wrapf(err, "count enquiries")
	}
	if sum.ChartData, err = s.orders.DailyCounts(ctx); err != nil {
		return nil, wrapf(err, "daily orders")
	}
	return &sum, nil
}
