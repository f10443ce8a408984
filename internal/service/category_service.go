package service

import (
	"context"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

type CategoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// List категории по имени
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("category name is required")
	}
	c := domain.Category{Name: name}
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, wrapf(err, "category %q", name)
	}
	return &c, nil
}
