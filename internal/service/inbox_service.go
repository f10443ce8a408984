package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

// EnquiryService запросы покупателей по товарам
type EnquiryService struct {
	repo     repository.EnquiryRepository
	products repository.ProductRepository
}

func NewEnquiryService(repo repository.EnquiryRepository, products repository.ProductRepository) *EnquiryService {
	return &EnquiryService{repo: repo, products: products}
}

func (s *EnquiryService) List(ctx context.Context) ([]domain.Enquiry, error) {
	return s.repo.List(ctx)
}

// Get возвращает запрос; при первом просмотре он помечается прочитанным
func (s *EnquiryService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Read {
		return e, nil
	}
	return s.repo.MarkRead(ctx, id)
}

// Lookup возвращает запрос без отметки о прочтении
func (s *EnquiryService) Lookup(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *EnquiryService) MarkRead(ctx context.Context, id primitive.ObjectID) (*domain.Enquiry, error) {
	return s.repo.MarkRead(ctx, id)
}

func (s *EnquiryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return s.repo.Delete(ctx, id)
}

// Create публичная форма запроса; название товара берётся из каталога
func (s *EnquiryService) Create(ctx context.Context, e domain.Enquiry) (*domain.Enquiry, error) {
	e.Name, e.Email, e.Message = strings.TrimSpace(e.Name), normalizeEmail(e.Email), strings.TrimSpace(e.Message)
	e.Phone = strings.TrimSpace(e.Phone)
	if err := check(e); err != nil {
		return nil, err
	}
	if e.Product != nil {
		p, err := s.products.GetByID(ctx, *e.Product)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid("unknown product %s", e.Product.Hex())
		}
		if err != nil {
			return nil, err
		}
		e.ProductName = p.ProductName
	}
	e.Read = false
	if err := s.repo.Create(ctx, &e); err != nil {
		return nil, err
	}
	return &e, nil
}

// ContactService сообщения из формы обратной связи
type ContactService struct {
	repo repository.ContactMessageRepository
}

func NewContactService(repo repository.ContactMessageRepository) *ContactService {
	return &ContactService{repo: repo}
}

func (s *ContactService) List(ctx context.Context) ([]domain.ContactMessage, error) {
	return s.repo.List(ctx)
}

func (s *ContactService) Get(ctx context.Context, id primitive.ObjectID) (*domain.ContactMessage, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ContactService) SetVisited(ctx context.Context, id primitive.ObjectID, visited bool) (*domain.ContactMessage, error) {
	return s.repo.SetVisited(ctx, id, visited)
}

func (s *ContactService) Create(ctx context.Context, m domain.ContactMessage) (*domain.ContactMessage, error) {
	m.Name, m.Email, m.Message = strings.TrimSpace(m.Name), normalizeEmail(m.Email), strings.TrimSpace(m.Message)
	m.Phone = strings.TrimSpace(m.Phone)
	if err := check(m); err != nil {
		return nil, err
	}
	m.Subject = strings.TrimSpace(m.Subject)
	m.Visited = false
	if err := s.repo.Create(ctx, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
