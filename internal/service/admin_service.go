package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

const minPasswordLen = 6

// AdminService учётные записи: администраторы, сотрудники, покупатели
type AdminService struct {
	admins repository.AdminRepository
}

func NewAdminService(admins repository.AdminRepository) *AdminService {
	return &AdminService{admins: admins}
}

type AdminInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    string      `json:"phone,omitempty"`
	Password string      `json:"password,omitempty" validate:"omitempty,min=6"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=user staff admin superadmin"`
}

func (in *AdminInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

type ProfileInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone,omitempty"`
}

func (s *AdminService) List(ctx context.Context) ([]domain.Admin, error) {
	return s.admins.List(ctx, nil)
}

// ListCustomers учётные записи с ролью user
func (s *AdminService) ListCustomers(ctx context.Context) ([]domain.Admin, error) {
	role := domain.RoleUser
	return s.admins.List(ctx, &role)
}

func (s *AdminService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Admin, error) {
	if id.IsZero() {
		return nil, ErrInvalidInput
	}
	return s.admins.GetByID(ctx, id)
}

func (s *AdminService) Create(ctx context.Context, in AdminInput) (*domain.Admin, error) {
	in.normalize()
	if in.Role == "" {
		in.Role = domain.RoleAdmin
	}
	if err := check(in); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	a := domain.Admin{Name: in.Name, Email: in.Email, Phone: in.Phone, PasswordHash: hash, Role: in.Role}
	if err := s.admins.Create(ctx, &a); err != nil {
		return nil, wrapf(err, "create %s", in.Email)
	}
	return &a, nil
}

// Update superadmin меняет имя, email и роль
func (s *AdminService) Update(ctx context.Context, id primitive.ObjectID, in AdminInput) (*domain.Admin, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.normalize()
	if err := check(in); err != nil {
		return nil, err
	}
	if in.Role != "" {
		a.Role = in.Role
	}
	a.Name, a.Email = in.Name, in.Email
	if in.Phone != "" {
		a.Phone = in.Phone
	}
	if err := s.admins.Update(ctx, a); err != nil {
		return nil, wrapf(err, "update %s", id.Hex())
	}
	return a, nil
}

func (s *AdminService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id.IsZero() {
		return ErrInvalidInput
	}
	return s.admins.Delete(ctx, id)
}

// UpdateProfile учётная запись меняет собственные имя, email и телефон
func (s *AdminService) UpdateProfile(ctx context.Context, id primitive.ObjectID, in ProfileInput) (*domain.Admin, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Name, in.Email, in.Phone = strings.TrimSpace(in.Name), normalizeEmail(in.Email), strings.TrimSpace(in.Phone)
	if err := check(in); err != nil {
		return nil, err
	}
	a.Name, a.Email, a.Phone = in.Name, in.Email, in.Phone
	if err := s.admins.Update(ctx, a); err != nil {
		return nil, wrapf(err, "update profile %s", id.Hex())
	}
	return a, nil
}

// ChangePassword: свой пароль может сменить любой, чужой только superadmin.
// Нулевой userID означает самого actor.
func (s *AdminService) ChangePassword(ctx context.Context, actor auth.Identity, userID primitive.ObjectID, password string) error {
	if userID.IsZero() {
		userID = actor.ID
	}
	if userID != actor.ID && actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}
	if err := checkPassword(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.admins.SetPassword(ctx, userID, hash)
}

func checkPassword(password string) error {
	if err := validate.Var(password, fmt.Sprintf("required,min=%d", minPasswordLen)); err != nil {
		return invalid("password must be at least %d characters", minPasswordLen)
	}
	return nil
}
