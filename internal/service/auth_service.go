package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

// AuthService вход по email/паролю и проверка bearer-токена
type AuthService struct {
	admins repository.AdminRepository
	tokens *auth.Tokens
}

func NewAuthService(admins repository.AdminRepository, tokens *auth.Tokens) *AuthService {
	return &AuthService{admins: admins, tokens: tokens}
}

// LoginUser учётная запись в ответе на вход: только то, что нужно клиенту
type LoginUser struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      LoginUser `json:"user"`
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if err := check(credentials{Email: email, Password: password}); err != nil {
		return nil, err
	}
	a, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.tokens.Issue(a.ID, a.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{
		Token:     token,
		ExpiresAt: exp,
		User:      LoginUser{ID: a.ID.Hex(), Name: a.Name, Email: a.Email, Role: a.Role},
	}, nil
}

// Authenticate проверяет токен и загружает учётную запись.
// auth.ErrInvalidToken для плохого токена, repository.ErrNotFound если субъекта больше нет.
func (s *AuthService) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return auth.Identity{}, err
	}
	a, err := s.admins.GetByID(ctx, id)
	if err != nil {
		return auth.Identity{}, err
	}
	return auth.IdentityOf(*a), nil
}

// Bootstrap создаёт первого superadmin, если учётной записи с таким email нет
func (s *AuthService) Bootstrap(ctx context.Context, name, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}
	if strings.TrimSpace(name) == "" {
		name = "Super Admin"
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	a := domain.Admin{Name: strings.TrimSpace(name), Email: email, PasswordHash: hash, Role: domain.RoleSuperAdmin}
	if err := s.admins.Create(ctx, &a); err != nil {
		return false, err
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
