// Package auth: хеширование паролей, выпуск и проверка bearer-токенов,
// идентичность текущего запроса.
package auth

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
)

// Identity учётная запись, от имени которой выполняется запрос (без пароля)
type Identity struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Role  domain.Role
}

// IdentityOf строит Identity из сохранённой учётной записи
func IdentityOf(a domain.Admin) Identity {
	return Identity{ID: a.ID, Name: a.Name, Email: a.Email, Role: a.Role}
}

// HasRole true, если роль входит в список
func (i Identity) HasRole(roles ...domain.Role) bool {
	for _, r := range roles {
		if i.Role == r {
			return true
		}
	}
	return false
}

type ctxKey struct{}

func NewContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	return id, ok
}
