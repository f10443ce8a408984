package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/repository"
)

const (
	headerRequestID   = "X-Request-ID"
	headerEntityName  = "X-Entity-Name"
	headerProductName = "X-Product-Name"

	ctxRequestID    = "requestID"
	ctxIdentity     = "identity"
	ctxAuditPayload = "auditPayload"
	ctxAuditCreated = "auditCreated"

	maxAuditBody = 1 << 20
)

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ctxRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// requireAuth проверяет Authorization: Bearer <token> и кладёт Identity в контекст
func (s *Server) requireAuth(c *gin.Context) {
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
		return
	}
	id, err := s.svc.Auth.Authenticate(c.Request.Context(), token)
	switch {
	case errors.Is(err, auth.ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, token failed"})
		return
	case errors.Is(err, repository.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	case err != nil:
		s.fail(c, err)
		return
	}
	c.Set(ctxIdentity, id)
	c.Request = c.Request.WithContext(auth.NewContext(c.Request.Context(), id))
	c.Next()
}

// allow пропускает только перечисленные роли
func allow(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := identity(c)
		if !ok || !id.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "access denied"})
			return
		}
		c.Next()
	}
}

func identity(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(ctxIdentity)
	if !ok {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

// setAuditPayload заменяет тело запроса в журнале (multipart, вычисленные поля)
func setAuditPayload(c *gin.Context, v any) { c.Set(ctxAuditPayload, v) }

// setAuditCreated созданная сущность для записи "Added ..."
func setAuditCreated(c *gin.Context, v any) { c.Set(ctxAuditCreated, v) }

type snapshotFunc func(ctx context.Context, id string) (any, error)

// hexLoader разбирает ObjectID из пути и вызывает get
func hexLoader(get func(ctx context.Context, id primitive.ObjectID) (any, error)) snapshotFunc {
	return func(ctx context.Context, raw string) (any, error) {
		id, err := parseID(raw)
		if err != nil {
			return nil, err
		}
		return get(ctx, id)
	}
}

// snapshotLoaders чтение сущности до изменения, по ресурсу из пути
func (s *Server) snapshotLoaders() map[string]snapshotFunc {
	return map[string]snapshotFunc{
		"products": hexLoader(func(ctx context.Context, id primitive.ObjectID) (any, error) {
			return s.svc.Products.GetByID(ctx, id)
		}),
		"orders": func(ctx context.Context, orderID string) (any, error) {
			return s.svc.Orders.GetOrder(ctx, orderID)
		},
		"admins": hexLoader(func(ctx context.Context, id primitive.ObjectID) (any, error) {
			return s.svc.Admins.Get(ctx, id)
		}),
		"enquiries": hexLoader(func(ctx context.Context, id primitive.ObjectID) (any, error) {
			return s.svc.Enquiries.Lookup(ctx, id)
		}),
		"contact-messages": hexLoader(func(ctx context.Context, id primitive.ObjectID) (any, error) {
			return s.svc.Contacts.Get(ctx, id)
		}),
	}
}

// auditTrail пишет в журнал каждый успешный POST/PUT/PATCH/DELETE.
// Снимок сущности читается до обработчика, запись уходит в Recorder после.
func (s *Server) auditTrail() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.recorder == nil || !audit.Auditable(c.Request.Method) {
			c.Next()
			return
		}
		endpoint := c.Request.URL.RequestURI()
		entityID := c.Param("id")
		if entityID == "" {
			entityID = c.Param("orderId")
		}

		var snapshot map[string]any
		if audit.NeedsSnapshot(c.Request.Method, entityID) {
			snapshot = s.snapshot(c, audit.Resource(endpoint), entityID)
		}
		body := captureJSONBody(c)

		c.Next()

		if st := c.Writer.Status(); st < 200 || st >= 300 {
			return
		}
		req := audit.Request{
			Method:     c.Request.Method,
			Endpoint:   endpoint,
			EntityID:   entityID,
			EntityName: entityName(c),
			Snapshot:   snapshot,
			Payload:    body,
		}
		if v, ok := c.Get(ctxAuditPayload); ok {
			req.Payload = s.normalize(c, v)
		}
		if v, ok := c.Get(ctxAuditCreated); ok {
			req.Created = s.normalize(c, v)
		}
		if id, ok := identity(c); ok {
			req.Actor = &id
		}
		s.recorder.Submit(c.Request.Context(), audit.Compose(req))
	}
}

func (s *Server) snapshot(c *gin.Context, resource, id string) map[string]any {
	load, ok := s.snapshots[resource]
	if !ok {
		return nil
	}
	v, err := load(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.diag.Printf("[%s] audit snapshot %s/%s: %v", c.GetString(ctxRequestID), resource, id, err)
		}
		return nil
	}
	return s.normalize(c, v)
}

func (s *Server) normalize(c *gin.Context, v any) map[string]any {
	m, err := audit.Normalize(v)
	if err != nil {
		s.diag.Printf("[%s] audit normalize: %v", c.GetString(ctxRequestID), err)
		return nil
	}
	return m
}

func entityName(c *gin.Context) string {
	if v := strings.TrimSpace(c.GetHeader(headerEntityName)); v != "" {
		return v
	}
	return strings.TrimSpace(c.GetHeader(headerProductName))
}

// captureJSONBody читает JSON-тело и возвращает его обработчику нетронутым
func captureJSONBody(c *gin.Context) map[string]any {
	if c.Request.Body == nil || !strings.HasPrefix(c.ContentType(), "application/json") {
		return nil
	}
	raw, err := io.ReadAll(c.Request.Body)
	_ = c.Request.Body.Close()
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil || len(raw) == 0 || len(raw) > maxAuditBody {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}
