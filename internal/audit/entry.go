package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"backoffice/internal/auth"
	"backoffice/internal/domain"
)

const (
	unknownUser = "Unknown User"
	unknownRole = "Unknown Role"
)

// redactedKeys поля тела запроса, которые не попадают в журнал
var redactedKeys = map[string]struct{}{
	"password":        {},
	"newPassword":     {},
	"currentPassword": {},
	"oldPassword":     {},
}

// nameKeys поля, по которым сущность называется в журнале (в порядке приоритета)
var nameKeys = []string{"productName", "name", "orderId", "email"}

// Request всё, что известно о запросе к моменту записи в журнал
type Request struct {
	Method   string
	Endpoint string
	EntityID string
	// EntityName значение заголовка X-Entity-Name (X-Product-Name)
	EntityName string
	Actor      *auth.Identity
	Snapshot   map[string]any
	Payload    map[string]any
	Created    map[string]any
}

// Auditable true для методов, изменяющих данные
func Auditable(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// NeedsSnapshot true, если перед обработчиком нужно прочитать сущность
func NeedsSnapshot(method, entityID string) bool {
	if entityID == "" {
		return false
	}
	return method == http.MethodPut || method == http.MethodPatch || method == http.MethodDelete
}

// Resource сегмент пути после /api/
func Resource(endpoint string) string {
	if i := strings.IndexAny(endpoint, "?#"); i >= 0 {
		endpoint = endpoint[:i]
	}
	parts := strings.Split(endpoint, "/")
	if len(parts) > 2 && parts[2] != "" {
		return parts[2]
	}
	return "Resource"
}

func verb(method string) string {
	switch method {
	case http.MethodPost:
		return "Created/Added"
	case http.MethodPut, http.MethodPatch:
		return "Updated"
	case http.MethodDelete:
		return "Deleted"
	}
	return method
}

// singular: products -> product, categories -> category, contact-messages -> contact message
func singular(resource string) string {
	r := strings.ReplaceAll(resource, "-", " ")
	switch {
	case strings.HasSuffix(r, "ies"):
		return strings.TrimSuffix(r, "ies") + "y"
	case strings.HasSuffix(r, "s"):
		return strings.TrimSuffix(r, "s")
	}
	return r
}

func unknownName(noun string) string {
	if noun == "" {
		return "Unknown"
	}
	return "Unknown " + strings.ToUpper(noun[:1]) + noun[1:]
}

func nameOf(m map[string]any, noun string) string {
	for _, k := range nameKeys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return unknownName(noun)
}

func idOf(m map[string]any, fallback string) string {
	if s, ok := m["_id"].(string); ok && s != "" {
		return s
	}
	return fallback
}

// Compose строит запись журнала. Действие: "<глагол> <ресурс>",
// детали зависят от метода и от того, что удалось узнать о сущности.
func Compose(r Request) domain.Log {
	resource := Resource(r.Endpoint)
	entry := domain.Log{
		UserName: unknownUser,
		UserRole: unknownRole,
		Method:   r.Method,
		Endpoint: r.Endpoint,
		Action:   verb(r.Method) + " " + resource,
		Details:  details(r, singular(resource)),
	}
	if r.Actor != nil {
		id := r.Actor.ID
		entry.UserID = &id
		if r.Actor.Name != "" {
			entry.UserName = r.Actor.Name
		}
		if r.Actor.Role != "" {
			entry.UserRole = string(r.Actor.Role)
		}
	}
	return entry
}

func details(r Request, noun string) string {
	switch r.Method {
	case http.MethodPost:
		if r.Created != nil {
			return fmt.Sprintf("Added %s: %s (ID: %s)", noun, nameOf(r.Created, noun), idOf(r.Created, ""))
		}
	case http.MethodDelete:
		switch {
		case r.EntityName != "":
			return fmt.Sprintf("Deleted %s: %s (ID: %s)", noun, r.EntityName, r.EntityID)
		case r.Snapshot != nil:
			return fmt.Sprintf("Deleted %s: %s (ID: %s)", noun, nameOf(r.Snapshot, noun), idOf(r.Snapshot, r.EntityID))
		case r.EntityID != "":
			return fmt.Sprintf("Deleted %s with ID: %s", noun, r.EntityID)
		}
	case http.MethodPut, http.MethodPatch:
		if r.Snapshot != nil {
			return fmt.Sprintf("Updated %s: %s (ID: %s). Changes: %s",
				noun, nameOf(r.Snapshot, noun), idOf(r.Snapshot, r.EntityID),
				Summary(Changes(r.Snapshot, redact(r.Payload))))
		}
	}
	return payloadText(r.Payload)
}

func redact(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		if _, secret := redactedKeys[k]; secret {
			continue
		}
		out[k] = v
	}
	return out
}

func payloadText(m map[string]any) string {
	if m == nil {
		return "{}"
	}
	b, err := json.Marshal(redact(m))
	if err != nil {
		return "{}"
	}
	return string(b)
}
