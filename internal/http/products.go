package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/domain"
	"backoffice/internal/media"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

const maxMediaFiles = 10

// @Summary List products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name or code contains"
// @Param category query string false "Category ID"
// @Success 200 {array} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	f := repository.ProductFilter{Query: strings.TrimSpace(c.Query("q"))}
	if v := c.Query("category"); v != "" {
		id, err := parseID(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid category"})
			return
		}
		f.Category = &id
	}
	list, err := s.svc.Products.List(c.Request.Context(), f)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := s.svc.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Delete product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param X-Entity-Name header string false "Product name for the activity log"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := s.svc.Products.Delete(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// @Summary Create product
// @Description Multipart form. Nested fields (colors, sizes, details, detailedDescription) are JSON;
// @Description materialWashing and sizeShape accept JSON or "label: value" lines.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param productCode formData string true "Product code"
// @Param productName formData string true "Product name"
// @Param category formData string true "Category ID"
// @Param sizes formData string false "JSON array of size variants"
// @Param media formData file false "Images and videos"
// @Param thumbnail formData file false "Thumbnail"
// @Success 201 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products/add [post]
func (s *Server) createProduct(c *gin.Context) {
	p, payload, err := s.readProductForm(c, domain.Product{}, false)
	if err != nil {
		s.fail(c, err)
		return
	}
	created, err := s.svc.Products.Create(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditPayload(c, payload)
	setAuditCreated(c, created)
	c.JSON(http.StatusCreated, created)
}

// @Summary Edit product
// @Description Multipart form; only supplied fields change. existingMedia (JSON) keeps previous media, new uploads are appended.
// @Tags products
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param existingMedia formData string false "JSON array of media to keep"
// @Param media formData file false "New images and videos"
// @Param thumbnail formData file false "New thumbnail"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/edit/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	current, err := s.svc.Products.GetByID(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	p, payload, err := s.readProductForm(c, *current, true)
	if err != nil {
		s.fail(c, err)
		return
	}
	p.ID = id
	updated, err := s.svc.Products.Update(c.Request.Context(), p)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditPayload(c, payload)
	c.JSON(http.StatusOK, updated)
}

// @Summary Update inventory of one size
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param input body service.InventoryUpdate true "Size and new values"
// @Success 200 {object} domain.Product
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/inventory/{id} [patch]
func (s *Server) updateInventory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req service.InventoryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badJSON(c, err)
		return
	}
	p, err := s.svc.Products.UpdateInventory(c.Request.Context(), id, req)
	if err != nil {
		s.fail(c, err)
		return
	}
	setAuditPayload(c, gin.H{"sizes": p.Sizes})
	c.JSON(http.StatusOK, p)
}

// readProductForm накладывает поля формы на base. Возвращает товар и
// набор фактически переданных полей для журнала.
func (s *Server) readProductForm(c *gin.Context, base domain.Product, edit bool) (domain.Product, map[string]any, error) {
	p := base
	payload := make(map[string]any)

	// productData: весь товар одним JSON, как в старой форме админки
	if raw, ok := c.GetPostForm("productData"); ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return p, nil, fmt.Errorf("%w: productData: %v", service.ErrInvalidInput, err)
		}
		p.ID = base.ID
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return p, nil, fmt.Errorf("%w: productData: %v", service.ErrInvalidInput, err)
		}
	}

	text := map[string]*string{
		"productCode": &p.ProductCode,
		"productName": &p.ProductName,
		"brand":       &p.Brand,
		"description": &p.Description,
	}
	for field, dst := range text {
		if v, ok := c.GetPostForm(field); ok {
			*dst = v
			payload[field] = v
		}
	}
	if v, ok := c.GetPostForm("category"); ok {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(v))
		if err != nil {
			return p, nil, fmt.Errorf("%w: category: malformed id", service.ErrInvalidInput)
		}
		p.Category = id
		payload["category"] = id
	}

	nested := []struct {
		field string
		dst   any
	}{
		{"detailedDescription", &p.DetailedDescription},
		{"colors", &p.Colors},
		{"sizes", &p.Sizes},
		{"details", &p.Details},
	}
	for _, n := range nested {
		raw, ok := c.GetPostForm(n.field)
		if !ok || strings.TrimSpace(raw) == "" {
			continue
		}
		if err := json.Unmarshal([]byte(raw), n.dst); err != nil {
			return p, nil, fmt.Errorf("%w: %s: %v", service.ErrInvalidInput, n.field, err)
		}
		payload[n.field] = n.dst
	}

	labels := []struct {
		field string
		dst   *[]domain.LabelValue
	}{
		{"materialWashing", &p.MaterialWashing},
		{"sizeShape", &p.SizeShape},
	}
	for _, l := range labels {
		raw, ok := c.GetPostForm(l.field)
		if !ok {
			continue
		}
		list, err := domain.DecodeLabelValues(raw)
		if err != nil {
			return p, nil, fmt.Errorf("%w: %s: %v", service.ErrInvalidInput, l.field, err)
		}
		*l.dst = list
		payload[l.field] = list
	}

	if edit {
		if raw, ok := c.GetPostForm("existingMedia"); ok {
			keep := []domain.Media{}
			if strings.TrimSpace(raw) != "" {
				if err := json.Unmarshal([]byte(raw), &keep); err != nil {
					return p, nil, fmt.Errorf("%w: existingMedia: %v", service.ErrInvalidInput, err)
				}
			}
			p.Media = keep
			payload["media"] = keep
		}
	}

	if err := s.uploadProductMedia(c, &p, payload); err != nil {
		return p, nil, err
	}
	return p, payload, nil
}

func (s *Server) uploadProductMedia(c *gin.Context, p *domain.Product, payload map[string]any) error {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return fmt.Errorf("%w: multipart: %v", service.ErrInvalidInput, err)
	}
	files := form.File["media"]
	if len(files) > maxMediaFiles {
		return fmt.Errorf("%w: at most %d media files", service.ErrInvalidInput, maxMediaFiles)
	}
	ctx := c.Request.Context()
	for _, fh := range files {
		m, err := s.upload(ctx, fh)
		if err != nil {
			return err
		}
		p.Media = append(p.Media, m)
	}
	if len(files) > 0 {
		payload["media"] = p.Media
	}
	if thumbs := form.File["thumbnail"]; len(thumbs) > 0 {
		m, err := s.upload(ctx, thumbs[0])
		if err != nil {
			return err
		}
		p.Thumbnail = m.URL
		payload["thumbnail"] = m.URL
	}
	return nil
}

func (s *Server) upload(ctx context.Context, fh *multipart.FileHeader) (domain.Media, error) {
	f, err := fh.Open()
	if err != nil {
		return domain.Media{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()
	kind := media.KindOf(fh.Header.Get("Content-Type"), fh.Filename)
	url, err := s.uploader.Upload(ctx, fh.Filename, f, kind)
	if err != nil {
		return domain.Media{}, fmt.Errorf("media upload %s: %w", fh.Filename, err)
	}
	return domain.Media{Type: kind, URL: url}, nil
}
