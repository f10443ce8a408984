package httpapi

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/domain"
	"backoffice/internal/media"
	"backoffice/internal/repository"
	"backoffice/internal/service"
)

// Services все сервисы, которые обслуживает HTTP API
type Services struct {
	Auth       *service.AuthService
	Admins     *service.AdminService
	Products   *service.ProductService
	Orders     *service.OrderService
	Categories *service.CategoryService
	Enquiries  *service.EnquiryService
	Contacts   *service.ContactService
	Logs       *service.LogService
	Dashboard  *service.DashboardService
}

type Options struct {
	// CORSOrigin адрес админки; пусто — CORS не включается
	CORSOrigin string
	Uploader   media.Uploader
	Recorder   *audit.Recorder
	Diag       *log.Logger
}

type Server struct {
	engine    *gin.Engine
	svc       Services
	uploader  media.Uploader
	recorder  *audit.Recorder
	diag      *log.Logger
	snapshots map[string]snapshotFunc
}

func NewServer(svc Services, opts Options) *Server {
	r := gin.New()
	r.MaxMultipartMemory = 32 << 20
	r.Use(requestID(), gin.Logger(), gin.Recovery())
	if opts.CORSOrigin != "" {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{opts.CORSOrigin},
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", headerEntityName, headerProductName, headerRequestID},
			ExposeHeaders:    []string{headerRequestID},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		service.UseJSONNames(v)
	}
	if opts.Uploader == nil {
		opts.Uploader = media.Disabled{}
	}
	if opts.Diag == nil {
		opts.Diag = log.Default()
	}
	s := &Server{
		engine:   r,
		svc:      svc,
		uploader: opts.Uploader,
		recorder: opts.Recorder,
		diag:     opts.Diag,
	}
	s.snapshots = s.snapshotLoaders()
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

var (
	managers = []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin}
	support  = []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin, domain.RoleStaff}
)

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := s.engine.Group("/api")
	api.GET("/health", s.health)
	api.POST("/auth/login", s.login)

	// публичные формы сайта
	open := api.Group("", s.auditTrail())
	open.POST("/enquiries", s.createEnquiry)
	open.POST("/contact-messages", s.createContactMessage)

	authed := api.Group("", s.requireAuth)

	self := authed.Group("", s.auditTrail())
	{
		self.GET("/admins/profile", s.getProfile)
		self.PUT("/admins/profile", s.updateProfile)
		self.POST("/admins/change-password", s.changePassword)
		self.GET("/orders/:orderId", s.getOrder)
	}

	root := authed.Group("", allow(domain.RoleSuperAdmin), s.auditTrail())
	{
		root.GET("/admins", s.listAdmins)
		root.POST("/admins", s.createAdmin)
		root.GET("/admins/:id", s.getAdmin)
		root.PUT("/admins/:id", s.updateAdmin)
		root.DELETE("/admins/:id", s.deleteAdmin)
	}

	mgr := authed.Group("", allow(managers...), s.auditTrail())
	{
		mgr.GET("/users/all", s.listCustomers)

		products := mgr.Group("/products")
		products.GET("", s.listProducts)
		products.GET("/:id", s.getProduct)
		products.DELETE("/:id", s.deleteProduct)
		products.POST("/add", s.createProduct)
		products.PUT("/edit/:id", s.updateProduct)
		products.PATCH("/inventory/:id", s.updateInventory)

		mgr.GET("/orders", s.listOrders)
		mgr.PUT("/orders/:orderId/status", s.updateOrderStatus)

		mgr.POST("/categories", s.createCategory)
		mgr.DELETE("/enquiries/:id", s.deleteEnquiry)

		mgr.GET("/logs", s.listLogs)
		mgr.DELETE("/logs", s.clearLogs)
		mgr.DELETE("/logs/:id", s.deleteLog)

		mgr.GET("/dashboard", s.dashboard)
	}
	api.GET("/categories", s.listCategories)

	sup := authed.Group("", allow(support...), s.auditTrail())
	{
		sup.GET("/enquiries", s.listEnquiries)
		sup.GET("/enquiries/:id", s.getEnquiry)
		sup.PATCH("/enquiries/:id/read", s.markEnquiryRead)
		sup.GET("/contact-messages", s.listContactMessages)
		sup.PUT("/contact-messages/:id", s.setContactVisited)
	}
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func parseID(raw string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(raw)
}

// pathID разбирает :id; при ошибке сам отвечает 400
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return primitive.NilObjectID, false
	}
	return id, true
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, domain.ErrMalformedLine):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail отвечает {"message": ...}; детали 500 уходят только в диагностический лог
func (s *Server) fail(c *gin.Context, err error) {
	status := mapErrorToStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.diag.Printf("[%s] %s %s: %v", c.GetString(ctxRequestID), c.Request.Method, c.Request.URL.Path, err)
		msg = "server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

// badJSON отвечает 400: перечень полей для ошибок валидации, иначе "invalid json"
func badJSON(c *gin.Context, err error) {
	if verr := service.ValidationError(err); verr != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": verr.Error()})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "invalid json"})
}
