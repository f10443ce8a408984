// @title Back-office API
// @version 1.0
// @description Каталог, заказы, обращения покупателей и журнал действий администраторов.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"backoffice/internal/audit"
	"backoffice/internal/auth"
	"backoffice/internal/config"
	"backoffice/internal/events"
	httpapi "backoffice/internal/http"
	"backoffice/internal/media"
	"backoffice/internal/repository"
	"backoffice/internal/service"

	_ "backoffice/docs"
)

// stores набор репозиториев выбранного бэкенда
type stores struct {
	products   repository.ProductRepository
	orders     repository.OrderRepository
	admins     repository.AdminRepository
	categories repository.CategoryRepository
	enquiries  repository.EnquiryRepository
	contacts   repository.ContactMessageRepository
	logs       repository.LogRepository

	closers []func(context.Context) error
}

func (s *stores) close(ctx context.Context) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			log.Printf("close store: %v", err)
		}
	}
}

func memoryStores() *stores {
	store := repository.NewMemoryStore()
	return &stores{
		products:   store,
		orders:     repository.NewMemoryOrders(store),
		admins:     repository.NewMemoryAdmins(store),
		categories: repository.NewMemoryCategories(store),
		enquiries:  repository.NewMemoryEnquiries(store),
		contacts:   repository.NewMemoryContactMessages(store),
		logs:       repository.NewMemoryLogs(store),
	}
}

func mongoStores(ctx context.Context, cfg config.MongoConfig) (*stores, error) {
	ms, err := repository.ConnectMongo(ctx, cfg.URI, cfg.Database, uint64(max(cfg.MaxPool, 0)))
	if err != nil {
		return nil, err
	}
	if err := ms.EnsureIndexes(ctx); err != nil {
		_ = ms.Close(ctx)
		return nil, err
	}
	db := ms.Database()
	return &stores{
		products:   repository.NewMongoProducts(db),
		orders:     repository.NewMongoOrders(db),
		admins:     repository.NewMongoAdmins(db),
		categories: repository.NewMongoCategories(db),
		enquiries:  repository.NewMongoEnquiries(db),
		contacts:   repository.NewMongoContactMessages(db),
		logs:       repository.NewMongoLogs(db),
		closers:    []func(context.Context) error{ms.Close},
	}, nil
}

func openStores(ctx context.Context, cfg config.Config) (*stores, error) {
	var (
		st  *stores
		err error
	)
	if cfg.Storage == "mongo" {
		st, err = mongoStores(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
	} else {
		st = memoryStores()
	}

	if cfg.LogStore == "postgres" {
		var db *sql.DB
		db, err = repository.OpenPostgres(ctx, cfg.PostgresDSN, 10)
		if err != nil {
			st.close(ctx)
			return nil, err
		}
		pl := repository.NewPostgresLogs(db)
		if err := pl.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			st.close(ctx)
			return nil, err
		}
		st.logs = pl
		st.closers = append(st.closers, func(context.Context) error { return db.Close() })
	}
	return st, nil
}

func newUploader(cfg config.Config) media.Uploader {
	if !cfg.Cloudinary.Enabled() {
		if cfg.Storage == "memory" {
			log.Printf("media upload: local fake, cloudinary credentials not set")
			return &media.Fake{}
		}
		log.Printf("media upload disabled: cloudinary credentials not set")
		return media.Disabled{}
	}
	up, err := media.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}
	return up
}

func newPublisher(cfg config.Config) events.Publisher {
	if cfg.AMQP.URL == "" {
		return events.Nop{}
	}
	p, err := events.DialAMQP(cfg.AMQP.URL, cfg.AMQP.Queue)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	log.Printf("order events -> amqp queue %s", cfg.AMQP.Queue)
	return p
}

func main() {
	configPath := flag.String("config", "", "path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	diag := log.New(os.Stderr, "diag ", log.LstdFlags|log.Lmsgprefix)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := openStores(startCtx, cfg)
	cancelStart()
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	publisher := newPublisher(cfg)
	tokens := auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	authSvc := service.NewAuthService(st.admins, tokens)
	if cfg.Bootstrap.Email != "" {
		created, err := authSvc.Bootstrap(context.Background(), cfg.Bootstrap.Name, cfg.Bootstrap.Email, cfg.Bootstrap.Password)
		if err != nil {
			log.Fatalf("bootstrap superadmin: %v", err)
		}
		if created {
			log.Printf("superadmin %s created", cfg.Bootstrap.Email)
		}
	}

	recorder := audit.NewRecorder(st.logs, diag)
	srv := httpapi.NewServer(httpapi.Services{
		Auth:       authSvc,
		Admins:     service.NewAdminService(st.admins),
		Products:   service.NewProductService(st.products, st.categories),
		Orders:     service.NewOrderService(st.orders, publisher, diag),
		Categories: service.NewCategoryService(st.categories),
		Enquiries:  service.NewEnquiryService(st.enquiries, st.products),
		Contacts:   service.NewContactService(st.contacts),
		Logs:       service.NewLogService(st.logs),
		Dashboard:  service.NewDashboardService(st.orders, st.products, st.categories, st.enquiries),
	}, httpapi.Options{
		CORSOrigin: cfg.CORSOrigin,
		Uploader:   newUploader(cfg),
		Recorder:   recorder,
		Diag:       diag,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s (storage=%s, logs=%s)", httpServer.Addr, cfg.Storage, cfg.LogStore)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	// журнал дописывается до закрытия хранилищ
	recorder.Wait()
	if err := publisher.Close(); err != nil {
		log.Printf("close publisher: %v", err)
	}
	st.close(ctx)
}
