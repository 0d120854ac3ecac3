package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/application/service"
	"github.com/tillpoint/tillpoint-api/internal/config"
	"github.com/tillpoint/tillpoint-api/internal/infrastructure/database"
	infrarepo "github.com/tillpoint/tillpoint-api/internal/infrastructure/repository"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/handler"
	"github.com/tillpoint/tillpoint-api/internal/presentation/http/routes"
	"github.com/tillpoint/tillpoint-api/pkg/utils"
)

func main() {
	log := logrus.New()

	cfg, err := config.Load(".")
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	configureLogger(log, cfg.Log)

	db, err := database.NewPostgresDB(cfg.Database, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	if err := database.AutoMigrate(db); err != nil {
		log.WithError(err).Fatal("failed to migrate database")
	}
	if err := database.SeedDefaultData(db, log); err != nil {
		log.WithError(err).Fatal("failed to seed database")
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.AccessTTL, cfg.JWT.RefreshTTL)

	uow := infrarepo.NewGormUnitOfWork(db)
	invoiceRepo := infrarepo.NewInvoiceRepository(db)
	lineRepo := infrarepo.NewInvoiceLineRepository(db)
	auditRepo := infrarepo.NewEditAuditRepository(db)
	sequenceRepo := infrarepo.NewInvoiceSequenceRepository(db)
	productRepo := infrarepo.NewProductRepository(db)
	categoryRepo := infrarepo.NewCategoryRepository(db)
	unitRepo := infrarepo.NewUnitRepository(db)
	customerRepo := infrarepo.NewCustomerRepository(db)
	draftRepo := infrarepo.NewDraftCartRepository(db)
	purchaseRepo := infrarepo.NewPurchaseRepository(db)
	purchaseLineRepo := infrarepo.NewPurchaseLineRepository(db)
	supplierRepo := infrarepo.NewSupplierRepository(db)
	userRepo := infrarepo.NewUserRepository(db)
	ledger := infrarepo.NewStockLedger(db)
	returnsChecker := infrarepo.NewReturnsChecker(db)

	invoiceService := service.NewInvoiceService(
		uow, invoiceRepo, lineRepo, auditRepo, sequenceRepo,
		productRepo, customerRepo, ledger, returnsChecker, log,
	)
	draftService := service.NewDraftCartService(draftRepo, log)
	productService := service.NewProductService(productRepo, categoryRepo, unitRepo, log)
	customerService := service.NewCustomerService(customerRepo, log)
	purchaseService := service.NewPurchaseService(
		uow, purchaseRepo, purchaseLineRepo, supplierRepo, productRepo, ledger, log,
	)
	authService := service.NewAuthService(userRepo, jwtManager, log)

	router := routes.Setup(cfg, log, jwtManager, &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Invoice:   handler.NewInvoiceHandler(invoiceService),
		DraftCart: handler.NewDraftCartHandler(draftService),
		Product:   handler.NewProductHandler(productService),
		Customer:  handler.NewCustomerHandler(customerService),
		Purchase:  handler.NewPurchaseHandler(purchaseService),
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.App.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server stopped")
}

func configureLogger(log *logrus.Logger, cfg config.LogConfig) {
	if cfg.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
}
