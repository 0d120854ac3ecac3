package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/tillpoint/tillpoint-api/internal/config"
	"github.com/tillpoint/tillpoint-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB opens a connection pool against postgres.
func NewPostgresDB(cfg config.DatabaseConfig, log *logrus.Logger) (*gorm.DB, error) {
	gormLogLevel := gormlogger.Warn
	if log.GetLevel() >= logrus.DebugLevel {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.WithFields(logrus.Fields{
		"host": cfg.Host,
		"port": cfg.Port,
		"name": cfg.Name,
	}).Info("connected to database")

	return db, nil
}

// AutoMigrate creates or updates the database schema.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Tenant{},
		&entity.User{},
		&entity.Category{},
		&entity.Unit{},
		&entity.Product{},
		&entity.Customer{},
		&entity.Invoice{},
		&entity.InvoiceLine{},
		&entity.InvoiceSequence{},
		&entity.InvoiceEditAudit{},
		&entity.SalesReturn{},
		&entity.DraftCart{},
		&entity.Supplier{},
		&entity.Purchase{},
		&entity.PurchaseLine{},
	)
}

// SeedDefaultData creates the default tenant and admin user when the
// database is empty, so a fresh install is immediately usable.
func SeedDefaultData(db *gorm.DB, log *logrus.Logger) error {
	var tenantCount int64
	if err := db.Model(&entity.Tenant{}).Count(&tenantCount).Error; err != nil {
		return fmt.Errorf("failed to count tenants: %w", err)
	}
	if tenantCount > 0 {
		return nil
	}

	tenant := entity.Tenant{
		ID:   uuid.New(),
		Name: "Default Store",
		Slug: "default-store",
	}
	if err := db.Create(&tenant).Error; err != nil {
		return fmt.Errorf("failed to seed tenant: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("admin1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := entity.User{
		ID:        uuid.New(),
		TenantID:  tenant.ID,
		FirstName: "Admin",
		LastName:  "User",
		Email:     "admin@example.com",
		Password:  string(hashed),
		Role:      "admin",
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	unit := entity.Unit{
		ID:        uuid.New(),
		TenantID:  tenant.ID,
		Name:      "Piece",
		ShortCode: "pc",
	}
	if err := db.Create(&unit).Error; err != nil {
		return fmt.Errorf("failed to seed unit: %w", err)
	}

	product := entity.Product{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		UnitID:       &unit.ID,
		Name:         "Sample Product",
		Slug:         "sample-product",
		Code:         "PROD-SAMPLE1",
		Quantity:     decimal.NewFromInt(100),
		SellingPrice: decimal.NewFromInt(100),
		TaxRate:      decimal.NewFromInt(18),
	}
	if err := db.Create(&product).Error; err != nil {
		return fmt.Errorf("failed to seed product: %w", err)
	}

	log.WithField("tenant", tenant.Slug).Info("seeded default data")
	return nil
}
