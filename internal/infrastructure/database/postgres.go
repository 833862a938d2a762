package database

import (
	"fmt"
	"log"

	"github.com/nirmalkarki/udharo-api/internal/config"
	"github.com/nirmalkarki/udharo-api/internal/domain/entity"
	"github.com/nirmalkarki/udharo-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// Duplicate-key violations surface as gorm.ErrDuplicatedKey,
		// which the posting retry loop depends on.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Business{},
		&entity.Store{},
		&entity.User{},
		&entity.Product{},
		&entity.Bill{},
		&entity.BillItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderStatusChange{},
		&entity.Payment{},
		&entity.LedgerEntry{},
	)
}

// SeedDefaultData creates the bootstrap business, store and super admin
// when configured and not yet present.
func SeedDefaultData(db *gorm.DB) error {
	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		return nil
	}

	var existing entity.User
	if err := db.Where("username = ?", adminUsername).First(&existing).Error; err == nil {
		log.Printf("Super admin user already exists: %s", adminUsername)
		return nil
	}

	businessName := viper.GetString("BUSINESS_NAME")
	if businessName == "" {
		businessName = "Default Business"
	}
	storeName := viper.GetString("STORE_NAME")
	if storeName == "" {
		storeName = "MAIN"
	}

	business := entity.Business{Name: businessName}
	if err := db.Create(&business).Error; err != nil {
		return fmt.Errorf("failed to create bootstrap business: %w", err)
	}

	store := entity.Store{BusinessID: business.ID, Name: storeName}
	if err := db.Create(&store).Error; err != nil {
		return fmt.Errorf("failed to create bootstrap store: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := entity.User{
		BusinessID: business.ID,
		StoreID:    &store.ID,
		Name:       "Super Admin",
		Username:   adminUsername,
		Password:   string(hashed),
		Role:       enum.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create super admin user: %w", err)
	}

	log.Printf("Super admin user created: %s", adminUsername)
	return nil
}
