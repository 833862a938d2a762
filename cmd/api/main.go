package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/nirmalkarki/udharo-api/internal/application/service"
	"github.com/nirmalkarki/udharo-api/internal/config"
	"github.com/nirmalkarki/udharo-api/internal/domain/access"
	"github.com/nirmalkarki/udharo-api/internal/infrastructure/database"
	infraRepo "github.com/nirmalkarki/udharo-api/internal/infrastructure/repository"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/handler"
	"github.com/nirmalkarki/udharo-api/internal/presentation/http/routes"
	"github.com/nirmalkarki/udharo-api/pkg/utils"
)

func main() {
	cfg := config.Load()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if err := database.SeedDefaultData(db); err != nil {
		log.Fatalf("Failed to seed default data: %v", err)
	}

	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	policy := access.NewPolicy(access.DefaultPermissions())

	uow := infraRepo.NewUnitOfWork(db)
	userRepo := infraRepo.NewUserRepository(db)
	storeRepo := infraRepo.NewStoreRepository(db)
	productRepo := infraRepo.NewProductRepository(db)
	billRepo := infraRepo.NewBillRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	paymentRepo := infraRepo.NewPaymentRepository(db)
	ledgerRepo := infraRepo.NewLedgerRepository(db)

	sequence := service.NewSequenceGenerator(storeRepo, billRepo, orderRepo)
	ledgerService := service.NewLedgerService(ledgerRepo, userRepo, policy)
	billService := service.NewBillService(uow, billRepo, userRepo, storeRepo, productRepo, ledgerService, sequence, policy, cfg.Posting.NumberRetries)
	paymentService := service.NewPaymentService(uow, paymentRepo, userRepo, ledgerService, policy)
	orderService := service.NewOrderService(uow, orderRepo, userRepo, storeRepo, productRepo, sequence, policy, cfg.Posting.NumberRetries)
	authService := service.NewAuthService(userRepo, jwtManager, policy)
	catalogService := service.NewCatalogService(storeRepo, productRepo, userRepo, policy)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	routes.Setup(router, cfg, jwtManager, policy, routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Bill:    handler.NewBillHandler(billService),
		Order:   handler.NewOrderHandler(orderService),
		Payment: handler.NewPaymentHandler(paymentService),
		Ledger:  handler.NewLedgerHandler(ledgerService),
		Catalog: handler.NewCatalogHandler(catalogService),
	})

	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s (env=%s)", cfg.App.Name, addr, cfg.App.Env)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
