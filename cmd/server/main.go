package main

import (
	"github.com/gin-gonic/gin"
	customerAPI "github.com/ridloal/e-commerce-order-api/internal/customer/api"
	customerRepo "github.com/ridloal/e-commerce-order-api/internal/customer/repository"
	customerService "github.com/ridloal/e-commerce-order-api/internal/customer/service"
	orderAPI "github.com/ridloal/e-commerce-order-api/internal/order/api"
	orderRepo "github.com/ridloal/e-commerce-order-api/internal/order/repository"
	orderService "github.com/ridloal/e-commerce-order-api/internal/order/service"
	"github.com/ridloal/e-commerce-order-api/internal/platform/config"
	"github.com/ridloal/e-commerce-order-api/internal/platform/database"
	"github.com/ridloal/e-commerce-order-api/internal/platform/logger"
	productAPI "github.com/ridloal/e-commerce-order-api/internal/product/api"
	productRepo "github.com/ridloal/e-commerce-order-api/internal/product/repository"
	productService "github.com/ridloal/e-commerce-order-api/internal/product/service"
	shipperAPI "github.com/ridloal/e-commerce-order-api/internal/shipper/api"
	shipperRepo "github.com/ridloal/e-commerce-order-api/internal/shipper/repository"
	shipperService "github.com/ridloal/e-commerce-order-api/internal/shipper/service"
	userAPI "github.com/ridloal/e-commerce-order-api/internal/user/api"
	userRepo "github.com/ridloal/e-commerce-order-api/internal/user/repository"
	userService "github.com/ridloal/e-commerce-order-api/internal/user/service"
)

func main() {
	// Load Config
	dbCfg := config.LoadDBConfig()
	serverCfg := config.LoadServerConfig("8080")
	authCfg := config.LoadAuthConfig()

	logger.Info("Starting Order API...")

	// Setup Database
	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err, nil)
		return
	}
	defer db.Close()

	// Repositories
	productRepository := productRepo.NewPostgresProductRepository(db)
	customerRepository := customerRepo.NewPostgresCustomerRepository(db)
	shipperRepository := shipperRepo.NewPostgresShipperRepository(db)
	orderRepository := orderRepo.NewPostgresOrderRepository(db)
	userRepository := userRepo.NewPostgresUserRepository(db)

	// Services
	prdService := productService.NewProductService(productRepository)
	cstService := customerService.NewCustomerService(customerRepository)
	shpService := shipperService.NewShipperService(shipperRepository)
	ordService := orderService.NewOrderService(orderRepository, productRepository, customerRepository, shipperRepository)
	usrService := userService.NewUserService(userRepository, authCfg)

	// Handlers
	productHandler := productAPI.NewProductHandler(prdService)
	customerHandler := customerAPI.NewCustomerHandler(cstService)
	shipperHandler := shipperAPI.NewShipperHandler(shpService)
	orderHandler := orderAPI.NewOrderHandler(ordService)
	userHandler := userAPI.NewUserHandler(usrService)

	// Middleware
	authRequired := userAPI.AuthRequired(usrService)
	adminOnly := userAPI.AdminOnly(usrService)

	// Setup Gin Router
	router := gin.Default() // Default with Logger and Recovery middleware

	// Group routes under /api/v1
	apiV1 := router.Group("/api/v1")
	userHandler.RegisterRoutes(apiV1)
	productHandler.RegisterRoutes(apiV1, adminOnly)
	customerHandler.RegisterRoutes(apiV1, adminOnly)
	shipperHandler.RegisterRoutes(apiV1, adminOnly)
	orderHandler.RegisterRoutes(apiV1, authRequired, adminOnly)

	logger.Info("Order API running on port " + serverCfg.Port)
	if err := router.Run(serverCfg.Port); err != nil {
		logger.Error("Failed to run server", err, nil)
	}
}
