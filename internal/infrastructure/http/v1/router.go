// Package v1 assembles the HTTP API: routing, middleware and handlers.
package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"medistock/internal/domain/auth"
	"medistock/internal/domain/catalogs/customer"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/internal/domain/catalogs/supplier"
	"medistock/internal/domain/documents/bill"
	"medistock/internal/domain/documents/purchaseorder"
	"medistock/internal/domain/forecast"
	"medistock/internal/domain/notifications"
	"medistock/internal/domain/registers/stock"
	"medistock/internal/domain/reports"
	"medistock/internal/infrastructure/http/v1/handlers"
	"medistock/internal/infrastructure/http/v1/middleware"
	"medistock/internal/infrastructure/storage/postgres"
	"medistock/internal/infrastructure/storage/postgres/auth_repo"
	"medistock/internal/infrastructure/storage/postgres/catalog_repo"
	"medistock/internal/infrastructure/storage/postgres/document_repo"
	"medistock/internal/infrastructure/storage/postgres/notification_repo"
	"medistock/internal/infrastructure/storage/postgres/register_repo"
	"medistock/internal/infrastructure/storage/postgres/report_repo"
	"medistock/pkg/logger"
	"medistock/pkg/numerator"
)

// Version reported by the health endpoint.
const Version = "0.1.0"

// RouterConfig carries everything the router needs to assemble
// the application.
type RouterConfig struct {
	Pool      *postgres.Pool
	TxManager *postgres.TxManager
	Logger    *logger.Logger

	JWTService  *auth.JWTService
	AuthConfig  auth.ServiceConfig
	Development bool

	// Caches are optional; nil disables caching.
	ReportCache   reports.Cache
	ForecastCache forecast.Cache
}

// NewRouter builds the gin engine with all routes wired.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	if !cfg.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	txm := cfg.TxManager
	num := numerator.New(cfg.Pool)

	auditLog, err := postgres.NewAuditLog(txm)
	if err != nil {
		return nil, fmt.Errorf("create audit log: %w", err)
	}

	// Repositories
	medicineRepo := catalog_repo.NewMedicineRepo(txm)
	customerRepo := catalog_repo.NewCustomerRepo(txm)
	supplierRepo := catalog_repo.NewSupplierRepo(txm)
	billRepo := document_repo.NewBillRepo(txm)
	orderRepo := document_repo.NewPurchaseOrderRepo(txm)
	stockRepo := register_repo.NewStockRepo(txm)
	notificationRepo := notification_repo.NewNotificationRepo(txm)
	reportRepo := report_repo.NewReportRepo(txm)
	userRepo := auth_repo.NewUserRepo(txm)

	// Domain services
	stockSvc := stock.NewService(stockRepo)
	medicineSvc := medicine.NewService(medicineRepo, stockSvc, txm, num)
	customerSvc := customer.NewService(customerRepo, txm, num)
	supplierSvc := supplier.NewService(supplierRepo, orderRepo, txm, num)
	billSvc := bill.NewService(billRepo, stockSvc, medicineSvc, customerSvc, num, txm, auditLog)
	orderSvc := purchaseorder.NewService(orderRepo, stockSvc, supplierSvc, medicineSvc, num, txm, auditLog)
	notificationSvc := notifications.NewService(notificationRepo, medicineSvc, txm)
	forecastSvc := forecast.NewService(reportRepo, cfg.ForecastCache)
	reportsSvc := reports.NewService(reportRepo, cfg.ReportCache)
	authSvc := auth.NewService(userRepo, txm, cfg.JWTService, cfg.AuthConfig)

	// Handlers
	healthHandler := handlers.NewHealthHandler(cfg.Pool, Version)
	authHandler := handlers.NewAuthHandler(authSvc)
	medicineHandler := handlers.NewMedicineHandler(medicineSvc)
	customerHandler := handlers.NewCustomerHandler(customerSvc)
	supplierHandler := handlers.NewSupplierHandler(supplierSvc)
	billHandler := handlers.NewBillHandler(billSvc)
	orderHandler := handlers.NewPurchaseOrderHandler(orderSvc)
	stockHandler := handlers.NewStockHandler(stockSvc)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc)
	forecastHandler := handlers.NewForecastHandler(forecastSvc)
	reportsHandler := handlers.NewReportsHandler(reportsSvc)

	router := gin.New()
	router.Use(
		middleware.Recovery(),
		middleware.Trace(),
		middleware.Logger(cfg.Logger),
		middleware.ErrorHandler(),
	)

	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	api := router.Group("/api/v1")

	// Public endpoints
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Everything below requires a valid token
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.JWTService))

	protected.GET("/auth/me", authHandler.Me)

	users := protected.Group("/users", middleware.RequireRole(auth.RoleAdmin))
	{
		users.GET("", authHandler.ListUsers)
		users.PATCH("/:id/active", authHandler.SetUserActive)
	}

	catalogWrite := []string{auth.RoleAdmin, auth.RolePharmacist}

	medicines := protected.Group("/medicines")
	{
		medicines.GET("/low-stock", medicineHandler.ListLowStock)
		medicines.GET("/out-of-stock", medicineHandler.ListOutOfStock)
		medicines.GET("/expiring", medicineHandler.ListExpiring)
		medicines.GET("/categories", medicineHandler.ListCategories)
		medicines.GET("/:id/movements", medicineHandler.GetMovements)
		medicines.PATCH("/:id/quantity",
			middleware.RequireRole(catalogWrite...), medicineHandler.SetQuantity)
		registerCatalogRoutes(medicines, medicineHandler, catalogWrite...)
	}

	customers := protected.Group("/customers")
	{
		customers.GET("/by-phone", customerHandler.GetByPhone)
		registerCatalogRoutes(customers, customerHandler, catalogWrite...)
	}

	suppliers := protected.Group("/suppliers")
	{
		suppliers.GET("/:id/history", orderHandler.ListBySupplier)
		suppliers.POST("/:id/activate",
			middleware.RequireRole(catalogWrite...), supplierHandler.Activate)
		registerCatalogRoutes(suppliers, supplierHandler, catalogWrite...)
	}

	bills := protected.Group("/bills")
	{
		bills.GET("", billHandler.List)
		bills.GET("/stats", billHandler.Stats)
		bills.GET("/by-number/:number", billHandler.GetByNumber)
		bills.GET("/:id", billHandler.Get)
		// every role sells at the counter
		bills.POST("", billHandler.Create)
		bills.DELETE("/:id", middleware.RequireRole(auth.RoleAdmin), billHandler.Delete)
	}

	orders := protected.Group("/purchase-orders")
	{
		orders.GET("", orderHandler.List)
		orders.GET("/stats", orderHandler.Stats)
		orders.GET("/:id", orderHandler.Get)

		manage := orders.Group("", middleware.RequireRole(catalogWrite...))
		manage.POST("", orderHandler.Create)
		manage.PUT("/:id", orderHandler.Update)
		manage.POST("/:id/receive", orderHandler.Receive)
		manage.POST("/:id/cancel", orderHandler.Cancel)
		manage.DELETE("/:id", orderHandler.Delete)

		orders.POST("/:id/approve",
			middleware.RequireRole(auth.RoleAdmin), orderHandler.Approve)
	}

	stocks := protected.Group("/stock")
	{
		stocks.GET("/:medicineId/availability", stockHandler.GetAvailability)
		stocks.GET("/:medicineId/movements", stockHandler.GetMovements)
		stocks.GET("/:medicineId/turnover", stockHandler.GetTurnover)
	}

	alerts := protected.Group("/notifications")
	{
		alerts.GET("", notificationHandler.List)
		alerts.GET("/summary", notificationHandler.Summary)
		alerts.POST("/generate", notificationHandler.Generate)
		alerts.POST("/read-all", notificationHandler.MarkAllRead)
		alerts.POST("/:id/read", notificationHandler.MarkRead)
		alerts.DELETE("/read", notificationHandler.ClearRead)
		alerts.DELETE("/:id", notificationHandler.Delete)
	}

	protected.GET("/forecast", forecastHandler.Predict)

	reportsGroup := protected.Group("/reports")
	{
		reportsGroup.GET("/sales", reportsHandler.Sales)
		reportsGroup.GET("/inventory", reportsHandler.Inventory)
		reportsGroup.GET("/customers", reportsHandler.Customers)
	}

	return router, nil
}
