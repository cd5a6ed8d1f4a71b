// Package main seeds the database with demo data: an admin account,
// a few medicines, suppliers and customers.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"medistock/internal/core/apperror"
	"medistock/internal/core/types"
	"medistock/internal/domain/auth"
	"medistock/internal/domain/catalogs/customer"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/internal/domain/catalogs/supplier"
	"medistock/internal/domain/registers/stock"
	"medistock/internal/infrastructure/storage/postgres"
	"medistock/internal/infrastructure/storage/postgres/auth_repo"
	"medistock/internal/infrastructure/storage/postgres/catalog_repo"
	"medistock/internal/infrastructure/storage/postgres/document_repo"
	"medistock/internal/infrastructure/storage/postgres/register_repo"
	"medistock/pkg/logger"
	"medistock/pkg/numerator"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dsn := mustEnv("DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	txm := postgres.NewTxManager(pool)
	num := numerator.New(pool)

	stockSvc := stock.NewService(register_repo.NewStockRepo(txm))
	medicineSvc := medicine.NewService(catalog_repo.NewMedicineRepo(txm), stockSvc, txm, num)
	customerSvc := customer.NewService(catalog_repo.NewCustomerRepo(txm), txm, num)
	supplierSvc := supplier.NewService(
		catalog_repo.NewSupplierRepo(txm), document_repo.NewPurchaseOrderRepo(txm), txm, num)

	jwtService := auth.NewJWTService(auth.DefaultJWTConfig(getEnv("JWT_SECRET", "dev-secret")))
	authSvc := auth.NewService(auth_repo.NewUserRepo(txm), txm, jwtService, auth.DefaultServiceConfig())

	if err := seedAdmin(ctx, authSvc); err != nil {
		log.Fatalw("seed admin", "error", err)
	}
	if err := seedMedicines(ctx, medicineSvc); err != nil {
		log.Fatalw("seed medicines", "error", err)
	}
	if err := seedSuppliers(ctx, supplierSvc); err != nil {
		log.Fatalw("seed suppliers", "error", err)
	}
	if err := seedCustomers(ctx, customerSvc); err != nil {
		log.Fatalw("seed customers", "error", err)
	}

	log.Info("seed completed")
}

func seedAdmin(ctx context.Context, svc *auth.Service) error {
	_, err := svc.Register(ctx, auth.RegisterRequest{
		Username: getEnv("SEED_ADMIN_USERNAME", "admin"),
		Email:    getEnv("SEED_ADMIN_EMAIL", "admin@medistock.local"),
		Password: getEnv("SEED_ADMIN_PASSWORD", "changeme123"),
		FullName: "Administrator",
		Role:     auth.RoleAdmin,
	})
	if appErr, ok := apperror.AsAppError(err); ok && appErr.Code == apperror.CodeConflict {
		// admin already exists, keep going
		return nil
	}
	return err
}

type seedMedicine struct {
	name         string
	category     string
	manufacturer string
	price        string
	gstRate      string
	quantity     int
	minStock     int
	expiryDays   int
	batch        string
}

func seedMedicines(ctx context.Context, svc *medicine.Service) error {
	items := []seedMedicine{
		{"Paracetamol 500mg", "Analgesic", "Cipla", "25.00", "18", 500, 100, 365, "PCM-2401"},
		{"Amoxicillin 250mg", "Antibiotic", "Sun Pharma", "85.50", "12", 200, 50, 270, "AMX-2402"},
		{"Cetirizine 10mg", "Antihistamine", "Dr. Reddy's", "32.00", "18", 300, 60, 540, "CTZ-2403"},
		{"Omeprazole 20mg", "Antacid", "Lupin", "48.75", "12", 150, 40, 400, "OMP-2404"},
		{"Metformin 500mg", "Antidiabetic", "USV", "19.90", "5", 400, 80, 600, "MET-2405"},
		{"Ibuprofen 400mg", "Analgesic", "Abbott", "30.25", "18", 20, 50, 200, "IBU-2406"},
	}

	for _, item := range items {
		m := medicine.NewMedicine("", item.name, item.category, types.MustMoney(item.price))
		manufacturer := item.manufacturer
		m.Manufacturer = &manufacturer
		gst := types.MustMoney(item.gstRate)
		m.GSTRate = &gst
		m.Quantity = item.quantity
		m.MinStockLevel = item.minStock
		expiry := time.Now().AddDate(0, 0, item.expiryDays)
		m.ExpiryDate = &expiry
		batch := item.batch
		m.BatchNumber = &batch

		if err := svc.Create(ctx, m); err != nil {
			return fmt.Errorf("create %s: %w", item.name, err)
		}
	}
	return nil
}

func seedSuppliers(ctx context.Context, svc *supplier.Service) error {
	items := []struct {
		name    string
		contact string
		phone   string
	}{
		{"MedPlus Distributors", "Rajesh Kumar", "+91-9800000001"},
		{"HealthFirst Wholesale", "Anita Desai", "+91-9800000002"},
		{"PharmaLink Supply Co", "Vikram Singh", "+91-9800000003"},
	}

	for _, item := range items {
		s := supplier.NewSupplier("", item.name)
		contact := item.contact
		s.ContactPerson = &contact
		phone := item.phone
		s.Phone = &phone

		if err := svc.Create(ctx, s); err != nil {
			return fmt.Errorf("create %s: %w", item.name, err)
		}
	}
	return nil
}

func seedCustomers(ctx context.Context, svc *customer.Service) error {
	items := []struct {
		name  string
		phone string
	}{
		{"Ramesh Gupta", "+91-9900000001"},
		{"Priya Sharma", "+91-9900000002"},
		{"Arun Nair", "+91-9900000003"},
	}

	for _, item := range items {
		c := customer.NewCustomer("", item.name, item.phone)
		if err := svc.Create(ctx, c); err != nil {
			return fmt.Errorf("create %s: %w", item.name, err)
		}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}
