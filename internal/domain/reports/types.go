// Package reports provides sales, inventory and customer analytics.
package reports

import (
	"time"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
)

// --- Sales Report ---

// SalesReportFilter scopes the sales report.
type SalesReportFilter struct {
	// FromDate defaults to 30 days ago
	FromDate *time.Time
	// ToDate defaults to now
	ToDate *time.Time
}

// CategorySales aggregates sold lines per medicine category.
type CategorySales struct {
	Category      string      `json:"category"`
	SalesCount    int64       `json:"salesCount"`
	TotalQuantity int64       `json:"totalQuantity"`
	TotalRevenue  types.Money `json:"totalRevenue"`
}

// MedicineSales aggregates sold lines per medicine.
type MedicineSales struct {
	MedicineID    id.ID       `json:"medicineId"`
	MedicineName  string      `json:"medicineName"`
	SalesCount    int64       `json:"salesCount"`
	TotalQuantity int64       `json:"totalQuantity"`
	TotalRevenue  types.Money `json:"totalRevenue"`
}

// PaymentModeSales aggregates bills per payment mode.
type PaymentModeSales struct {
	PaymentMode string      `json:"paymentMode"`
	Count       int64       `json:"count"`
	TotalAmount types.Money `json:"totalAmount"`
}

// DailySales is one day's revenue.
type DailySales struct {
	Date       time.Time   `json:"date"`
	BillCount  int64       `json:"billCount"`
	Revenue    types.Money `json:"revenue"`
}

// SalesReport is the full sales analytics payload.
type SalesReport struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	TotalBills    int64       `json:"totalBills"`
	TotalSubtotal types.Money `json:"totalSubtotal"`
	TotalGST      types.Money `json:"totalGst"`
	TotalRevenue  types.Money `json:"totalRevenue"`

	ByCategory    []CategorySales    `json:"byCategory"`
	TopMedicines  []MedicineSales    `json:"topMedicines"`
	ByPaymentMode []PaymentModeSales `json:"byPaymentMode"`
	DailyTrend    []DailySales       `json:"dailyTrend"`
}

// --- Inventory Report ---

// CategoryInventory aggregates stock per category.
type CategoryInventory struct {
	Category      string      `json:"category"`
	MedicineCount int64       `json:"medicineCount"`
	TotalQuantity int64       `json:"totalQuantity"`
	StockValue    types.Money `json:"stockValue"`
}

// InventoryReport is the stock snapshot payload.
type InventoryReport struct {
	AsOf time.Time `json:"asOf"`

	TotalMedicines int64       `json:"totalMedicines"`
	TotalQuantity  int64       `json:"totalQuantity"`
	StockValue     types.Money `json:"stockValue"`

	LowStockCount   int64 `json:"lowStockCount"`
	OutOfStockCount int64 `json:"outOfStockCount"`
	ExpiringCount   int64 `json:"expiringCount"`
	ExpiredCount    int64 `json:"expiredCount"`

	ByCategory []CategoryInventory `json:"byCategory"`
}

// --- Customer Report ---

// CustomerReportFilter scopes the customer report.
type CustomerReportFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Limit    int
}

// CustomerActivity aggregates bills per customer.
type CustomerActivity struct {
	CustomerID   id.ID       `json:"customerId"`
	CustomerName string      `json:"customerName"`
	Phone        string      `json:"phone"`
	BillCount    int64       `json:"billCount"`
	TotalSpent   types.Money `json:"totalSpent"`
	LastPurchase *time.Time  `json:"lastPurchase,omitempty"`
}

// CustomerReport ranks customers by spend.
type CustomerReport struct {
	FromDate time.Time `json:"fromDate"`
	ToDate   time.Time `json:"toDate"`

	TotalCustomers int64              `json:"totalCustomers"`
	TopCustomers   []CustomerActivity `json:"topCustomers"`
}
