// Package report_repo provides PostgreSQL-backed analytics queries.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain/forecast"
	"medistock/internal/domain/reports"
	"medistock/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository and forecast.SalesSource.
// All aggregation happens in SQL; the domain layer only shapes the payload.
type ReportRepo struct {
	txm *postgres.TxManager
}

var _ reports.Repository = (*ReportRepo)(nil)
var _ forecast.SalesSource = (*ReportRepo)(nil)

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

func (r *ReportRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// GetSalesReport aggregates bills and bill lines over [from, to).
func (r *ReportRepo) GetSalesReport(ctx context.Context, from, to time.Time) (*reports.SalesReport, error) {
	report := &reports.SalesReport{
		FromDate:      from,
		ToDate:        to,
		TotalSubtotal: types.Zero(),
		TotalGST:      types.Zero(),
		TotalRevenue:  types.Zero(),
	}

	querier := r.querier(ctx)

	totalsSQL := `
		SELECT COUNT(*),
			   COALESCE(SUM(subtotal), 0),
			   COALESCE(SUM(gst_amount), 0),
			   COALESCE(SUM(grand_total), 0)
		FROM doc_bills
		WHERE date >= $1 AND date < $2
	`
	err := querier.QueryRow(ctx, totalsSQL, from, to).
		Scan(&report.TotalBills, &report.TotalSubtotal, &report.TotalGST, &report.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("sales totals: %w", err)
	}

	categorySQL := `
		SELECT m.category,
			   COUNT(DISTINCT l.document_id),
			   COALESCE(SUM(l.quantity), 0),
			   COALESCE(SUM(l.total), 0)
		FROM doc_bill_lines l
		JOIN doc_bills b ON b.id = l.document_id
		JOIN cat_medicines m ON m.id = l.medicine_id
		WHERE b.date >= $1 AND b.date < $2
		GROUP BY m.category
		ORDER BY SUM(l.total) DESC
	`
	rows, err := querier.Query(ctx, categorySQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c reports.CategorySales
		if err := rows.Scan(&c.Category, &c.SalesCount, &c.TotalQuantity, &c.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan category sales: %w", err)
		}
		report.ByCategory = append(report.ByCategory, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	topSQL := `
		SELECT l.medicine_id, l.medicine_name,
			   COUNT(DISTINCT l.document_id),
			   COALESCE(SUM(l.quantity), 0),
			   COALESCE(SUM(l.total), 0)
		FROM doc_bill_lines l
		JOIN doc_bills b ON b.id = l.document_id
		WHERE b.date >= $1 AND b.date < $2
		GROUP BY l.medicine_id, l.medicine_name
		ORDER BY SUM(l.quantity) DESC
		LIMIT 10
	`
	topRows, err := querier.Query(ctx, topSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("top medicines: %w", err)
	}
	defer topRows.Close()

	for topRows.Next() {
		var m reports.MedicineSales
		if err := topRows.Scan(&m.MedicineID, &m.MedicineName, &m.SalesCount, &m.TotalQuantity, &m.TotalRevenue); err != nil {
			return nil, fmt.Errorf("scan medicine sales: %w", err)
		}
		report.TopMedicines = append(report.TopMedicines, m)
	}
	if err := topRows.Err(); err != nil {
		return nil, err
	}

	modeSQL := `
		SELECT payment_mode, COUNT(*), COALESCE(SUM(grand_total), 0)
		FROM doc_bills
		WHERE date >= $1 AND date < $2
		GROUP BY payment_mode
		ORDER BY payment_mode
	`
	modeRows, err := querier.Query(ctx, modeSQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales by payment mode: %w", err)
	}
	defer modeRows.Close()

	for modeRows.Next() {
		var p reports.PaymentModeSales
		if err := modeRows.Scan(&p.PaymentMode, &p.Count, &p.TotalAmount); err != nil {
			return nil, fmt.Errorf("scan payment mode sales: %w", err)
		}
		report.ByPaymentMode = append(report.ByPaymentMode, p)
	}
	if err := modeRows.Err(); err != nil {
		return nil, err
	}

	dailySQL := `
		SELECT date_trunc('day', date) AS day, COUNT(*), COALESCE(SUM(grand_total), 0)
		FROM doc_bills
		WHERE date >= $1 AND date < $2
		GROUP BY day
		ORDER BY day
	`
	dailyRows, err := querier.Query(ctx, dailySQL, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily sales: %w", err)
	}
	defer dailyRows.Close()

	for dailyRows.Next() {
		var d reports.DailySales
		if err := dailyRows.Scan(&d.Date, &d.BillCount, &d.Revenue); err != nil {
			return nil, fmt.Errorf("scan daily sales: %w", err)
		}
		report.DailyTrend = append(report.DailyTrend, d)
	}

	return report, dailyRows.Err()
}

// GetInventoryReport snapshots the medicine catalog.
func (r *ReportRepo) GetInventoryReport(ctx context.Context, asOf time.Time) (*reports.InventoryReport, error) {
	report := &reports.InventoryReport{
		AsOf:       asOf,
		StockValue: types.Zero(),
	}

	querier := r.querier(ctx)
	expiringCutoff := asOf.AddDate(0, 0, 30)

	totalsSQL := `
		SELECT COUNT(*),
			   COALESCE(SUM(quantity), 0),
			   COALESCE(SUM(price * quantity), 0),
			   COUNT(*) FILTER (WHERE quantity > 0 AND quantity <= min_stock_level),
			   COUNT(*) FILTER (WHERE quantity = 0),
			   COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date > $1 AND expiry_date <= $2),
			   COUNT(*) FILTER (WHERE expiry_date IS NOT NULL AND expiry_date <= $1)
		FROM cat_medicines
		WHERE deletion_mark = false
	`
	err := querier.QueryRow(ctx, totalsSQL, asOf, expiringCutoff).Scan(
		&report.TotalMedicines, &report.TotalQuantity, &report.StockValue,
		&report.LowStockCount, &report.OutOfStockCount,
		&report.ExpiringCount, &report.ExpiredCount,
	)
	if err != nil {
		return nil, fmt.Errorf("inventory totals: %w", err)
	}

	categorySQL := `
		SELECT category, COUNT(*),
			   COALESCE(SUM(quantity), 0),
			   COALESCE(SUM(price * quantity), 0)
		FROM cat_medicines
		WHERE deletion_mark = false
		GROUP BY category
		ORDER BY category
	`
	rows, err := querier.Query(ctx, categorySQL)
	if err != nil {
		return nil, fmt.Errorf("inventory by category: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c reports.CategoryInventory
		if err := rows.Scan(&c.Category, &c.MedicineCount, &c.TotalQuantity, &c.StockValue); err != nil {
			return nil, fmt.Errorf("scan category inventory: %w", err)
		}
		report.ByCategory = append(report.ByCategory, c)
	}

	return report, rows.Err()
}

// GetCustomerReport ranks registered customers by spend over [from, to).
func (r *ReportRepo) GetCustomerReport(ctx context.Context, from, to time.Time, limit int) (*reports.CustomerReport, error) {
	report := &reports.CustomerReport{
		FromDate: from,
		ToDate:   to,
	}

	querier := r.querier(ctx)

	countSQL := `SELECT COUNT(*) FROM cat_customers WHERE deletion_mark = false`
	if err := querier.QueryRow(ctx, countSQL).Scan(&report.TotalCustomers); err != nil {
		return nil, fmt.Errorf("customer count: %w", err)
	}

	topSQL := `
		SELECT c.id, c.name, c.phone,
			   COUNT(b.id),
			   COALESCE(SUM(b.grand_total), 0),
			   MAX(b.date)
		FROM cat_customers c
		JOIN doc_bills b ON b.customer_id = c.id
		WHERE b.date >= $1 AND b.date < $2
		GROUP BY c.id, c.name, c.phone
		ORDER BY SUM(b.grand_total) DESC
		LIMIT $3
	`
	rows, err := querier.Query(ctx, topSQL, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top customers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a reports.CustomerActivity
		if err := rows.Scan(&a.CustomerID, &a.CustomerName, &a.Phone, &a.BillCount, &a.TotalSpent, &a.LastPurchase); err != nil {
			return nil, fmt.Errorf("scan customer activity: %w", err)
		}
		report.TopCustomers = append(report.TopCustomers, a)
	}

	return report, rows.Err()
}

// GetSalesHistory returns per-medicine daily sold quantities since the
// given date. Feeds the demand forecast.
func (r *ReportRepo) GetSalesHistory(ctx context.Context, from time.Time) ([]forecast.MedicineSales, error) {
	sql := `
		SELECT l.medicine_id, l.medicine_name,
			   date_trunc('day', b.date) AS day,
			   COALESCE(SUM(l.quantity), 0)
		FROM doc_bill_lines l
		JOIN doc_bills b ON b.id = l.document_id
		WHERE b.date >= $1
		GROUP BY l.medicine_id, l.medicine_name, day
		ORDER BY l.medicine_id, day
	`

	rows, err := r.querier(ctx).Query(ctx, sql, from)
	if err != nil {
		return nil, fmt.Errorf("sales history: %w", err)
	}
	defer rows.Close()

	var (
		result  []forecast.MedicineSales
		current *forecast.MedicineSales
	)

	for rows.Next() {
		var (
			medicineID   id.ID
			medicineName string
			day          time.Time
			quantity     int
		)
		if err := rows.Scan(&medicineID, &medicineName, &day, &quantity); err != nil {
			return nil, fmt.Errorf("scan sales history: %w", err)
		}

		if current == nil || current.MedicineID != medicineID {
			result = append(result, forecast.MedicineSales{
				MedicineID:   medicineID,
				MedicineName: medicineName,
			})
			current = &result[len(result)-1]
		}
		current.Points = append(current.Points, forecast.SalePoint{Date: day, Quantity: quantity})
	}

	return result, rows.Err()
}
