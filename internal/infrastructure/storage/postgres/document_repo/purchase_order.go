package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/internal/domain/documents/purchaseorder"
	"medistock/internal/infrastructure/storage/postgres"
)

const (
	purchaseOrdersTable     = "doc_purchase_orders"
	purchaseOrderLinesTable = "doc_purchase_order_lines"
)

// PurchaseOrderRepo implements purchaseorder.Repository.
type PurchaseOrderRepo struct {
	*BaseDocumentRepo[*purchaseorder.PurchaseOrder]
}

var _ purchaseorder.Repository = (*PurchaseOrderRepo)(nil)

// NewPurchaseOrderRepo creates a new purchase order repository.
func NewPurchaseOrderRepo(txm *postgres.TxManager) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			purchaseOrdersTable,
			postgres.ExtractDBColumns[purchaseorder.PurchaseOrder](),
			func() *purchaseorder.PurchaseOrder { return &purchaseorder.PurchaseOrder{} },
		),
	}
}

// GetLines retrieves lines for a purchase order.
func (r *PurchaseOrderRepo) GetLines(ctx context.Context, docID id.ID) ([]purchaseorder.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "medicine_id", "medicine_name",
			"quantity", "unit_cost", "total",
			"quantity_received", "batch_number", "expiry_date",
		).
		From(purchaseOrderLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []purchaseorder.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a purchase order (delete existing + insert new).
func (r *PurchaseOrderRepo) SaveLines(ctx context.Context, docID id.ID, lines []purchaseorder.Line) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + purchaseOrderLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(purchaseOrderLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "medicine_id", "medicine_name",
			"quantity", "unit_cost", "total",
			"quantity_received", "batch_number", "expiry_date",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.MedicineID, line.MedicineName,
			line.Quantity, line.UnitCost, line.Total,
			line.QuantityReceived, line.BatchNumber, line.ExpiryDate,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", err)
	}

	return nil
}

// List retrieves purchase orders with filtering.
func (r *PurchaseOrderRepo) List(ctx context.Context, f purchaseorder.ListFilter) (domain.ListResult[*purchaseorder.PurchaseOrder], error) {
	result := domain.ListResult[*purchaseorder.PurchaseOrder]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.baseSelect()

	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}

	if f.Status != nil {
		q = q.Where(squirrel.Eq{"status": *f.Status})
	}

	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}

	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}

	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"number": pattern},
			squirrel.ILike{"supplier_name": pattern},
		})
	}

	q, total, err := r.countAndPage(ctx, q, f.OrderBy, f.Limit, f.Offset)
	if err != nil {
		return result, err
	}
	result.TotalCount = total

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, r.querier(ctx), &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list purchase orders: %w", err)
	}

	return result, nil
}

// CountBySupplier reports orders referencing a supplier, any status.
func (r *PurchaseOrderRepo) CountBySupplier(ctx context.Context, supplierID id.ID) (int, error) {
	q := r.Builder().
		Select("COUNT(*)").
		From(purchaseOrdersTable).
		Where(squirrel.Eq{"supplier_id": supplierID})

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count: %w", err)
	}

	var count int
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count by supplier: %w", err)
	}

	return count, nil
}

// GetStats aggregates purchase orders.
func (r *PurchaseOrderRepo) GetStats(ctx context.Context, f purchaseorder.StatsFilter) (purchaseorder.Stats, error) {
	stats := purchaseorder.Stats{
		TotalAmount: types.Zero(),
		ByStatus:    make(map[purchaseorder.Status]purchaseorder.StatusStats),
	}

	q := r.Builder().
		Select("status", "COUNT(*)", "COALESCE(SUM(total_amount), 0)").
		From(purchaseOrdersTable).
		GroupBy("status")

	if f.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *f.SupplierID})
	}
	if f.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"date": *f.DateFrom})
	}
	if f.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"date": *f.DateTo})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return stats, fmt.Errorf("build stats: %w", err)
	}

	rows, err := r.querier(ctx).Query(ctx, sql, args...)
	if err != nil {
		return stats, fmt.Errorf("order stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status purchaseorder.Status
		var s purchaseorder.StatusStats
		if err := rows.Scan(&status, &s.Count, &s.Amount); err != nil {
			return stats, fmt.Errorf("scan status stats: %w", err)
		}
		stats.ByStatus[status] = s
		stats.TotalOrders += s.Count
		stats.TotalAmount = stats.TotalAmount.Add(s.Amount)
	}

	return stats, rows.Err()
}
