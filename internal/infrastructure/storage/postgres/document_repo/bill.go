package document_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/internal/domain/documents/bill"
	"medistock/internal/infrastructure/storage/postgres"
)

const (
	billsTable     = "doc_bills"
	billLinesTable = "doc_bill_lines"
)

// BillRepo implements bill.Repository.
type BillRepo struct {
	*BaseDocumentRepo[*bill.Bill]
}

var _ bill.Repository = (*BillRepo)(nil)

// NewBillRepo creates a new bill repository.
func NewBillRepo(txm *postgres.TxManager) *BillRepo {
	return &BillRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			billsTable,
			postgres.ExtractDBColumns[bill.Bill](),
			func() *bill.Bill { return &bill.Bill{} },
		),
	}
}

// GetLines retrieves lines for a bill.
func (r *BillRepo) GetLines(ctx context.Context, docID id.ID) ([]bill.Line, error) {
	q := r.Builder().
		Select(
			"line_id", "line_no", "medicine_id", "medicine_name",
			"quantity", "price", "total",
		).
		From(billLinesTable).
		Where(squirrel.Eq{"document_id": docID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []bill.Line
	if err := pgxscan.Select(ctx, r.querier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}

	return lines, nil
}

// SaveLines saves lines for a bill (delete existing + insert new).
func (r *BillRepo) SaveLines(ctx context.Context, docID id.ID, lines []bill.Line) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + billLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, docID); err != nil {
		return fmt.Errorf("delete existing lines: %w", err)
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(billLinesTable).
		Columns(
			"line_id", "document_id", "line_no", "medicine_id", "medicine_name",
			"quantity", "price", "total",
		)

	for _, line := range lines {
		q = q.Values(
			line.LineID, docID, line.LineNo, line.MedicineID, line.MedicineName,
			line.Quantity, line.Price, line.Total,
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

// List retrieves bills with filtering.
func (r *BillRepo) List(ctx context.Context, f bill.ListFilter) (domain.ListResult[*bill.Bill], error) {
	result := domain.ListResult[*bill.Bill]{
		Limit:  f.Limit,
		Offset: f.Offset,
	}

	q := r.baseSelect()

	if f.CustomerPhone != nil {
		q = q.Where(squirrel.Eq{"customer_phone": *f.CustomerPhone})
	}

	if f.PaymentMode != nil {
		q = q.Where(squirrel.Eq{"payment_mode": *f.PaymentMode})
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
			squirrel.ILike{"customer_name": pattern},
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
		return result, fmt.Errorf("list bills: %w", err)
	}

	return result, nil
}

// GetStats aggregates bills over a period.
func (r *BillRepo) GetStats(ctx context.Context, from, to time.Time) (bill.Stats, error) {
	stats := bill.Stats{
		TotalRevenue:  types.Zero(),
		TotalGST:      types.Zero(),
		AverageBill:   types.Zero(),
		ByPaymentMode: make(map[bill.PaymentMode]types.Money),
	}

	querier := r.querier(ctx)

	totalSQL := `
		SELECT COUNT(*),
			   COALESCE(SUM(grand_total), 0),
			   COALESCE(SUM(gst_amount), 0)
		FROM doc_bills
		WHERE date >= $1 AND date < $2
	`
	err := querier.QueryRow(ctx, totalSQL, from, to).
		Scan(&stats.BillCount, &stats.TotalRevenue, &stats.TotalGST)
	if err != nil {
		return stats, fmt.Errorf("bill totals: %w", err)
	}

	if stats.BillCount > 0 {
		stats.AverageBill = types.Round2(stats.TotalRevenue.Div(types.NewMoneyFromInt(stats.BillCount)))
	}

	modeSQL := `
		SELECT payment_mode, COALESCE(SUM(grand_total), 0)
		FROM doc_bills
		WHERE date >= $1 AND date < $2
		GROUP BY payment_mode
	`
	rows, err := querier.Query(ctx, modeSQL, from, to)
	if err != nil {
		return stats, fmt.Errorf("bill stats by payment mode: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mode bill.PaymentMode
		var amount types.Money
		if err := rows.Scan(&mode, &amount); err != nil {
			return stats, fmt.Errorf("scan payment mode stats: %w", err)
		}
		stats.ByPaymentMode[mode] = amount
	}

	return stats, rows.Err()
}
