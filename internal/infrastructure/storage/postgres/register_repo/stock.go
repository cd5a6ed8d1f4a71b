// Package register_repo provides PostgreSQL implementations for register repositories.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/domain/registers/stock"
	"medistock/internal/infrastructure/storage/postgres"
)

const (
	stockMovementsTable = "reg_stock_movements"
	medicinesTable      = "cat_medicines"
)

// StockRepo implements stock.Repository.
// The movement table is the immutable history; the running balance is
// kept on cat_medicines.quantity and mutated only here, inside the
// transaction that records the movements.
type StockRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

var _ stock.Repository = (*StockRepo)(nil)

// NewStockRepo creates a new stock register repository.
func NewStockRepo(txm *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *StockRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

var movementColumns = []string{
	"line_id", "recorder_id", "recorder_type",
	"period", "record_type",
	"medicine_id", "quantity", "batch_number", "created_at",
}

// CreateMovements batch inserts movements and applies them to medicine balances.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txm.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txm)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.LineID, m.RecorderID, m.RecorderType,
				m.Period, m.RecordType,
				m.MedicineID, m.Quantity, m.BatchNumber, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, movementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", err)
		}
	} else {
		q := r.builder.Insert(stockMovementsTable).Columns(movementColumns...)
		for _, m := range movements {
			q = q.Values(
				m.LineID, m.RecorderID, m.RecorderType,
				m.Period, m.RecordType,
				m.MedicineID, m.Quantity, m.BatchNumber, m.CreatedAt,
			)
		}

		sql, args, err := q.ToSql()
		if err != nil {
			return fmt.Errorf("build insert: %w", err)
		}

		if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert movements: %w", err)
		}
	}

	return r.applyDeltas(ctx, signedDeltas(movements))
}

// DeleteMovementsByRecorder removes all movements for a document and
// rolls their effect back out of the medicine balances.
func (r *StockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	movements, err := r.GetMovementsByRecorder(ctx, recorderID)
	if err != nil {
		return err
	}
	if len(movements) == 0 {
		return nil
	}

	q := r.builder.Delete(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete movements: %w", err)
	}

	// Reverse the effect on balances
	deltas := signedDeltas(movements)
	for medID := range deltas {
		deltas[medID] = -deltas[medID]
	}
	return r.applyDeltas(ctx, deltas)
}

// GetMovementsByRecorder retrieves movements for a document.
func (r *StockRepo) GetMovementsByRecorder(ctx context.Context, recorderID id.ID) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"recorder_id": recorderID}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", err)
	}

	return movements, nil
}

// GetBalance returns the current balance for a medicine.
func (r *StockRepo) GetBalance(ctx context.Context, medicineID id.ID) (entity.StockBalance, error) {
	return r.getBalance(ctx, medicineID, false)
}

// GetBalanceForUpdate returns the balance with a row lock for stock control.
func (r *StockRepo) GetBalanceForUpdate(ctx context.Context, medicineID id.ID) (entity.StockBalance, error) {
	return r.getBalance(ctx, medicineID, true)
}

func (r *StockRepo) getBalance(ctx context.Context, medicineID id.ID, forUpdate bool) (entity.StockBalance, error) {
	balance := entity.StockBalance{MedicineID: medicineID}

	sql := "SELECT quantity FROM " + medicinesTable + " WHERE id = $1"
	if forUpdate {
		sql += " FOR UPDATE"
	}

	err := r.querier(ctx).QueryRow(ctx, sql, medicineID).Scan(&balance.Quantity)
	if err == pgx.ErrNoRows {
		return balance, nil
	}
	if err != nil {
		return balance, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// GetMovementHistory returns movement history for a medicine.
func (r *StockRepo) GetMovementHistory(ctx context.Context, medicineID id.ID, f stock.MovementFilter) ([]entity.StockMovement, error) {
	q := r.builder.Select(movementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{"medicine_id": medicineID})

	if f.RecordType != nil {
		q = q.Where(squirrel.Eq{"record_type": *f.RecordType})
	}

	if f.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"period": *f.FromDate})
	}

	if f.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"period": *f.ToDate})
	}

	q = q.OrderBy("period DESC", "created_at DESC")

	if f.Limit > 0 {
		q = q.Limit(uint64(f.Limit))
	}
	if f.Offset > 0 {
		q = q.Offset(uint64(f.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []entity.StockMovement
	if err := pgxscan.Select(ctx, r.querier(ctx), &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}

	return movements, nil
}

// GetTurnover calculates receipt and expense totals for a period.
func (r *StockRepo) GetTurnover(ctx context.Context, f stock.TurnoverFilter) (stock.Turnover, error) {
	var result stock.Turnover

	args := []any{f.FromDate, f.ToDate}
	conditions := "period >= $1 AND period < $2"

	if f.MedicineID != nil {
		conditions += " AND medicine_id = $3"
		args = append(args, *f.MedicineID)
		result.MedicineID = *f.MedicineID
	}

	sql := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE 0 END), 0) as receipt,
			COALESCE(SUM(CASE WHEN record_type = 'expense' THEN quantity ELSE 0 END), 0) as expense
		FROM reg_stock_movements
		WHERE %s
	`, conditions)

	querier := r.querier(ctx)
	err := querier.QueryRow(ctx, sql, args...).Scan(&result.Receipt, &result.Expense)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate turnover: %w", err)
	}

	// Opening balance from movements before the period
	openingArgs := []any{f.FromDate}
	openingConditions := "period < $1"
	if f.MedicineID != nil {
		openingConditions += " AND medicine_id = $2"
		openingArgs = append(openingArgs, *f.MedicineID)
	}

	openingSQL := fmt.Sprintf(`
		SELECT COALESCE(
			SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END),
			0
		)
		FROM reg_stock_movements
		WHERE %s
	`, openingConditions)

	err = querier.QueryRow(ctx, openingSQL, openingArgs...).Scan(&result.OpeningBalance)
	if err != nil && err != pgx.ErrNoRows {
		return result, fmt.Errorf("calculate opening balance: %w", err)
	}

	result.ClosingBalance = result.OpeningBalance + result.Receipt - result.Expense

	return result, nil
}

// RecalculateBalance rebuilds a medicine balance from its movements.
func (r *StockRepo) RecalculateBalance(ctx context.Context, medicineID id.ID) error {
	sql := `
		UPDATE cat_medicines
		SET quantity = COALESCE((
			SELECT SUM(CASE WHEN record_type = 'receipt' THEN quantity ELSE -quantity END)
			FROM reg_stock_movements
			WHERE medicine_id = cat_medicines.id
		), 0)
		WHERE id = $1
	`

	if _, err := r.querier(ctx).Exec(ctx, sql, medicineID); err != nil {
		return fmt.Errorf("recalculate balance: %w", err)
	}

	return nil
}

// signedDeltas aggregates movements into per-medicine signed quantity deltas.
func signedDeltas(movements []entity.StockMovement) map[id.ID]int {
	deltas := make(map[id.ID]int)
	for _, m := range movements {
		deltas[m.MedicineID] += m.SignedQuantity()
	}
	return deltas
}

// applyDeltas adjusts medicine balances by the given signed deltas.
func (r *StockRepo) applyDeltas(ctx context.Context, deltas map[id.ID]int) error {
	querier := r.querier(ctx)
	sql := "UPDATE " + medicinesTable + " SET quantity = quantity + $1 WHERE id = $2"

	for medID, delta := range deltas {
		if delta == 0 {
			continue
		}
		if _, err := querier.Exec(ctx, sql, delta, medID); err != nil {
			return fmt.Errorf("apply balance delta: %w", err)
		}
	}

	return nil
}
