package catalog_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/internal/infrastructure/storage/postgres"
)

const medicineTable = "cat_medicines"

// MedicineRepo implements medicine.Repository.
type MedicineRepo struct {
	*BaseCatalogRepo[*medicine.Medicine]
}

var _ medicine.Repository = (*MedicineRepo)(nil)

// NewMedicineRepo creates a new medicine repository.
func NewMedicineRepo(txm *postgres.TxManager) *MedicineRepo {
	return &MedicineRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			medicineTable,
			postgres.ExtractDBColumns[medicine.Medicine](),
			func() *medicine.Medicine { return &medicine.Medicine{} },
		),
	}
}

func (r *MedicineRepo) selectMany(ctx context.Context, q squirrel.SelectBuilder) ([]*medicine.Medicine, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*medicine.Medicine
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select medicines: %w", err)
	}
	return items, nil
}

// ListAll returns every non-deleted medicine.
func (r *MedicineRepo) ListAll(ctx context.Context) ([]*medicine.Medicine, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name")
	return r.selectMany(ctx, q)
}

// ListLowStock returns medicines with 0 < quantity <= min_stock_level.
func (r *MedicineRepo) ListLowStock(ctx context.Context) ([]*medicine.Medicine, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Gt{"quantity": 0}).
		Where(squirrel.Expr("quantity <= min_stock_level")).
		OrderBy("quantity", "name")
	return r.selectMany(ctx, q)
}

// ListOutOfStock returns medicines with quantity = 0.
func (r *MedicineRepo) ListOutOfStock(ctx context.Context) ([]*medicine.Medicine, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.Eq{"quantity": 0}).
		OrderBy("name")
	return r.selectMany(ctx, q)
}

// ListExpiring returns medicines expiring before the given date, expired included.
func (r *MedicineRepo) ListExpiring(ctx context.Context, before time.Time) ([]*medicine.Medicine, error) {
	q := r.baseSelect().
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.NotEq{"expiry_date": nil}).
		Where(squirrel.LtOrEq{"expiry_date": before}).
		OrderBy("expiry_date", "name")
	return r.selectMany(ctx, q)
}

// ListCategories returns distinct category names.
func (r *MedicineRepo) ListCategories(ctx context.Context) ([]string, error) {
	q := r.Builder().
		Select("DISTINCT category").
		From(medicineTable).
		Where(squirrel.Eq{"deletion_mark": false}).
		Where(squirrel.NotEq{"category": ""}).
		OrderBy("category")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []string
	if err := pgxscan.Select(ctx, r.querier(ctx), &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// UpdateBatch sets the current batch number and expiry date.
func (r *MedicineRepo) UpdateBatch(ctx context.Context, medicineID id.ID, batchNumber string, expiryDate *time.Time) error {
	q := r.Builder().
		Update(medicineTable).
		Set("batch_number", batchNumber).
		Set("expiry_date", expiryDate).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": medicineID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update batch: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update batch: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("medicine", medicineID.String())
	}

	return nil
}
