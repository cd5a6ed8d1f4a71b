package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain/catalogs/supplier"
	"medistock/internal/infrastructure/storage/postgres"
)

const supplierTable = "cat_suppliers"

// SupplierRepo implements supplier.Repository.
type SupplierRepo struct {
	*BaseCatalogRepo[*supplier.Supplier]
}

var _ supplier.Repository = (*SupplierRepo)(nil)

// NewSupplierRepo creates a new supplier repository.
func NewSupplierRepo(txm *postgres.TxManager) *SupplierRepo {
	return &SupplierRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			supplierTable,
			postgres.ExtractDBColumns[supplier.Supplier](),
			func() *supplier.Supplier { return &supplier.Supplier{} },
		),
	}
}

// SetActive toggles the active flag.
func (r *SupplierRepo) SetActive(ctx context.Context, supplierID id.ID, active bool) error {
	q := r.Builder().
		Update(supplierTable).
		Set("active", active).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": supplierID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set active: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}

	return nil
}

// AddOrder increments total_orders.
func (r *SupplierRepo) AddOrder(ctx context.Context, supplierID id.ID) error {
	q := r.Builder().
		Update(supplierTable).
		Set("total_orders", squirrel.Expr("total_orders + 1")).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": supplierID})

	return r.execStatUpdate(ctx, q, supplierID, "add order")
}

// AddOrderAmount adds a received order's total to total_amount.
func (r *SupplierRepo) AddOrderAmount(ctx context.Context, supplierID id.ID, amount types.Money) error {
	q := r.Builder().
		Update(supplierTable).
		Set("total_amount", squirrel.Expr("total_amount + ?", amount)).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": supplierID})

	return r.execStatUpdate(ctx, q, supplierID, "add order amount")
}

func (r *SupplierRepo) execStatUpdate(ctx context.Context, q squirrel.UpdateBuilder, supplierID id.ID, op string) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("supplier", supplierID.String())
	}

	return nil
}

// HardDelete physically removes a supplier without order history.
func (r *SupplierRepo) HardDelete(ctx context.Context, supplierID id.ID) error {
	return r.BaseCatalogRepo.Delete(ctx, supplierID)
}
