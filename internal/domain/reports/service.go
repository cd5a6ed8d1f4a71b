package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medistock/internal/core/apperror"
	"medistock/pkg/logger"
)

// cacheTTL for computed reports. Reports aggregate over closed periods
// mostly, so short caching is safe.
const cacheTTL = 5 * time.Minute

// Cache is a byte-level cache with TTL. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service provides report generation operations.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates a new reports service. cache may be nil.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// GetSalesReport generates the sales report. Defaults to the last 30
// days when dates are omitted.
func (s *Service) GetSalesReport(ctx context.Context, filter SalesReportFilter) (*SalesReport, error) {
	from, to, err := resolvePeriod(filter.FromDate, filter.ToDate, 30)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("report:sales:%s:%s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if cached := getCached[SalesReport](ctx, s.cache, key); cached != nil {
		return cached, nil
	}

	report, err := s.repo.GetSalesReport(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("get sales report: %w", err)
	}

	putCached(ctx, s.cache, key, report)
	return report, nil
}

// GetInventoryReport generates the current stock snapshot.
func (s *Service) GetInventoryReport(ctx context.Context) (*InventoryReport, error) {
	report, err := s.repo.GetInventoryReport(ctx, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("get inventory report: %w", err)
	}
	return report, nil
}

// GetCustomerReport ranks customers by spend over the period.
func (s *Service) GetCustomerReport(ctx context.Context, filter CustomerReportFilter) (*CustomerReport, error) {
	from, to, err := resolvePeriod(filter.FromDate, filter.ToDate, 90)
	if err != nil {
		return nil, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	report, err := s.repo.GetCustomerReport(ctx, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("get customer report: %w", err)
	}
	return report, nil
}

func resolvePeriod(fromDate, toDate *time.Time, defaultDays int) (time.Time, time.Time, error) {
	now := time.Now().UTC()

	to := now
	if toDate != nil {
		to = *toDate
	}
	from := to.AddDate(0, 0, -defaultDays)
	if fromDate != nil {
		from = *fromDate
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, apperror.NewValidation("fromDate must be before toDate").
			WithDetail("fromDate", from.Format("2006-01-02")).
			WithDetail("toDate", to.Format("2006-01-02"))
	}

	return from, to, nil
}

func getCached[T any](ctx context.Context, cache Cache, key string) *T {
	if cache == nil {
		return nil
	}
	data, err := cache.Get(ctx, key)
	if err != nil || data == nil {
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	return &v
}

func putCached[T any](ctx context.Context, cache Cache, key string, v *T) {
	if cache == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := cache.Set(ctx, key, data, cacheTTL); err != nil {
		logger.Warn(ctx, "cache report failed", "key", key, "error", err)
	}
}
