package forecast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"medistock/pkg/logger"
)

// DefaultHistoryWindow is how far back the sales history goes.
const DefaultHistoryWindow = 90 * 24 * time.Hour

// cacheTTL for computed predictions.
const cacheTTL = time.Hour

const cacheKey = "forecast:demand"

// SalesSource supplies per-medicine daily sales history.
// Implemented by the report repository over bill lines.
type SalesSource interface {
	GetSalesHistory(ctx context.Context, from time.Time) ([]MedicineSales, error)
}

// Cache is a byte-level cache with TTL. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Service computes demand predictions with read-through caching.
type Service struct {
	sales SalesSource
	cache Cache
}

// NewService creates a forecast service. cache may be nil.
func NewService(sales SalesSource, cache Cache) *Service {
	return &Service{sales: sales, cache: cache}
}

// Predict returns demand predictions for medicines with enough sales
// history. Cached results are served for up to an hour.
func (s *Service) Predict(ctx context.Context) ([]Prediction, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil && data != nil {
			var cached []Prediction
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			// Corrupt cache entry: recompute.
		}
	}

	sales, err := s.sales.GetSalesHistory(ctx, time.Now().Add(-DefaultHistoryWindow))
	if err != nil {
		return nil, fmt.Errorf("get sales history: %w", err)
	}

	predictions := PredictDemand(sales)

	if s.cache != nil {
		if data, err := json.Marshal(predictions); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, cacheTTL); err != nil {
				logger.Warn(ctx, "cache predictions failed", "error", err)
			}
		}
	}

	return predictions, nil
}

// Invalidate drops the cached predictions (called after bulk sales
// imports or seeding).
func (s *Service) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, cacheKey); err != nil {
		logger.Warn(ctx, "invalidate forecast cache failed", "error", err)
	}
}
