package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistock/internal/core/id"
)

func day(n int) time.Time {
	return time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func TestPredictDemand_GrowingSales(t *testing.T) {
	// Perfectly linear growth: 10, 12, 14, 16 over four days.
	sales := []MedicineSales{{
		MedicineID:   id.New(),
		MedicineName: "Paracetamol",
		Points: []SalePoint{
			{Date: day(0), Quantity: 10},
			{Date: day(1), Quantity: 12},
			{Date: day(2), Quantity: 14},
			{Date: day(3), Quantity: 16},
		},
	}}

	preds := PredictDemand(sales)
	require.Len(t, preds, 1)

	p := preds[0]
	// Projections for days 4..10 are 18..30, mean 24.
	assert.InDelta(t, 24.0, p.PredictedDemand, 0.01)
	// Perfect fit capped at 0.95.
	assert.Equal(t, 0.95, p.Confidence)
	assert.Equal(t, RecommendReorder, p.Recommendation)
}

func TestPredictDemand_DecliningSalesClampedToZero(t *testing.T) {
	sales := []MedicineSales{{
		MedicineID:   id.New(),
		MedicineName: "Seasonal Syrup",
		Points: []SalePoint{
			{Date: day(0), Quantity: 9},
			{Date: day(1), Quantity: 6},
			{Date: day(2), Quantity: 3},
		},
	}}

	preds := PredictDemand(sales)
	require.Len(t, preds, 1)

	assert.Equal(t, 0.0, preds[0].PredictedDemand)
	assert.Equal(t, RecommendSufficient, preds[0].Recommendation)
}

func TestPredictDemand_TooFewPoints(t *testing.T) {
	sales := []MedicineSales{{
		MedicineID:   id.New(),
		MedicineName: "Rare Medicine",
		Points: []SalePoint{
			{Date: day(0), Quantity: 5},
			{Date: day(1), Quantity: 5},
		},
	}}

	assert.Empty(t, PredictDemand(sales))
}

func TestPredictDemand_SortedByDemand(t *testing.T) {
	low := MedicineSales{MedicineID: id.New(), MedicineName: "Low", Points: []SalePoint{
		{Date: day(0), Quantity: 1}, {Date: day(1), Quantity: 1}, {Date: day(2), Quantity: 1},
	}}
	high := MedicineSales{MedicineID: id.New(), MedicineName: "High", Points: []SalePoint{
		{Date: day(0), Quantity: 50}, {Date: day(1), Quantity: 50}, {Date: day(2), Quantity: 50},
	}}

	preds := PredictDemand([]MedicineSales{low, high})
	require.Len(t, preds, 2)
	assert.Equal(t, "High", preds[0].MedicineName)
	assert.Equal(t, "Low", preds[1].MedicineName)
}

func TestPredictDemand_ConstantSales(t *testing.T) {
	sales := []MedicineSales{{
		MedicineID:   id.New(),
		MedicineName: "Steady",
		Points: []SalePoint{
			{Date: day(0), Quantity: 20},
			{Date: day(1), Quantity: 20},
			{Date: day(2), Quantity: 20},
		},
	}}

	preds := PredictDemand(sales)
	require.Len(t, preds, 1)
	assert.InDelta(t, 20.0, preds[0].PredictedDemand, 0.01)
	assert.Equal(t, 0.95, preds[0].Confidence)
	assert.Equal(t, RecommendReorder, preds[0].Recommendation)
}

// --- service cache behavior ---

type mockSales struct {
	calls int
	data  []MedicineSales
}

func (m *mockSales) GetSalesHistory(ctx context.Context, from time.Time) ([]MedicineSales, error) {
	m.calls++
	return m.data, nil
}

type memCache struct {
	store map[string][]byte
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.store[key], nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.store[key] = value
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func TestService_CachesPredictions(t *testing.T) {
	source := &mockSales{data: []MedicineSales{{
		MedicineID:   id.New(),
		MedicineName: "Steady",
		Points: []SalePoint{
			{Date: day(0), Quantity: 20},
			{Date: day(1), Quantity: 20},
			{Date: day(2), Quantity: 20},
		},
	}}}
	svc := NewService(source, &memCache{store: make(map[string][]byte)})

	first, err := svc.Predict(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, source.calls)

	second, err := svc.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls, "second call served from cache")

	svc.Invalidate(context.Background())
	_, err = svc.Predict(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}
