package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistock/internal/core/types"
	"medistock/internal/domain/catalogs/medicine"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newMed(qty, minLevel int, expiryDays *int) *medicine.Medicine {
	m := medicine.NewMedicine("", "Paracetamol", "Analgesics", types.MustMoney("25"))
	m.Quantity = qty
	m.MinStockLevel = minLevel
	if expiryDays != nil {
		d := now.AddDate(0, 0, *expiryDays)
		m.ExpiryDate = &d
	}
	return m
}

func days(n int) *int { return &n }

func TestEvaluateMedicine_StockRules(t *testing.T) {
	cases := []struct {
		name         string
		qty          int
		minLevel     int
		wantType     Type
		wantPriority Priority
		wantNone     bool
	}{
		{name: "out of stock", qty: 0, minLevel: 10, wantType: TypeOutOfStock, wantPriority: PriorityCritical},
		{name: "low stock", qty: 5, minLevel: 10, wantType: TypeLowStock, wantPriority: PriorityWarning},
		{name: "at minimum is low", qty: 10, minLevel: 10, wantType: TypeLowStock, wantPriority: PriorityWarning},
		{name: "healthy stock", qty: 11, minLevel: 10, wantNone: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateMedicine(newMed(tc.qty, tc.minLevel, nil), now)

			if tc.wantNone {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tc.wantType, got[0].Type)
			assert.Equal(t, tc.wantPriority, got[0].Priority)
			assert.NotEmpty(t, got[0].Message)
		})
	}
}

func TestEvaluateMedicine_ExpiryRules(t *testing.T) {
	cases := []struct {
		name         string
		expiryDays   *int
		wantType     Type
		wantPriority Priority
		wantNone     bool
	}{
		{name: "expired", expiryDays: days(-1), wantType: TypeExpired, wantPriority: PriorityCritical},
		{name: "expiring within a week", expiryDays: days(5), wantType: TypeExpiringSoon, wantPriority: PriorityCritical},
		{name: "expiring within a month", expiryDays: days(20), wantType: TypeExpiringSoon, wantPriority: PriorityWarning},
		{name: "far from expiry", expiryDays: days(120), wantNone: true},
		{name: "no expiry date", expiryDays: nil, wantNone: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Healthy stock so only expiry rules fire.
			got := EvaluateMedicine(newMed(100, 10, tc.expiryDays), now)

			if tc.wantNone {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tc.wantType, got[0].Type)
			assert.Equal(t, tc.wantPriority, got[0].Priority)
		})
	}
}

func TestEvaluateMedicine_CombinesStockAndExpiry(t *testing.T) {
	got := EvaluateMedicine(newMed(0, 10, days(-3)), now)

	require.Len(t, got, 2)
	types := []Type{got[0].Type, got[1].Type}
	assert.Contains(t, types, TypeOutOfStock)
	assert.Contains(t, types, TypeExpired)
}

func TestDedupWindow(t *testing.T) {
	assert.Equal(t, 24*time.Hour, TypeLowStock.DedupWindow())
	assert.Equal(t, 24*time.Hour, TypeOutOfStock.DedupWindow())
	assert.Equal(t, 7*24*time.Hour, TypeExpiringSoon.DedupWindow())
	assert.Equal(t, 7*24*time.Hour, TypeExpired.DedupWindow())
}
