package medicine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"medistock/internal/core/types"
)

func TestMedicine_Validate(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(*Medicine)
		wantErr bool
	}{
		{
			name:   "valid",
			mutate: func(m *Medicine) {},
		},
		{
			name:    "missing name",
			mutate:  func(m *Medicine) { m.Name = "" },
			wantErr: true,
		},
		{
			name:    "missing category",
			mutate:  func(m *Medicine) { m.Category = "" },
			wantErr: true,
		},
		{
			name:    "negative price",
			mutate:  func(m *Medicine) { m.Price = types.MustMoney("-1") },
			wantErr: true,
		},
		{
			name:    "negative min stock level",
			mutate:  func(m *Medicine) { m.MinStockLevel = -1 },
			wantErr: true,
		},
		{
			name: "gst rate above 100",
			mutate: func(m *Medicine) {
				rate := types.MustMoney("101")
				m.GSTRate = &rate
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMedicine("MED-2026-00001", "Paracetamol 500mg", "Analgesics", types.MustMoney("25.00"))
			tc.mutate(m)

			err := m.Validate(ctx)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMedicine_StockFlags(t *testing.T) {
	m := NewMedicine("", "Amoxicillin", "Antibiotics", types.MustMoney("120"))
	m.MinStockLevel = 10

	m.Quantity = 0
	assert.True(t, m.IsOutOfStock())
	assert.False(t, m.IsLowStock(), "out of stock is not low stock")

	m.Quantity = 10
	assert.True(t, m.IsLowStock())
	assert.False(t, m.IsOutOfStock())

	m.Quantity = 11
	assert.False(t, m.IsLowStock())
}

func TestMedicine_Expiry(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	m := NewMedicine("", "Insulin", "Diabetes", types.MustMoney("450"))

	assert.False(t, m.IsExpired(now), "no expiry date means never expired")
	assert.False(t, m.ExpiresWithin(now, 30*24*time.Hour))

	past := now.AddDate(0, 0, -1)
	m.ExpiryDate = &past
	assert.True(t, m.IsExpired(now))
	assert.False(t, m.ExpiresWithin(now, 30*24*time.Hour), "expired is not expiring")

	soon := now.AddDate(0, 0, 14)
	m.ExpiryDate = &soon
	assert.False(t, m.IsExpired(now))
	assert.True(t, m.ExpiresWithin(now, 30*24*time.Hour))
	assert.False(t, m.ExpiresWithin(now, 7*24*time.Hour))
}

func TestMedicine_EffectiveGSTRate(t *testing.T) {
	m := NewMedicine("", "Cough Syrup", "Respiratory", types.MustMoney("80"))
	assert.True(t, m.EffectiveGSTRate().Equal(types.MustMoney("18")))

	rate := types.MustMoney("5")
	m.GSTRate = &rate
	assert.True(t, m.EffectiveGSTRate().Equal(types.MustMoney("5")))
}
