package bill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
)

func TestBill_Totals(t *testing.T) {
	cases := []struct {
		name      string
		gst       string
		lines     []struct {
			qty   int
			price string
		}
		wantSubtotal   string
		wantGST        string
		wantGrandTotal string
	}{
		{
			name: "single line at default rate",
			gst:  "18",
			lines: []struct {
				qty   int
				price string
			}{{qty: 1, price: "25.00"}},
			wantSubtotal:   "25",
			wantGST:        "4.5",
			wantGrandTotal: "29.5",
		},
		{
			name: "multiple lines",
			gst:  "18",
			lines: []struct {
				qty   int
				price string
			}{{qty: 2, price: "10.50"}, {qty: 3, price: "7.25"}},
			wantSubtotal:   "42.75",
			wantGST:        "7.7",
			wantGrandTotal: "50.45",
		},
		{
			name: "zero gst",
			gst:  "0",
			lines: []struct {
				qty   int
				price string
			}{{qty: 4, price: "12.00"}},
			wantSubtotal:   "48",
			wantGST:        "0",
			wantGrandTotal: "48",
		},
		{
			name: "rounding at boundaries",
			gst:  "18",
			lines: []struct {
				qty   int
				price string
			}{{qty: 3, price: "33.33"}},
			wantSubtotal:   "99.99",
			wantGST:        "18",
			wantGrandTotal: "117.99",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBill("Walk-in", PaymentCash)
			b.GSTPercentage = types.MustMoney(tc.gst)
			for _, l := range tc.lines {
				b.AddLine(id.New(), "med", l.qty, types.MustMoney(l.price))
			}

			assert.True(t, b.Subtotal.Equal(types.MustMoney(tc.wantSubtotal)),
				"subtotal: want %s, got %s", tc.wantSubtotal, b.Subtotal)
			assert.True(t, b.GSTAmount.Equal(types.MustMoney(tc.wantGST)),
				"gst: want %s, got %s", tc.wantGST, b.GSTAmount)
			assert.True(t, b.GrandTotal.Equal(types.MustMoney(tc.wantGrandTotal)),
				"grand total: want %s, got %s", tc.wantGrandTotal, b.GrandTotal)
		})
	}
}

func TestBill_DefaultGST(t *testing.T) {
	b := NewBill("Walk-in", PaymentCash)
	b.AddLine(id.New(), "med", 1, types.MustMoney("100"))

	assert.True(t, b.GSTPercentage.Equal(types.MustMoney("18")))
	assert.True(t, b.GSTAmount.Equal(types.MustMoney("18")))
}

func TestBill_ExplicitZeroGST(t *testing.T) {
	b := NewBill("Walk-in", PaymentCash)
	b.GSTPercentage = types.Zero()
	b.AddLine(id.New(), "med", 2, types.MustMoney("10.00"))

	assert.True(t, b.GSTPercentage.IsZero())
	assert.True(t, b.GSTAmount.IsZero())
	assert.True(t, b.GrandTotal.Equal(types.MustMoney("20.00")))
}

func TestBill_Validate(t *testing.T) {
	ctx := context.Background()

	valid := func() *Bill {
		b := NewBill("Ravi Kumar", PaymentUPI)
		b.AddLine(id.New(), "Paracetamol", 2, types.MustMoney("25.00"))
		return b
	}

	cases := []struct {
		name    string
		mutate  func(*Bill)
		wantErr bool
	}{
		{name: "valid", mutate: func(b *Bill) {}},
		{name: "missing customer name", mutate: func(b *Bill) { b.CustomerName = "" }, wantErr: true},
		{name: "bad payment mode", mutate: func(b *Bill) { b.PaymentMode = "cheque" }, wantErr: true},
		{name: "no lines", mutate: func(b *Bill) { b.Lines = nil }, wantErr: true},
		{name: "zero quantity", mutate: func(b *Bill) { b.Lines[0].Quantity = 0 }, wantErr: true},
		{name: "negative price", mutate: func(b *Bill) { b.Lines[0].Price = types.MustMoney("-1") }, wantErr: true},
		{name: "gst above 100", mutate: func(b *Bill) { b.GSTPercentage = types.MustMoney("120") }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := valid()
			tc.mutate(b)

			err := b.Validate(ctx)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
