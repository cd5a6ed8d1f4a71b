package purchaseorder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
)

func TestPurchaseOrder_Transitions(t *testing.T) {
	cases := []struct {
		status     Status
		canApprove bool
		canReceive bool
		canCancel  bool
		canModify  bool
		canDelete  bool
	}{
		{StatusPending, true, false, true, true, true},
		{StatusApproved, false, true, true, false, false},
		{StatusReceived, false, false, false, false, false},
		{StatusCancelled, false, false, false, false, true},
	}

	check := func(t *testing.T, want bool, err error) {
		t.Helper()
		if want {
			assert.NoError(t, err)
		} else {
			assert.Error(t, err)
		}
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			p := NewPurchaseOrder(id.New(), "HealthPlus Distributors")
			p.Status = tc.status

			check(t, tc.canApprove, p.CanApprove())
			check(t, tc.canReceive, p.CanReceive())
			check(t, tc.canCancel, p.CanCancel())
			check(t, tc.canModify, p.CanModify())
			check(t, tc.canDelete, p.CanDelete())
		})
	}
}

func TestPurchaseOrder_Totals(t *testing.T) {
	p := NewPurchaseOrder(id.New(), "HealthPlus Distributors")
	p.AddLine(id.New(), "Paracetamol", 100, types.MustMoney("1.50"))
	p.AddLine(id.New(), "Amoxicillin", 50, types.MustMoney("4.20"))

	assert.True(t, p.TotalAmount.Equal(types.MustMoney("360")),
		"want 360, got %s", p.TotalAmount)
}

func TestPurchaseOrder_MarkApproved(t *testing.T) {
	p := NewPurchaseOrder(id.New(), "HealthPlus Distributors")
	notes := "verified pricing"

	p.MarkApproved("admin@pharmacy.local", &notes)

	assert.Equal(t, StatusApproved, p.Status)
	assert.Equal(t, "admin@pharmacy.local", *p.ApprovedBy)
	assert.NotNil(t, p.ApprovedAt)
	assert.Equal(t, notes, *p.ApprovalNotes)
}

func TestPurchaseOrder_Validate(t *testing.T) {
	ctx := context.Background()

	valid := func() *PurchaseOrder {
		p := NewPurchaseOrder(id.New(), "HealthPlus Distributors")
		p.AddLine(id.New(), "Paracetamol", 100, types.MustMoney("1.50"))
		return p
	}

	cases := []struct {
		name    string
		mutate  func(*PurchaseOrder)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *PurchaseOrder) {}},
		{name: "nil supplier", mutate: func(p *PurchaseOrder) { p.SupplierID = id.Nil() }, wantErr: true},
		{name: "no lines", mutate: func(p *PurchaseOrder) { p.Lines = nil }, wantErr: true},
		{name: "zero quantity", mutate: func(p *PurchaseOrder) { p.Lines[0].Quantity = 0 }, wantErr: true},
		{name: "negative cost", mutate: func(p *PurchaseOrder) { p.Lines[0].UnitCost = types.MustMoney("-1") }, wantErr: true},
		{name: "zero cost", mutate: func(p *PurchaseOrder) { p.Lines[0].UnitCost = types.Zero() }, wantErr: true},
		{name: "bad status", mutate: func(p *PurchaseOrder) { p.Status = "shipped" }, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := valid()
			tc.mutate(p)

			err := p.Validate(ctx)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
