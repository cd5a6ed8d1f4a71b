package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistock/internal/core/apperror"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain/documents/bill"
)

func TestCreateBillRequestToEntity(t *testing.T) {
	medID := id.New()
	phone := "9876543210"

	req := CreateBillRequest{
		CustomerName:  "Walk-in",
		CustomerPhone: &phone,
		PaymentMode:   "cash",
		Items: []BillItemRequest{
			{MedicineID: medID.String(), Quantity: 3},
		},
	}

	b, err := req.ToEntity()
	require.NoError(t, err)

	assert.Equal(t, "Walk-in", b.CustomerName)
	assert.Equal(t, bill.PaymentMode("cash"), b.PaymentMode)
	require.NotNil(t, b.CustomerPhone)
	assert.Equal(t, phone, *b.CustomerPhone)
	assert.True(t, b.GSTPercentage.Equal(bill.DefaultGSTPercentage))

	require.Len(t, b.Lines, 1)
	assert.Equal(t, 1, b.Lines[0].LineNo)
	assert.Equal(t, medID, b.Lines[0].MedicineID)
	assert.Equal(t, 3, b.Lines[0].Quantity)
}

func TestCreateBillRequestExplicitGST(t *testing.T) {
	gst := types.MustMoney("12")
	req := CreateBillRequest{
		CustomerName:  "Walk-in",
		PaymentMode:   "upi",
		GSTPercentage: &gst,
		Items: []BillItemRequest{
			{MedicineID: id.New().String(), Quantity: 1},
		},
	}

	b, err := req.ToEntity()
	require.NoError(t, err)
	assert.True(t, b.GSTPercentage.Equal(gst))
}

func TestCreateBillRequestRejectsBadMedicineID(t *testing.T) {
	req := CreateBillRequest{
		CustomerName: "Walk-in",
		PaymentMode:  "cash",
		Items: []BillItemRequest{
			{MedicineID: id.New().String(), Quantity: 1},
			{MedicineID: "not-a-uuid", Quantity: 2},
		},
	}

	_, err := req.ToEntity()
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, 2, appErr.Details["lineNo"])
}
