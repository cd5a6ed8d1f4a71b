package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
)

type mockRepo struct {
	Repository

	balances map[id.ID]int
	locked   []id.ID
	created  []entity.StockMovement
	deleted  []id.ID
}

func newMockRepo() *mockRepo {
	return &mockRepo{balances: make(map[id.ID]int)}
}

func (m *mockRepo) GetBalanceForUpdate(ctx context.Context, medicineID id.ID) (entity.StockBalance, error) {
	m.locked = append(m.locked, medicineID)
	return entity.StockBalance{MedicineID: medicineID, Quantity: m.balances[medicineID]}, nil
}

func (m *mockRepo) GetBalance(ctx context.Context, medicineID id.ID) (entity.StockBalance, error) {
	return entity.StockBalance{MedicineID: medicineID, Quantity: m.balances[medicineID]}, nil
}

func (m *mockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	m.created = append(m.created, movements...)
	for _, mv := range movements {
		m.balances[mv.MedicineID] += mv.SignedQuantity()
	}
	return nil
}

func (m *mockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	m.deleted = append(m.deleted, recorderID)
	return nil
}

func TestRecordMovements_Expense(t *testing.T) {
	repo := newMockRepo()
	medID := id.New()
	repo.balances[medID] = 10

	svc := NewService(repo)
	billID := id.New()

	movements := []entity.StockMovement{
		entity.NewStockMovement(billID, "Bill", time.Now(), entity.RecordTypeExpense, medID, 4, ""),
	}

	err := svc.RecordMovements(context.Background(), movements)
	require.NoError(t, err)

	assert.Len(t, repo.created, 1)
	assert.Equal(t, 6, repo.balances[medID])
	assert.Equal(t, []id.ID{medID}, repo.locked)
}

func TestRecordMovements_InsufficientStock(t *testing.T) {
	repo := newMockRepo()
	medID := id.New()
	repo.balances[medID] = 3

	svc := NewService(repo)

	movements := []entity.StockMovement{
		entity.NewStockMovement(id.New(), "Bill", time.Now(), entity.RecordTypeExpense, medID, 5, ""),
	}

	err := svc.RecordMovements(context.Background(), movements)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Empty(t, repo.created, "nothing should be written when the check fails")
}

func TestRecordMovements_AggregatesExpensesPerMedicine(t *testing.T) {
	repo := newMockRepo()
	medID := id.New()
	repo.balances[medID] = 5

	svc := NewService(repo)
	billID := id.New()

	// Two lines of 3 each need 6 in total, only 5 available.
	movements := []entity.StockMovement{
		entity.NewStockMovement(billID, "Bill", time.Now(), entity.RecordTypeExpense, medID, 3, ""),
		entity.NewStockMovement(billID, "Bill", time.Now(), entity.RecordTypeExpense, medID, 3, ""),
	}

	err := svc.RecordMovements(context.Background(), movements)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
}

func TestRecordMovements_ReceiptSkipsBalanceCheck(t *testing.T) {
	repo := newMockRepo()
	medID := id.New()

	svc := NewService(repo)

	movements := []entity.StockMovement{
		entity.NewStockMovement(id.New(), "PurchaseOrder", time.Now(), entity.RecordTypeReceipt, medID, 100, "BT-001"),
	}

	err := svc.RecordMovements(context.Background(), movements)
	require.NoError(t, err)

	assert.Empty(t, repo.locked)
	assert.Equal(t, 100, repo.balances[medID])
}

func TestRecordMovements_Validation(t *testing.T) {
	svc := NewService(newMockRepo())
	medID := id.New()

	cases := []struct {
		name     string
		movement entity.StockMovement
	}{
		{
			name:     "zero quantity",
			movement: entity.NewStockMovement(id.New(), "Bill", time.Now(), entity.RecordTypeExpense, medID, 0, ""),
		},
		{
			name:     "nil recorder",
			movement: entity.NewStockMovement(id.Nil(), "Bill", time.Now(), entity.RecordTypeExpense, medID, 1, ""),
		},
		{
			name:     "nil medicine",
			movement: entity.NewStockMovement(id.New(), "Bill", time.Now(), entity.RecordTypeExpense, id.Nil(), 1, ""),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.RecordMovements(context.Background(), []entity.StockMovement{tc.movement})
			require.Error(t, err)
			assert.True(t, apperror.IsAppError(err))
		})
	}
}

func TestReverseMovements(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	billID := id.New()

	err := svc.ReverseMovements(context.Background(), billID)
	require.NoError(t, err)
	assert.Equal(t, []id.ID{billID}, repo.deleted)
}
