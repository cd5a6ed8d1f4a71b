package notifications

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain/catalogs/medicine"
)

type mockTxManager struct{}

func (mockTxManager) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type mockNotifRepo struct {
	Repository

	stored []Notification
}

func (m *mockNotifRepo) Create(ctx context.Context, n Notification) error {
	m.stored = append(m.stored, n)
	return nil
}

func (m *mockNotifRepo) ExistsRecent(ctx context.Context, nType Type, medicineID id.ID, since time.Time) (bool, error) {
	for _, n := range m.stored {
		if n.Type == nType && n.MedicineID == medicineID && n.CreatedAt.After(since) {
			return true, nil
		}
	}
	return false, nil
}

type mockLister struct {
	meds []*medicine.Medicine
}

func (m *mockLister) ListAll(ctx context.Context) ([]*medicine.Medicine, error) {
	return m.meds, nil
}

func TestGenerate(t *testing.T) {
	low := medicine.NewMedicine("", "Paracetamol", "Analgesics", types.MustMoney("25"))
	low.Quantity = 3
	low.MinStockLevel = 10

	healthy := medicine.NewMedicine("", "Vitamin C", "Supplements", types.MustMoney("15"))
	healthy.Quantity = 100

	deleted := medicine.NewMedicine("", "Old Stock", "General", types.MustMoney("5"))
	deleted.Quantity = 0
	deleted.MarkDeleted()

	repo := &mockNotifRepo{}
	svc := NewService(repo, &mockLister{meds: []*medicine.Medicine{low, healthy, deleted}}, mockTxManager{})

	created, err := svc.Generate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, created)
	require.Len(t, repo.stored, 1)
	assert.Equal(t, TypeLowStock, repo.stored[0].Type)
	assert.Equal(t, low.ID, repo.stored[0].MedicineID)
}

func TestGenerate_Dedup(t *testing.T) {
	low := medicine.NewMedicine("", "Paracetamol", "Analgesics", types.MustMoney("25"))
	low.Quantity = 3
	low.MinStockLevel = 10

	repo := &mockNotifRepo{}
	svc := NewService(repo, &mockLister{meds: []*medicine.Medicine{low}}, mockTxManager{})

	created, err := svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, created)

	// Second run within the 24h window creates nothing.
	created, err = svc.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Len(t, repo.stored, 1)
}
