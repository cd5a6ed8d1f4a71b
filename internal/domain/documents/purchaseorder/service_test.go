package purchaseorder

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistock/internal/core/apperror"
	appctx "medistock/internal/core/context"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/internal/domain/catalogs/medicine"
	"medistock/internal/domain/catalogs/supplier"
	"medistock/internal/domain/registers/stock"
	"medistock/pkg/numerator"
)

// --- mocks ---

type mockTxManager struct{}

func (mockTxManager) RunInTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type mockStockRepo struct {
	stock.Repository

	balances map[id.ID]int
	batches  map[id.ID]string
}

func (m *mockStockRepo) GetBalanceForUpdate(ctx context.Context, medicineID id.ID) (entity.StockBalance, error) {
	return entity.StockBalance{MedicineID: medicineID, Quantity: m.balances[medicineID]}, nil
}

func (m *mockStockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	for _, mv := range movements {
		m.balances[mv.MedicineID] += mv.SignedQuantity()
		if mv.BatchNumber != "" {
			m.batches[mv.MedicineID] = mv.BatchNumber
		}
	}
	return nil
}

type mockPORepo struct {
	orders map[id.ID]*PurchaseOrder
	lines  map[id.ID][]Line
}

func newMockPORepo() *mockPORepo {
	return &mockPORepo{orders: make(map[id.ID]*PurchaseOrder), lines: make(map[id.ID][]Line)}
}

func (m *mockPORepo) Create(ctx context.Context, doc *PurchaseOrder) error {
	m.orders[doc.ID] = doc
	return nil
}

func (m *mockPORepo) GetByID(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	doc, ok := m.orders[docID]
	if !ok {
		return nil, apperror.NewNotFound("purchase order", docID.String())
	}
	return doc, nil
}

func (m *mockPORepo) GetByNumber(ctx context.Context, number string) (*PurchaseOrder, error) {
	for _, doc := range m.orders {
		if doc.Number == number {
			return doc, nil
		}
	}
	return nil, apperror.NewNotFound("purchase order", number)
}

func (m *mockPORepo) GetForUpdate(ctx context.Context, docID id.ID) (*PurchaseOrder, error) {
	return m.GetByID(ctx, docID)
}

func (m *mockPORepo) Update(ctx context.Context, doc *PurchaseOrder) error {
	m.orders[doc.ID] = doc
	return nil
}

func (m *mockPORepo) Delete(ctx context.Context, docID id.ID) error {
	delete(m.orders, docID)
	delete(m.lines, docID)
	return nil
}

func (m *mockPORepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return m.lines[docID], nil
}

func (m *mockPORepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	m.lines[docID] = lines
	return nil
}

func (m *mockPORepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*PurchaseOrder], error) {
	return domain.ListResult[*PurchaseOrder]{}, nil
}

func (m *mockPORepo) CountBySupplier(ctx context.Context, supplierID id.ID) (int, error) {
	n := 0
	for _, doc := range m.orders {
		if doc.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

func (m *mockPORepo) GetStats(ctx context.Context, filter StatsFilter) (Stats, error) {
	return Stats{}, nil
}

type mockSuppliers struct {
	suppliers map[id.ID]*supplier.Supplier
	received  map[id.ID]types.Money
	orders    map[id.ID]int
}

func (m *mockSuppliers) RequireActive(ctx context.Context, supplierID id.ID) (*supplier.Supplier, error) {
	sup, ok := m.suppliers[supplierID]
	if !ok {
		return nil, apperror.NewNotFound("supplier", supplierID.String())
	}
	if !sup.Active {
		return nil, apperror.NewInvalidState("supplier is inactive")
	}
	return sup, nil
}

func (m *mockSuppliers) RecordOrderCreated(ctx context.Context, supplierID id.ID) error {
	if m.orders == nil {
		m.orders = make(map[id.ID]int)
	}
	m.orders[supplierID]++
	return nil
}

func (m *mockSuppliers) RecordReceivedOrder(ctx context.Context, supplierID id.ID, amount types.Money) error {
	if m.received == nil {
		m.received = make(map[id.ID]types.Money)
	}
	m.received[supplierID] = m.received[supplierID].Add(amount)
	return nil
}

type mockMedicines struct {
	meds    map[id.ID]*medicine.Medicine
	batches map[id.ID]string
}

func (m *mockMedicines) GetByID(ctx context.Context, medicineID id.ID) (*medicine.Medicine, error) {
	med, ok := m.meds[medicineID]
	if !ok {
		return nil, apperror.NewNotFound("medicine", medicineID.String())
	}
	return med, nil
}

func (m *mockMedicines) UpdateBatch(ctx context.Context, medicineID id.ID, batchNumber string, expiryDate *time.Time) error {
	if m.batches == nil {
		m.batches = make(map[id.ID]string)
	}
	m.batches[medicineID] = batchNumber
	return nil
}

type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = r.val
	}
	return nil
}

type seqQuerier struct{ n int64 }

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	// Cached strategy reserves ranges; emulate a running sequence.
	var incr int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			incr = v
		}
	}
	q.n += incr
	return &seqRow{val: q.n}
}

// --- fixture ---

type fixture struct {
	svc       *Service
	repo      *mockPORepo
	stockRepo *mockStockRepo
	suppliers *mockSuppliers
	meds      *mockMedicines
	supplier  *supplier.Supplier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stockRepo := &mockStockRepo{balances: make(map[id.ID]int), batches: make(map[id.ID]string)}
	repo := newMockPORepo()
	meds := &mockMedicines{meds: make(map[id.ID]*medicine.Medicine)}

	sup := supplier.NewSupplier("SUP-2026-00001", "HealthPlus Distributors")
	suppliers := &mockSuppliers{suppliers: map[id.ID]*supplier.Supplier{sup.ID: sup}}

	svc := NewService(
		repo,
		stock.NewService(stockRepo),
		suppliers,
		meds,
		numerator.New(&seqQuerier{}),
		mockTxManager{},
		nil,
	)

	return &fixture{svc: svc, repo: repo, stockRepo: stockRepo, suppliers: suppliers, meds: meds, supplier: sup}
}

func (f *fixture) addMedicine(name string) *medicine.Medicine {
	med := medicine.NewMedicine("", name, "General", types.MustMoney("10"))
	f.meds.meds[med.ID] = med
	return med
}

func (f *fixture) createOrder(t *testing.T, med *medicine.Medicine, qty int) *PurchaseOrder {
	t.Helper()

	doc := NewPurchaseOrder(f.supplier.ID, "")
	doc.Lines = []Line{{MedicineID: med.ID, Quantity: qty, UnitCost: types.MustMoney("1.50")}}

	require.NoError(t, f.svc.Create(context.Background(), doc))
	return doc
}

func ptr(s string) *string { return &s }

func userCtx(email string) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID: email,
		Email:  email,
		Role:   "admin",
	})
}

// --- tests ---

func TestCreate_PendingWithNumber(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")

	doc := f.createOrder(t, med, 100)

	assert.Equal(t, StatusPending, doc.Status)
	assert.Equal(t, "PO-2026-00001", doc.Number)
	assert.Equal(t, "HealthPlus Distributors", doc.SupplierName)
	assert.Equal(t, "Paracetamol", doc.Lines[0].MedicineName)
	assert.True(t, doc.TotalAmount.Equal(types.MustMoney("150")))
	assert.Equal(t, 1, f.suppliers.orders[f.supplier.ID])
	assert.True(t, f.suppliers.received[f.supplier.ID].IsZero())
}

func TestCreate_InactiveSupplier(t *testing.T) {
	f := newFixture(t)
	f.supplier.Active = false
	med := f.addMedicine("Paracetamol")

	doc := NewPurchaseOrder(f.supplier.ID, "")
	doc.Lines = []Line{{MedicineID: med.ID, Quantity: 10, UnitCost: types.MustMoney("1")}}

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestApprove(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	notes := "looks good"
	approved, err := f.svc.Approve(userCtx("admin@pharmacy.local"), doc.ID, &notes)
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, approved.Status)
	assert.Equal(t, "admin@pharmacy.local", *approved.ApprovedBy)
	assert.Equal(t, notes, *approved.ApprovalNotes)
}

func TestApprove_Twice(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	_, err := f.svc.Approve(userCtx("admin@pharmacy.local"), doc.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Approve(userCtx("admin@pharmacy.local"), doc.ID, nil)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestReceive_IncrementsStock(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	ctx := userCtx("pharmacist@pharmacy.local")
	_, err := f.svc.Approve(ctx, doc.ID, nil)
	require.NoError(t, err)

	expiry := time.Now().AddDate(1, 0, 0)
	received, err := f.svc.Receive(ctx, doc.ID, ReceiveRequest{
		Items: []ReceiptItem{{
			MedicineID:       med.ID,
			QuantityReceived: 90,
			BatchNumber:      "BT-4471",
			ExpiryDate:       &expiry,
		}},
		PaymentStatus: PaymentPaid,
	})
	require.NoError(t, err)

	assert.Equal(t, StatusReceived, received.Status)
	assert.Equal(t, 90, f.stockRepo.balances[med.ID])
	assert.Equal(t, "BT-4471", f.stockRepo.batches[med.ID])
	assert.Equal(t, "BT-4471", f.meds.batches[med.ID])
	assert.Equal(t, 90, received.Lines[0].QuantityReceived)
	assert.Equal(t, PaymentPaid, *received.PaymentStatus)

	// Supplier totals grew by the order amount.
	assert.True(t, f.suppliers.received[f.supplier.ID].Equal(doc.TotalAmount))
	assert.Equal(t, 1, f.suppliers.orders[f.supplier.ID])
}

func TestReceive_RequiresApproval(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	_, err := f.svc.Receive(userCtx("x@y.z"), doc.ID, ReceiveRequest{
		Items:         []ReceiptItem{{MedicineID: med.ID, QuantityReceived: 100, BatchNumber: "BT-1"}},
		PaymentStatus: PaymentUnpaid,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, 0, f.stockRepo.balances[med.ID])
}

func TestReceive_Twice(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	ctx := userCtx("x@y.z")
	_, err := f.svc.Approve(ctx, doc.ID, nil)
	require.NoError(t, err)

	req := ReceiveRequest{
		Items:         []ReceiptItem{{MedicineID: med.ID, QuantityReceived: 100, BatchNumber: "BT-1"}},
		PaymentStatus: PaymentPaid,
	}

	_, err = f.svc.Receive(ctx, doc.ID, req)
	require.NoError(t, err)

	_, err = f.svc.Receive(ctx, doc.ID, req)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
	assert.Equal(t, 100, f.stockRepo.balances[med.ID], "stock incremented exactly once")
}

func TestReceive_MedicineNotOnOrder(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	other := f.addMedicine("Ibuprofen")
	doc := f.createOrder(t, med, 100)

	ctx := userCtx("x@y.z")
	_, err := f.svc.Approve(ctx, doc.ID, nil)
	require.NoError(t, err)

	_, err = f.svc.Receive(ctx, doc.ID, ReceiveRequest{
		Items:         []ReceiptItem{{MedicineID: other.ID, QuantityReceived: 10, BatchNumber: "BT-1"}},
		PaymentStatus: PaymentPaid,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsAppError(err))
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	reason := "supplier out of stock"
	cancelled, err := f.svc.Cancel(userCtx("x@y.z"), doc.ID, &reason)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Equal(t, reason, *cancelled.CancellationReason)
}

func TestCancel_ReceivedOrder(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	ctx := userCtx("x@y.z")
	_, err := f.svc.Approve(ctx, doc.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.Receive(ctx, doc.ID, ReceiveRequest{
		Items:         []ReceiptItem{{MedicineID: med.ID, QuantityReceived: 100, BatchNumber: "BT-1"}},
		PaymentStatus: PaymentPaid,
	})
	require.NoError(t, err)

	reason := "ordered by mistake"
	_, err = f.svc.Cancel(ctx, doc.ID, &reason)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}

func TestCancel_RequiresReason(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")
	doc := f.createOrder(t, med, 100)

	ctx := userCtx("x@y.z")
	for _, reason := range []*string{nil, ptr(""), ptr("   ")} {
		_, err := f.svc.Cancel(ctx, doc.ID, reason)
		require.Error(t, err)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}

	got, err := f.svc.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}

func TestDelete_OnlyPendingOrCancelled(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol")

	pending := f.createOrder(t, med, 10)
	require.NoError(t, f.svc.Delete(context.Background(), pending.ID))

	approved := f.createOrder(t, med, 10)
	_, err := f.svc.Approve(userCtx("x@y.z"), approved.ID, nil)
	require.NoError(t, err)

	err = f.svc.Delete(context.Background(), approved.ID)
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidState(err))
}
