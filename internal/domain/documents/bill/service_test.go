package bill

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medistock/internal/core/apperror"
	"medistock/internal/core/entity"
	"medistock/internal/core/id"
	"medistock/internal/core/types"
	"medistock/internal/domain"
	"medistock/internal/domain/catalogs/customer"
	"medistock/internal/domain/catalogs/medicine"
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
	reversed []id.ID
}

func (m *mockStockRepo) GetBalanceForUpdate(ctx context.Context, medicineID id.ID) (entity.StockBalance, error) {
	return entity.StockBalance{MedicineID: medicineID, Quantity: m.balances[medicineID]}, nil
}

func (m *mockStockRepo) CreateMovements(ctx context.Context, movements []entity.StockMovement) error {
	for _, mv := range movements {
		m.balances[mv.MedicineID] += mv.SignedQuantity()
	}
	return nil
}

func (m *mockStockRepo) DeleteMovementsByRecorder(ctx context.Context, recorderID id.ID) error {
	m.reversed = append(m.reversed, recorderID)
	return nil
}

type mockBillRepo struct {
	bills map[id.ID]*Bill
	lines map[id.ID][]Line
}

func newMockBillRepo() *mockBillRepo {
	return &mockBillRepo{bills: make(map[id.ID]*Bill), lines: make(map[id.ID][]Line)}
}

func (m *mockBillRepo) Create(ctx context.Context, doc *Bill) error {
	m.bills[doc.ID] = doc
	return nil
}

func (m *mockBillRepo) GetByID(ctx context.Context, docID id.ID) (*Bill, error) {
	doc, ok := m.bills[docID]
	if !ok {
		return nil, apperror.NewNotFound("bill", docID.String())
	}
	return doc, nil
}

func (m *mockBillRepo) GetByNumber(ctx context.Context, number string) (*Bill, error) {
	for _, b := range m.bills {
		if b.Number == number {
			return b, nil
		}
	}
	return nil, apperror.NewNotFound("bill", number)
}

func (m *mockBillRepo) Delete(ctx context.Context, docID id.ID) error {
	delete(m.bills, docID)
	delete(m.lines, docID)
	return nil
}

func (m *mockBillRepo) GetLines(ctx context.Context, docID id.ID) ([]Line, error) {
	return m.lines[docID], nil
}

func (m *mockBillRepo) SaveLines(ctx context.Context, docID id.ID, lines []Line) error {
	m.lines[docID] = lines
	return nil
}

func (m *mockBillRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Bill], error) {
	return domain.ListResult[*Bill]{}, nil
}

func (m *mockBillRepo) GetStats(ctx context.Context, from, to time.Time) (Stats, error) {
	return Stats{}, nil
}

type mockMedicines struct {
	meds map[id.ID]*medicine.Medicine
}

func (m *mockMedicines) GetByID(ctx context.Context, medicineID id.ID) (*medicine.Medicine, error) {
	med, ok := m.meds[medicineID]
	if !ok {
		return nil, apperror.NewNotFound("medicine", medicineID.String())
	}
	return med, nil
}

type mockCustomers struct {
	byPhone   map[string]*customer.Customer
	purchases map[id.ID]types.Money
}

func (m *mockCustomers) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	c, ok := m.byPhone[phone]
	if !ok {
		return nil, apperror.NewNotFound("customer", phone)
	}
	return c, nil
}

func (m *mockCustomers) RecordPurchase(ctx context.Context, customerID id.ID, amount types.Money, at time.Time) error {
	if m.purchases == nil {
		m.purchases = make(map[id.ID]types.Money)
	}
	m.purchases[customerID] = m.purchases[customerID].Add(amount)
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
	q.n++
	return &seqRow{val: q.n}
}

// --- fixtures ---

type fixture struct {
	svc       *Service
	billRepo  *mockBillRepo
	stockRepo *mockStockRepo
	customers *mockCustomers
	meds      *mockMedicines
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	stockRepo := &mockStockRepo{balances: make(map[id.ID]int)}
	billRepo := newMockBillRepo()
	meds := &mockMedicines{meds: make(map[id.ID]*medicine.Medicine)}
	customers := &mockCustomers{byPhone: make(map[string]*customer.Customer)}

	svc := NewService(
		billRepo,
		stock.NewService(stockRepo),
		meds,
		customers,
		numerator.New(&seqQuerier{}),
		mockTxManager{},
		nil,
	)

	return &fixture{svc: svc, billRepo: billRepo, stockRepo: stockRepo, customers: customers, meds: meds}
}

func (f *fixture) addMedicine(name string, price string, qty int) *medicine.Medicine {
	med := medicine.NewMedicine("", name, "General", types.MustMoney(price))
	med.Quantity = qty
	f.meds.meds[med.ID] = med
	f.stockRepo.balances[med.ID] = qty
	return med
}

// --- tests ---

func TestCreate_DecrementsStockAndComputesTotals(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Paracetamol 500mg", "25.00", 10)

	doc := NewBill("Ravi Kumar", PaymentCash)
	doc.Lines = []Line{{MedicineID: med.ID, Quantity: 1}}

	err := f.svc.Create(context.Background(), doc)
	require.NoError(t, err)

	assert.Equal(t, "BILL-2026-00001", doc.Number)
	assert.True(t, doc.Subtotal.Equal(types.MustMoney("25.00")))
	assert.True(t, doc.GSTAmount.Equal(types.MustMoney("4.50")))
	assert.True(t, doc.GrandTotal.Equal(types.MustMoney("29.50")))
	assert.Equal(t, 9, f.stockRepo.balances[med.ID])

	// Price comes from the catalog even if the caller sent one.
	assert.True(t, doc.Lines[0].Price.Equal(types.MustMoney("25.00")))
	assert.Equal(t, "Paracetamol 500mg", doc.Lines[0].MedicineName)
}

func TestCreate_InsufficientStock(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Amoxicillin", "120", 2)

	doc := NewBill("Walk-in", PaymentCard)
	doc.Lines = []Line{{MedicineID: med.ID, Quantity: 5}}

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsInsufficientStock(err))
	assert.Equal(t, 2, f.stockRepo.balances[med.ID], "balance untouched")
}

func TestCreate_UnknownMedicine(t *testing.T) {
	f := newFixture(t)

	doc := NewBill("Walk-in", PaymentCash)
	doc.Lines = []Line{{MedicineID: id.New(), Quantity: 1}}

	err := f.svc.Create(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_LinksRegisteredCustomer(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Cough Syrup", "80", 20)

	cust := customer.NewCustomer("CUST-2026-00001", "Anita Desai", "+91 98765 43210")
	f.customers.byPhone[cust.Phone] = cust

	doc := NewBill(cust.Name, PaymentUPI)
	doc.CustomerPhone = &cust.Phone
	doc.Lines = []Line{{MedicineID: med.ID, Quantity: 2}}

	err := f.svc.Create(context.Background(), doc)
	require.NoError(t, err)

	require.NotNil(t, doc.CustomerID)
	assert.Equal(t, cust.ID, *doc.CustomerID)
	assert.True(t, f.customers.purchases[cust.ID].Equal(doc.GrandTotal))
}

func TestCreate_UnknownPhoneIsWalkIn(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Vitamin C", "15", 50)

	phone := "+91 11111 11111"
	doc := NewBill("Walk-in", PaymentCash)
	doc.CustomerPhone = &phone
	doc.Lines = []Line{{MedicineID: med.ID, Quantity: 1}}

	err := f.svc.Create(context.Background(), doc)
	require.NoError(t, err)
	assert.Nil(t, doc.CustomerID)
	assert.Empty(t, f.customers.purchases)
}

func TestDelete_RestoresStock(t *testing.T) {
	f := newFixture(t)
	med := f.addMedicine("Insulin", "450", 10)

	doc := NewBill("Walk-in", PaymentCash)
	doc.Lines = []Line{{MedicineID: med.ID, Quantity: 3}}
	require.NoError(t, f.svc.Create(context.Background(), doc))
	require.Equal(t, 7, f.stockRepo.balances[med.ID])

	err := f.svc.Delete(context.Background(), doc.ID)
	require.NoError(t, err)

	assert.Equal(t, []id.ID{doc.ID}, f.stockRepo.reversed)
	_, err = f.svc.GetByID(context.Background(), doc.ID)
	assert.True(t, apperror.IsNotFound(err))
}

func TestDelete_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Delete(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}
