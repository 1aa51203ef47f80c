package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/pos"
	"warungpos-backend/internal/repository"
)

type fakeTransactionStore struct {
	nextNumber string
	nextErr    error
	latest     string
	latestErr  error
	insertErr  error
	itemsErr   error

	inserted []repository.CreateTransactionParams
	items    map[string][]repository.TransactionItemParams
}

func (f *fakeTransactionStore) NextTransactionNumber(ctx context.Context) (string, error) {
	return f.nextNumber, f.nextErr
}

func (f *fakeTransactionStore) LatestTransactionNumber(ctx context.Context) (string, error) {
	return f.latest, f.latestErr
}

func (f *fakeTransactionStore) InsertTransaction(ctx context.Context, in repository.CreateTransactionParams) (string, error) {
	if f.insertErr != nil {
		return "", f.insertErr
	}
	f.inserted = append(f.inserted, in)
	return "tx-1", nil
}

func (f *fakeTransactionStore) InsertTransactionItems(ctx context.Context, id string, items []repository.TransactionItemParams) error {
	if f.itemsErr != nil {
		return f.itemsErr
	}
	if f.items == nil {
		f.items = make(map[string][]repository.TransactionItemParams)
	}
	f.items[id] = items
	return nil
}

type fakeCashFlowStore struct {
	err     error
	entries []repository.CreateCashFlowParams
}

func (f *fakeCashFlowStore) Insert(ctx context.Context, in repository.CreateCashFlowParams) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.entries = append(f.entries, in)
	return "cf-1", nil
}

type fakeStockStore struct {
	err        error
	decrements map[string]int
}

func (f *fakeStockStore) DecrementStock(ctx context.Context, productID string, qty int) error {
	if f.err != nil {
		return f.err
	}
	if f.decrements == nil {
		f.decrements = make(map[string]int)
	}
	f.decrements[productID] += qty
	return nil
}

type fakeShiftFinder struct {
	shift *domain.Shift
	err   error
}

func (f *fakeShiftFinder) FindOpen(ctx context.Context, employeeID string, date time.Time) (*domain.Shift, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.shift, nil
}

func openShift() *domain.Shift {
	return &domain.Shift{ID: "shift-1", OutletID: "outlet-1", EmployeeID: "emp-1", OpenCash: 100000, Status: domain.ShiftOpen}
}

func checkoutFixture() (*CheckoutService, *fakeTransactionStore, *fakeCashFlowStore, *fakeStockStore) {
	txs := &fakeTransactionStore{nextNumber: "TRX-000123"}
	flows := &fakeCashFlowStore{}
	stock := &fakeStockStore{}
	svc := &CheckoutService{
		Transactions: txs,
		CashFlows:    flows,
		Stock:        stock,
		Shifts:       &fakeShiftFinder{shift: openShift()},
	}
	return svc, txs, flows, stock
}

func sampleCart() *pos.Cart {
	c := pos.NewCart()
	c.AddItem(pos.Product{ID: "p1", Name: "Kopi Susu", Price: 10000}, 2)
	c.SetTaxRate(10)
	return c
}

func cashInput(received float64) CheckoutInput {
	return CheckoutInput{
		OutletID:      "outlet-1",
		EmployeeID:    "emp-1",
		PaymentMethod: domain.PaymentCash,
		CashReceived:  &received,
	}
}

func TestCheckoutSuccess(t *testing.T) {
	svc, txs, flows, stock := checkoutFixture()
	cart := sampleCart()

	res, err := svc.Checkout(context.Background(), cart, cashInput(25000))
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if res.TransactionNumber != "TRX-000123" {
		t.Errorf("number = %s, want TRX-000123", res.TransactionNumber)
	}
	if res.Subtotal != 20000 || res.Tax != 2000 || res.Total != 22000 {
		t.Errorf("totals = %v/%v/%v, want 20000/2000/22000", res.Subtotal, res.Tax, res.Total)
	}
	if res.Change == nil || *res.Change != 3000 {
		t.Errorf("change = %v, want 3000", res.Change)
	}

	if len(txs.inserted) != 1 {
		t.Fatalf("expected 1 transaction insert, got %d", len(txs.inserted))
	}
	hdr := txs.inserted[0]
	if hdr.ShiftID == nil || *hdr.ShiftID != "shift-1" {
		t.Errorf("transaction must reference the open shift")
	}
	if len(txs.items["tx-1"]) != 1 || txs.items["tx-1"][0].Total != 20000 {
		t.Errorf("line items not persisted against the step-1 id: %+v", txs.items)
	}

	if len(flows.entries) != 1 {
		t.Fatalf("expected 1 cash flow, got %d", len(flows.entries))
	}
	cf := flows.entries[0]
	if cf.Category != domain.CashCategorySale || cf.Type != domain.CashIn || cf.Amount != 22000 {
		t.Errorf("cash flow = %+v", cf)
	}
	if cf.ReferenceID == nil || *cf.ReferenceID != "tx-1" {
		t.Errorf("cash flow must reference the transaction id")
	}

	if stock.decrements["p1"] != 2 {
		t.Errorf("stock decrement = %d, want 2", stock.decrements["p1"])
	}

	if cart.Len() != 0 {
		t.Errorf("cart must be cleared after a successful checkout")
	}
	if cart.TaxRate() != 10 {
		t.Errorf("tax rate must survive the clear")
	}
}

func TestCheckoutValidationPerformsNoWrites(t *testing.T) {
	cases := []struct {
		name string
		cart func() *pos.Cart
		in   CheckoutInput
	}{
		{
			name: "empty cart",
			cart: func() *pos.Cart { return pos.NewCart() },
			in:   cashInput(50000),
		},
		{
			name: "zero total",
			cart: func() *pos.Cart {
				c := sampleCart()
				c.SetGlobalDiscount(999999)
				return c
			},
			in: cashInput(50000),
		},
		{
			name: "insufficient cash",
			cart: sampleCart,
			in:   cashInput(20000),
		},
		{
			name: "no employee",
			cart: sampleCart,
			in:   CheckoutInput{OutletID: "outlet-1", PaymentMethod: domain.PaymentCash},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, txs, flows, stock := checkoutFixture()
			cart := tc.cart()
			before := cart.Len()

			_, err := svc.Checkout(context.Background(), cart, tc.in)

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(txs.inserted) != 0 || len(flows.entries) != 0 || len(stock.decrements) != 0 {
				t.Errorf("validation failure must perform zero writes")
			}
			if cart.Len() != before {
				t.Errorf("cart must be untouched")
			}
		})
	}
}

func TestCheckoutRequiresOpenShift(t *testing.T) {
	svc, txs, _, _ := checkoutFixture()
	svc.Shifts = &fakeShiftFinder{err: repository.ErrNotFound}

	_, err := svc.Checkout(context.Background(), sampleCart(), cashInput(25000))

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(txs.inserted) != 0 {
		t.Errorf("no writes expected without an open shift")
	}
}

func TestCheckoutStep3FailureLeavesPartialState(t *testing.T) {
	svc, txs, flows, stock := checkoutFixture()
	flows.err = errors.New("permission denied")
	cart := sampleCart()

	_, err := svc.Checkout(context.Background(), cart, cashInput(25000))

	var sf *StepFailure
	if !errors.As(err, &sf) {
		t.Fatalf("expected StepFailure, got %v", err)
	}
	if sf.Step != 3 {
		t.Errorf("step = %d, want 3", sf.Step)
	}
	if !strings.HasPrefix(err.Error(), "3. record cash flow: permission denied") {
		t.Errorf("message must name step 3 and the cause, got %q", err.Error())
	}

	// Steps 1 and 2 stay committed, step 4 never ran, cart is preserved.
	if len(txs.inserted) != 1 || len(txs.items["tx-1"]) != 1 {
		t.Errorf("transaction and items must remain persisted")
	}
	if len(stock.decrements) != 0 {
		t.Errorf("stock must be unchanged after a step-3 failure")
	}
	if cart.Len() == 0 {
		t.Errorf("cart must not be cleared on failure")
	}
}

func TestCheckoutStep4FailureNamesProduct(t *testing.T) {
	svc, _, _, stock := checkoutFixture()
	stock.err = repository.ErrInsufficientStock

	_, err := svc.Checkout(context.Background(), sampleCart(), cashInput(25000))

	var sf *StepFailure
	if !errors.As(err, &sf) {
		t.Fatalf("expected StepFailure, got %v", err)
	}
	if sf.Step != 4 {
		t.Errorf("step = %d, want 4", sf.Step)
	}
	if !strings.Contains(err.Error(), "Kopi Susu") {
		t.Errorf("step-4 message must name the product, got %q", err.Error())
	}
}

func TestCheckoutRetryCreatesNewTransaction(t *testing.T) {
	svc, txs, flows, _ := checkoutFixture()
	flows.err = errors.New("down")
	cart := sampleCart()

	if _, err := svc.Checkout(context.Background(), cart, cashInput(25000)); err == nil {
		t.Fatal("expected step failure")
	}
	flows.err = nil
	if _, err := svc.Checkout(context.Background(), cart, cashInput(25000)); err != nil {
		t.Fatalf("retry: %v", err)
	}

	if len(txs.inserted) != 2 {
		t.Errorf("a retry must insert a brand-new transaction, got %d inserts", len(txs.inserted))
	}
}

func TestCheckoutUnknownMethodSkipsCashFlow(t *testing.T) {
	svc, _, flows, stock := checkoutFixture()

	_, err := svc.Checkout(context.Background(), sampleCart(), CheckoutInput{
		OutletID:      "outlet-1",
		EmployeeID:    "emp-1",
		PaymentMethod: domain.PaymentOther,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(flows.entries) != 0 {
		t.Errorf("non-settlement methods must skip the cash-flow posting")
	}
	if stock.decrements["p1"] != 2 {
		t.Errorf("stock must still be decremented")
	}
}

func TestTransactionNumberFallback(t *testing.T) {
	cases := []struct {
		name   string
		latest string
		want   string
	}{
		{"empty table", "", "TRX-000001"},
		{"increments latest", "TRX-000042", "TRX-000043"},
		{"strips non-digits", "INV/2024/000099", "TRX-2024000100"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, txs, _, _ := checkoutFixture()
			txs.nextNumber = ""
			txs.nextErr = errors.New("function does not exist")
			txs.latest = tc.latest

			res, err := svc.Checkout(context.Background(), sampleCart(), cashInput(25000))
			if err != nil {
				t.Fatalf("checkout: %v", err)
			}
			if res.TransactionNumber != tc.want {
				t.Errorf("number = %s, want %s", res.TransactionNumber, tc.want)
			}
		})
	}
}

func TestTransactionNumberFallbackScanError(t *testing.T) {
	svc, txs, _, _ := checkoutFixture()
	txs.nextNumber = ""
	txs.nextErr = errors.New("function does not exist")
	txs.latestErr = errors.New("connection reset")

	_, err := svc.Checkout(context.Background(), sampleCart(), cashInput(25000))

	var sf *StepFailure
	if !errors.As(err, &sf) || sf.Step != 1 {
		t.Fatalf("expected step-1 failure, got %v", err)
	}
}
