package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/repository"
)

type fakeShiftStore struct {
	open     *domain.Shift
	byID     map[string]*domain.Shift
	inserted []repository.CreateShiftParams
	closed   map[string]repository.CloseShiftParams
}

func (f *fakeShiftStore) Insert(ctx context.Context, in repository.CreateShiftParams) (*domain.Shift, error) {
	f.inserted = append(f.inserted, in)
	return &domain.Shift{
		ID:         "shift-new",
		OutletID:   in.OutletID,
		EmployeeID: in.EmployeeID,
		Date:       in.Date,
		OpenCash:   in.OpenCash,
		Status:     domain.ShiftOpen,
	}, nil
}

func (f *fakeShiftStore) FindOpen(ctx context.Context, employeeID string, date time.Time) (*domain.Shift, error) {
	if f.open == nil {
		return nil, repository.ErrNotFound
	}
	return f.open, nil
}

func (f *fakeShiftStore) Get(ctx context.Context, id string) (*domain.Shift, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeShiftStore) Close(ctx context.Context, id string, in repository.CloseShiftParams) error {
	if f.closed == nil {
		f.closed = make(map[string]repository.CloseShiftParams)
	}
	f.closed[id] = in
	return nil
}

type fakeSalesReader struct {
	total float64
	err   error
}

func (f *fakeSalesReader) CashSalesTotal(ctx context.Context, shiftID string) (float64, error) {
	return f.total, f.err
}

type fakeLedger struct {
	outTotal float64
	entries  []repository.CreateCashFlowParams
}

func (f *fakeLedger) Insert(ctx context.Context, in repository.CreateCashFlowParams) (string, error) {
	f.entries = append(f.entries, in)
	return "cf-1", nil
}

func (f *fakeLedger) CashOutTotal(ctx context.Context, shiftID string) (float64, error) {
	return f.outTotal, nil
}

func shiftFixture(open *domain.Shift) (*ShiftService, *fakeShiftStore, *fakeSalesReader, *fakeLedger) {
	store := &fakeShiftStore{byID: map[string]*domain.Shift{}}
	if open != nil {
		store.byID[open.ID] = open
	}
	sales := &fakeSalesReader{}
	ledger := &fakeLedger{}
	return &ShiftService{Shifts: store, Sales: sales, CashFlows: ledger}, store, sales, ledger
}

func TestOpenShiftPostsOpeningFloat(t *testing.T) {
	svc, store, _, ledger := shiftFixture(nil)

	shift, err := svc.Open(context.Background(), OpenShiftInput{
		OutletID:    "outlet-1",
		EmployeeID:  "emp-1",
		OpeningCash: 150000,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if shift.Status != domain.ShiftOpen || shift.OpenCash != 150000 {
		t.Errorf("shift = %+v", shift)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected 1 shift insert")
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("expected the opening float cash flow")
	}
	cf := ledger.entries[0]
	if cf.Category != domain.CashCategoryOpeningFloat || cf.Type != domain.CashIn || cf.Amount != 150000 {
		t.Errorf("opening float entry = %+v", cf)
	}
}

func TestOpenShiftRejectsSecondOpen(t *testing.T) {
	svc, store, _, _ := shiftFixture(nil)
	store.open = &domain.Shift{ID: "shift-1", Status: domain.ShiftOpen}

	_, err := svc.Open(context.Background(), OpenShiftInput{OutletID: "outlet-1", EmployeeID: "emp-1"})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.inserted) != 0 {
		t.Errorf("no insert expected")
	}
}

func TestOpenShiftRejectsNegativeCash(t *testing.T) {
	svc, _, _, _ := shiftFixture(nil)

	_, err := svc.Open(context.Background(), OpenShiftInput{
		OutletID:    "outlet-1",
		EmployeeID:  "emp-1",
		OpeningCash: -1,
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCloseShiftBalancedDrawer(t *testing.T) {
	open := &domain.Shift{ID: "shift-1", OutletID: "outlet-1", EmployeeID: "emp-1", OpenCash: 100000, Status: domain.ShiftOpen}
	svc, store, sales, ledger := shiftFixture(open)
	sales.total = 250000
	ledger.outTotal = 20000

	res, err := svc.Close(context.Background(), CloseShiftInput{ShiftID: "shift-1", CountedCash: 330000})
	if err != nil {
		t.Fatalf("close: %v", err)
	}

	if res.ExpectedCash != 330000 {
		t.Errorf("expected cash = %v, want 330000", res.ExpectedCash)
	}
	if res.Discrepancy != 0 {
		t.Errorf("discrepancy = %v, want 0", res.Discrepancy)
	}
	closed, ok := store.closed["shift-1"]
	if !ok {
		t.Fatal("close update missing")
	}
	if closed.CloseCash != 330000 || closed.ExpectedCash != 330000 || closed.Discrepancy != 0 {
		t.Errorf("close params = %+v", closed)
	}
	if res.Shift.Status != domain.ShiftClosed {
		t.Errorf("returned shift must be closed")
	}
}

func TestCloseShiftShortage(t *testing.T) {
	open := &domain.Shift{ID: "shift-1", OpenCash: 100000, Status: domain.ShiftOpen}
	svc, _, sales, ledger := shiftFixture(open)
	sales.total = 250000
	ledger.outTotal = 20000

	res, err := svc.Close(context.Background(), CloseShiftInput{ShiftID: "shift-1", CountedCash: 300000})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if res.Discrepancy != -30000 {
		t.Errorf("discrepancy = %v, want -30000 (shortage)", res.Discrepancy)
	}
}

func TestCloseShiftRejectsNegativeCounted(t *testing.T) {
	open := &domain.Shift{ID: "shift-1", OpenCash: 100000, Status: domain.ShiftOpen}
	svc, store, _, _ := shiftFixture(open)

	_, err := svc.Close(context.Background(), CloseShiftInput{ShiftID: "shift-1", CountedCash: -5})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.closed) != 0 {
		t.Errorf("rejection must not mutate the shift")
	}
}

func TestCloseShiftIsTerminal(t *testing.T) {
	done := &domain.Shift{ID: "shift-1", OpenCash: 100000, Status: domain.ShiftClosed}
	svc, store, _, _ := shiftFixture(done)

	_, err := svc.Close(context.Background(), CloseShiftInput{ShiftID: "shift-1", CountedCash: 100000})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.closed) != 0 {
		t.Errorf("closed shift must not be re-closed")
	}
}
