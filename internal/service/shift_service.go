package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/repository"
)

type ShiftStore interface {
	Insert(ctx context.Context, in repository.CreateShiftParams) (*domain.Shift, error)
	FindOpen(ctx context.Context, employeeID string, date time.Time) (*domain.Shift, error)
	Get(ctx context.Context, id string) (*domain.Shift, error)
	Close(ctx context.Context, id string, in repository.CloseShiftParams) error
}

// SalesReader reads the cash-sales sum needed for reconciliation.
type SalesReader interface {
	CashSalesTotal(ctx context.Context, shiftID string) (float64, error)
}

// CashFlowLedger covers the cash-flow reads and writes the shift lifecycle
// performs.
type CashFlowLedger interface {
	Insert(ctx context.Context, in repository.CreateCashFlowParams) (string, error)
	CashOutTotal(ctx context.Context, shiftID string) (float64, error)
}

// ShiftService opens and closes cashier shifts and reconciles the drawer at
// close.
type ShiftService struct {
	Shifts    ShiftStore
	Sales     SalesReader
	CashFlows CashFlowLedger
	Logger    *slog.Logger
	Now       func() time.Time
}

type OpenShiftInput struct {
	OutletID    string
	EmployeeID  string
	OpeningCash float64
}

// Open creates today's shift for the employee and posts the opening float to
// the cash ledger. The float entry is recorded against the outlet only, the
// way the drawer audit expects it.
func (s *ShiftService) Open(ctx context.Context, in OpenShiftInput) (*domain.Shift, error) {
	if in.EmployeeID == "" {
		return nil, validationErrorf("account is not linked to an employee record")
	}
	if in.OutletID == "" {
		return nil, validationErrorf("no outlet assigned")
	}
	if in.OpeningCash < 0 || math.IsNaN(in.OpeningCash) {
		return nil, validationErrorf("opening cash must be a non-negative amount")
	}

	today := s.today()
	if _, err := s.Shifts.FindOpen(ctx, in.EmployeeID, today); err == nil {
		return nil, validationErrorf("a shift is already open for today")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("look up open shift: %w", err)
	}

	shift, err := s.Shifts.Insert(ctx, repository.CreateShiftParams{
		OutletID:   in.OutletID,
		EmployeeID: in.EmployeeID,
		Date:       today,
		OpenCash:   in.OpeningCash,
	})
	if err != nil {
		return nil, fmt.Errorf("open shift: %w", err)
	}

	if _, err := s.CashFlows.Insert(ctx, repository.CreateCashFlowParams{
		OutletID:    in.OutletID,
		Type:        domain.CashIn,
		Category:    domain.CashCategoryOpeningFloat,
		Amount:      in.OpeningCash,
		Description: "Modal awal kasir",
	}); err != nil && s.Logger != nil {
		s.Logger.Warn("record opening float", "shift", shift.ID, "err", err)
	}

	return shift, nil
}

type CloseShiftInput struct {
	ShiftID     string
	CountedCash float64
}

type ReconciliationResult struct {
	Shift        domain.Shift
	OpeningCash  float64
	CashSales    float64
	CashOut      float64
	ExpectedCash float64
	CountedCash  float64
	Discrepancy  float64
}

// Close reconciles the drawer and performs the terminal open -> closed
// update. Expected cash is the opening float plus cash sales minus cash
// outflows for the shift; the discrepancy is signed, positive meaning
// overage.
func (s *ShiftService) Close(ctx context.Context, in CloseShiftInput) (*ReconciliationResult, error) {
	if math.IsNaN(in.CountedCash) || in.CountedCash < 0 {
		return nil, validationErrorf("counted cash must be a non-negative amount")
	}

	shift, err := s.Shifts.Get(ctx, in.ShiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationErrorf("shift not found")
		}
		return nil, fmt.Errorf("load shift: %w", err)
	}
	if shift.Status != domain.ShiftOpen {
		return nil, validationErrorf("shift is already closed")
	}

	cashSales, err := s.Sales.CashSalesTotal(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("sum cash sales: %w", err)
	}
	cashOut, err := s.CashFlows.CashOutTotal(ctx, shift.ID)
	if err != nil {
		return nil, fmt.Errorf("sum cash outflows: %w", err)
	}

	expected := shift.OpenCash + cashSales - cashOut
	discrepancy := in.CountedCash - expected
	closedAt := s.today()

	if err := s.Shifts.Close(ctx, shift.ID, repository.CloseShiftParams{
		CloseCash:    in.CountedCash,
		ExpectedCash: expected,
		Discrepancy:  discrepancy,
		ClosedAt:     closedAt,
	}); err != nil {
		return nil, fmt.Errorf("close shift: %w", err)
	}

	closed := *shift
	closed.CloseCash = &in.CountedCash
	closed.ExpectedCash = &expected
	closed.Discrepancy = &discrepancy
	closed.ClosedAt = &closedAt
	closed.Status = domain.ShiftClosed

	return &ReconciliationResult{
		Shift:        closed,
		OpeningCash:  shift.OpenCash,
		CashSales:    cashSales,
		CashOut:      cashOut,
		ExpectedCash: expected,
		CountedCash:  in.CountedCash,
		Discrepancy:  discrepancy,
	}, nil
}

func (s *ShiftService) today() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
