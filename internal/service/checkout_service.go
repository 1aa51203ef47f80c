package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"time"

	"warungpos-backend/internal/domain"
	"warungpos-backend/internal/events"
	"warungpos-backend/internal/pos"
	"warungpos-backend/internal/repository"
)

// TransactionStore is the slice of the transaction repository the checkout
// sequence needs.
type TransactionStore interface {
	NextTransactionNumber(ctx context.Context) (string, error)
	LatestTransactionNumber(ctx context.Context) (string, error)
	InsertTransaction(ctx context.Context, in repository.CreateTransactionParams) (string, error)
	InsertTransactionItems(ctx context.Context, transactionID string, items []repository.TransactionItemParams) error
}

type CashFlowStore interface {
	Insert(ctx context.Context, in repository.CreateCashFlowParams) (string, error)
}

type StockStore interface {
	DecrementStock(ctx context.Context, productID string, qty int) error
}

type ShiftFinder interface {
	FindOpen(ctx context.Context, employeeID string, date time.Time) (*domain.Shift, error)
}

type SalePublisher interface {
	SaleCompleted(ctx context.Context, ev events.SaleEvent) error
}

// CheckoutService turns a finalized cart into durable records: the sale
// header, its line items, a cash-flow posting, and the stock decrements, in
// that order. There is no wrapping transaction across the four steps: the
// stock decrement is an independent atomic capability and the sale is
// considered completed the moment step 1 commits. Each step reports its own
// numbered failure and leaves earlier writes in place for the operator to
// reconcile.
type CheckoutService struct {
	Transactions TransactionStore
	CashFlows    CashFlowStore
	Stock        StockStore
	Shifts       ShiftFinder
	Publisher    SalePublisher    // optional
	Metrics      *CheckoutMetrics // optional
	Logger       *slog.Logger
	Now          func() time.Time // defaults to time.Now
}

type CheckoutInput struct {
	OutletID      string
	EmployeeID    string
	PaymentMethod domain.PaymentMethod
	CashReceived  *float64
}

type CheckoutResult struct {
	TransactionID     string
	TransactionNumber string
	Subtotal          float64
	Discount          float64
	Tax               float64
	Total             float64
	Change            *float64
}

// Checkout runs the four-step commit sequence. On any step failure the cart
// is left untouched so the cashier can retry; a retry creates a brand-new
// transaction, it does not resume the failed one. On full success the cart
// is cleared (the tax rate carries over) and the transaction number is
// returned.
func (s *CheckoutService) Checkout(ctx context.Context, cart *pos.Cart, in CheckoutInput) (*CheckoutResult, error) {
	if in.EmployeeID == "" {
		return nil, validationErrorf("account is not linked to an employee record")
	}
	if in.OutletID == "" {
		return nil, validationErrorf("no outlet assigned")
	}

	shift, err := s.Shifts.FindOpen(ctx, in.EmployeeID, s.today())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, validationErrorf("open a shift before selling")
		}
		return nil, fmt.Errorf("look up open shift: %w", err)
	}

	total := cart.Total()
	if cart.Len() == 0 || total <= 0 {
		return nil, validationErrorf("cart is empty")
	}

	var cashReceived, change *float64
	if in.PaymentMethod == domain.PaymentCash {
		if in.CashReceived == nil || *in.CashReceived < total {
			return nil, validationErrorf("cash received is less than the total")
		}
		c := *in.CashReceived - total
		cashReceived = in.CashReceived
		change = &c
	}

	subtotal := cart.ItemsSubtotal()
	discount := cart.GlobalDiscount()
	tax := cart.Tax()

	// 1. Save the transaction header. The number comes from the database
	// sequence function, with a scan-and-increment fallback.
	number, err := s.nextTransactionNumber(ctx)
	if err != nil {
		return nil, s.stepFailed(StepSaveTransaction, "save transaction", "", err)
	}
	txID, err := s.Transactions.InsertTransaction(ctx, repository.CreateTransactionParams{
		OutletID:          in.OutletID,
		TransactionNumber: number,
		EmployeeID:        in.EmployeeID,
		ShiftID:           &shift.ID,
		Subtotal:          subtotal,
		Discount:          discount,
		Tax:               tax,
		Total:             total,
		PaymentMethod:     in.PaymentMethod,
		CashReceived:      cashReceived,
		Change:            change,
	})
	if err != nil {
		return nil, s.stepFailed(StepSaveTransaction, "save transaction", "", err)
	}

	// 2. Save the line items against the step-1 id.
	lines := cart.Lines()
	items := make([]repository.TransactionItemParams, 0, len(lines))
	for _, l := range lines {
		items = append(items, repository.TransactionItemParams{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
			Total:     l.Total(),
		})
	}
	if err := s.Transactions.InsertTransactionItems(ctx, txID, items); err != nil {
		return nil, s.stepFailed(StepSaveItems, "save transaction items", "", err)
	}

	// 3. Post the sale to the cash ledger. Payment methods outside
	// cash/transfer/qris skip this step.
	if in.PaymentMethod.IsSettlement() {
		refType := "transaction"
		_, err := s.CashFlows.Insert(ctx, repository.CreateCashFlowParams{
			OutletID:      in.OutletID,
			ShiftID:       &shift.ID,
			Type:          domain.CashIn,
			Category:      domain.CashCategorySale,
			Amount:        total,
			Description:   fmt.Sprintf("Penjualan %s", number),
			ReferenceType: &refType,
			ReferenceID:   &txID,
		})
		if err != nil {
			return nil, s.stepFailed(StepRecordCashFlow, "record cash flow",
				"Verify the employee has an outlet assigned.", err)
		}
	}

	// 4. Decrement stock per distinct product. The storage layer enforces
	// non-negative stock atomically.
	for _, l := range lines {
		if err := s.Stock.DecrementStock(ctx, l.ProductID, l.Qty); err != nil {
			return nil, s.stepFailed(StepUpdateStock, fmt.Sprintf("update stock (%s)", l.Name), "", err)
		}
	}

	cart.Clear()
	s.Metrics.Completed()
	s.publish(ctx, txID, number, in, shift.ID, total, lines)

	return &CheckoutResult{
		TransactionID:     txID,
		TransactionNumber: number,
		Subtotal:          subtotal,
		Discount:          discount,
		Tax:               tax,
		Total:             total,
		Change:            change,
	}, nil
}

func (s *CheckoutService) stepFailed(step int, name, hint string, err error) error {
	s.Metrics.StepFailed(step)
	if s.Logger != nil {
		s.Logger.Error("checkout step failed", "step", step, "name", name, "err", err)
	}
	return &StepFailure{Step: step, Name: name, Hint: hint, Err: err}
}

var nonDigits = regexp.MustCompile(`\D`)

// nextTransactionNumber asks the database sequence function first. When the
// call fails it falls back to reading the latest number of any outlet,
// stripping non-digits and incrementing; an empty table starts at TRX-000001.
func (s *CheckoutService) nextTransactionNumber(ctx context.Context) (string, error) {
	if num, err := s.Transactions.NextTransactionNumber(ctx); err == nil && num != "" {
		return num, nil
	} else if err != nil && s.Logger != nil {
		s.Logger.Warn("next_transaction_number unavailable, using fallback", "err", err)
	}

	last, err := s.Transactions.LatestTransactionNumber(ctx)
	if err != nil {
		return "", err
	}
	n := 1
	if last != "" {
		if v, convErr := strconv.Atoi(nonDigits.ReplaceAllString(last, "")); convErr == nil {
			n = v + 1
		}
	}
	return fmt.Sprintf("TRX-%06d", n), nil
}

func (s *CheckoutService) publish(ctx context.Context, txID, number string, in CheckoutInput, shiftID string, total float64, lines []pos.Line) {
	if s.Publisher == nil {
		return
	}
	items := make([]events.SaleEventItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, events.SaleEventItem{
			ProductID: l.ProductID,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			Discount:  l.Discount,
		})
	}
	err := s.Publisher.SaleCompleted(ctx, events.SaleEvent{
		TransactionID:     txID,
		TransactionNumber: number,
		OutletID:          in.OutletID,
		EmployeeID:        in.EmployeeID,
		ShiftID:           shiftID,
		PaymentMethod:     string(in.PaymentMethod),
		Total:             total,
		Items:             items,
	})
	if err != nil && s.Logger != nil {
		s.Logger.Warn("publish sale event", "transaction", number, "err", err)
	}
}

func (s *CheckoutService) today() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
