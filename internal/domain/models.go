package domain

import "time"

// Enumerations
const (
	RoleSuperAdmin Role = "super_admin"
	RoleManager    Role = "manager"
	RoleCashier    Role = "cashier"

	PaymentCash     PaymentMethod = "cash"
	PaymentTransfer PaymentMethod = "transfer"
	PaymentQRIS     PaymentMethod = "qris"
	PaymentOther    PaymentMethod = "other"

	TransactionCompleted TransactionStatus = "completed"
	TransactionCancelled TransactionStatus = "cancelled"
	TransactionRefunded  TransactionStatus = "refunded"

	ShiftOpen   ShiftStatus = "open"
	ShiftClosed ShiftStatus = "closed"

	CashIn  CashFlowType = "in"
	CashOut CashFlowType = "out"

	CashCategorySale         CashFlowCategory = "penjualan"
	CashCategoryOpeningFloat CashFlowCategory = "modal_awal"
	CashCategoryPurchase     CashFlowCategory = "pembelian"
	CashCategoryPayroll      CashFlowCategory = "gaji"
	CashCategoryOperational  CashFlowCategory = "operasional"
	CashCategoryKasbon       CashFlowCategory = "kasbon_karyawan"
	CashCategoryOther        CashFlowCategory = "lainnya"

	StockIn  StockMovementType = "in"
	StockOut StockMovementType = "out"

	AttendancePresent AttendanceStatus = "hadir"
	AttendanceLeave   AttendanceStatus = "izin"
	AttendanceSick    AttendanceStatus = "sakit"
	AttendanceAbsent  AttendanceStatus = "alfa"
)

type Role string
type PaymentMethod string
type TransactionStatus string
type ShiftStatus string
type CashFlowType string
type CashFlowCategory string
type StockMovementType string
type AttendanceStatus string

// IsSettlement reports whether the payment method moves money through the
// cash ledger. Methods outside this set skip the cash-flow posting.
func (m PaymentMethod) IsSettlement() bool {
	switch m {
	case PaymentCash, PaymentTransfer, PaymentQRIS:
		return true
	}
	return false
}

type Outlet struct {
	ID        string
	Name      string
	Code      *string
	Address   *string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// User is an authenticated profile. Cashiers and managers are linked to an
// Employee record; the employee carries the outlet assignment.
type User struct {
	ID           string
	Email        string
	FullName     string
	Role         Role
	EmployeeID   *string
	PasswordHash *string
	IsGoogle     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Employee struct {
	ID        string
	ProfileID *string
	OutletID  string
	NIP       string
	Name      string
	Phone     *string
	Address   *string
	Position  *string
	Salary    *float64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Category struct {
	ID          string
	OutletID    string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Product struct {
	ID         string
	OutletID   string
	SKU        string
	Name       string
	CategoryID string
	Unit       string
	Price      float64
	Cost       *float64
	Stock      int
	ImageURL   *string
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type StockMovement struct {
	ID        string
	OutletID  string
	ProductID string
	Type      StockMovementType
	Quantity  int
	UnitCost  *float64
	Notes     *string
	CreatedBy *string
	CreatedAt time.Time
}

type Transaction struct {
	ID                string
	OutletID          string
	TransactionNumber string
	EmployeeID        string
	ShiftID           *string
	Subtotal          float64
	Discount          float64
	Tax               float64
	Total             float64
	PaymentMethod     PaymentMethod
	CashReceived      *float64
	Change            *float64
	Status            TransactionStatus
	Notes             *string
	Items             []TransactionItem
	CreatedAt         time.Time
}

type TransactionItem struct {
	ID            string
	TransactionID string
	ProductID     string
	Qty           int
	UnitPrice     float64
	Discount      float64
	Total         float64
}

type Shift struct {
	ID           string
	OutletID     string
	EmployeeID   string
	Date         time.Time
	OpenCash     float64
	CloseCash    *float64
	ExpectedCash *float64
	Discrepancy  *float64
	OpenedAt     time.Time
	ClosedAt     *time.Time
	Status       ShiftStatus
}

type CashFlow struct {
	ID            string
	OutletID      string
	ShiftID       *string
	Type          CashFlowType
	Category      CashFlowCategory
	Amount        float64
	Description   *string
	ReferenceType *string
	ReferenceID   *string
	CreatedAt     time.Time
}

type Attendance struct {
	ID         string
	OutletID   string
	EmployeeID string
	Date       time.Time
	CheckIn    *time.Time
	CheckOut   *time.Time
	Status     AttendanceStatus
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Kasbon is an employee cash advance, paid out of the outlet drawer.
type Kasbon struct {
	ID         string
	OutletID   string
	EmployeeID string
	Amount     float64
	Notes      *string
	CreatedAt  time.Time
}
