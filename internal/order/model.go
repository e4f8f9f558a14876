package order

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending           Status = "PENDING"
	StatusShipped           Status = "SHIPPED"
	StatusCompleted         Status = "COMPLETED"
	StatusCancelled         Status = "CANCELLED"
	StatusReturnRequested   Status = "RETURN_REQUESTED"
	StatusReturned          Status = "RETURNED"
	StatusExchangeRequested Status = "EXCHANGE_REQUESTED"
	StatusExchanged         Status = "EXCHANGED"
	// StatusRefunded is reserved for administrative use; no transition sets it.
	StatusRefunded Status = "REFUNDED"
)

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusReturned || s == StatusExchanged
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type RefundStatus string

const (
	NotRefunded   RefundStatus = "NOT_REFUNDED"
	RefundPending RefundStatus = "REFUND_PENDING"
	Refunded      RefundStatus = "REFUNDED"
)

type CryptoDetails struct {
	Type   string `json:"type"`
	Wallet string `json:"wallet"`
	TxnID  string `json:"txn_id"`
}

type UPIDetails struct {
	App   string `json:"app"`
	TxnID string `json:"txn_id"`
}

type Order struct {
	ID string `json:"id"`
	// nil only for legacy/admin-created rows
	UserID    *string   `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Status         Status          `json:"order_status"`
	Total          decimal.Decimal `json:"total"`
	PaymentMethod  PaymentMethod   `json:"payment_method"`
	PaymentStatus  PaymentStatus   `json:"payment_status"`
	Paid           bool            `json:"paid"`
	PaymentDetails string          `json:"payment_details"`
	Crypto         *CryptoDetails  `json:"crypto,omitempty"`
	UPI            *UPIDetails     `json:"upi,omitempty"`

	RefundStatus    RefundStatus `json:"refund_status"`
	ReturnReason    string       `json:"return_reason,omitempty"`
	ExchangeReason  string       `json:"exchange_reason,omitempty"`
	ExchangeProduct string       `json:"exchange_product,omitempty"`
}

// OwnedBy reports whether userID placed the order.
func (o *Order) OwnedBy(userID string) bool {
	return o.UserID != nil && userID != "" && *o.UserID == userID
}

// Item is an immutable receipt line. Price is the unit price at checkout.
type Item struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Size      *string         `json:"size,omitempty"`
}

func (it Item) UnitPrice() decimal.Decimal { return it.Price }
func (it Item) Qty() int                   { return it.Quantity }

// Summary is an order as listed to its owner.
type Summary struct {
	Order
	ReturnDaysLeft int  `json:"return_days_left"`
	CanReturn      bool `json:"can_return"`
}
