package order

import (
	"fmt"
	"strings"
)

type PaymentMethod string

const (
	PayCOD    PaymentMethod = "cod"
	PayCard   PaymentMethod = "card"
	PayCrypto PaymentMethod = "crypto"
	PayUPI    PaymentMethod = "upi"
)

// ParsePaymentMethod picks the payment branch for a requested method.
// Anything unrecognised is cash on delivery, so an odd value never blocks
// an order; it just leaves it unpaid.
func ParsePaymentMethod(s string) PaymentMethod {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PayCOD, PayCard, PayCrypto, PayUPI:
		return m
	default:
		return PayCOD
	}
}

// PaymentInput is what the customer submitted for the chosen method.
// Crypto and UPI values are opaque; nothing is verified.
type PaymentInput struct {
	Method       string `json:"payment_method" example:"upi"`
	CryptoType   string `json:"crypto_type,omitempty"   example:"BTC"`
	CryptoWallet string `json:"crypto_wallet,omitempty" example:"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"`
	CryptoTxn    string `json:"crypto_txn,omitempty"    example:"f4184fc596403b9d638783cf57adfe4c75c605f6356fbc91338530e9831e9e16"`
	UPIApp       string `json:"upi_app,omitempty"       example:"gpay"`
}

// Settlement is the simulated outcome of a payment branch.
type Settlement struct {
	Method  PaymentMethod
	Status  PaymentStatus
	Paid    bool
	Details string
	Crypto  *CryptoDetails
	UPI     *UPIDetails
}

func (in PaymentInput) validate(v *ValidationError) {
	switch ParsePaymentMethod(in.Method) {
	case PayCrypto:
		if strings.TrimSpace(in.CryptoType) == "" {
			v.add("crypto_type", "required")
		}
		if strings.TrimSpace(in.CryptoWallet) == "" {
			v.add("crypto_wallet", "required")
		}
		if strings.TrimSpace(in.CryptoTxn) == "" {
			v.add("crypto_txn", "required")
		}
	case PayUPI:
		if strings.TrimSpace(in.UPIApp) == "" {
			v.add("upi_app", "required")
		}
	case PayCOD, PayCard:
	}
}

// Settle runs the simulated branch for the input's method.
func Settle(in PaymentInput) Settlement {
	switch m := ParsePaymentMethod(in.Method); m {
	case PayCard:
		return Settlement{
			Method:  m,
			Status:  PaymentCompleted,
			Paid:    true,
			Details: "Card payment (simulated)",
		}
	case PayCrypto:
		return Settlement{
			Method:  m,
			Status:  PaymentCompleted,
			Paid:    true,
			Details: "Crypto payment",
			Crypto: &CryptoDetails{
				Type:   strings.TrimSpace(in.CryptoType),
				Wallet: strings.TrimSpace(in.CryptoWallet),
				TxnID:  strings.TrimSpace(in.CryptoTxn),
			},
		}
	case PayUPI:
		app := strings.TrimSpace(in.UPIApp)
		return Settlement{
			Method:  m,
			Status:  PaymentCompleted,
			Paid:    true,
			Details: fmt.Sprintf("UPI payment via %s", app),
			UPI:     &UPIDetails{App: app, TxnID: "SIM-UPI-" + strings.ToUpper(app)},
		}
	default:
		return Settlement{
			Method:  PayCOD,
			Status:  PaymentPending,
			Paid:    false,
			Details: "Cash on Delivery",
		}
	}
}

func (s Settlement) applyTo(o *Order) {
	o.PaymentMethod = s.Method
	o.PaymentStatus = s.Status
	o.Paid = s.Paid
	o.PaymentDetails = s.Details
	o.Crypto = s.Crypto
	o.UPI = s.UPI
}
