package wallet

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TypeDeposit    = "deposit"
	TypeWithdrawal = "withdrawal"
	TypeSpend      = "spend"
)

var (
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
)

// Transaction is a wallet movement recorded by the backend
type Transaction struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Fee         decimal.Decimal `json:"fee"`
	Description string          `json:"description"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Net returns the signed effect of the transaction on the balance.
func (t Transaction) Net() decimal.Decimal {
	switch t.Type {
	case TypeDeposit:
		return t.Amount.Sub(t.Fee)
	default:
		return t.Amount.Add(t.Fee).Neg()
	}
}

// WithdrawParams describes a withdrawal; instant withdrawals carry a fee
type WithdrawParams struct {
	Amount  decimal.Decimal
	Instant bool
}

// Validate checks the withdrawal against the known balance.
func (p WithdrawParams) Validate(balance decimal.Decimal) error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if p.Amount.GreaterThan(balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateDeposit checks an add-funds amount.
func ValidateDeposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}
