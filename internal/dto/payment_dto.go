package dto

import "github.com/shopspring/decimal"

// CloseCheckRequest settles a check. Amount rules per method:
// CASH uses cash_amount only, MOBILE_PAY uses mobile_pay_amount only,
// MIXED sums both. The effective amount must equal the check total ±0.01.
type CloseCheckRequest struct {
	CheckID         string          `json:"check_id" validate:"required,uuid"`
	Method          string          `json:"method"   validate:"required,oneof=CASH MOBILE_PAY MIXED"`
	CashAmount      decimal.Decimal `json:"cash_amount"       validate:"min=0"`
	MobilePayAmount decimal.Decimal `json:"mobile_pay_amount" validate:"min=0"`
}

type PaymentResponse struct {
	ID              string          `json:"id"`
	CheckID         string          `json:"check_id"`
	Method          string          `json:"method"`
	Amount          decimal.Decimal `json:"amount"`
	CashAmount      decimal.Decimal `json:"cash_amount"`
	MobilePayAmount decimal.Decimal `json:"mobile_pay_amount"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at"`
}

// CanPayResponse tells the UI whether the close-out button is enabled.
type CanPayResponse struct {
	CanPay bool   `json:"can_pay"`
	Reason string `json:"reason,omitempty"`
}
