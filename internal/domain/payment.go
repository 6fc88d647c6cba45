package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// PaymentProcessor is the opaque gateway capability. The engine only knows
// the success/failure contract, never how payment is executed. Refund
// covers both deposit returns and the reversal of a charge that lost the
// race against window expiry.
type PaymentProcessor interface {
	Charge(ctx context.Context, partyID string, amount decimal.Decimal, currency string) (string, error)
	Refund(ctx context.Context, partyID string, amount decimal.Decimal, currency string) error
}
