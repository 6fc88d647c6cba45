package domain

import "github.com/shopspring/decimal"

// minorUnitPlaces is the number of decimal places of the currency minor
// unit (paise for INR).
const minorUnitPlaces = 2

// RequiredDeposit returns amount * percent / 100 rounded half-up to the
// currency minor unit. Pure: no side effects, rejects negative inputs.
func RequiredDeposit(amount, percent decimal.Decimal) (decimal.Decimal, error) {
	if amount.IsNegative() || percent.IsNegative() {
		return decimal.Zero, ErrNegativeAmount
	}
	required := amount.Mul(percent).Div(decimal.NewFromInt(100))
	return required.Round(minorUnitPlaces), nil
}
