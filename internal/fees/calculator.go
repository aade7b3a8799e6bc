// Package fees computes platform commission splits and supplies the fee
// percentages that new transactions snapshot.
package fees

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// centPlaces is the number of decimal places of the smallest currency unit.
const centPlaces = 2

var hundred = decimal.NewFromInt(100)

// Split is the result of applying commission percentages to an amount.
// Every field is rounded to cents.
type Split struct {
	Amount             decimal.Decimal
	ClientFee          decimal.Decimal
	ClientPays         decimal.Decimal
	ProviderFee        decimal.Decimal
	ProviderReceives   decimal.Decimal
	PlatformCommission decimal.Decimal
}

// ComputeSplit derives what the client pays, what the provider receives
// and what the platform keeps for a service price. A zero client fee means
// the client pays the price as listed.
//
// Fees are computed at full precision and rounded half-up to cents once, so
// ProviderFee + ProviderReceives and Amount + ClientFee always add up to the
// amounts that actually move.
func ComputeSplit(amount, clientFeePercent, providerFeePercent decimal.Decimal) (Split, error) {
	if !amount.IsPositive() {
		return Split{}, fmt.Errorf("amount must be positive, got %s", amount)
	}
	if !amount.Equal(amount.Round(centPlaces)) {
		return Split{}, fmt.Errorf("amount %s has more precision than the currency allows", amount)
	}
	if err := ValidatePercent(clientFeePercent); err != nil {
		return Split{}, fmt.Errorf("client fee: %w", err)
	}
	if err := ValidatePercent(providerFeePercent); err != nil {
		return Split{}, fmt.Errorf("provider fee: %w", err)
	}

	clientFee := amount.Mul(clientFeePercent).Div(hundred).Round(centPlaces)
	providerFee := amount.Mul(providerFeePercent).Div(hundred).Round(centPlaces)

	return Split{
		Amount:             amount,
		ClientFee:          clientFee,
		ClientPays:         amount.Add(clientFee),
		ProviderFee:        providerFee,
		ProviderReceives:   amount.Sub(providerFee),
		PlatformCommission: clientFee.Add(providerFee),
	}, nil
}

// ValidatePercent checks that p is a percentage between 0 and 100.
func ValidatePercent(p decimal.Decimal) error {
	if p.IsNegative() || p.GreaterThan(hundred) {
		return fmt.Errorf("percent must be between 0 and 100, got %s", p)
	}
	return nil
}
