package domain

import "github.com/shopspring/decimal"

// PriceBreakdown is the result of a pricing request. Derived value,
// never persisted.
type PriceBreakdown struct {
	BasePrice  decimal.Decimal
	Surcharge  decimal.Decimal
	Discount   decimal.Decimal
	FinalPrice decimal.Decimal
	// AppliedPromo holds the normalized (uppercase) promo code,
	// nil when no known code was applied
	AppliedPromo *string
}

// PromoCode maps an uppercase code to a discount rate in (0, 1]
type PromoCode struct {
	Code         string
	DiscountRate decimal.Decimal
}
