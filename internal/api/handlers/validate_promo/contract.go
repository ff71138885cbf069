package validate_promo

import "context"

type PricingService interface {
	ValidatePromoCode(ctx context.Context, promoCode string) (bool, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
