package pricing

import "github.com/shopspring/decimal"

// Пиковые часы: 10:00 - 14:00 по будням.
const (
	PeakStartHour = 10
	PeakEndHour   = 14

	OffPeakEveningHour = 16

	priceScale = 2
)

// Ставки надбавок и скидок.
var (
	PeakSurchargeRate    = decimal.NewFromFloat(0.15)
	WeekendSurchargeRate = decimal.NewFromFloat(0.20)
	OffPeakDiscountRate  = decimal.NewFromFloat(0.10)
)
