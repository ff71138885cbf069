package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avilkin/AppointmentService/internal/domain"
	promoRepo "github.com/avilkin/AppointmentService/internal/infra/storage/promo"
	serviceRepo "github.com/avilkin/AppointmentService/internal/infra/storage/service"
)

// Service сервис динамического ценообразования.
//
// Правила применяются в фиксированном порядке: пиковая надбавка, затем
// надбавка выходного дня (надбавки суммируются), скидка непикового времени
// только при нулевой суммарной надбавке, затем промокод. Каждая составляющая
// округляется до 2 знаков, итог не опускается ниже нуля.
type Service struct {
	serviceRepo ServiceRepository
	promoRepo   PromoRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса ценообразования
func NewService(serviceRepo ServiceRepository, promoRepo PromoRepository, logger Logger) *Service {
	return &Service{
		serviceRepo: serviceRepo,
		promoRepo:   promoRepo,
		logger:      logger,
	}
}

// CalculatePrice рассчитывает цену услуги на заданное время начала.
// Неизвестный промокод не является ошибкой: скидка нулевая, код не применён.
func (s *Service) CalculatePrice(ctx context.Context, serviceID int64, startTime time.Time, promoCode *string) (*domain.PriceBreakdown, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if startTime.IsZero() {
		return nil, fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	service, err := s.getService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	basePrice := service.Price
	surcharge := decimal.Zero
	discount := decimal.Zero
	var appliedPromo *string

	if isPeakHour(startTime) {
		surcharge = basePrice.Mul(PeakSurchargeRate).Round(priceScale)
		s.logger.Debug("CalculatePrice: applied peak hour surcharge: +%s", surcharge)
	}

	if domain.IsWeekend(startTime) {
		weekendSurcharge := basePrice.Mul(WeekendSurchargeRate).Round(priceScale)
		surcharge = surcharge.Add(weekendSurcharge)
		s.logger.Debug("CalculatePrice: applied weekend surcharge: +%s", weekendSurcharge)
	}

	if surcharge.IsZero() && isOffPeak(startTime) {
		discount = basePrice.Mul(OffPeakDiscountRate).Round(priceScale)
		s.logger.Debug("CalculatePrice: applied off-peak discount: -%s", discount)
	}

	if promoCode != nil && *promoCode != "" {
		promoDiscount, normalized, err := s.promoDiscount(ctx, basePrice, *promoCode)
		if err != nil {
			return nil, err
		}
		if promoDiscount.IsPositive() {
			discount = discount.Add(promoDiscount)
			appliedPromo = &normalized
			s.logger.Debug("CalculatePrice: applied promo code %s: -%s", normalized, promoDiscount)
		}
	}

	finalPrice := basePrice.Add(surcharge).Sub(discount)
	if finalPrice.IsNegative() {
		finalPrice = decimal.Zero
	}

	s.logger.Info("CalculatePrice: service=%d base=%s surcharge=%s discount=%s final=%s",
		serviceID, basePrice, surcharge, discount, finalPrice)

	return &domain.PriceBreakdown{
		BasePrice:    basePrice,
		Surcharge:    surcharge,
		Discount:     discount,
		FinalPrice:   finalPrice,
		AppliedPromo: appliedPromo,
	}, nil
}

// ValidatePromoCode проверяет, существует ли промокод
func (s *Service) ValidatePromoCode(ctx context.Context, promoCode string) (bool, error) {
	normalized := promoRepo.NormalizeCode(promoCode)
	if normalized == "" {
		return false, nil
	}

	if _, err := s.promoRepo.GetByCode(ctx, normalized); err != nil {
		if errors.Is(err, promoRepo.ErrPromoNotFound) {
			return false, nil
		}
		s.logger.Error("ValidatePromoCode: repository error for code=%s: %v", normalized, err)
		return false, fmt.Errorf("%w: ValidatePromoCode - repository error: %v", ErrInternal, err)
	}

	return true, nil
}

// GetBasePrice возвращает базовую цену услуги без надбавок и скидок
func (s *Service) GetBasePrice(ctx context.Context, serviceID int64) (decimal.Decimal, error) {
	service, err := s.getService(ctx, serviceID)
	if err != nil {
		return decimal.Zero, err
	}
	return service.Price, nil
}

func (s *Service) getService(ctx context.Context, serviceID int64) (*domain.Service, error) {
	service, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("pricing: service id=%d not found", serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("pricing: failed to get service id=%d: %v", serviceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	return service, nil
}

// promoDiscount возвращает скидку по промокоду от базовой цены.
// Неизвестный код даёт нулевую скидку.
func (s *Service) promoDiscount(ctx context.Context, basePrice decimal.Decimal, rawCode string) (decimal.Decimal, string, error) {
	normalized := promoRepo.NormalizeCode(rawCode)

	promo, err := s.promoRepo.GetByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, promoRepo.ErrPromoNotFound) {
			s.logger.Debug("CalculatePrice: unknown promo code %s", normalized)
			return decimal.Zero, normalized, nil
		}
		s.logger.Error("CalculatePrice: promo repository error for code=%s: %v", normalized, err)
		return decimal.Zero, normalized, fmt.Errorf("%w: promo repository error: %v", ErrInternal, err)
	}

	return basePrice.Mul(promo.DiscountRate).Round(priceScale), normalized, nil
}

// isPeakHour сообщает, попадает ли время начала в пиковые часы буднего дня
func isPeakHour(t time.Time) bool {
	return !domain.IsWeekend(t) && t.Hour() >= PeakStartHour && t.Hour() < PeakEndHour
}

// isOffPeak сообщает, попадает ли время начала в непиковое время буднего дня
func isOffPeak(t time.Time) bool {
	return !domain.IsWeekend(t) && (t.Hour() < domain.BusinessStartHour || t.Hour() >= OffPeakEveningHour)
}
