package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avilkin/AppointmentService/internal/domain"
	promoRepo "github.com/avilkin/AppointmentService/internal/infra/storage/promo"
	serviceRepo "github.com/avilkin/AppointmentService/internal/infra/storage/service"
	"github.com/avilkin/AppointmentService/pkg/ptr"
)

type noopLogger struct{}

func (noopLogger) Debug(format string, v ...interface{}) {}
func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type stubServiceRepo struct {
	service *domain.Service
	err     error
}

func (s *stubServiceRepo) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.service, nil
}

// stubPromoRepo хранит коды в верхнем регистре, как настоящий репозиторий
type stubPromoRepo struct {
	codes map[string]decimal.Decimal
}

func (s *stubPromoRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	rate, ok := s.codes[promoRepo.NormalizeCode(code)]
	if !ok {
		return nil, promoRepo.ErrPromoNotFound
	}
	return &domain.PromoCode{Code: promoRepo.NormalizeCode(code), DiscountRate: rate}, nil
}

func newService(price int64, codes map[string]decimal.Decimal) *Service {
	return NewService(
		&stubServiceRepo{service: &domain.Service{
			ID: 1, Name: "Haircut", DurationMinutes: 60,
			Price: decimal.NewFromInt(price), Active: true,
		}},
		&stubPromoRepo{codes: codes},
		noopLogger{},
	)
}

// 2025-06-02 понедельник, 2025-06-07 суббота
func weekdayAt(hour int) time.Time {
	return time.Date(2025, time.June, 2, hour, 0, 0, 0, time.UTC)
}

func saturdayAt(hour int) time.Time {
	return time.Date(2025, time.June, 7, hour, 0, 0, 0, time.UTC)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, label string) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(want)), "%s: want %s, got %s", label, want, got)
}

func TestCalculatePrice_PeakWeekdayHour(t *testing.T) {
	svc := newService(100, nil)

	bd, err := svc.CalculatePrice(context.Background(), 1, weekdayAt(10), nil)
	require.NoError(t, err)

	assertDecimal(t, "100", bd.BasePrice, "base")
	assertDecimal(t, "15", bd.Surcharge, "surcharge")
	assertDecimal(t, "0", bd.Discount, "discount")
	assertDecimal(t, "115", bd.FinalPrice, "final")
	assert.Nil(t, bd.AppliedPromo)
}

func TestCalculatePrice_Weekend(t *testing.T) {
	svc := newService(100, nil)

	// Пиковая надбавка действует только в будни
	bd, err := svc.CalculatePrice(context.Background(), 1, saturdayAt(10), nil)
	require.NoError(t, err)

	assertDecimal(t, "20", bd.Surcharge, "surcharge")
	assertDecimal(t, "120", bd.FinalPrice, "final")
}

func TestCalculatePrice_OffPeakDiscount(t *testing.T) {
	svc := newService(100, nil)

	for _, hour := range []int{8, 16} {
		bd, err := svc.CalculatePrice(context.Background(), 1, weekdayAt(hour), nil)
		require.NoError(t, err)

		assertDecimal(t, "10", bd.Discount, "discount")
		assertDecimal(t, "90", bd.FinalPrice, "final")
	}
}

func TestCalculatePrice_MidDayWeekdayIsBasePrice(t *testing.T) {
	svc := newService(100, nil)

	bd, err := svc.CalculatePrice(context.Background(), 1, weekdayAt(14), nil)
	require.NoError(t, err)

	assertDecimal(t, "0", bd.Surcharge, "surcharge")
	assertDecimal(t, "0", bd.Discount, "discount")
	assertDecimal(t, "100", bd.FinalPrice, "final")
}

func TestCalculatePrice_PromoStacksWithOffPeakDiscount(t *testing.T) {
	svc := newService(100, map[string]decimal.Decimal{
		"SAVE20": decimal.NewFromFloat(0.20),
	})

	bd, err := svc.CalculatePrice(context.Background(), 1, weekdayAt(8), ptr.Ptr("SAVE20"))
	require.NoError(t, err)

	// 10 за непиковое время + 20 по промокоду, обе от базовой цены
	assertDecimal(t, "30", bd.Discount, "discount")
	assertDecimal(t, "70", bd.FinalPrice, "final")
	require.NotNil(t, bd.AppliedPromo)
	assert.Equal(t, "SAVE20", *bd.AppliedPromo)
}

func TestCalculatePrice_PromoCodeIsNormalized(t *testing.T) {
	svc := newService(100, map[string]decimal.Decimal{
		"WELCOME10": decimal.NewFromFloat(0.10),
	})

	bd, err := svc.CalculatePrice(context.Background(), 1, weekdayAt(14), ptr.Ptr("  welcome10 "))
	require.NoError(t, err)

	assertDecimal(t, "10", bd.Discount, "discount")
	require.NotNil(t, bd.AppliedPromo)
	assert.Equal(t, "WELCOME10", *bd.AppliedPromo)
}

func TestCalculatePrice_UnknownPromoIsNotAnError(t *testing.T) {
	svc := newService(100, nil)

	bd, err := svc.CalculatePrice(context.Background(), 1, weekdayAt(14), ptr.Ptr("NOPE"))
	require.NoError(t, err)

	assertDecimal(t, "0", bd.Discount, "discount")
	assertDecimal(t, "100", bd.FinalPrice, "final")
	assert.Nil(t, bd.AppliedPromo)
}

func TestCalculatePrice_FinalPriceNeverNegative(t *testing.T) {
	svc := newService(100, map[string]decimal.Decimal{
		"GRATIS": decimal.NewFromInt(1),
	})

	// 10 + 100 скидки против 100 базовой цены
	bd, err := svc.CalculatePrice(context.Background(), 1, weekdayAt(8), ptr.Ptr("GRATIS"))
	require.NoError(t, err)

	assertDecimal(t, "110", bd.Discount, "discount")
	assertDecimal(t, "0", bd.FinalPrice, "final")
}

func TestCalculatePrice_ServiceNotFound(t *testing.T) {
	svc := NewService(&stubServiceRepo{err: serviceRepo.ErrServiceNotFound}, &stubPromoRepo{}, noopLogger{})

	_, err := svc.CalculatePrice(context.Background(), 42, weekdayAt(10), nil)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestValidatePromoCode(t *testing.T) {
	svc := newService(100, map[string]decimal.Decimal{
		"VIP15": decimal.NewFromFloat(0.15),
	})

	ok, err := svc.ValidatePromoCode(context.Background(), "vip15")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.ValidatePromoCode(context.Background(), "EXPIRED")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.ValidatePromoCode(context.Background(), "   ")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetBasePrice(t *testing.T) {
	svc := newService(250, nil)

	price, err := svc.GetBasePrice(context.Background(), 1)
	require.NoError(t, err)
	assertDecimal(t, "250", price, "base price")
}
