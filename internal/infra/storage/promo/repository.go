package promo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/avilkin/AppointmentService/internal/domain"
	"github.com/avilkin/AppointmentService/pkg/dbmetrics"
	"github.com/avilkin/AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий промокодов.
// Коды хранятся в верхнем регистре; поиск нормализует вход
// (trim + uppercase), так что lookup регистронезависимый.
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория промокодов
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// NormalizeCode приводит промокод к канонической форме
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// DefaultCodes возвращает стартовый набор промокодов
func DefaultCodes() []domain.PromoCode {
	return []domain.PromoCode{
		{Code: "WELCOME10", DiscountRate: decimal.NewFromFloat(0.10)},
		{Code: "SAVE20", DiscountRate: decimal.NewFromFloat(0.20)},
		{Code: "VIP15", DiscountRate: decimal.NewFromFloat(0.15)},
		{Code: "FIRST50", DiscountRate: decimal.NewFromFloat(0.50)},
	}
}

// GetByCode получает промокод по нормализованному значению
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("code", "discount_rate").
		From("promo_codes").
		Where(squirrel.Eq{"code": NormalizeCode(code)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var promo domain.PromoCode
	err = executor.QueryRowContext(ctx, query, args...).Scan(&promo.Code, &promo.DiscountRate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan promo: %w", ErrScanRow, err)
	}

	return &promo, nil
}

// Seed идемпотентно загружает стартовый набор промокодов.
// Уже существующие коды не перезаписываются — оператор мог поменять ставку.
func (r *Repository) Seed(ctx context.Context, codes []domain.PromoCode) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for _, promo := range codes {
		query, args, err := psqlbuilder.Insert("promo_codes").
			Columns("code", "discount_rate").
			Values(NormalizeCode(promo.Code), promo.DiscountRate).
			Suffix("ON CONFLICT (code) DO NOTHING").
			ToSql()

		if err != nil {
			return fmt.Errorf("%w: Seed - build insert query: %v", ErrBuildQuery, err)
		}

		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("%w: Seed - execute insert: %w", ErrExecQuery, err)
		}
	}

	return nil
}
