package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type DiscountRepository interface {
	CreateCode(ctx context.Context, code domain.DiscountCode) (domain.DiscountCode, error)
	CreatePromotion(ctx context.Context, promotion domain.Promotion) (domain.Promotion, error)
	FindCode(ctx context.Context, code string) (domain.DiscountCode, error)
	FindPromotion(ctx context.Context, id uint) (domain.Promotion, error)
	ListCodes(ctx context.Context) ([]domain.DiscountCode, error)
	ListPromotions(ctx context.Context, status domain.Status) ([]domain.Promotion, error)
	SetCodeStatus(ctx context.Context, id uint, status domain.Status) error
}

type DiscountService struct {
	repo DiscountRepository
	now  func() time.Time
}

func NewDiscountService(repo DiscountRepository, now func() time.Time) *DiscountService {
	if now == nil {
		now = time.Now
	}

	return &DiscountService{
		repo: repo,
		now:  now,
	}
}

// ValidateCode reports whether code could be attached to a reserve right now.
// The check is repeated under lock when the reserve is created.
func (s *DiscountService) ValidateCode(ctx context.Context, code string) (domain.DiscountCode, error) {
	found, err := s.repo.FindCode(ctx, domain.NormalizeCode(code))
	if err != nil {
		return domain.DiscountCode{}, fmt.Errorf("s.repo.FindCode -> %w", err)
	}
	if err = found.Redeemable(s.now()); err != nil {
		return domain.DiscountCode{}, err
	}

	return found, nil
}

func (s *DiscountService) ValidatePromotion(ctx context.Context, id uint) (domain.Promotion, error) {
	found, err := s.repo.FindPromotion(ctx, id)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("s.repo.FindPromotion -> %w", err)
	}
	if err = found.Redeemable(s.now()); err != nil {
		return domain.Promotion{}, err
	}

	return found, nil
}

func (s *DiscountService) CreateCode(ctx context.Context, code domain.DiscountCode) (domain.DiscountCode, error) {
	code.Code = domain.NormalizeCode(code.Code)
	if code.Code == "" {
		return domain.DiscountCode{}, domain.BadRequest(domain.EntityDiscountCode, "code is required")
	}
	if err := validatePercent(domain.EntityDiscountCode, code.Discount, code.Stock); err != nil {
		return domain.DiscountCode{}, err
	}
	if code.Status == "" {
		code.Status = domain.StatusActive
	}

	created, err := s.repo.CreateCode(ctx, code)
	if err != nil {
		return domain.DiscountCode{}, fmt.Errorf("s.repo.CreateCode -> %w", err)
	}

	return created, nil
}

func (s *DiscountService) CreatePromotion(ctx context.Context, promotion domain.Promotion) (domain.Promotion, error) {
	if err := validatePercent(domain.EntityPromotion, promotion.Discount, promotion.Stock); err != nil {
		return domain.Promotion{}, err
	}
	if promotion.Status == "" {
		promotion.Status = domain.StatusActive
	}

	created, err := s.repo.CreatePromotion(ctx, promotion)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("s.repo.CreatePromotion -> %w", err)
	}

	return created, nil
}

func (s *DiscountService) ListCodes(ctx context.Context) ([]domain.DiscountCode, error) {
	codes, err := s.repo.ListCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListCodes -> %w", err)
	}

	return codes, nil
}

func (s *DiscountService) ListPromotions(ctx context.Context, status domain.Status) ([]domain.Promotion, error) {
	promotions, err := s.repo.ListPromotions(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListPromotions -> %w", err)
	}

	return promotions, nil
}

func (s *DiscountService) SetCodeStatus(ctx context.Context, id uint, status domain.Status) error {
	if !status.IsValid() {
		return domain.BadRequest(domain.EntityDiscountCode, "invalid status", status)
	}
	if err := s.repo.SetCodeStatus(ctx, id, status); err != nil {
		return fmt.Errorf("s.repo.SetCodeStatus -> %w", err)
	}

	return nil
}

func validatePercent(entity string, discount decimal.Decimal, stock *int) error {
	if discount.IsNegative() || discount.GreaterThan(hundred) {
		return domain.BadRequest(entity, "discount must be between 0 and 100", discount)
	}
	if stock != nil && *stock < 0 {
		return domain.BadRequest(entity, "stock must not be negative", *stock)
	}

	return nil
}
