package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository/dao"
)

type DiscountDAO interface {
	InsertCode(ctx context.Context, code dao.DiscountCode) (dao.DiscountCode, error)
	InsertPromotion(ctx context.Context, promotion dao.Promotion) (dao.Promotion, error)
	FindCodeByCode(ctx context.Context, code string) (dao.DiscountCode, error)
	FindPromotionByID(ctx context.Context, id uint) (dao.Promotion, error)
	FindCodes(ctx context.Context) ([]dao.DiscountCode, error)
	FindPromotions(ctx context.Context, status string) ([]dao.Promotion, error)
	UpdateCodeStatus(ctx context.Context, id uint, status string) error
}

type DiscountRepository struct {
	dao DiscountDAO
}

func NewDiscountRepository(dao DiscountDAO) *DiscountRepository {
	return &DiscountRepository{
		dao: dao,
	}
}

func (r *DiscountRepository) CreateCode(ctx context.Context, code domain.DiscountCode) (domain.DiscountCode, error) {
	created, err := r.dao.InsertCode(ctx, dao.DiscountCode{
		Code:        code.Code,
		Discount:    code.Discount,
		ExpiredDate: code.ExpiredDate,
		Stock:       code.Stock,
		Status:      string(code.Status),
	})
	if err != nil {
		if errors.Is(err, dao.ErrDuplicate) {
			err = domain.BadRequest(domain.EntityDiscountCode, domain.MsgCodeExists, code.Code)
		}
		return domain.DiscountCode{}, fmt.Errorf("r.dao.InsertCode -> %w", err)
	}

	return discountCodeDaoToDomain(created), nil
}

func (r *DiscountRepository) CreatePromotion(ctx context.Context, promotion domain.Promotion) (domain.Promotion, error) {
	created, err := r.dao.InsertPromotion(ctx, dao.Promotion{
		Name:        promotion.Name,
		Description: promotion.Description,
		Discount:    promotion.Discount,
		ExpiredDate: promotion.ExpiredDate,
		Stock:       promotion.Stock,
		Status:      string(promotion.Status),
	})
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.InsertPromotion -> %w", err)
	}

	return promotionDaoToDomain(created), nil
}

func (r *DiscountRepository) FindCode(ctx context.Context, code string) (domain.DiscountCode, error) {
	found, err := r.dao.FindCodeByCode(ctx, code)
	if err != nil {
		return domain.DiscountCode{}, fmt.Errorf("r.dao.FindCodeByCode -> %w", notFound(err, domain.EntityDiscountCode, code))
	}

	return discountCodeDaoToDomain(found), nil
}

func (r *DiscountRepository) FindPromotion(ctx context.Context, id uint) (domain.Promotion, error) {
	found, err := r.dao.FindPromotionByID(ctx, id)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.FindPromotionByID -> %w", notFound(err, domain.EntityPromotion, id))
	}

	return promotionDaoToDomain(found), nil
}

func (r *DiscountRepository) ListCodes(ctx context.Context) ([]domain.DiscountCode, error) {
	found, err := r.dao.FindCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindCodes -> %w", err)
	}

	codes := make([]domain.DiscountCode, 0, len(found))
	for _, c := range found {
		codes = append(codes, discountCodeDaoToDomain(c))
	}

	return codes, nil
}

func (r *DiscountRepository) ListPromotions(ctx context.Context, status domain.Status) ([]domain.Promotion, error) {
	found, err := r.dao.FindPromotions(ctx, string(status))
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPromotions -> %w", err)
	}

	promotions := make([]domain.Promotion, 0, len(found))
	for _, p := range found {
		promotions = append(promotions, promotionDaoToDomain(p))
	}

	return promotions, nil
}

func (r *DiscountRepository) SetCodeStatus(ctx context.Context, id uint, status domain.Status) error {
	if err := r.dao.UpdateCodeStatus(ctx, id, string(status)); err != nil {
		return fmt.Errorf("r.dao.UpdateCodeStatus -> %w", notFound(err, domain.EntityDiscountCode, id))
	}

	return nil
}
