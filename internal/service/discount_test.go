package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type discountRepo struct {
	codes      map[string]domain.DiscountCode
	promotions map[uint]domain.Promotion
}

func (r *discountRepo) CreateCode(_ context.Context, code domain.DiscountCode) (domain.DiscountCode, error) {
	if _, ok := r.codes[code.Code]; ok {
		return domain.DiscountCode{}, domain.BadRequest(domain.EntityDiscountCode, domain.MsgCodeExists, code.Code)
	}
	code.ID = uint(len(r.codes) + 1)
	r.codes[code.Code] = code
	return code, nil
}

func (r *discountRepo) CreatePromotion(_ context.Context, p domain.Promotion) (domain.Promotion, error) {
	p.ID = uint(len(r.promotions) + 1)
	r.promotions[p.ID] = p
	return p, nil
}

func (r *discountRepo) FindCode(_ context.Context, code string) (domain.DiscountCode, error) {
	c, ok := r.codes[code]
	if !ok {
		return domain.DiscountCode{}, domain.NotFound(domain.EntityDiscountCode, code)
	}
	return c, nil
}

func (r *discountRepo) FindPromotion(_ context.Context, id uint) (domain.Promotion, error) {
	p, ok := r.promotions[id]
	if !ok {
		return domain.Promotion{}, domain.NotFound(domain.EntityPromotion, id)
	}
	return p, nil
}

func (r *discountRepo) ListCodes(context.Context) ([]domain.DiscountCode, error) {
	out := make([]domain.DiscountCode, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, c)
	}
	return out, nil
}

func (r *discountRepo) ListPromotions(_ context.Context, status domain.Status) ([]domain.Promotion, error) {
	var out []domain.Promotion
	for _, p := range r.promotions {
		if status == "" || p.Status == status {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *discountRepo) SetCodeStatus(_ context.Context, id uint, status domain.Status) error {
	for k, c := range r.codes {
		if c.ID == id {
			c.Status = status
			r.codes[k] = c
			return nil
		}
	}
	return domain.NotFound(domain.EntityDiscountCode, id)
}

func TestDiscountService_ValidateCode(t *testing.T) {
	expired := testNow.Add(-time.Hour)
	repo := &discountRepo{
		codes: map[string]domain.DiscountCode{
			"SUMMER10": {ID: 1, Code: "SUMMER10", Discount: decimal.NewFromInt(10), Stock: intPtr(5), Status: domain.StatusActive},
			"OLD":      {ID: 2, Code: "OLD", Discount: decimal.NewFromInt(5), ExpiredDate: &expired, Status: domain.StatusActive},
			"EMPTY":    {ID: 3, Code: "EMPTY", Discount: decimal.NewFromInt(5), Stock: intPtr(0), Status: domain.StatusActive},
		},
		promotions: map[uint]domain.Promotion{},
	}
	svc := NewDiscountService(repo, fixedNow)
	ctx := context.Background()

	code, err := svc.ValidateCode(ctx, "summer10")
	require.NoError(t, err)
	assert.Equal(t, uint(1), code.ID)

	_, err = svc.ValidateCode(ctx, "old")
	assertKind(t, &domain.Error{Kind: domain.KindBadRequest, Message: domain.MsgExpired}, err)

	_, err = svc.ValidateCode(ctx, "EMPTY")
	assertKind(t, &domain.Error{Kind: domain.KindBadRequest, Message: domain.MsgOutOfStock}, err)

	_, err = svc.ValidateCode(ctx, "missing")
	assertKind(t, domain.ErrNotFound, err)

	require.NoError(t, svc.SetCodeStatus(ctx, 1, domain.StatusInactive))
	_, err = svc.ValidateCode(ctx, "SUMMER10")
	assertKind(t, &domain.Error{Kind: domain.KindBadRequest, Message: domain.MsgInactive}, err)
}

func TestDiscountService_Create(t *testing.T) {
	repo := &discountRepo{codes: map[string]domain.DiscountCode{}, promotions: map[uint]domain.Promotion{}}
	svc := NewDiscountService(repo, fixedNow)
	ctx := context.Background()

	created, err := svc.CreateCode(ctx, domain.DiscountCode{Code: " welcome ", Discount: decimal.NewFromInt(15)})
	require.NoError(t, err)
	assert.Equal(t, "WELCOME", created.Code)
	assert.Equal(t, domain.StatusActive, created.Status)

	_, err = svc.CreateCode(ctx, domain.DiscountCode{Code: "WELCOME", Discount: decimal.NewFromInt(15)})
	assertKind(t, &domain.Error{Kind: domain.KindBadRequest, Message: domain.MsgCodeExists}, err)

	_, err = svc.CreateCode(ctx, domain.DiscountCode{Code: "BIG", Discount: decimal.NewFromInt(101)})
	assertKind(t, domain.ErrBadRequest, err)

	_, err = svc.CreatePromotion(ctx, domain.Promotion{Name: "Spring", Discount: decimal.NewFromInt(20), Stock: intPtr(-1)})
	assertKind(t, domain.ErrBadRequest, err)

	promotion, err := svc.CreatePromotion(ctx, domain.Promotion{Name: "Spring", Discount: decimal.NewFromInt(20)})
	require.NoError(t, err)
	_, err = svc.ValidatePromotion(ctx, promotion.ID)
	require.NoError(t, err)

	assertKind(t, domain.ErrBadRequest, svc.SetCodeStatus(ctx, created.ID, "PAUSED"))
}
