package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

var errCodeOrPromotion = errors.New("exactly one of code or promotion_id is required")

type ValidateDiscountRequest struct {
	Code        string `json:"code,omitempty" example:"SUMMER10"`
	PromotionID *uint  `json:"promotion_id,omitempty"`
}

func (req *ValidateDiscountRequest) Validate() error {
	if (req.Code == "") == (req.PromotionID == nil) {
		return errCodeOrPromotion
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.Code, codeRule),
	)
}

type CreateCodeRequest struct {
	Code        string          `json:"code" example:"SUMMER10"`
	Discount    decimal.Decimal `json:"discount" swaggertype:"string" example:"10"`
	ExpiredDate *string         `json:"expired_date,omitempty" example:"2024-09-30"`
	Stock       *int            `json:"stock,omitempty"`
}

func (req *CreateCodeRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Code, validation.Required, codeRule),
		validation.Field(&req.Discount, percent),
		validation.Field(&req.ExpiredDate, dateRule),
		validation.Field(&req.Stock, optionalNonNegative),
	)
}

func (req *CreateCodeRequest) ToDomain() domain.DiscountCode {
	return domain.DiscountCode{
		Code:        req.Code,
		Discount:    req.Discount,
		ExpiredDate: endOfDay(req.ExpiredDate),
		Stock:       req.Stock,
	}
}

type CreatePromotionRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Discount    decimal.Decimal `json:"discount" swaggertype:"string" example:"20"`
	ExpiredDate *string         `json:"expired_date,omitempty" example:"2024-09-30"`
	Stock       *int            `json:"stock,omitempty"`
}

func (req *CreatePromotionRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Discount, percent),
		validation.Field(&req.ExpiredDate, dateRule),
		validation.Field(&req.Stock, optionalNonNegative),
	)
}

func (req *CreatePromotionRequest) ToDomain() domain.Promotion {
	return domain.Promotion{
		Name:        req.Name,
		Description: req.Description,
		Discount:    req.Discount,
		ExpiredDate: endOfDay(req.ExpiredDate),
		Stock:       req.Stock,
	}
}

// endOfDay keeps a code redeemable for the whole of its expiry date.
func endOfDay(s *string) *time.Time {
	d := optionalDay(s)
	if d == nil {
		return nil
	}
	t := d.Add(24*time.Hour - time.Nanosecond)

	return &t
}
