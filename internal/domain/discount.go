package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountCode struct {
	ID          uint            `json:"id"`
	Code        string          `json:"code"`
	Discount    decimal.Decimal `json:"discount"`
	ExpiredDate *time.Time      `json:"expired_date,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Redeemable reports why the code cannot be attached to a reservation, if it cannot.
func (d DiscountCode) Redeemable(now time.Time) error {
	return redeemable(EntityDiscountCode, d.Code, d.Status, d.ExpiredDate, d.Stock, now)
}

type Promotion struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Discount    decimal.Decimal `json:"discount"`
	ExpiredDate *time.Time      `json:"expired_date,omitempty"`
	Stock       *int            `json:"stock,omitempty"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p Promotion) Redeemable(now time.Time) error {
	return redeemable(EntityPromotion, p.ID, p.Status, p.ExpiredDate, p.Stock, now)
}

func redeemable(entity string, ref any, status Status, expired *time.Time, stock *int, now time.Time) error {
	if status != StatusActive {
		return BadRequest(entity, MsgInactive, ref)
	}
	if expired != nil && expired.Before(now) {
		return BadRequest(entity, MsgExpired, ref)
	}
	if stock != nil && *stock <= 0 {
		return BadRequest(entity, MsgOutOfStock, ref)
	}

	return nil
}

// Consume returns the stock left after taking qty units. Unlimited stock stays nil.
func Consume(entity string, ref any, stock *int, qty int) (*int, error) {
	if stock == nil {
		return nil, nil
	}
	left := *stock - qty
	if left < 0 {
		return nil, BadRequest(entity, MsgOutOfStock, ref)
	}

	return &left, nil
}
