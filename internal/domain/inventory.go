package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// CustomPrice overrides the base price inside a date window and/or a quantity
// bracket. Nil dates and zero quantities leave that side unbounded.
type CustomPrice struct {
	DateFrom    *time.Time      `json:"date_from,omitempty"`
	DateTo      *time.Time      `json:"date_to,omitempty"`
	MinQuantity int             `json:"min_quantity,omitempty"`
	MaxQuantity int             `json:"max_quantity,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

func (c CustomPrice) Applies(day *time.Time, quantity int) bool {
	if day != nil {
		d := Day(*day)
		if c.DateFrom != nil && d.Before(Day(*c.DateFrom)) {
			return false
		}
		if c.DateTo != nil && d.After(Day(*c.DateTo)) {
			return false
		}
	} else if c.DateFrom != nil || c.DateTo != nil {
		return false
	}
	if c.MinQuantity > 0 && quantity < c.MinQuantity {
		return false
	}
	if c.MaxQuantity > 0 && quantity > c.MaxQuantity {
		return false
	}

	return true
}

// UnitPrice returns the first applicable override, else base.
func UnitPrice(base decimal.Decimal, schedule []CustomPrice, day *time.Time, quantity int) decimal.Decimal {
	for _, c := range schedule {
		if c.Applies(day, quantity) {
			return c.Price
		}
	}

	return base
}

type Tent struct {
	ID                    uint            `json:"id"`
	Name                  string          `json:"name"`
	Description           string          `json:"description"`
	Price                 decimal.Decimal `json:"price"`
	CustomPrices          []CustomPrice   `json:"custom_prices,omitempty"`
	QtyPeople             int             `json:"qty_people"`
	MaxPax                int             `json:"max_pax"`
	MaxKids               int             `json:"max_kids"`
	MaxAdditionalPeople   int             `json:"max_additional_people"`
	AdditionalPeoplePrice decimal.Decimal `json:"additional_people_price"`
	KidsBundlePrice       decimal.Decimal `json:"kids_bundle_price"`
	Status                Status          `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

type TentAvailability struct {
	Tent
	Reserved bool `json:"reserved"`
}

type Product struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CustomPrices []CustomPrice   `json:"custom_prices,omitempty"`
	Stock        *int            `json:"stock,omitempty"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Experience struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Price        decimal.Decimal `json:"price"`
	CustomPrices []CustomPrice   `json:"custom_prices,omitempty"`
	Duration     int             `json:"duration"`
	LimitAge     int             `json:"limit_age"`
	QtyPeople    int             `json:"qty_people"`
	Status       Status          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type CalendarDay struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
}
