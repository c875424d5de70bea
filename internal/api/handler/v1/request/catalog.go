package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type CustomPriceRequest struct {
	DateFrom    *string         `json:"date_from,omitempty"`
	DateTo      *string         `json:"date_to,omitempty"`
	MinQuantity int             `json:"min_quantity,omitempty"`
	MaxQuantity int             `json:"max_quantity,omitempty"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"120.00"`
}

func (c CustomPriceRequest) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.DateFrom, dateRule),
		validation.Field(&c.DateTo, dateRule),
		validation.Field(&c.MinQuantity, validation.Min(0)),
		validation.Field(&c.MaxQuantity, validation.Min(0)),
		validation.Field(&c.Price, nonNegative),
	)
	if err != nil {
		return err
	}
	if c.DateFrom != nil && c.DateTo != nil {
		return ordered(*c.DateFrom, *c.DateTo)
	}

	return nil
}

func (c CustomPriceRequest) ToDomain() domain.CustomPrice {
	return domain.CustomPrice{
		DateFrom:    optionalDay(c.DateFrom),
		DateTo:      optionalDay(c.DateTo),
		MinQuantity: c.MinQuantity,
		MaxQuantity: c.MaxQuantity,
		Price:       c.Price,
	}
}

type customPrices []CustomPriceRequest

func (cs customPrices) Validate() error {
	errs := validation.Errors{}
	for i, c := range cs {
		if err := c.Validate(); err != nil {
			errs[fmt.Sprintf("%d", i)] = err
		}
	}

	return errs.Filter()
}

func (cs customPrices) toDomain() []domain.CustomPrice {
	if len(cs) == 0 {
		return nil
	}
	out := make([]domain.CustomPrice, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ToDomain())
	}

	return out
}

type CreateTentRequest struct {
	Name                  string               `json:"name"`
	Description           string               `json:"description"`
	Price                 decimal.Decimal      `json:"price" swaggertype:"string" example:"100.00"`
	CustomPrices          []CustomPriceRequest `json:"custom_prices"`
	QtyPeople             int                  `json:"qty_people"`
	MaxPax                int                  `json:"max_pax"`
	MaxKids               int                  `json:"max_kids"`
	MaxAdditionalPeople   int                  `json:"max_additional_people"`
	AdditionalPeoplePrice decimal.Decimal      `json:"additional_people_price" swaggertype:"string"`
	KidsBundlePrice       decimal.Decimal      `json:"kids_bundle_price" swaggertype:"string"`
}

func (req *CreateTentRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Price, nonNegative),
		validation.Field(&req.CustomPrices, validation.By(func(interface{}) error {
			return customPrices(req.CustomPrices).Validate()
		})),
		validation.Field(&req.QtyPeople, validation.Required, validation.Min(1)),
		validation.Field(&req.MaxPax, validation.Min(0)),
		validation.Field(&req.MaxKids, validation.Min(0)),
		validation.Field(&req.MaxAdditionalPeople, validation.Min(0)),
		validation.Field(&req.AdditionalPeoplePrice, nonNegative),
		validation.Field(&req.KidsBundlePrice, nonNegative),
	)
}

func (req *CreateTentRequest) ToDomain() domain.Tent {
	return domain.Tent{
		Name:                  req.Name,
		Description:           req.Description,
		Price:                 req.Price,
		CustomPrices:          customPrices(req.CustomPrices).toDomain(),
		QtyPeople:             req.QtyPeople,
		MaxPax:                req.MaxPax,
		MaxKids:               req.MaxKids,
		MaxAdditionalPeople:   req.MaxAdditionalPeople,
		AdditionalPeoplePrice: req.AdditionalPeoplePrice,
		KidsBundlePrice:       req.KidsBundlePrice,
	}
}

type CreateProductRequest struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Price        decimal.Decimal      `json:"price" swaggertype:"string" example:"10.00"`
	CustomPrices []CustomPriceRequest `json:"custom_prices"`
	Stock        *int                 `json:"stock,omitempty"`
}

func (req *CreateProductRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Price, nonNegative),
		validation.Field(&req.CustomPrices, validation.By(func(interface{}) error {
			return customPrices(req.CustomPrices).Validate()
		})),
		validation.Field(&req.Stock, optionalNonNegative),
	)
}

func (req *CreateProductRequest) ToDomain() domain.Product {
	return domain.Product{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CustomPrices: customPrices(req.CustomPrices).toDomain(),
		Stock:        req.Stock,
	}
}

type CreateExperienceRequest struct {
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Price        decimal.Decimal      `json:"price" swaggertype:"string" example:"30.00"`
	CustomPrices []CustomPriceRequest `json:"custom_prices"`
	Duration     int                  `json:"duration"`
	LimitAge     int                  `json:"limit_age"`
	QtyPeople    int                  `json:"qty_people"`
}

func (req *CreateExperienceRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Price, nonNegative),
		validation.Field(&req.CustomPrices, validation.By(func(interface{}) error {
			return customPrices(req.CustomPrices).Validate()
		})),
		validation.Field(&req.Duration, validation.Min(0)),
		validation.Field(&req.LimitAge, validation.Min(0)),
		validation.Field(&req.QtyPeople, validation.Min(0)),
	)
}

func (req *CreateExperienceRequest) ToDomain() domain.Experience {
	return domain.Experience{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		CustomPrices: customPrices(req.CustomPrices).toDomain(),
		Duration:     req.Duration,
		LimitAge:     req.LimitAge,
		QtyPeople:    req.QtyPeople,
	}
}

type StatusRequest struct {
	Status string `json:"status" example:"INACTIVE"`
}

func (req *StatusRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Status, validation.Required, validation.In(
			string(domain.StatusActive),
			string(domain.StatusInactive),
		)),
	)
}

type StatusQuery struct {
	Status string `form:"status"`
}

func (q *StatusQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Status, validation.In(
			string(domain.StatusActive),
			string(domain.StatusInactive),
		)),
	)
}
