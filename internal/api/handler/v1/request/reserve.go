package request

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type TentLine struct {
	TentID           uint   `json:"tent_id"`
	DateFrom         string `json:"date_from" example:"2024-07-01"`
	DateTo           string `json:"date_to" example:"2024-07-04"`
	AdditionalPeople int    `json:"additional_people"`
	Kids             int    `json:"kids"`
}

func (l TentLine) Validate() error {
	err := validation.ValidateStruct(&l,
		validation.Field(&l.TentID, validation.Required),
		validation.Field(&l.DateFrom, validation.Required, dateRule),
		validation.Field(&l.DateTo, validation.Required, dateRule),
		validation.Field(&l.AdditionalPeople, validation.Min(0)),
		validation.Field(&l.Kids, validation.Min(0)),
	)
	if err != nil {
		return err
	}

	return ordered(l.DateFrom, l.DateTo)
}

type ProductLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

func (l ProductLine) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ProductID, validation.Required),
		validation.Field(&l.Quantity, validation.Required, validation.Min(1)),
	)
}

type ExperienceLine struct {
	ExperienceID uint   `json:"experience_id"`
	Day          string `json:"day" example:"2024-07-02"`
	Quantity     int    `json:"quantity"`
}

func (l ExperienceLine) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ExperienceID, validation.Required),
		validation.Field(&l.Day, validation.Required, dateRule),
		validation.Field(&l.Quantity, validation.Required, validation.Min(1)),
	)
}

type Lines struct {
	Tents       []TentLine       `json:"tents"`
	Products    []ProductLine    `json:"products"`
	Experiences []ExperienceLine `json:"experiences"`
}

func (l Lines) Validate() error {
	if len(l.Tents) == 0 && len(l.Products) == 0 && len(l.Experiences) == 0 {
		return errEmptyReserve
	}
	errs := validation.Errors{}
	for i, t := range l.Tents {
		if err := t.Validate(); err != nil {
			errs[fmt.Sprintf("tents[%d]", i)] = err
		}
	}
	for i, p := range l.Products {
		if err := p.Validate(); err != nil {
			errs[fmt.Sprintf("products[%d]", i)] = err
		}
	}
	for i, e := range l.Experiences {
		if err := e.Validate(); err != nil {
			errs[fmt.Sprintf("experiences[%d]", i)] = err
		}
	}

	return errs.Filter()
}

func (l Lines) apply(r *domain.ReserveRequest) {
	for _, t := range l.Tents {
		r.Tents = append(r.Tents, domain.TentRequest{
			TentID:           t.TentID,
			DateFrom:         day(t.DateFrom),
			DateTo:           day(t.DateTo),
			AdditionalPeople: t.AdditionalPeople,
			Kids:             t.Kids,
		})
	}
	for _, p := range l.Products {
		r.Products = append(r.Products, p.ToDomain())
	}
	for _, e := range l.Experiences {
		r.Experiences = append(r.Experiences, e.ToDomain())
	}
}

func (l ProductLine) ToDomain() domain.ProductRequest {
	return domain.ProductRequest{ProductID: l.ProductID, Quantity: l.Quantity}
}

func (l ExperienceLine) ToDomain() domain.ExperienceRequest {
	return domain.ExperienceRequest{ExperienceID: l.ExperienceID, Day: day(l.Day), Quantity: l.Quantity}
}

type CreateReserveRequest struct {
	Lines
	DiscountCode      string `json:"discount_code,omitempty"`
	PromotionID       *uint  `json:"promotion_id,omitempty"`
	PromotionQuantity int    `json:"promotion_quantity,omitempty"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	Phone             string `json:"phone,omitempty"`
}

func (req *CreateReserveRequest) Validate() error {
	if err := req.Lines.Validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.DiscountCode, codeRule),
		validation.Field(&req.PromotionQuantity, validation.Min(0)),
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Phone, phoneRule),
	)
}

func (req *CreateReserveRequest) ToDomain() domain.ReserveRequest {
	r := domain.ReserveRequest{
		DiscountCode:      req.DiscountCode,
		PromotionID:       req.PromotionID,
		PromotionQuantity: req.PromotionQuantity,
		Name:              req.Name,
		Email:             req.Email,
		Phone:             req.Phone,
	}
	req.Lines.apply(&r)

	return r
}

// UpdateReserveRequest replaces every line of a reservation. Contact fields
// left empty keep their current value.
type UpdateReserveRequest struct {
	Lines
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

func (req *UpdateReserveRequest) Validate() error {
	if err := req.Lines.Validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.Email, is.Email),
		validation.Field(&req.Phone, phoneRule),
	)
}

func (req *UpdateReserveRequest) ToDomain() domain.ReserveRequest {
	r := domain.ReserveRequest{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	}
	req.Lines.apply(&r)

	return r
}

type ConfirmRequest struct {
	EntityType string `json:"entity_type" example:"RESERVE"`
	EntityID   uint   `json:"entity_id"`
}

func (req *ConfirmRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.EntityType, validation.Required, validation.In(
			string(domain.EntityTypeReserve),
			string(domain.EntityTypeTent),
			string(domain.EntityTypeProduct),
			string(domain.EntityTypeExperience),
		)),
		validation.Field(&req.EntityID, validation.By(func(interface{}) error {
			if req.EntityType != string(domain.EntityTypeReserve) && req.EntityID == 0 {
				return errEntityIDRequired
			}
			return nil
		})),
	)
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

func (req *CancelRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Reason, validation.Required, validation.Length(1, 500)),
	)
}

type PaymentRequest struct {
	PaymentStatus string `json:"payment_status" example:"PAID"`
}

func (req *PaymentRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.PaymentStatus, validation.Required, validation.In(
			string(domain.PaymentUnpaid),
			string(domain.PaymentPartial),
			string(domain.PaymentPaid),
		)),
	)
}

type ListReservesQuery struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Size   int    `form:"size"`
}

func (q *ListReservesQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Status, validation.In(
			string(domain.ReserveNotConfirmed),
			string(domain.ReserveConfirmed),
			string(domain.ReserveComplete),
			string(domain.ReserveCanceled),
		)),
		validation.Field(&q.Page, validation.Min(0)),
		validation.Field(&q.Size, validation.Min(0)),
	)
}

func (q *ListReservesQuery) ToDomain() domain.ReserveFilter {
	return domain.ReserveFilter{
		Status: domain.ReserveStatus(q.Status),
		Page:   q.Page,
		Size:   q.Size,
	}
}
