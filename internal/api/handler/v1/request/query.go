package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type DateRangeQuery struct {
	DateFrom string `form:"date_from" example:"2024-07-01"`
	DateTo   string `form:"date_to" example:"2024-07-04"`
}

func (q *DateRangeQuery) Validate() error {
	err := validation.ValidateStruct(q,
		validation.Field(&q.DateFrom, validation.Required, dateRule),
		validation.Field(&q.DateTo, validation.Required, dateRule),
	)
	if err != nil {
		return err
	}

	return ordered(q.DateFrom, q.DateTo)
}

func (q *DateRangeQuery) Range() (time.Time, time.Time) {
	return day(q.DateFrom), day(q.DateTo)
}

type CalendarQuery struct {
	Year  int `form:"year" example:"2024"`
	Month int `form:"month" example:"7"`
}

func (q *CalendarQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Year, validation.Required, validation.Min(2000), validation.Max(2100)),
		validation.Field(&q.Month, validation.Required, validation.Min(1), validation.Max(12)),
	)
}

type StatisticsQuery struct {
	Step string `form:"step" example:"MONTH"`
	Mode string `form:"mode" example:"PERIODIC"`
}

func (q *StatisticsQuery) Validate() error {
	return validation.ValidateStruct(q,
		validation.Field(&q.Step, validation.Required, validation.In(
			string(domain.StepWeek),
			string(domain.StepMonth),
			string(domain.StepYear),
		)),
		validation.Field(&q.Mode, validation.In(
			string(domain.ModeAccumulated),
			string(domain.ModePeriodic),
		)),
	)
}

type CreateUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Role  string `json:"role,omitempty" example:"client"`
}

func (req *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Phone, phoneRule),
		validation.Field(&req.Role, validation.In(domain.RoleClient, domain.RoleAdmin)),
	)
}

func (req *CreateUserRequest) ToDomain() domain.User {
	return domain.User{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Role:  req.Role,
	}
}
