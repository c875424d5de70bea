package domain

import "time"

type TentRequest struct {
	TentID           uint
	DateFrom         time.Time
	DateTo           time.Time
	AdditionalPeople int
	Kids             int
}

type ProductRequest struct {
	ProductID uint
	Quantity  int
}

type ExperienceRequest struct {
	ExperienceID uint
	Day          time.Time
	Quantity     int
}

// ReserveRequest is what a client asks to book. DiscountCode and PromotionID
// are mutually exclusive.
type ReserveRequest struct {
	Tents             []TentRequest
	Products          []ProductRequest
	Experiences       []ExperienceRequest
	DiscountCode      string
	PromotionID       *uint
	PromotionQuantity int
	Name              string
	Email             string
	Phone             string
}

func (r ReserveRequest) IsEmpty() bool {
	return len(r.Tents) == 0 && len(r.Products) == 0 && len(r.Experiences) == 0
}
