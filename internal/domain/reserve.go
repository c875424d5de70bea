package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReserveStatus string

const (
	ReserveNotConfirmed ReserveStatus = "NOT_CONFIRMED"
	ReserveConfirmed    ReserveStatus = "CONFIRMED"
	ReserveComplete     ReserveStatus = "COMPLETE"
	ReserveCanceled     ReserveStatus = "CANCELED"
)

// BlockingStatuses are the reserve statuses that hold a tent for their dates.
var BlockingStatuses = []ReserveStatus{ReserveConfirmed, ReserveNotConfirmed}

func (s ReserveStatus) IsTerminal() bool {
	return s == ReserveComplete || s == ReserveCanceled
}

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "UNPAID"
	PaymentPartial PaymentStatus = "PARTIAL"
	PaymentPaid    PaymentStatus = "PAID"
)

func (p PaymentStatus) IsValid() bool {
	return p == PaymentUnpaid || p == PaymentPartial || p == PaymentPaid
}

type EntityType string

const (
	EntityTypeReserve    EntityType = "RESERVE"
	EntityTypeTent       EntityType = "TENT"
	EntityTypeProduct    EntityType = "PRODUCT"
	EntityTypeExperience EntityType = "EXPERIENCE"
)

type Reserve struct {
	ID             uint                `json:"id"`
	ExternalID     string              `json:"external_id"`
	UserID         *uint               `json:"user_id,omitempty"`
	Name           string              `json:"name"`
	Email          string              `json:"email"`
	Phone          string              `json:"phone"`
	DateSale       time.Time           `json:"date_sale"`
	GrossImport    decimal.Decimal     `json:"gross_import"`
	Discount       decimal.Decimal     `json:"discount"`
	NetImport      decimal.Decimal     `json:"net_import"`
	PaymentStatus  PaymentStatus       `json:"payment_status"`
	Status         ReserveStatus       `json:"status"`
	CanceledReason *string             `json:"canceled_reason,omitempty"`
	DiscountCodeID *uint               `json:"discount_code_id,omitempty"`
	PromotionID    *uint               `json:"promotion_id,omitempty"`
	Tents          []ReserveTent       `json:"tents"`
	Products       []ReserveProduct    `json:"products"`
	Experiences    []ReserveExperience `json:"experiences"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// ReserveTent is a snapshot of a tent at booking time. TentID is kept for
// lookup only; prices are never recomputed from the live catalog.
type ReserveTent struct {
	ID                    uint            `json:"id"`
	ReserveID             uint            `json:"reserve_id"`
	TentID                uint            `json:"tent_id"`
	Name                  string          `json:"name"`
	Price                 decimal.Decimal `json:"price"`
	DateFrom              time.Time       `json:"date_from"`
	DateTo                time.Time       `json:"date_to"`
	Nights                int             `json:"nights"`
	AdditionalPeople      int             `json:"additional_people"`
	AdditionalPeoplePrice decimal.Decimal `json:"additional_people_price"`
	Kids                  int             `json:"kids"`
	KidsPrice             decimal.Decimal `json:"kids_price"`
	Total                 decimal.Decimal `json:"total"`
	Confirmed             bool            `json:"confirmed"`
}

func (t ReserveTent) Range() DateRange {
	return DateRange{From: Day(t.DateFrom), To: Day(t.DateTo)}
}

type ReserveProduct struct {
	ID        uint            `json:"id"`
	ReserveID uint            `json:"reserve_id"`
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
	Confirmed bool            `json:"confirmed"`
}

type ReserveExperience struct {
	ID           uint            `json:"id"`
	ReserveID    uint            `json:"reserve_id"`
	ExperienceID uint            `json:"experience_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Day          time.Time       `json:"day"`
	Quantity     int             `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
	Confirmed    bool            `json:"confirmed"`
}

func (r Reserve) LineTotals() []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(r.Tents)+len(r.Products)+len(r.Experiences))
	for _, t := range r.Tents {
		out = append(out, t.Total)
	}
	for _, p := range r.Products {
		out = append(out, p.Total)
	}
	for _, e := range r.Experiences {
		out = append(out, e.Total)
	}

	return out
}

func (r Reserve) HasConfirmedLines() bool {
	for _, t := range r.Tents {
		if t.Confirmed {
			return true
		}
	}
	for _, p := range r.Products {
		if p.Confirmed {
			return true
		}
	}
	for _, e := range r.Experiences {
		if e.Confirmed {
			return true
		}
	}

	return false
}

func (r Reserve) AllLinesConfirmed() bool {
	n := 0
	for _, t := range r.Tents {
		if !t.Confirmed {
			return false
		}
		n++
	}
	for _, p := range r.Products {
		if !p.Confirmed {
			return false
		}
		n++
	}
	for _, e := range r.Experiences {
		if !e.Confirmed {
			return false
		}
		n++
	}

	return n > 0
}

const externalIDWidth = 6

// ExternalReserveID derives the human readable reserve code from the primary key.
func ExternalReserveID(id uint) string {
	s := strings.ToUpper(strconv.FormatUint(uint64(id), 36))
	if len(s) < externalIDWidth {
		s = strings.Repeat("0", externalIDWidth-len(s)) + s
	}

	return "RSV" + s
}

// PlaceholderExternalID is stored until the primary key is known.
func PlaceholderExternalID() string {
	return "TMP-" + uuid.NewString()
}

type ReserveFilter struct {
	Status ReserveStatus
	Page   int
	Size   int
}
