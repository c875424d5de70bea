package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BillingLine struct {
	Kind        EntityType      `json:"kind"`
	Description string          `json:"description"`
	Detail      string          `json:"detail"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Quantity    int             `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// BillingDocument is the already-priced snapshot handed to the document renderer.
type BillingDocument struct {
	ReserveID     uint            `json:"reserve_id"`
	ExternalID    string          `json:"external_id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	DateSale      time.Time       `json:"date_sale"`
	Lines         []BillingLine   `json:"lines"`
	GrossImport   decimal.Decimal `json:"gross_import"`
	Discount      decimal.Decimal `json:"discount"`
	NetImport     decimal.Decimal `json:"net_import"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
}

func NewBillingDocument(r Reserve) BillingDocument {
	doc := BillingDocument{
		ReserveID:     r.ID,
		ExternalID:    r.ExternalID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		DateSale:      r.DateSale,
		GrossImport:   r.GrossImport,
		Discount:      r.Discount,
		NetImport:     r.NetImport,
		PaymentStatus: r.PaymentStatus,
	}
	for _, t := range r.Tents {
		doc.Lines = append(doc.Lines, BillingLine{
			Kind:        EntityTypeTent,
			Description: t.Name,
			Detail:      t.DateFrom.Format(DateLayout) + " / " + t.DateTo.Format(DateLayout),
			UnitPrice:   t.Price,
			Quantity:    t.Nights,
			Total:       t.Total,
		})
	}
	for _, p := range r.Products {
		doc.Lines = append(doc.Lines, BillingLine{
			Kind:        EntityTypeProduct,
			Description: p.Name,
			UnitPrice:   p.Price,
			Quantity:    p.Quantity,
			Total:       p.Total,
		})
	}
	for _, e := range r.Experiences {
		doc.Lines = append(doc.Lines, BillingLine{
			Kind:        EntityTypeExperience,
			Description: e.Name,
			Detail:      e.Day.Format(DateLayout),
			UnitPrice:   e.Price,
			Quantity:    e.Quantity,
			Total:       e.Total,
		})
	}

	return doc
}
