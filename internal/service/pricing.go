package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// PriceTent snapshots tent for the stay dr. Every night is priced with the
// custom price applicable to that date; the kids bundle is charged once.
func PriceTent(tent domain.Tent, dr domain.DateRange, additionalPeople, kids int) domain.ReserveTent {
	nights := dr.Nights()
	extra := tent.AdditionalPeoplePrice.Mul(decimal.NewFromInt(int64(additionalPeople)))

	stay := decimal.Zero
	for _, night := range dr.NightDates() {
		stay = stay.Add(domain.UnitPrice(tent.Price, tent.CustomPrices, &night, nights))
	}

	total := stay.Add(extra.Mul(decimal.NewFromInt(int64(nights))))
	kidsPrice := decimal.Zero
	if kids > 0 {
		kidsPrice = tent.KidsBundlePrice
		total = total.Add(kidsPrice)
	}

	return domain.ReserveTent{
		TentID:                tent.ID,
		Name:                  tent.Name,
		Price:                 stay.Div(decimal.NewFromInt(int64(nights))).Round(2),
		DateFrom:              dr.From,
		DateTo:                dr.To,
		Nights:                nights,
		AdditionalPeople:      additionalPeople,
		AdditionalPeoplePrice: tent.AdditionalPeoplePrice,
		Kids:                  kids,
		KidsPrice:             kidsPrice,
		Total:                 total.Round(2),
	}
}

func PriceProduct(product domain.Product, quantity int) domain.ReserveProduct {
	unit := domain.UnitPrice(product.Price, product.CustomPrices, nil, quantity)

	return domain.ReserveProduct{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     unit,
		Quantity:  quantity,
		Total:     unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}
}

func PriceExperience(experience domain.Experience, day time.Time, quantity int) domain.ReserveExperience {
	d := domain.Day(day)
	unit := domain.UnitPrice(experience.Price, experience.CustomPrices, &d, quantity)

	return domain.ReserveExperience{
		ExperienceID: experience.ID,
		Name:         experience.Name,
		Price:        unit,
		Day:          d,
		Quantity:     quantity,
		Total:        unit.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}
}

// Totals returns gross and net import. net = gross * (1 - discount/100),
// rounded to cents and never negative.
func Totals(lines []decimal.Decimal, discount decimal.Decimal) (gross, net decimal.Decimal) {
	gross = decimal.Zero
	for _, l := range lines {
		gross = gross.Add(l)
	}

	net = gross.Mul(hundred.Sub(discount)).Div(hundred).Round(2)
	if net.IsNegative() {
		net = decimal.Zero
	}
	if net.GreaterThan(gross) {
		net = gross
	}

	return gross, net
}
