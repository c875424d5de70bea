package repository

import (
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository/dao"
)

// notFound turns the dao sentinel into a typed domain error naming the entity.
func notFound(err error, entity string, refs ...any) error {
	if errors.Is(err, dao.ErrRecordNotFound) {
		return domain.NotFound(entity, refs...)
	}
	if errors.Is(err, dao.ErrLockConflict) {
		return domain.Conflict(entity, "concurrent update, retry", refs...)
	}

	return err
}

func encodeCustomPrices(prices []domain.CustomPrice) (datatypes.JSON, error) {
	if len(prices) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(prices)
	if err != nil {
		return nil, err
	}

	return datatypes.JSON(raw), nil
}

// decodeCustomPrices never fails the read path; a broken schedule prices at base.
func decodeCustomPrices(raw datatypes.JSON) []domain.CustomPrice {
	if len(raw) == 0 {
		return nil
	}
	var prices []domain.CustomPrice
	if err := json.Unmarshal(raw, &prices); err != nil {
		zap.L().Warn("ignoring malformed custom price schedule", zap.Error(err))
		return nil
	}

	return prices
}

func tentDaoToDomain(t dao.Tent) domain.Tent {
	return domain.Tent{
		ID:                    t.ID,
		Name:                  t.Name,
		Description:           t.Description,
		Price:                 t.Price,
		CustomPrices:          decodeCustomPrices(t.CustomPrices),
		QtyPeople:             t.QtyPeople,
		MaxPax:                t.MaxPax,
		MaxKids:               t.MaxKids,
		MaxAdditionalPeople:   t.MaxAdditionalPeople,
		AdditionalPeoplePrice: t.AdditionalPeoplePrice,
		KidsBundlePrice:       t.KidsBundlePrice,
		Status:                domain.Status(t.Status),
		CreatedAt:             t.CreatedAt,
		UpdatedAt:             t.UpdatedAt,
	}
}

func tentDomainToDao(t domain.Tent) (dao.Tent, error) {
	prices, err := encodeCustomPrices(t.CustomPrices)
	if err != nil {
		return dao.Tent{}, err
	}

	return dao.Tent{
		ID:                    t.ID,
		Name:                  t.Name,
		Description:           t.Description,
		Price:                 t.Price,
		CustomPrices:          prices,
		QtyPeople:             t.QtyPeople,
		MaxPax:                t.MaxPax,
		MaxKids:               t.MaxKids,
		MaxAdditionalPeople:   t.MaxAdditionalPeople,
		AdditionalPeoplePrice: t.AdditionalPeoplePrice,
		KidsBundlePrice:       t.KidsBundlePrice,
		Status:                string(t.Status),
	}, nil
}

func productDaoToDomain(p dao.Product) domain.Product {
	return domain.Product{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CustomPrices: decodeCustomPrices(p.CustomPrices),
		Stock:        p.Stock,
		Status:       domain.Status(p.Status),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func productDomainToDao(p domain.Product) (dao.Product, error) {
	prices, err := encodeCustomPrices(p.CustomPrices)
	if err != nil {
		return dao.Product{}, err
	}

	return dao.Product{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		CustomPrices: prices,
		Stock:        p.Stock,
		Status:       string(p.Status),
	}, nil
}

func experienceDaoToDomain(e dao.Experience) domain.Experience {
	return domain.Experience{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Price:        e.Price,
		CustomPrices: decodeCustomPrices(e.CustomPrices),
		Duration:     e.Duration,
		LimitAge:     e.LimitAge,
		QtyPeople:    e.QtyPeople,
		Status:       domain.Status(e.Status),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func experienceDomainToDao(e domain.Experience) (dao.Experience, error) {
	prices, err := encodeCustomPrices(e.CustomPrices)
	if err != nil {
		return dao.Experience{}, err
	}

	return dao.Experience{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Price:        e.Price,
		CustomPrices: prices,
		Duration:     e.Duration,
		LimitAge:     e.LimitAge,
		QtyPeople:    e.QtyPeople,
		Status:       string(e.Status),
	}, nil
}

func discountCodeDaoToDomain(c dao.DiscountCode) domain.DiscountCode {
	return domain.DiscountCode{
		ID:          c.ID,
		Code:        c.Code,
		Discount:    c.Discount,
		ExpiredDate: c.ExpiredDate,
		Stock:       c.Stock,
		Status:      domain.Status(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func promotionDaoToDomain(p dao.Promotion) domain.Promotion {
	return domain.Promotion{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Discount:    p.Discount,
		ExpiredDate: p.ExpiredDate,
		Stock:       p.Stock,
		Status:      domain.Status(p.Status),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func reserveDaoToDomain(r dao.Reserve) domain.Reserve {
	out := domain.Reserve{
		ID:             r.ID,
		ExternalID:     r.ExternalID,
		UserID:         r.UserID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		DateSale:       r.DateSale,
		GrossImport:    r.GrossImport,
		Discount:       r.Discount,
		NetImport:      r.NetImport,
		PaymentStatus:  domain.PaymentStatus(r.PaymentStatus),
		Status:         domain.ReserveStatus(r.Status),
		CanceledReason: r.CanceledReason,
		DiscountCodeID: r.DiscountCodeID,
		PromotionID:    r.PromotionID,
		Tents:          make([]domain.ReserveTent, 0, len(r.Tents)),
		Products:       make([]domain.ReserveProduct, 0, len(r.Products)),
		Experiences:    make([]domain.ReserveExperience, 0, len(r.Experiences)),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	for _, t := range r.Tents {
		out.Tents = append(out.Tents, reserveTentDaoToDomain(t))
	}
	for _, p := range r.Products {
		out.Products = append(out.Products, reserveProductDaoToDomain(p))
	}
	for _, e := range r.Experiences {
		out.Experiences = append(out.Experiences, reserveExperienceDaoToDomain(e))
	}

	return out
}

func reserveDomainToDao(r domain.Reserve) dao.Reserve {
	out := dao.Reserve{
		ID:             r.ID,
		ExternalID:     r.ExternalID,
		UserID:         r.UserID,
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		DateSale:       r.DateSale,
		GrossImport:    r.GrossImport,
		Discount:       r.Discount,
		NetImport:      r.NetImport,
		PaymentStatus:  string(r.PaymentStatus),
		Status:         string(r.Status),
		CanceledReason: r.CanceledReason,
		DiscountCodeID: r.DiscountCodeID,
		PromotionID:    r.PromotionID,
	}
	out.Tents, out.Products, out.Experiences = linesDomainToDao(r)

	return out
}

func linesDomainToDao(r domain.Reserve) ([]dao.ReserveTent, []dao.ReserveProduct, []dao.ReserveExperience) {
	tents := make([]dao.ReserveTent, 0, len(r.Tents))
	for _, t := range r.Tents {
		tents = append(tents, dao.ReserveTent{
			ID:                    t.ID,
			ReserveID:             r.ID,
			TentID:                t.TentID,
			Name:                  t.Name,
			Price:                 t.Price,
			DateFrom:              domain.Day(t.DateFrom),
			DateTo:                domain.Day(t.DateTo),
			Nights:                t.Nights,
			AdditionalPeople:      t.AdditionalPeople,
			AdditionalPeoplePrice: t.AdditionalPeoplePrice,
			Kids:                  t.Kids,
			KidsPrice:             t.KidsPrice,
			Total:                 t.Total,
			Confirmed:             t.Confirmed,
		})
	}
	products := make([]dao.ReserveProduct, 0, len(r.Products))
	for _, p := range r.Products {
		products = append(products, reserveProductDomainToDao(p, r.ID))
	}
	experiences := make([]dao.ReserveExperience, 0, len(r.Experiences))
	for _, e := range r.Experiences {
		experiences = append(experiences, reserveExperienceDomainToDao(e, r.ID))
	}

	return tents, products, experiences
}

func reserveProductDomainToDao(p domain.ReserveProduct, reserveID uint) dao.ReserveProduct {
	return dao.ReserveProduct{
		ID:        p.ID,
		ReserveID: reserveID,
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  p.Quantity,
		Total:     p.Total,
		Confirmed: p.Confirmed,
	}
}

func reserveExperienceDomainToDao(e domain.ReserveExperience, reserveID uint) dao.ReserveExperience {
	return dao.ReserveExperience{
		ID:           e.ID,
		ReserveID:    reserveID,
		ExperienceID: e.ExperienceID,
		Name:         e.Name,
		Price:        e.Price,
		Day:          domain.Day(e.Day),
		Quantity:     e.Quantity,
		Total:        e.Total,
		Confirmed:    e.Confirmed,
	}
}

func reserveTentDaoToDomain(t dao.ReserveTent) domain.ReserveTent {
	return domain.ReserveTent{
		ID:                    t.ID,
		ReserveID:             t.ReserveID,
		TentID:                t.TentID,
		Name:                  t.Name,
		Price:                 t.Price,
		DateFrom:              domain.Day(t.DateFrom),
		DateTo:                domain.Day(t.DateTo),
		Nights:                t.Nights,
		AdditionalPeople:      t.AdditionalPeople,
		AdditionalPeoplePrice: t.AdditionalPeoplePrice,
		Kids:                  t.Kids,
		KidsPrice:             t.KidsPrice,
		Total:                 t.Total,
		Confirmed:             t.Confirmed,
	}
}

func reserveProductDaoToDomain(p dao.ReserveProduct) domain.ReserveProduct {
	return domain.ReserveProduct{
		ID:        p.ID,
		ReserveID: p.ReserveID,
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  p.Quantity,
		Total:     p.Total,
		Confirmed: p.Confirmed,
	}
}

func reserveExperienceDaoToDomain(e dao.ReserveExperience) domain.ReserveExperience {
	return domain.ReserveExperience{
		ID:           e.ID,
		ReserveID:    e.ReserveID,
		ExperienceID: e.ExperienceID,
		Name:         e.Name,
		Price:        e.Price,
		Day:          domain.Day(e.Day),
		Quantity:     e.Quantity,
		Total:        e.Total,
		Confirmed:    e.Confirmed,
	}
}

func userDaoToDomain(u dao.User) domain.User {
	return domain.User{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
