package dao

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DiscountCode struct {
	ID          uint            `gorm:"primaryKey"`
	Code        string          `gorm:"unique;not null"`
	Discount    decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	ExpiredDate *time.Time
	Stock       *int   // nil means unlimited
	Status      string `gorm:"not null;default:ACTIVE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Promotion struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"not null"`
	Description string
	Discount    decimal.Decimal `gorm:"type:numeric(5,2);not null"`
	ExpiredDate *time.Time
	Stock       *int
	Status      string `gorm:"not null;default:ACTIVE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DiscountDAO struct {
	db *gorm.DB
}

func NewDiscountDAO(db *gorm.DB) *DiscountDAO {
	return &DiscountDAO{
		db: db,
	}
}

func (d *DiscountDAO) InsertCode(ctx context.Context, code DiscountCode) (DiscountCode, error) {
	if err := d.db.WithContext(ctx).Create(&code).Error; err != nil {
		return DiscountCode{}, mapError(err)
	}

	return code, nil
}

func (d *DiscountDAO) InsertPromotion(ctx context.Context, promotion Promotion) (Promotion, error) {
	if err := d.db.WithContext(ctx).Create(&promotion).Error; err != nil {
		return Promotion{}, mapError(err)
	}

	return promotion, nil
}

func (d *DiscountDAO) FindCodeByCode(ctx context.Context, code string) (DiscountCode, error) {
	var found DiscountCode

	if err := d.db.WithContext(ctx).First(&found, "code = ?", code).Error; err != nil {
		return DiscountCode{}, mapError(err)
	}

	return found, nil
}

func (d *DiscountDAO) FindPromotionByID(ctx context.Context, id uint) (Promotion, error) {
	var found Promotion

	if err := d.db.WithContext(ctx).First(&found, id).Error; err != nil {
		return Promotion{}, mapError(err)
	}

	return found, nil
}

func (d *DiscountDAO) FindCodes(ctx context.Context) ([]DiscountCode, error) {
	var codes []DiscountCode

	if err := d.db.WithContext(ctx).Order("id").Find(&codes).Error; err != nil {
		return nil, mapError(err)
	}

	return codes, nil
}

func (d *DiscountDAO) FindPromotions(ctx context.Context, status string) ([]Promotion, error) {
	var promotions []Promotion

	if err := withStatus(d.db.WithContext(ctx), status).Order("id").Find(&promotions).Error; err != nil {
		return nil, mapError(err)
	}

	return promotions, nil
}

func (d *DiscountDAO) UpdateCodeStatus(ctx context.Context, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(&DiscountCode{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
