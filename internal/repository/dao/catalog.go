package dao

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Tent struct {
	ID                    uint            `gorm:"primaryKey"`
	Name                  string          `gorm:"not null"`
	Description           string
	Price                 decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CustomPrices          datatypes.JSON
	QtyPeople             int             `gorm:"not null;default:0"`
	MaxPax                int             `gorm:"not null;default:0"`
	MaxKids               int             `gorm:"not null;default:0"`
	MaxAdditionalPeople   int             `gorm:"not null;default:0"`
	AdditionalPeoplePrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	KidsBundlePrice       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Status                string          `gorm:"not null;default:ACTIVE;index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Product struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"not null"`
	Description  string
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CustomPrices datatypes.JSON
	Stock        *int            // nil means unlimited
	Status       string          `gorm:"not null;default:ACTIVE;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Experience struct {
	ID           uint            `gorm:"primaryKey"`
	Name         string          `gorm:"not null"`
	Description  string
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CustomPrices datatypes.JSON
	Duration     int             `gorm:"not null;default:0"` // minutes
	LimitAge     int             `gorm:"not null;default:0"`
	QtyPeople    int             `gorm:"not null;default:0"`
	Status       string          `gorm:"not null;default:ACTIVE;index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CatalogDAO struct {
	db *gorm.DB
}

func NewCatalogDAO(db *gorm.DB) *CatalogDAO {
	return &CatalogDAO{
		db: db,
	}
}

func (d *CatalogDAO) InsertTent(ctx context.Context, tent Tent) (Tent, error) {
	if err := d.db.WithContext(ctx).Create(&tent).Error; err != nil {
		return Tent{}, mapError(err)
	}

	return tent, nil
}

func (d *CatalogDAO) InsertProduct(ctx context.Context, product Product) (Product, error) {
	if err := d.db.WithContext(ctx).Create(&product).Error; err != nil {
		return Product{}, mapError(err)
	}

	return product, nil
}

func (d *CatalogDAO) InsertExperience(ctx context.Context, experience Experience) (Experience, error) {
	if err := d.db.WithContext(ctx).Create(&experience).Error; err != nil {
		return Experience{}, mapError(err)
	}

	return experience, nil
}

// FindTents lists tents ordered by id. An empty status lists all of them.
func (d *CatalogDAO) FindTents(ctx context.Context, status string) ([]Tent, error) {
	var tents []Tent

	if err := withStatus(d.db.WithContext(ctx), status).Order("id").Find(&tents).Error; err != nil {
		return nil, mapError(err)
	}

	return tents, nil
}

func (d *CatalogDAO) FindProducts(ctx context.Context, status string) ([]Product, error) {
	var products []Product

	if err := withStatus(d.db.WithContext(ctx), status).Order("id").Find(&products).Error; err != nil {
		return nil, mapError(err)
	}

	return products, nil
}

func (d *CatalogDAO) FindExperiences(ctx context.Context, status string) ([]Experience, error) {
	var experiences []Experience

	if err := withStatus(d.db.WithContext(ctx), status).Order("id").Find(&experiences).Error; err != nil {
		return nil, mapError(err)
	}

	return experiences, nil
}

func (d *CatalogDAO) FindTentByID(ctx context.Context, id uint) (Tent, error) {
	var tent Tent

	if err := d.db.WithContext(ctx).First(&tent, id).Error; err != nil {
		return Tent{}, mapError(err)
	}

	return tent, nil
}

func (d *CatalogDAO) FindProductByID(ctx context.Context, id uint) (Product, error) {
	var product Product

	if err := d.db.WithContext(ctx).First(&product, id).Error; err != nil {
		return Product{}, mapError(err)
	}

	return product, nil
}

func (d *CatalogDAO) FindExperienceByID(ctx context.Context, id uint) (Experience, error) {
	var experience Experience

	if err := d.db.WithContext(ctx).First(&experience, id).Error; err != nil {
		return Experience{}, mapError(err)
	}

	return experience, nil
}

func (d *CatalogDAO) UpdateTentStatus(ctx context.Context, id uint, status string) error {
	return d.updateStatus(ctx, &Tent{}, id, status)
}

func (d *CatalogDAO) UpdateProductStatus(ctx context.Context, id uint, status string) error {
	return d.updateStatus(ctx, &Product{}, id, status)
}

func (d *CatalogDAO) UpdateExperienceStatus(ctx context.Context, id uint, status string) error {
	return d.updateStatus(ctx, &Experience{}, id, status)
}

func (d *CatalogDAO) updateStatus(ctx context.Context, model any, id uint, status string) error {
	result := d.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func withStatus(db *gorm.DB, status string) *gorm.DB {
	if status == "" {
		return db
	}

	return db.Where("status = ?", status)
}
