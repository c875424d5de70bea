package dao

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Reserve struct {
	ID             uint   `gorm:"primaryKey"`
	ExternalID     string `gorm:"uniqueIndex;not null"`
	UserID         *uint  `gorm:"index"`
	Name           string `gorm:"not null"`
	Email          string `gorm:"not null"`
	Phone          string
	DateSale       time.Time       `gorm:"not null;index"`
	GrossImport    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Discount       decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	NetImport      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	PaymentStatus  string          `gorm:"not null;default:UNPAID"`
	Status         string          `gorm:"not null;index"`
	CanceledReason *string
	DiscountCodeID *uint
	PromotionID    *uint

	Tents       []ReserveTent       `gorm:"foreignKey:ReserveID;constraint:OnDelete:CASCADE"`
	Products    []ReserveProduct    `gorm:"foreignKey:ReserveID;constraint:OnDelete:CASCADE"`
	Experiences []ReserveExperience `gorm:"foreignKey:ReserveID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ReserveTent struct {
	ID                    uint            `gorm:"primaryKey"`
	ReserveID             uint            `gorm:"not null;index"`
	TentID                uint            `gorm:"not null;index:idx_reserve_tents_range,priority:1"`
	Name                  string          `gorm:"not null"`
	Price                 decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DateFrom              time.Time       `gorm:"type:date;not null;index:idx_reserve_tents_range,priority:2"`
	DateTo                time.Time       `gorm:"type:date;not null;index:idx_reserve_tents_range,priority:3"`
	Nights                int             `gorm:"not null"`
	AdditionalPeople      int             `gorm:"not null;default:0"`
	AdditionalPeoplePrice decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Kids                  int             `gorm:"not null;default:0"`
	KidsPrice             decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	Total                 decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Confirmed             bool            `gorm:"not null;default:false"`
}

type ReserveProduct struct {
	ID        uint            `gorm:"primaryKey"`
	ReserveID uint            `gorm:"not null;index"`
	ProductID uint            `gorm:"not null;index"`
	Name      string          `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity  int             `gorm:"not null"`
	Total     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Confirmed bool            `gorm:"not null;default:false"`
}

type ReserveExperience struct {
	ID           uint            `gorm:"primaryKey"`
	ReserveID    uint            `gorm:"not null;index"`
	ExperienceID uint            `gorm:"not null;index"`
	Name         string          `gorm:"not null"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Day          time.Time       `gorm:"type:date;not null"`
	Quantity     int             `gorm:"not null"`
	Total        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Confirmed    bool            `gorm:"not null;default:false"`
}

// ReserveDAO owns every write of the booking flow. Inside Transaction the
// receiver is bound to the open transaction, so row locks taken by the Lock*
// methods are held until commit or rollback.
type ReserveDAO struct {
	db *gorm.DB
}

func NewReserveDAO(db *gorm.DB) *ReserveDAO {
	return &ReserveDAO{
		db: db,
	}
}

func (d *ReserveDAO) Transaction(ctx context.Context, fn func(tx *ReserveDAO) error) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ReserveDAO{db: tx})
	})

	return mapError(err)
}

func (d *ReserveDAO) forUpdate(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// LockTents locks the tent rows in id order so that competing bookings
// queue up on the same rows instead of deadlocking.
func (d *ReserveDAO) LockTents(ctx context.Context, ids []uint) ([]Tent, error) {
	var tents []Tent

	if err := d.forUpdate(ctx).Where("id IN ?", ids).Order("id").Find(&tents).Error; err != nil {
		return nil, mapError(err)
	}

	return tents, nil
}

func (d *ReserveDAO) LockProducts(ctx context.Context, ids []uint) ([]Product, error) {
	var products []Product

	if err := d.forUpdate(ctx).Where("id IN ?", ids).Order("id").Find(&products).Error; err != nil {
		return nil, mapError(err)
	}

	return products, nil
}

func (d *ReserveDAO) FindExperiences(ctx context.Context, ids []uint) ([]Experience, error) {
	var experiences []Experience

	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&experiences).Error; err != nil {
		return nil, mapError(err)
	}

	return experiences, nil
}

func (d *ReserveDAO) LockDiscountCode(ctx context.Context, code string) (DiscountCode, error) {
	var found DiscountCode

	if err := d.forUpdate(ctx).First(&found, "code = ?", code).Error; err != nil {
		return DiscountCode{}, mapError(err)
	}

	return found, nil
}

func (d *ReserveDAO) LockPromotion(ctx context.Context, id uint) (Promotion, error) {
	var found Promotion

	if err := d.forUpdate(ctx).First(&found, id).Error; err != nil {
		return Promotion{}, mapError(err)
	}

	return found, nil
}

func (d *ReserveDAO) UpdateDiscountCodeStock(ctx context.Context, id uint, stock *int) error {
	return d.updateStock(ctx, &DiscountCode{}, id, stock)
}

func (d *ReserveDAO) UpdatePromotionStock(ctx context.Context, id uint, stock *int) error {
	return d.updateStock(ctx, &Promotion{}, id, stock)
}

func (d *ReserveDAO) UpdateProductStock(ctx context.Context, id uint, stock *int) error {
	return d.updateStock(ctx, &Product{}, id, stock)
}

func (d *ReserveDAO) updateStock(ctx context.Context, model any, id uint, stock *int) error {
	result := d.db.WithContext(ctx).Model(model).Where("id = ?", id).Update("stock", stock)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// FindOverlappingTentLines returns the tent lines that hold any of tentIDs on
// at least one day of [from, to]. Bounds are inclusive. An empty tentIDs
// matches every tent; a zero excludeReserveID excludes nothing.
func (d *ReserveDAO) FindOverlappingTentLines(ctx context.Context, tentIDs []uint, from, to time.Time, statuses []string, excludeReserveID uint) ([]ReserveTent, error) {
	q := d.db.WithContext(ctx).
		Select("reserve_tents.*").
		Joins("JOIN reserves ON reserves.id = reserve_tents.reserve_id").
		Where("reserve_tents.date_from <= ? AND reserve_tents.date_to >= ?", to, from).
		Where("reserves.status IN ?", statuses)
	if len(tentIDs) > 0 {
		q = q.Where("reserve_tents.tent_id IN ?", tentIDs)
	}
	if excludeReserveID != 0 {
		q = q.Where("reserves.id <> ?", excludeReserveID)
	}

	var lines []ReserveTent
	if err := q.Order("reserve_tents.tent_id, reserve_tents.date_from").Find(&lines).Error; err != nil {
		return nil, mapError(err)
	}

	return lines, nil
}

// Insert creates the reserve together with all of its lines.
func (d *ReserveDAO) Insert(ctx context.Context, reserve Reserve) (Reserve, error) {
	if err := d.db.WithContext(ctx).Create(&reserve).Error; err != nil {
		return Reserve{}, mapError(err)
	}

	return reserve, nil
}

func (d *ReserveDAO) UpdateExternalID(ctx context.Context, id uint, externalID string) error {
	result := d.db.WithContext(ctx).Model(&Reserve{}).Where("id = ?", id).Update("external_id", externalID)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (d *ReserveDAO) FindByID(ctx context.Context, id uint) (Reserve, error) {
	return d.findByID(d.db.WithContext(ctx), id)
}

// LockByID locks the reserve row; line rows are read in the same transaction.
func (d *ReserveDAO) LockByID(ctx context.Context, id uint) (Reserve, error) {
	return d.findByID(d.forUpdate(ctx), id)
}

func (d *ReserveDAO) findByID(q *gorm.DB, id uint) (Reserve, error) {
	var reserve Reserve

	err := q.Preload("Tents", orderByID).
		Preload("Products", orderByID).
		Preload("Experiences", orderByID).
		First(&reserve, id).Error
	if err != nil {
		return Reserve{}, mapError(err)
	}

	return reserve, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

// UpdateHeader persists the mutable reserve columns. Lines are left untouched.
func (d *ReserveDAO) UpdateHeader(ctx context.Context, reserve Reserve) error {
	result := d.db.WithContext(ctx).Model(&Reserve{ID: reserve.ID}).
		Select("name", "email", "phone", "gross_import", "discount", "net_import", "payment_status", "status", "canceled_reason").
		Updates(&reserve)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (d *ReserveDAO) DeleteLines(ctx context.Context, reserveID uint) error {
	db := d.db.WithContext(ctx)
	for _, model := range []any{&ReserveTent{}, &ReserveProduct{}, &ReserveExperience{}} {
		if err := db.Where("reserve_id = ?", reserveID).Delete(model).Error; err != nil {
			return mapError(err)
		}
	}

	return nil
}

func (d *ReserveDAO) InsertLines(ctx context.Context, tents []ReserveTent, products []ReserveProduct, experiences []ReserveExperience) error {
	db := d.db.WithContext(ctx)
	if len(tents) > 0 {
		if err := db.Create(&tents).Error; err != nil {
			return mapError(err)
		}
	}
	if len(products) > 0 {
		if err := db.Create(&products).Error; err != nil {
			return mapError(err)
		}
	}
	if len(experiences) > 0 {
		if err := db.Create(&experiences).Error; err != nil {
			return mapError(err)
		}
	}

	return nil
}

func (d *ReserveDAO) InsertProductLine(ctx context.Context, line ReserveProduct) (ReserveProduct, error) {
	if err := d.db.WithContext(ctx).Create(&line).Error; err != nil {
		return ReserveProduct{}, mapError(err)
	}

	return line, nil
}

func (d *ReserveDAO) InsertExperienceLine(ctx context.Context, line ReserveExperience) (ReserveExperience, error) {
	if err := d.db.WithContext(ctx).Create(&line).Error; err != nil {
		return ReserveExperience{}, mapError(err)
	}

	return line, nil
}

func (d *ReserveDAO) DeleteProductLine(ctx context.Context, reserveID, lineID uint) error {
	return d.deleteLine(ctx, &ReserveProduct{}, reserveID, lineID)
}

func (d *ReserveDAO) DeleteExperienceLine(ctx context.Context, reserveID, lineID uint) error {
	return d.deleteLine(ctx, &ReserveExperience{}, reserveID, lineID)
}

func (d *ReserveDAO) deleteLine(ctx context.Context, model any, reserveID, lineID uint) error {
	result := d.db.WithContext(ctx).Where("id = ? AND reserve_id = ?", lineID, reserveID).Delete(model)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

func (d *ReserveDAO) ConfirmTentLine(ctx context.Context, reserveID, lineID uint) error {
	return d.confirmLine(ctx, &ReserveTent{}, reserveID, lineID)
}

func (d *ReserveDAO) ConfirmProductLine(ctx context.Context, reserveID, lineID uint) error {
	return d.confirmLine(ctx, &ReserveProduct{}, reserveID, lineID)
}

func (d *ReserveDAO) ConfirmExperienceLine(ctx context.Context, reserveID, lineID uint) error {
	return d.confirmLine(ctx, &ReserveExperience{}, reserveID, lineID)
}

func (d *ReserveDAO) confirmLine(ctx context.Context, model any, reserveID, lineID uint) error {
	result := d.db.WithContext(ctx).Model(model).
		Where("id = ? AND reserve_id = ?", lineID, reserveID).
		Update("confirmed", true)
	if result.Error != nil {
		return mapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}

// ConfirmAllLines flips every line of the reserve in one statement per table.
func (d *ReserveDAO) ConfirmAllLines(ctx context.Context, reserveID uint) error {
	db := d.db.WithContext(ctx)
	for _, model := range []any{&ReserveTent{}, &ReserveProduct{}, &ReserveExperience{}} {
		if err := db.Model(model).Where("reserve_id = ?", reserveID).Update("confirmed", true).Error; err != nil {
			return mapError(err)
		}
	}

	return nil
}

func (d *ReserveDAO) List(ctx context.Context, status string, offset, limit int) ([]Reserve, int64, error) {
	var (
		reserves []Reserve
		total    int64
	)

	if err := withStatus(d.db.WithContext(ctx).Model(&Reserve{}), status).Count(&total).Error; err != nil {
		return nil, 0, mapError(err)
	}

	err := withStatus(d.db.WithContext(ctx), status).
		Preload("Tents", orderByID).
		Preload("Products", orderByID).
		Preload("Experiences", orderByID).
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&reserves).Error
	if err != nil {
		return nil, 0, mapError(err)
	}

	return reserves, total, nil
}

// FindByStatusSoldBetween lists reserves in status sold within [from, to).
func (d *ReserveDAO) FindByStatusSoldBetween(ctx context.Context, status string, from, to time.Time) ([]Reserve, error) {
	var reserves []Reserve

	err := d.db.WithContext(ctx).
		Where("status = ? AND date_sale >= ? AND date_sale < ?", status, from, to).
		Order("date_sale").
		Find(&reserves).Error
	if err != nil {
		return nil, mapError(err)
	}

	return reserves, nil
}
