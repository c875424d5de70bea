package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository/dao"
)

// ReserveTx is the unit of work of the booking flow. Every method runs on the
// same transaction; Lock* methods hold row locks until it ends.
type ReserveTx interface {
	LockTents(ctx context.Context, ids []uint) ([]domain.Tent, error)
	LockProducts(ctx context.Context, ids []uint) ([]domain.Product, error)
	FindExperiences(ctx context.Context, ids []uint) ([]domain.Experience, error)
	LockDiscountCode(ctx context.Context, code string) (domain.DiscountCode, error)
	LockPromotion(ctx context.Context, id uint) (domain.Promotion, error)
	UpdateDiscountCodeStock(ctx context.Context, id uint, stock *int) error
	UpdatePromotionStock(ctx context.Context, id uint, stock *int) error
	UpdateProductStock(ctx context.Context, id uint, stock *int) error
	FindOverlappingTentLines(ctx context.Context, tentIDs []uint, r domain.DateRange, excludeReserveID uint) ([]domain.ReserveTent, error)
	CreateReserve(ctx context.Context, reserve domain.Reserve) (domain.Reserve, error)
	SetExternalID(ctx context.Context, id uint, externalID string) error
	LockReserve(ctx context.Context, id uint) (domain.Reserve, error)
	UpdateReserveHeader(ctx context.Context, reserve domain.Reserve) error
	ReplaceLines(ctx context.Context, reserve domain.Reserve) (domain.Reserve, error)
	AddProductLine(ctx context.Context, line domain.ReserveProduct) (domain.ReserveProduct, error)
	AddExperienceLine(ctx context.Context, line domain.ReserveExperience) (domain.ReserveExperience, error)
	DeleteProductLine(ctx context.Context, reserveID, lineID uint) error
	DeleteExperienceLine(ctx context.Context, reserveID, lineID uint) error
	ConfirmLine(ctx context.Context, kind domain.EntityType, reserveID, lineID uint) error
	ConfirmAllLines(ctx context.Context, reserveID uint) error
}

type ReserveRepository struct {
	dao *dao.ReserveDAO
}

func NewReserveRepository(dao *dao.ReserveDAO) *ReserveRepository {
	return &ReserveRepository{
		dao: dao,
	}
}

// Transaction runs fn on a repository bound to one database transaction. A
// nil return commits, anything else rolls back.
func (r *ReserveRepository) Transaction(ctx context.Context, fn func(tx ReserveTx) error) error {
	err := r.dao.Transaction(ctx, func(tx *dao.ReserveDAO) error {
		return fn(&ReserveRepository{dao: tx})
	})
	if err != nil {
		return fmt.Errorf("r.dao.Transaction -> %w", notFound(err, domain.EntityReserve))
	}

	return nil
}

func blockingStatuses() []string {
	out := make([]string, 0, len(domain.BlockingStatuses))
	for _, s := range domain.BlockingStatuses {
		out = append(out, string(s))
	}

	return out
}

func (r *ReserveRepository) LockTents(ctx context.Context, ids []uint) ([]domain.Tent, error) {
	found, err := r.dao.LockTents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.LockTents -> %w", notFound(err, domain.EntityTent, ids))
	}

	tents := make([]domain.Tent, 0, len(found))
	for _, t := range found {
		tents = append(tents, tentDaoToDomain(t))
	}

	return tents, nil
}

func (r *ReserveRepository) LockProducts(ctx context.Context, ids []uint) ([]domain.Product, error) {
	found, err := r.dao.LockProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.LockProducts -> %w", notFound(err, domain.EntityProduct, ids))
	}

	products := make([]domain.Product, 0, len(found))
	for _, p := range found {
		products = append(products, productDaoToDomain(p))
	}

	return products, nil
}

func (r *ReserveRepository) FindExperiences(ctx context.Context, ids []uint) ([]domain.Experience, error) {
	found, err := r.dao.FindExperiences(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindExperiences -> %w", err)
	}

	experiences := make([]domain.Experience, 0, len(found))
	for _, e := range found {
		experiences = append(experiences, experienceDaoToDomain(e))
	}

	return experiences, nil
}

func (r *ReserveRepository) LockDiscountCode(ctx context.Context, code string) (domain.DiscountCode, error) {
	found, err := r.dao.LockDiscountCode(ctx, code)
	if err != nil {
		return domain.DiscountCode{}, fmt.Errorf("r.dao.LockDiscountCode -> %w", notFound(err, domain.EntityDiscountCode, code))
	}

	return discountCodeDaoToDomain(found), nil
}

func (r *ReserveRepository) LockPromotion(ctx context.Context, id uint) (domain.Promotion, error) {
	found, err := r.dao.LockPromotion(ctx, id)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.LockPromotion -> %w", notFound(err, domain.EntityPromotion, id))
	}

	return promotionDaoToDomain(found), nil
}

func (r *ReserveRepository) UpdateDiscountCodeStock(ctx context.Context, id uint, stock *int) error {
	if err := r.dao.UpdateDiscountCodeStock(ctx, id, stock); err != nil {
		return fmt.Errorf("r.dao.UpdateDiscountCodeStock -> %w", notFound(err, domain.EntityDiscountCode, id))
	}

	return nil
}

func (r *ReserveRepository) UpdatePromotionStock(ctx context.Context, id uint, stock *int) error {
	if err := r.dao.UpdatePromotionStock(ctx, id, stock); err != nil {
		return fmt.Errorf("r.dao.UpdatePromotionStock -> %w", notFound(err, domain.EntityPromotion, id))
	}

	return nil
}

func (r *ReserveRepository) UpdateProductStock(ctx context.Context, id uint, stock *int) error {
	if err := r.dao.UpdateProductStock(ctx, id, stock); err != nil {
		return fmt.Errorf("r.dao.UpdateProductStock -> %w", notFound(err, domain.EntityProduct, id))
	}

	return nil
}

// FindOverlappingTentLines lists the tent lines of blocking reserves that
// share at least one day with dr. Nil tentIDs covers every tent.
func (r *ReserveRepository) FindOverlappingTentLines(ctx context.Context, tentIDs []uint, dr domain.DateRange, excludeReserveID uint) ([]domain.ReserveTent, error) {
	found, err := r.dao.FindOverlappingTentLines(ctx, tentIDs, dr.From, dr.To, blockingStatuses(), excludeReserveID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindOverlappingTentLines -> %w", err)
	}

	lines := make([]domain.ReserveTent, 0, len(found))
	for _, l := range found {
		lines = append(lines, reserveTentDaoToDomain(l))
	}

	return lines, nil
}

func (r *ReserveRepository) CreateReserve(ctx context.Context, reserve domain.Reserve) (domain.Reserve, error) {
	created, err := r.dao.Insert(ctx, reserveDomainToDao(reserve))
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return reserveDaoToDomain(created), nil
}

func (r *ReserveRepository) SetExternalID(ctx context.Context, id uint, externalID string) error {
	if err := r.dao.UpdateExternalID(ctx, id, externalID); err != nil {
		return fmt.Errorf("r.dao.UpdateExternalID -> %w", notFound(err, domain.EntityReserve, id))
	}

	return nil
}

func (r *ReserveRepository) LockReserve(ctx context.Context, id uint) (domain.Reserve, error) {
	found, err := r.dao.LockByID(ctx, id)
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("r.dao.LockByID -> %w", notFound(err, domain.EntityReserve, id))
	}

	return reserveDaoToDomain(found), nil
}

func (r *ReserveRepository) UpdateReserveHeader(ctx context.Context, reserve domain.Reserve) error {
	if err := r.dao.UpdateHeader(ctx, reserveDomainToDao(reserve)); err != nil {
		return fmt.Errorf("r.dao.UpdateHeader -> %w", notFound(err, domain.EntityReserve, reserve.ID))
	}

	return nil
}

// ReplaceLines deletes every line of the reserve and inserts reserve's lines
// in their place. Line ids are reassigned.
func (r *ReserveRepository) ReplaceLines(ctx context.Context, reserve domain.Reserve) (domain.Reserve, error) {
	if err := r.dao.DeleteLines(ctx, reserve.ID); err != nil {
		return domain.Reserve{}, fmt.Errorf("r.dao.DeleteLines -> %w", err)
	}

	for i := range reserve.Tents {
		reserve.Tents[i].ID = 0
	}
	for i := range reserve.Products {
		reserve.Products[i].ID = 0
	}
	for i := range reserve.Experiences {
		reserve.Experiences[i].ID = 0
	}
	tents, products, experiences := linesDomainToDao(reserve)
	if err := r.dao.InsertLines(ctx, tents, products, experiences); err != nil {
		return domain.Reserve{}, fmt.Errorf("r.dao.InsertLines -> %w", err)
	}

	reloaded, err := r.dao.FindByID(ctx, reserve.ID)
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("r.dao.FindByID -> %w", notFound(err, domain.EntityReserve, reserve.ID))
	}

	return reserveDaoToDomain(reloaded), nil
}

func (r *ReserveRepository) AddProductLine(ctx context.Context, line domain.ReserveProduct) (domain.ReserveProduct, error) {
	created, err := r.dao.InsertProductLine(ctx, reserveProductDomainToDao(line, line.ReserveID))
	if err != nil {
		return domain.ReserveProduct{}, fmt.Errorf("r.dao.InsertProductLine -> %w", err)
	}

	return reserveProductDaoToDomain(created), nil
}

func (r *ReserveRepository) AddExperienceLine(ctx context.Context, line domain.ReserveExperience) (domain.ReserveExperience, error) {
	created, err := r.dao.InsertExperienceLine(ctx, reserveExperienceDomainToDao(line, line.ReserveID))
	if err != nil {
		return domain.ReserveExperience{}, fmt.Errorf("r.dao.InsertExperienceLine -> %w", err)
	}

	return reserveExperienceDaoToDomain(created), nil
}

func (r *ReserveRepository) DeleteProductLine(ctx context.Context, reserveID, lineID uint) error {
	if err := r.dao.DeleteProductLine(ctx, reserveID, lineID); err != nil {
		return fmt.Errorf("r.dao.DeleteProductLine -> %w", notFound(err, domain.EntityLineItem, lineID))
	}

	return nil
}

func (r *ReserveRepository) DeleteExperienceLine(ctx context.Context, reserveID, lineID uint) error {
	if err := r.dao.DeleteExperienceLine(ctx, reserveID, lineID); err != nil {
		return fmt.Errorf("r.dao.DeleteExperienceLine -> %w", notFound(err, domain.EntityLineItem, lineID))
	}

	return nil
}

func (r *ReserveRepository) ConfirmLine(ctx context.Context, kind domain.EntityType, reserveID, lineID uint) error {
	var err error
	switch kind {
	case domain.EntityTypeTent:
		err = r.dao.ConfirmTentLine(ctx, reserveID, lineID)
	case domain.EntityTypeProduct:
		err = r.dao.ConfirmProductLine(ctx, reserveID, lineID)
	case domain.EntityTypeExperience:
		err = r.dao.ConfirmExperienceLine(ctx, reserveID, lineID)
	default:
		return domain.BadRequest(domain.EntityLineItem, "unknown entity type", kind)
	}
	if err != nil {
		return fmt.Errorf("r.dao.ConfirmLine -> %w", notFound(err, domain.EntityLineItem, lineID))
	}

	return nil
}

func (r *ReserveRepository) ConfirmAllLines(ctx context.Context, reserveID uint) error {
	if err := r.dao.ConfirmAllLines(ctx, reserveID); err != nil {
		return fmt.Errorf("r.dao.ConfirmAllLines -> %w", err)
	}

	return nil
}

func (r *ReserveRepository) FindByID(ctx context.Context, id uint) (domain.Reserve, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("r.dao.FindByID -> %w", notFound(err, domain.EntityReserve, id))
	}

	return reserveDaoToDomain(found), nil
}

func (r *ReserveRepository) List(ctx context.Context, filter domain.ReserveFilter) ([]domain.Reserve, int64, error) {
	offset := (filter.Page - 1) * filter.Size
	found, total, err := r.dao.List(ctx, string(filter.Status), offset, filter.Size)
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	reserves := make([]domain.Reserve, 0, len(found))
	for _, f := range found {
		reserves = append(reserves, reserveDaoToDomain(f))
	}

	return reserves, total, nil
}

// ListCompleted lists COMPLETE reserves sold within [from, to).
func (r *ReserveRepository) ListCompleted(ctx context.Context, from, to time.Time) ([]domain.Reserve, error) {
	found, err := r.dao.FindByStatusSoldBetween(ctx, string(domain.ReserveComplete), from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByStatusSoldBetween -> %w", err)
	}

	reserves := make([]domain.Reserve, 0, len(found))
	for _, f := range found {
		reserves = append(reserves, reserveDaoToDomain(f))
	}

	return reserves, nil
}
