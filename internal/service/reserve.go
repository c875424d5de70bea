package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ReserveRepository interface {
	Transaction(ctx context.Context, fn func(tx repository.ReserveTx) error) error
	FindByID(ctx context.Context, id uint) (domain.Reserve, error)
	List(ctx context.Context, filter domain.ReserveFilter) ([]domain.Reserve, int64, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// Collaborators are the post-commit side effects shared by the reserve
// services. Any of them may be nil.
type Collaborators struct {
	Notifier      Notifier
	Billing       BillingRenderer
	Calendar      CalendarInvalidator
	NotifyTimeout func() time.Duration
}

func (c Collaborators) effects() sideEffects {
	return sideEffects{
		notifier: c.Notifier,
		billing:  c.Billing,
		calendar: c.Calendar,
		timeout:  c.NotifyTimeout,
	}
}

type ReserveService struct {
	repo    ReserveRepository
	users   UserRepository
	effects sideEffects
	now     func() time.Time
}

func NewReserveService(repo ReserveRepository, users UserRepository, c Collaborators, now func() time.Time) *ReserveService {
	if now == nil {
		now = time.Now
	}

	return &ReserveService{
		repo:    repo,
		users:   users,
		effects: c.effects(),
		now:     now,
	}
}

// CreateReserve books every requested line in one transaction. The requested
// tents and the discount row are locked before availability is checked again,
// so two bookings of the same tent for overlapping dates cannot both commit.
func (s *ReserveService) CreateReserve(ctx context.Context, requester domain.Requester, req domain.ReserveRequest) (domain.Reserve, error) {
	if req.IsEmpty() {
		return domain.Reserve{}, domain.BadRequest(domain.EntityReserve, "at least one line item is required")
	}
	if req.DiscountCode != "" && req.PromotionID != nil {
		return domain.Reserve{}, domain.BadRequest(domain.EntityReserve, "discount code and promotion are mutually exclusive")
	}

	reserve, err := s.contact(ctx, requester, req)
	if err != nil {
		return domain.Reserve{}, err
	}

	now := s.now()
	err = s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		o, err := lockOffer(ctx, tx, req, now)
		if err != nil {
			return err
		}

		lines, err := buildLines(ctx, tx, req, 0, nil)
		if err != nil {
			return err
		}

		reserve.ExternalID = domain.PlaceholderExternalID()
		reserve.DateSale = now.UTC()
		reserve.PaymentStatus = domain.PaymentUnpaid
		reserve.Status = domain.ReserveNotConfirmed
		reserve.Tents, reserve.Products, reserve.Experiences = lines.tents, lines.products, lines.experiences
		reserve.Discount = decimal.Zero
		if o != nil {
			reserve.Discount = o.discount
			o.attach(&reserve)
		}
		reserve.GrossImport, reserve.NetImport = Totals(reserve.LineTotals(), reserve.Discount)

		created, err := tx.CreateReserve(ctx, reserve)
		if err != nil {
			return fmt.Errorf("tx.CreateReserve -> %w", err)
		}
		created.ExternalID = domain.ExternalReserveID(created.ID)
		if err = tx.SetExternalID(ctx, created.ID, created.ExternalID); err != nil {
			return fmt.Errorf("tx.SetExternalID -> %w", err)
		}

		if o != nil {
			if err = o.consume(ctx, tx, req.PromotionQuantity); err != nil {
				return err
			}
		}

		reserve = created
		return nil
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.effects.created(ctx, reserve)

	return reserve, nil
}

// contact fills the requester fields of a new reserve. Registered users
// default to their profile; guests must give a name and an email.
func (s *ReserveService) contact(ctx context.Context, requester domain.Requester, req domain.ReserveRequest) (domain.Reserve, error) {
	r := domain.Reserve{
		UserID: requester.UserID,
		Name:   firstNonEmpty(req.Name, requester.Name),
		Email:  firstNonEmpty(req.Email, requester.Email),
		Phone:  firstNonEmpty(req.Phone, requester.Phone),
	}

	if !requester.IsGuest() && s.users != nil && (r.Name == "" || r.Email == "") {
		user, err := s.users.FindByID(ctx, *requester.UserID)
		if err != nil {
			return domain.Reserve{}, fmt.Errorf("s.users.FindByID -> %w", err)
		}
		r.Name = firstNonEmpty(r.Name, user.Name)
		r.Email = firstNonEmpty(r.Email, user.Email)
		r.Phone = firstNonEmpty(r.Phone, user.Phone)
	}

	if r.Name == "" || r.Email == "" {
		return domain.Reserve{}, domain.BadRequest(domain.EntityReserve, "name and email are required")
	}

	return r, nil
}

// UpdateReserve replaces every line of the reserve. Lines are deleted and
// recreated rather than diffed; the stored discount percentage is kept.
// Empty contact fields keep their current value.
func (s *ReserveService) UpdateReserve(ctx context.Context, reserveID uint, req domain.ReserveRequest) (domain.Reserve, error) {
	if req.IsEmpty() {
		return domain.Reserve{}, domain.BadRequest(domain.EntityReserve, "at least one line item is required")
	}
	if req.DiscountCode != "" || req.PromotionID != nil {
		return domain.Reserve{}, domain.BadRequest(domain.EntityReserve, "discount cannot be changed on update", reserveID)
	}

	var (
		updated domain.Reserve
		touched []domain.DateRange
	)
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if err = guardMutable(r); err != nil {
			return err
		}
		if r.HasConfirmedLines() {
			return domain.BadRequest(domain.EntityReserve, domain.MsgConfirmedLine, r.ID)
		}
		touched = tentRanges(r)

		lines, err := buildLines(ctx, tx, req, r.ID, r.Products)
		if err != nil {
			return err
		}
		r.Tents, r.Products, r.Experiences = lines.tents, lines.products, lines.experiences
		r.GrossImport, r.NetImport = Totals(r.LineTotals(), r.Discount)
		r.Name = firstNonEmpty(req.Name, r.Name)
		r.Email = firstNonEmpty(req.Email, r.Email)
		r.Phone = firstNonEmpty(req.Phone, r.Phone)

		if err = tx.UpdateReserveHeader(ctx, r); err != nil {
			return fmt.Errorf("tx.UpdateReserveHeader -> %w", err)
		}
		updated, err = tx.ReplaceLines(ctx, r)
		if err != nil {
			return fmt.Errorf("tx.ReplaceLines -> %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	s.effects.updated(ctx, append(touched, tentRanges(updated)...))

	return updated, nil
}

func (s *ReserveService) AddProductReserve(ctx context.Context, reserveID uint, req domain.ProductRequest) (domain.Reserve, error) {
	var out domain.Reserve
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if err = guardMutable(r); err != nil {
			return err
		}

		lines, err := buildLines(ctx, tx, domain.ReserveRequest{Products: []domain.ProductRequest{req}}, r.ID, nil)
		if err != nil {
			return err
		}
		line := lines.products[0]
		line.ReserveID = r.ID
		added, err := tx.AddProductLine(ctx, line)
		if err != nil {
			return fmt.Errorf("tx.AddProductLine -> %w", err)
		}

		r.Products = append(r.Products, added)
		out, err = reprice(ctx, tx, r)
		return err
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	return out, nil
}

func (s *ReserveService) AddExperienceReserve(ctx context.Context, reserveID uint, req domain.ExperienceRequest) (domain.Reserve, error) {
	var out domain.Reserve
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if err = guardMutable(r); err != nil {
			return err
		}

		lines, err := buildLines(ctx, tx, domain.ReserveRequest{Experiences: []domain.ExperienceRequest{req}}, r.ID, nil)
		if err != nil {
			return err
		}
		line := lines.experiences[0]
		line.ReserveID = r.ID
		added, err := tx.AddExperienceLine(ctx, line)
		if err != nil {
			return fmt.Errorf("tx.AddExperienceLine -> %w", err)
		}

		r.Experiences = append(r.Experiences, added)
		out, err = reprice(ctx, tx, r)
		return err
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	return out, nil
}

// DeleteProductReserve removes an unconfirmed product line and gives its
// quantity back to the product stock.
func (s *ReserveService) DeleteProductReserve(ctx context.Context, reserveID, lineID uint) (domain.Reserve, error) {
	var out domain.Reserve
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if err = guardMutable(r); err != nil {
			return err
		}

		idx := slices.IndexFunc(r.Products, func(p domain.ReserveProduct) bool { return p.ID == lineID })
		if idx < 0 {
			return domain.NotFound(domain.EntityLineItem, lineID)
		}
		line := r.Products[idx]
		if line.Confirmed {
			return domain.BadRequest(domain.EntityLineItem, domain.MsgConfirmedLine, lineID)
		}

		if err = tx.DeleteProductLine(ctx, r.ID, lineID); err != nil {
			return fmt.Errorf("tx.DeleteProductLine -> %w", err)
		}
		if err = releaseProducts(ctx, tx, []domain.ReserveProduct{line}); err != nil {
			return err
		}

		r.Products = slices.Delete(r.Products, idx, idx+1)
		out, err = reprice(ctx, tx, r)
		return err
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	return out, nil
}

func (s *ReserveService) DeleteExperienceReserve(ctx context.Context, reserveID, lineID uint) (domain.Reserve, error) {
	var out domain.Reserve
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if err = guardMutable(r); err != nil {
			return err
		}

		idx := slices.IndexFunc(r.Experiences, func(e domain.ReserveExperience) bool { return e.ID == lineID })
		if idx < 0 {
			return domain.NotFound(domain.EntityLineItem, lineID)
		}
		if r.Experiences[idx].Confirmed {
			return domain.BadRequest(domain.EntityLineItem, domain.MsgConfirmedLine, lineID)
		}

		if err = tx.DeleteExperienceLine(ctx, r.ID, lineID); err != nil {
			return fmt.Errorf("tx.DeleteExperienceLine -> %w", err)
		}

		r.Experiences = slices.Delete(r.Experiences, idx, idx+1)
		out, err = reprice(ctx, tx, r)
		return err
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	return out, nil
}

func (s *ReserveService) UpdatePaymentStatus(ctx context.Context, reserveID uint, status domain.PaymentStatus) (domain.Reserve, error) {
	if !status.IsValid() {
		return domain.Reserve{}, domain.BadRequest(domain.EntityReserve, "invalid payment status", status)
	}

	var out domain.Reserve
	err := s.repo.Transaction(ctx, func(tx repository.ReserveTx) error {
		r, err := tx.LockReserve(ctx, reserveID)
		if err != nil {
			return err
		}
		if r.Status == domain.ReserveCanceled {
			return domain.BadRequest(domain.EntityReserve, domain.MsgTerminalReserve, r.ID)
		}

		r.PaymentStatus = status
		if err = tx.UpdateReserveHeader(ctx, r); err != nil {
			return fmt.Errorf("tx.UpdateReserveHeader -> %w", err)
		}
		out = r

		return nil
	})
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.Transaction -> %w", err)
	}

	return out, nil
}

func (s *ReserveService) GetReserve(ctx context.Context, id uint) (domain.Reserve, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Reserve{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return r, nil
}

func (s *ReserveService) ListReserves(ctx context.Context, filter domain.ReserveFilter) ([]domain.Reserve, int64, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Size < 1 {
		filter.Size = defaultPageSize
	}
	if filter.Size > maxPageSize {
		filter.Size = maxPageSize
	}

	reserves, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("s.repo.List -> %w", err)
	}

	return reserves, total, nil
}

// BillingDocument returns the priced snapshot of the reserve for rendering.
func (s *ReserveService) BillingDocument(ctx context.Context, id uint) (domain.BillingDocument, error) {
	r, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.BillingDocument{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return domain.NewBillingDocument(r), nil
}

func guardMutable(r domain.Reserve) error {
	if r.Status.IsTerminal() {
		return domain.BadRequest(domain.EntityReserve, domain.MsgTerminalReserve, r.ID)
	}

	return nil
}

func reprice(ctx context.Context, tx repository.ReserveTx, r domain.Reserve) (domain.Reserve, error) {
	r.GrossImport, r.NetImport = Totals(r.LineTotals(), r.Discount)
	if err := tx.UpdateReserveHeader(ctx, r); err != nil {
		return domain.Reserve{}, fmt.Errorf("tx.UpdateReserveHeader -> %w", err)
	}

	return r, nil
}

// offer is a locked discount code or promotion.
type offer struct {
	entity    string
	ref       any
	id        uint
	discount  decimal.Decimal
	stock     *int
	promotion bool
}

func lockOffer(ctx context.Context, tx repository.ReserveTx, req domain.ReserveRequest, now time.Time) (*offer, error) {
	switch {
	case req.DiscountCode != "":
		code, err := tx.LockDiscountCode(ctx, domain.NormalizeCode(req.DiscountCode))
		if err != nil {
			return nil, err
		}
		if err = code.Redeemable(now); err != nil {
			return nil, err
		}

		return &offer{entity: domain.EntityDiscountCode, ref: code.Code, id: code.ID, discount: code.Discount, stock: code.Stock}, nil
	case req.PromotionID != nil:
		promotion, err := tx.LockPromotion(ctx, *req.PromotionID)
		if err != nil {
			return nil, err
		}
		if err = promotion.Redeemable(now); err != nil {
			return nil, err
		}

		return &offer{entity: domain.EntityPromotion, ref: promotion.ID, id: promotion.ID, discount: promotion.Discount, stock: promotion.Stock, promotion: true}, nil
	default:
		return nil, nil
	}
}

func (o *offer) attach(r *domain.Reserve) {
	id := o.id
	if o.promotion {
		r.PromotionID = &id
		return
	}
	r.DiscountCodeID = &id
}

// consume takes qty units of stock; a code is always redeemed once.
func (o *offer) consume(ctx context.Context, tx repository.ReserveTx, qty int) error {
	if !o.promotion || qty < 1 {
		qty = 1
	}
	left, err := domain.Consume(o.entity, o.ref, o.stock, qty)
	if err != nil {
		return err
	}
	if left == nil {
		return nil
	}

	if o.promotion {
		if err = tx.UpdatePromotionStock(ctx, o.id, left); err != nil {
			return fmt.Errorf("tx.UpdatePromotionStock -> %w", err)
		}
		return nil
	}
	if err = tx.UpdateDiscountCodeStock(ctx, o.id, left); err != nil {
		return fmt.Errorf("tx.UpdateDiscountCodeStock -> %w", err)
	}

	return nil
}

type pricedLines struct {
	tents       []domain.ReserveTent
	products    []domain.ReserveProduct
	experiences []domain.ReserveExperience
}

// buildLines validates and prices the requested lines against locked catalog
// rows. Tents are checked for overlap against every blocking reserve except
// excludeReserveID. Product stock is updated for the released lines first,
// then for the requested ones.
func buildLines(ctx context.Context, tx repository.ReserveTx, req domain.ReserveRequest, excludeReserveID uint, released []domain.ReserveProduct) (pricedLines, error) {
	var out pricedLines

	tents, err := buildTentLines(ctx, tx, req.Tents, excludeReserveID)
	if err != nil {
		return pricedLines{}, err
	}
	out.tents = tents

	products, err := buildProductLines(ctx, tx, req.Products, released)
	if err != nil {
		return pricedLines{}, err
	}
	out.products = products

	experiences, err := buildExperienceLines(ctx, tx, req.Experiences)
	if err != nil {
		return pricedLines{}, err
	}
	out.experiences = experiences

	return out, nil
}

func buildTentLines(ctx context.Context, tx repository.ReserveTx, reqs []domain.TentRequest, excludeReserveID uint) ([]domain.ReserveTent, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ranges := make([]domain.DateRange, len(reqs))
	for i, t := range reqs {
		dr, err := domain.NewDateRange(t.DateFrom, t.DateTo)
		if err != nil {
			return nil, err
		}
		if t.AdditionalPeople < 0 || t.Kids < 0 {
			return nil, domain.BadRequest(domain.EntityTent, "people counts must not be negative", t.TentID)
		}
		for j := 0; j < i; j++ {
			if reqs[j].TentID == t.TentID && ranges[j].Overlaps(dr) {
				return nil, domain.Conflict(domain.EntityTent, "requested twice for overlapping dates", t.TentID)
			}
		}
		ranges[i] = dr
	}

	ids := uniqueIDs(len(reqs), func(i int) uint { return reqs[i].TentID })
	locked, err := tx.LockTents(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("tx.LockTents -> %w", err)
	}
	byID := make(map[uint]domain.Tent, len(locked))
	for _, t := range locked {
		byID[t.ID] = t
	}
	if missing := missingIDs(ids, func(id uint) bool { _, ok := byID[id]; return ok }); len(missing) > 0 {
		return nil, domain.NotFound(domain.EntityTent, missing)
	}

	var taken []uint
	lines := make([]domain.ReserveTent, 0, len(reqs))
	for i, t := range reqs {
		tent := byID[t.TentID]
		if tent.Status != domain.StatusActive {
			return nil, domain.BadRequest(domain.EntityTent, domain.MsgInactive, tent.ID)
		}
		if t.AdditionalPeople > tent.MaxAdditionalPeople {
			return nil, domain.BadRequest(domain.EntityTent, "too many additional people", tent.ID)
		}
		if t.Kids > tent.MaxKids {
			return nil, domain.BadRequest(domain.EntityTent, "too many kids", tent.ID)
		}

		overlapping, err := tx.FindOverlappingTentLines(ctx, []uint{tent.ID}, ranges[i], excludeReserveID)
		if err != nil {
			return nil, fmt.Errorf("tx.FindOverlappingTentLines -> %w", err)
		}
		if len(overlapping) > 0 && !slices.Contains(taken, tent.ID) {
			taken = append(taken, tent.ID)
		}

		lines = append(lines, PriceTent(tent, ranges[i], t.AdditionalPeople, t.Kids))
	}
	if len(taken) > 0 {
		slices.Sort(taken)
		return nil, domain.Conflict(domain.EntityTent, "not available for the requested dates", taken)
	}

	return lines, nil
}

func buildProductLines(ctx context.Context, tx repository.ReserveTx, reqs []domain.ProductRequest, released []domain.ReserveProduct) ([]domain.ReserveProduct, error) {
	if len(reqs) == 0 && len(released) == 0 {
		return nil, nil
	}
	for _, p := range reqs {
		if p.Quantity < 1 {
			return nil, domain.BadRequest(domain.EntityProduct, "quantity must be positive", p.ProductID)
		}
	}

	ids := uniqueIDs(len(reqs)+len(released), func(i int) uint {
		if i < len(reqs) {
			return reqs[i].ProductID
		}
		return released[i-len(reqs)].ProductID
	})
	locked, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("tx.LockProducts -> %w", err)
	}
	ledger := newStockLedger(locked)

	requested := uniqueIDs(len(reqs), func(i int) uint { return reqs[i].ProductID })
	if missing := missingIDs(requested, ledger.has); len(missing) > 0 {
		return nil, domain.NotFound(domain.EntityProduct, missing)
	}

	for _, p := range released {
		ledger.add(p.ProductID, p.Quantity)
	}

	lines := make([]domain.ReserveProduct, 0, len(reqs))
	for _, p := range reqs {
		product := ledger.products[p.ProductID]
		if product.Status != domain.StatusActive {
			return nil, domain.BadRequest(domain.EntityProduct, domain.MsgInactive, product.ID)
		}
		if err = ledger.take(p.ProductID, p.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, PriceProduct(product, p.Quantity))
	}

	if err = ledger.flush(ctx, tx); err != nil {
		return nil, err
	}

	return lines, nil
}

func buildExperienceLines(ctx context.Context, tx repository.ReserveTx, reqs []domain.ExperienceRequest) ([]domain.ReserveExperience, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	for _, e := range reqs {
		if e.Quantity < 1 {
			return nil, domain.BadRequest(domain.EntityExperience, "quantity must be positive", e.ExperienceID)
		}
		if e.Day.IsZero() {
			return nil, domain.BadRequest(domain.EntityExperience, "day is required", e.ExperienceID)
		}
	}

	ids := uniqueIDs(len(reqs), func(i int) uint { return reqs[i].ExperienceID })
	found, err := tx.FindExperiences(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("tx.FindExperiences -> %w", err)
	}
	byID := make(map[uint]domain.Experience, len(found))
	for _, e := range found {
		byID[e.ID] = e
	}
	if missing := missingIDs(ids, func(id uint) bool { _, ok := byID[id]; return ok }); len(missing) > 0 {
		return nil, domain.NotFound(domain.EntityExperience, missing)
	}

	lines := make([]domain.ReserveExperience, 0, len(reqs))
	for _, e := range reqs {
		experience := byID[e.ExperienceID]
		if experience.Status != domain.StatusActive {
			return nil, domain.BadRequest(domain.EntityExperience, domain.MsgInactive, experience.ID)
		}
		lines = append(lines, PriceExperience(experience, e.Day, e.Quantity))
	}

	return lines, nil
}

// releaseProducts gives the quantities of removed lines back to stock.
func releaseProducts(ctx context.Context, tx repository.ReserveTx, released []domain.ReserveProduct) error {
	if len(released) == 0 {
		return nil
	}

	ids := uniqueIDs(len(released), func(i int) uint { return released[i].ProductID })
	locked, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return fmt.Errorf("tx.LockProducts -> %w", err)
	}
	ledger := newStockLedger(locked)
	for _, p := range released {
		ledger.add(p.ProductID, p.Quantity)
	}

	return ledger.flush(ctx, tx)
}

// stockLedger accumulates stock changes on locked products and writes the
// finite ones back once.
type stockLedger struct {
	products map[uint]domain.Product
	stock    map[uint]int
	changed  map[uint]bool
}

func newStockLedger(products []domain.Product) *stockLedger {
	l := &stockLedger{
		products: make(map[uint]domain.Product, len(products)),
		stock:    make(map[uint]int, len(products)),
		changed:  make(map[uint]bool, len(products)),
	}
	for _, p := range products {
		l.products[p.ID] = p
		if p.Stock != nil {
			l.stock[p.ID] = *p.Stock
		}
	}

	return l
}

func (l *stockLedger) has(id uint) bool {
	_, ok := l.products[id]
	return ok
}

func (l *stockLedger) add(id uint, qty int) {
	if _, finite := l.stock[id]; !finite {
		return
	}
	l.stock[id] += qty
	l.changed[id] = true
}

func (l *stockLedger) take(id uint, qty int) error {
	current, finite := l.stock[id]
	if !finite {
		return nil
	}
	left, err := domain.Consume(domain.EntityProduct, id, &current, qty)
	if err != nil {
		return err
	}
	l.stock[id] = *left
	l.changed[id] = true

	return nil
}

func (l *stockLedger) flush(ctx context.Context, tx repository.ReserveTx) error {
	ids := make([]uint, 0, len(l.changed))
	for id := range l.changed {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	for _, id := range ids {
		stock := l.stock[id]
		if err := tx.UpdateProductStock(ctx, id, &stock); err != nil {
			return fmt.Errorf("tx.UpdateProductStock -> %w", err)
		}
	}

	return nil
}

func uniqueIDs(n int, at func(i int) uint) []uint {
	ids := make([]uint, 0, n)
	for i := 0; i < n; i++ {
		ids = append(ids, at(i))
	}
	slices.Sort(ids)

	return slices.Compact(ids)
}

func missingIDs(ids []uint, found func(id uint) bool) []uint {
	var missing []uint
	for _, id := range ids {
		if !found(id) {
			missing = append(missing, id)
		}
	}

	return missing
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}

	return ""
}
