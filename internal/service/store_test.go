package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
	"github.com/vietanh2810/campsite-api/internal/repository"
)

// memState is the whole fake database. Transactions work on a clone and swap
// it in on success, so a failed booking leaves no trace.
type memState struct {
	tents       map[uint]domain.Tent
	products    map[uint]domain.Product
	experiences map[uint]domain.Experience
	codes       map[string]domain.DiscountCode
	promotions  map[uint]domain.Promotion
	reserves    map[uint]domain.Reserve
	lastReserve uint
	lastLine    uint
}

func (s memState) clone() memState {
	out := memState{
		tents:       make(map[uint]domain.Tent, len(s.tents)),
		products:    make(map[uint]domain.Product, len(s.products)),
		experiences: make(map[uint]domain.Experience, len(s.experiences)),
		codes:       make(map[string]domain.DiscountCode, len(s.codes)),
		promotions:  make(map[uint]domain.Promotion, len(s.promotions)),
		reserves:    make(map[uint]domain.Reserve, len(s.reserves)),
		lastReserve: s.lastReserve,
		lastLine:    s.lastLine,
	}
	for k, v := range s.tents {
		out.tents[k] = v
	}
	for k, v := range s.products {
		v.Stock = cloneInt(v.Stock)
		out.products[k] = v
	}
	for k, v := range s.experiences {
		out.experiences[k] = v
	}
	for k, v := range s.codes {
		v.Stock = cloneInt(v.Stock)
		out.codes[k] = v
	}
	for k, v := range s.promotions {
		v.Stock = cloneInt(v.Stock)
		out.promotions[k] = v
	}
	for k, v := range s.reserves {
		out.reserves[k] = cloneReserve(v)
	}

	return out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneReserve(r domain.Reserve) domain.Reserve {
	r.Tents = slices.Clone(r.Tents)
	r.Products = slices.Clone(r.Products)
	r.Experiences = slices.Clone(r.Experiences)
	return r
}

// memStore serialises transactions with one mutex, which is a coarser
// version of the row locks taken by the postgres repository.
type memStore struct {
	mu    sync.Mutex
	state memState
	users map[uint]domain.User
}

func intPtr(v int) *int { return &v }

func day(s string) time.Time {
	d, err := domain.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			tents: map[uint]domain.Tent{
				1: {
					ID: 1, Name: "Bell tent", Price: decimal.NewFromInt(100),
					QtyPeople: 2, MaxPax: 4, MaxKids: 2, MaxAdditionalPeople: 2,
					AdditionalPeoplePrice: decimal.NewFromInt(20), KidsBundlePrice: decimal.NewFromInt(15),
					Status: domain.StatusActive,
				},
				2: {ID: 2, Name: "Safari lodge", Price: decimal.NewFromInt(80), QtyPeople: 2, Status: domain.StatusActive},
				3: {ID: 3, Name: "Old dome", Price: decimal.NewFromInt(50), Status: domain.StatusInactive},
			},
			products: map[uint]domain.Product{
				1: {ID: 1, Name: "Firewood", Price: decimal.NewFromInt(10), Stock: intPtr(5), Status: domain.StatusActive},
				2: {ID: 2, Name: "Breakfast", Price: decimal.NewFromInt(12), Status: domain.StatusActive},
			},
			experiences: map[uint]domain.Experience{
				1: {ID: 1, Name: "Kayak", Price: decimal.NewFromInt(30), Status: domain.StatusActive},
			},
			codes: map[string]domain.DiscountCode{
				"SUMMER10": {ID: 1, Code: "SUMMER10", Discount: decimal.NewFromInt(10), Stock: intPtr(5), Status: domain.StatusActive},
				"ONCE":     {ID: 2, Code: "ONCE", Discount: decimal.NewFromInt(50), Stock: intPtr(1), Status: domain.StatusActive},
			},
			promotions: map[uint]domain.Promotion{
				1: {ID: 1, Name: "Spring", Discount: decimal.NewFromInt(20), Stock: intPtr(3), Status: domain.StatusActive},
			},
			reserves: map[uint]domain.Reserve{},
		},
		users: map[uint]domain.User{
			7: {ID: 7, Name: "Jane Camper", Email: "jane@example.com", Phone: "+33600000000", Role: domain.RoleClient},
		},
	}
}

func (m *memStore) Transaction(_ context.Context, fn func(tx repository.ReserveTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memTx{s: &work}); err != nil {
		return err
	}
	m.state = work

	return nil
}

func (m *memStore) FindByID(_ context.Context, id uint) (domain.Reserve, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.state.reserves[id]
	if !ok {
		return domain.Reserve{}, domain.NotFound(domain.EntityReserve, id)
	}

	return cloneReserve(r), nil
}

func (m *memStore) List(_ context.Context, filter domain.ReserveFilter) ([]domain.Reserve, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var all []domain.Reserve
	for _, id := range sortedKeys(m.state.reserves) {
		r := m.state.reserves[id]
		if filter.Status == "" || r.Status == filter.Status {
			all = append(all, cloneReserve(r))
		}
	}

	from := min((filter.Page-1)*filter.Size, len(all))
	to := min(from+filter.Size, len(all))

	return all[from:to], int64(len(all)), nil
}

func (m *memStore) ListTents(_ context.Context, status domain.Status) ([]domain.Tent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.Tent
	for _, id := range sortedKeys(m.state.tents) {
		if t := m.state.tents[id]; status == "" || t.Status == status {
			out = append(out, t)
		}
	}

	return out, nil
}

func (m *memStore) FindOverlappingTentLines(ctx context.Context, tentIDs []uint, dr domain.DateRange, excludeReserveID uint) ([]domain.ReserveTent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return (&memTx{s: &m.state}).FindOverlappingTentLines(ctx, tentIDs, dr, excludeReserveID)
}

func (m *memStore) FindUser(_ context.Context, id uint) (domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFound(domain.EntityUser, id)
	}

	return u, nil
}

func (m *memStore) product(id uint) domain.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.state.products[id]
	p.Stock = cloneInt(p.Stock)
	return p
}

func (m *memStore) code(code string) domain.DiscountCode {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.state.codes[code]
	c.Stock = cloneInt(c.Stock)
	return c
}

func (m *memStore) promotion(id uint) domain.Promotion {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.state.promotions[id]
	p.Stock = cloneInt(p.Stock)
	return p
}

func (m *memStore) reserveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.state.reserves)
}

// userStore adapts memStore to UserRepository.
type userStore struct{ m *memStore }

func (u userStore) FindByID(ctx context.Context, id uint) (domain.User, error) {
	return u.m.FindUser(ctx, id)
}

type memTx struct {
	s *memState
}

var _ repository.ReserveTx = (*memTx)(nil)

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (t *memTx) LockTents(_ context.Context, ids []uint) ([]domain.Tent, error) {
	var out []domain.Tent
	for _, id := range ids {
		if v, ok := t.s.tents[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (t *memTx) LockProducts(_ context.Context, ids []uint) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if v, ok := t.s.products[id]; ok {
			v.Stock = cloneInt(v.Stock)
			out = append(out, v)
		}
	}
	return out, nil
}

func (t *memTx) FindExperiences(_ context.Context, ids []uint) ([]domain.Experience, error) {
	var out []domain.Experience
	for _, id := range ids {
		if v, ok := t.s.experiences[id]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

func (t *memTx) LockDiscountCode(_ context.Context, code string) (domain.DiscountCode, error) {
	c, ok := t.s.codes[code]
	if !ok {
		return domain.DiscountCode{}, domain.NotFound(domain.EntityDiscountCode, code)
	}
	c.Stock = cloneInt(c.Stock)
	return c, nil
}

func (t *memTx) LockPromotion(_ context.Context, id uint) (domain.Promotion, error) {
	p, ok := t.s.promotions[id]
	if !ok {
		return domain.Promotion{}, domain.NotFound(domain.EntityPromotion, id)
	}
	p.Stock = cloneInt(p.Stock)
	return p, nil
}

func (t *memTx) UpdateDiscountCodeStock(_ context.Context, id uint, stock *int) error {
	for k, c := range t.s.codes {
		if c.ID == id {
			c.Stock = cloneInt(stock)
			t.s.codes[k] = c
			return nil
		}
	}
	return domain.NotFound(domain.EntityDiscountCode, id)
}

func (t *memTx) UpdatePromotionStock(_ context.Context, id uint, stock *int) error {
	p, ok := t.s.promotions[id]
	if !ok {
		return domain.NotFound(domain.EntityPromotion, id)
	}
	p.Stock = cloneInt(stock)
	t.s.promotions[id] = p
	return nil
}

func (t *memTx) UpdateProductStock(_ context.Context, id uint, stock *int) error {
	p, ok := t.s.products[id]
	if !ok {
		return domain.NotFound(domain.EntityProduct, id)
	}
	p.Stock = cloneInt(stock)
	t.s.products[id] = p
	return nil
}

func (t *memTx) FindOverlappingTentLines(_ context.Context, tentIDs []uint, dr domain.DateRange, excludeReserveID uint) ([]domain.ReserveTent, error) {
	var out []domain.ReserveTent
	for _, id := range sortedKeys(t.s.reserves) {
		r := t.s.reserves[id]
		if id == excludeReserveID || !slices.Contains(domain.BlockingStatuses, r.Status) {
			continue
		}
		for _, l := range r.Tents {
			if len(tentIDs) > 0 && !slices.Contains(tentIDs, l.TentID) {
				continue
			}
			if l.Range().Overlaps(dr) {
				out = append(out, l)
			}
		}
	}
	return out, nil
}

func (t *memTx) nextLine() uint {
	t.s.lastLine++
	return t.s.lastLine
}

func (t *memTx) numberLines(r *domain.Reserve) {
	for i := range r.Tents {
		r.Tents[i].ID, r.Tents[i].ReserveID = t.nextLine(), r.ID
	}
	for i := range r.Products {
		r.Products[i].ID, r.Products[i].ReserveID = t.nextLine(), r.ID
	}
	for i := range r.Experiences {
		r.Experiences[i].ID, r.Experiences[i].ReserveID = t.nextLine(), r.ID
	}
}

func (t *memTx) CreateReserve(_ context.Context, reserve domain.Reserve) (domain.Reserve, error) {
	t.s.lastReserve++
	reserve = cloneReserve(reserve)
	reserve.ID = t.s.lastReserve
	t.numberLines(&reserve)
	t.s.reserves[reserve.ID] = reserve

	return cloneReserve(reserve), nil
}

func (t *memTx) SetExternalID(_ context.Context, id uint, externalID string) error {
	r, ok := t.s.reserves[id]
	if !ok {
		return domain.NotFound(domain.EntityReserve, id)
	}
	r.ExternalID = externalID
	t.s.reserves[id] = r
	return nil
}

func (t *memTx) LockReserve(_ context.Context, id uint) (domain.Reserve, error) {
	r, ok := t.s.reserves[id]
	if !ok {
		return domain.Reserve{}, domain.NotFound(domain.EntityReserve, id)
	}
	return cloneReserve(r), nil
}

func (t *memTx) UpdateReserveHeader(_ context.Context, reserve domain.Reserve) error {
	r, ok := t.s.reserves[reserve.ID]
	if !ok {
		return domain.NotFound(domain.EntityReserve, reserve.ID)
	}
	r.Name, r.Email, r.Phone = reserve.Name, reserve.Email, reserve.Phone
	r.GrossImport, r.Discount, r.NetImport = reserve.GrossImport, reserve.Discount, reserve.NetImport
	r.PaymentStatus, r.Status, r.CanceledReason = reserve.PaymentStatus, reserve.Status, reserve.CanceledReason
	t.s.reserves[r.ID] = r
	return nil
}

func (t *memTx) ReplaceLines(_ context.Context, reserve domain.Reserve) (domain.Reserve, error) {
	r, ok := t.s.reserves[reserve.ID]
	if !ok {
		return domain.Reserve{}, domain.NotFound(domain.EntityReserve, reserve.ID)
	}
	next := cloneReserve(reserve)
	t.numberLines(&next)
	r.Tents, r.Products, r.Experiences = next.Tents, next.Products, next.Experiences
	t.s.reserves[r.ID] = r

	return cloneReserve(r), nil
}

func (t *memTx) AddProductLine(_ context.Context, line domain.ReserveProduct) (domain.ReserveProduct, error) {
	r, ok := t.s.reserves[line.ReserveID]
	if !ok {
		return domain.ReserveProduct{}, domain.NotFound(domain.EntityReserve, line.ReserveID)
	}
	line.ID = t.nextLine()
	r.Products = append(r.Products, line)
	t.s.reserves[r.ID] = r
	return line, nil
}

func (t *memTx) AddExperienceLine(_ context.Context, line domain.ReserveExperience) (domain.ReserveExperience, error) {
	r, ok := t.s.reserves[line.ReserveID]
	if !ok {
		return domain.ReserveExperience{}, domain.NotFound(domain.EntityReserve, line.ReserveID)
	}
	line.ID = t.nextLine()
	r.Experiences = append(r.Experiences, line)
	t.s.reserves[r.ID] = r
	return line, nil
}

func (t *memTx) DeleteProductLine(_ context.Context, reserveID, lineID uint) error {
	r := t.s.reserves[reserveID]
	idx := slices.IndexFunc(r.Products, func(p domain.ReserveProduct) bool { return p.ID == lineID })
	if idx < 0 {
		return domain.NotFound(domain.EntityLineItem, lineID)
	}
	r.Products = slices.Delete(r.Products, idx, idx+1)
	t.s.reserves[reserveID] = r
	return nil
}

func (t *memTx) DeleteExperienceLine(_ context.Context, reserveID, lineID uint) error {
	r := t.s.reserves[reserveID]
	idx := slices.IndexFunc(r.Experiences, func(e domain.ReserveExperience) bool { return e.ID == lineID })
	if idx < 0 {
		return domain.NotFound(domain.EntityLineItem, lineID)
	}
	r.Experiences = slices.Delete(r.Experiences, idx, idx+1)
	t.s.reserves[reserveID] = r
	return nil
}

func (t *memTx) ConfirmLine(_ context.Context, kind domain.EntityType, reserveID, lineID uint) error {
	r := t.s.reserves[reserveID]
	if !markLineConfirmed(&r, kind, lineID) {
		return domain.NotFound(domain.EntityLineItem, lineID)
	}
	t.s.reserves[reserveID] = r
	return nil
}

func (t *memTx) ConfirmAllLines(_ context.Context, reserveID uint) error {
	r := t.s.reserves[reserveID]
	markAllConfirmed(&r)
	t.s.reserves[reserveID] = r
	return nil
}

type recordingNotifier struct {
	mu        sync.Mutex
	created   []string
	confirmed []string
	canceled  []string
	bills     []domain.BillingDocument
}

func (n *recordingNotifier) ReserveCreated(_ context.Context, r domain.Reserve) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, r.ExternalID)
	return nil
}

func (n *recordingNotifier) ReserveConfirmed(_ context.Context, r domain.Reserve) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, r.ExternalID)
	return nil
}

func (n *recordingNotifier) ReserveCanceled(_ context.Context, r domain.Reserve) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.canceled = append(n.canceled, r.ExternalID)
	return nil
}

func (n *recordingNotifier) RenderBill(_ context.Context, doc domain.BillingDocument) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.bills = append(n.bills, doc)
	return nil
}

type recordingCalendar struct {
	mu     sync.Mutex
	ranges []domain.DateRange
}

func (c *recordingCalendar) InvalidateCalendar(_ context.Context, ranges []domain.DateRange) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranges = append(c.ranges, ranges...)
}

var testNow = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

type fixture struct {
	store    *memStore
	notifier *recordingNotifier
	calendar *recordingCalendar
	svc      *ReserveService
}

func newFixture() *fixture {
	f := &fixture{
		store:    newMemStore(),
		notifier: &recordingNotifier{},
		calendar: &recordingCalendar{},
	}
	f.svc = NewReserveService(f.store, userStore{f.store}, Collaborators{
		Notifier: f.notifier,
		Billing:  f.notifier,
		Calendar: f.calendar,
	}, fixedNow)

	return f
}

var guest = domain.Requester{Name: "Guest", Email: "guest@example.com"}

func tentReq(tentID uint, from, to string) domain.TentRequest {
	return domain.TentRequest{TentID: tentID, DateFrom: day(from), DateTo: day(to)}
}
