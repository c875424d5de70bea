package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type TentLister interface {
	ListTents(ctx context.Context, status domain.Status) ([]domain.Tent, error)
}

type OverlapFinder interface {
	FindOverlappingTentLines(ctx context.Context, tentIDs []uint, dr domain.DateRange, excludeReserveID uint) ([]domain.ReserveTent, error)
}

// CalendarCache stores rendered calendar months. A miss is (nil, false, nil).
type CalendarCache interface {
	Get(ctx context.Context, key string) ([]domain.CalendarDay, bool, error)
	Set(ctx context.Context, key string, days []domain.CalendarDay) error
	Delete(ctx context.Context, keys ...string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

type AvailabilityService struct {
	catalog  TentLister
	reserves OverlapFinder
	cache    CalendarCache
	now      func() time.Time
}

// NewAvailabilityService accepts a nil cache, in which case calendars are
// computed on every call.
func NewAvailabilityService(catalog TentLister, reserves OverlapFinder, cache CalendarCache, now func() time.Time) *AvailabilityService {
	if now == nil {
		now = time.Now
	}

	return &AvailabilityService{
		catalog:  catalog,
		reserves: reserves,
		cache:    cache,
		now:      now,
	}
}

// FindAvailableTents returns the ACTIVE tents that no blocking reserve holds
// on any day of [dateFrom, dateTo].
func (s *AvailabilityService) FindAvailableTents(ctx context.Context, dateFrom, dateTo time.Time) ([]domain.Tent, error) {
	annotated, err := s.annotate(ctx, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	tents := make([]domain.Tent, 0, len(annotated))
	for _, a := range annotated {
		if !a.Reserved {
			tents = append(tents, a.Tent)
		}
	}

	return tents, nil
}

// FindTentsForAdmin returns every ACTIVE tent flagged with whether it is held.
func (s *AvailabilityService) FindTentsForAdmin(ctx context.Context, dateFrom, dateTo time.Time) ([]domain.TentAvailability, error) {
	return s.annotate(ctx, dateFrom, dateTo)
}

func (s *AvailabilityService) annotate(ctx context.Context, dateFrom, dateTo time.Time) ([]domain.TentAvailability, error) {
	dr, err := domain.NewDateRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	tents, err := s.catalog.ListTents(ctx, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("s.catalog.ListTents -> %w", err)
	}
	lines, err := s.reserves.FindOverlappingTentLines(ctx, nil, dr, 0)
	if err != nil {
		return nil, fmt.Errorf("s.reserves.FindOverlappingTentLines -> %w", err)
	}

	held := make(map[uint]bool, len(lines))
	for _, l := range lines {
		held[l.TentID] = true
	}

	out := make([]domain.TentAvailability, 0, len(tents))
	for _, t := range tents {
		out = append(out, domain.TentAvailability{Tent: t, Reserved: held[t.ID]})
	}

	return out, nil
}

const calendarPrefix = "calendar:"

func calendarKey(month, today time.Time) string {
	return calendarPrefix + month.Format("2006-01") + ":" + today.Format(domain.DateLayout)
}

// Calendar reports, per day of the month, whether at least one ACTIVE tent is
// free. Days before today are never available.
func (s *AvailabilityService) Calendar(ctx context.Context, year int, month time.Month) ([]domain.CalendarDay, error) {
	if month < time.January || month > time.December || year < 1 {
		return nil, domain.BadRequest("calendar", "invalid month", year, int(month))
	}

	today := domain.Day(s.now())
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	key := calendarKey(first, today)

	if s.cache != nil {
		days, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			zap.L().Warn("calendar cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			return days, nil
		}
	}

	tents, err := s.catalog.ListTents(ctx, domain.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("s.catalog.ListTents -> %w", err)
	}
	lines, err := s.reserves.FindOverlappingTentLines(ctx, nil, domain.DateRange{From: first, To: last}, 0)
	if err != nil {
		return nil, fmt.Errorf("s.reserves.FindOverlappingTentLines -> %w", err)
	}

	byTent := make(map[uint][]domain.DateRange, len(tents))
	for _, l := range lines {
		byTent[l.TentID] = append(byTent[l.TentID], l.Range())
	}

	days := make([]domain.CalendarDay, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, domain.CalendarDay{
			Date:      d.Format(domain.DateLayout),
			Available: !d.Before(today) && anyTentFree(tents, byTent, d),
		})
	}

	// A write committed between the read above and this Set is not seen here;
	// the stale month lives until the TTL expires.
	if s.cache != nil {
		if err = s.cache.Set(ctx, key, days); err != nil {
			zap.L().Warn("calendar cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return days, nil
}

func anyTentFree(tents []domain.Tent, held map[uint][]domain.DateRange, day time.Time) bool {
	for _, t := range tents {
		free := true
		for _, r := range held[t.ID] {
			if r.Contains(day) {
				free = false
				break
			}
		}
		if free {
			return true
		}
	}

	return false
}

// InvalidateCalendar drops today's cached months touched by ranges.
func (s *AvailabilityService) InvalidateCalendar(ctx context.Context, ranges []domain.DateRange) {
	if s.cache == nil || len(ranges) == 0 {
		return
	}

	today := domain.Day(s.now())
	seen := make(map[string]bool)
	var keys []string
	for _, r := range ranges {
		for _, m := range r.Months() {
			key := calendarKey(m, today)
			if !seen[key] {
				seen[key] = true
				keys = append(keys, key)
			}
		}
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		zap.L().Warn("calendar cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// FlushCalendar drops every cached month. Catalog changes to the set of
// ACTIVE tents affect all of them.
func (s *AvailabilityService) FlushCalendar(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.DeletePrefix(ctx, calendarPrefix); err != nil {
		zap.L().Warn("calendar cache flush failed", zap.Error(err))
	}
}
