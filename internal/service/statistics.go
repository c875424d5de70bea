package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type CompletedReserveLister interface {
	ListCompleted(ctx context.Context, from, to time.Time) ([]domain.Reserve, error)
}

type StatisticsService struct {
	repo CompletedReserveLister
	now  func() time.Time
}

func NewStatisticsService(repo CompletedReserveLister, now func() time.Time) *StatisticsService {
	if now == nil {
		now = time.Now
	}

	return &StatisticsService{repo: repo, now: now}
}

// Series sums the net import of COMPLETE reserves per bucket, oldest first.
// Empty buckets are reported with zero amounts.
func (s *StatisticsService) Series(ctx context.Context, step domain.StatisticsStep, mode domain.StatisticsMode) ([]domain.StatisticsPoint, error) {
	if mode != domain.ModeAccumulated && mode != domain.ModePeriodic {
		return nil, domain.BadRequest("statistics", "unknown mode", mode)
	}

	buckets, err := domain.Buckets(step, s.now())
	if err != nil {
		return nil, err
	}

	reserves, err := s.repo.ListCompleted(ctx, buckets[0].Start, buckets[len(buckets)-1].End)
	if err != nil {
		return nil, fmt.Errorf("s.repo.ListCompleted -> %w", err)
	}

	points := make([]domain.StatisticsPoint, len(buckets))
	for i, b := range buckets {
		points[i] = domain.StatisticsPoint{Label: b.Label, Amount: decimal.Zero}
	}

	seen := make(map[uint]bool, len(reserves))
	for _, r := range reserves {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true

		for i, b := range buckets {
			if b.Contains(r.DateSale) {
				points[i].Amount = points[i].Amount.Add(r.NetImport)
				points[i].Quantity++
				break
			}
		}
	}

	if mode == domain.ModeAccumulated {
		for i := 1; i < len(points); i++ {
			points[i].Amount = points[i].Amount.Add(points[i-1].Amount)
			points[i].Quantity += points[i-1].Quantity
		}
	}

	return points, nil
}
