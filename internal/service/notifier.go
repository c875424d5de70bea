package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

// Notifier is told about committed reserve transitions. It must not assume
// delivery is retried.
type Notifier interface {
	ReserveCreated(ctx context.Context, reserve domain.Reserve) error
	ReserveConfirmed(ctx context.Context, reserve domain.Reserve) error
	ReserveCanceled(ctx context.Context, reserve domain.Reserve) error
}

// BillingRenderer turns a priced reserve snapshot into a billing document.
type BillingRenderer interface {
	RenderBill(ctx context.Context, doc domain.BillingDocument) error
}

type CalendarInvalidator interface {
	InvalidateCalendar(ctx context.Context, ranges []domain.DateRange)
}

// sideEffects runs the post-commit collaborators. Their failures are logged
// and dropped: the reserve is already committed.
type sideEffects struct {
	notifier Notifier
	billing  BillingRenderer
	calendar CalendarInvalidator
	timeout  func() time.Duration
}

func (e sideEffects) context(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := 5 * time.Second
	if e.timeout != nil && e.timeout() > 0 {
		timeout = e.timeout()
	}

	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

func (e sideEffects) invalidate(ctx context.Context, ranges []domain.DateRange) {
	if e.calendar != nil {
		e.calendar.InvalidateCalendar(ctx, ranges)
	}
}

func (e sideEffects) created(ctx context.Context, reserve domain.Reserve) {
	ctx, cancel := e.context(ctx)
	defer cancel()

	e.invalidate(ctx, tentRanges(reserve))
	if e.notifier != nil {
		if err := e.notifier.ReserveCreated(ctx, reserve); err != nil {
			zap.L().Warn("reserve created notification failed", zap.Uint("reserve_id", reserve.ID), zap.Error(err))
		}
	}
	if e.billing != nil {
		if err := e.billing.RenderBill(ctx, domain.NewBillingDocument(reserve)); err != nil {
			zap.L().Warn("billing document failed", zap.Uint("reserve_id", reserve.ID), zap.Error(err))
		}
	}
}

func (e sideEffects) updated(ctx context.Context, ranges []domain.DateRange) {
	ctx, cancel := e.context(ctx)
	defer cancel()

	e.invalidate(ctx, ranges)
}

func (e sideEffects) confirmed(ctx context.Context, reserve domain.Reserve) {
	if e.notifier == nil {
		return
	}
	ctx, cancel := e.context(ctx)
	defer cancel()

	if err := e.notifier.ReserveConfirmed(ctx, reserve); err != nil {
		zap.L().Warn("reserve confirmed notification failed", zap.Uint("reserve_id", reserve.ID), zap.Error(err))
	}
}

func (e sideEffects) canceled(ctx context.Context, reserve domain.Reserve) {
	ctx, cancel := e.context(ctx)
	defer cancel()

	e.invalidate(ctx, tentRanges(reserve))
	if e.notifier != nil {
		if err := e.notifier.ReserveCanceled(ctx, reserve); err != nil {
			zap.L().Warn("reserve canceled notification failed", zap.Uint("reserve_id", reserve.ID), zap.Error(err))
		}
	}
}

func tentRanges(reserve domain.Reserve) []domain.DateRange {
	out := make([]domain.DateRange, 0, len(reserve.Tents))
	for _, t := range reserve.Tents {
		out = append(out, t.Range())
	}

	return out
}
