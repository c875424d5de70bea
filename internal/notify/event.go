package notify

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type TentStay struct {
	TentID   uint   `json:"tent_id"`
	Name     string `json:"name"`
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

// ReserveEvent is the message body of every reserve.* notification.
type ReserveEvent struct {
	Event          string               `json:"event"`
	ReserveID      uint                 `json:"reserve_id"`
	ExternalID     string               `json:"external_id"`
	Name           string               `json:"name"`
	Email          string               `json:"email"`
	Status         domain.ReserveStatus `json:"status"`
	NetImport      decimal.Decimal      `json:"net_import"`
	CanceledReason string               `json:"canceled_reason,omitempty"`
	Tents          []TentStay           `json:"tents"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

func NewReserveEvent(event string, r domain.Reserve) ReserveEvent {
	e := ReserveEvent{
		Event:      event,
		ReserveID:  r.ID,
		ExternalID: r.ExternalID,
		Name:       r.Name,
		Email:      r.Email,
		Status:     r.Status,
		NetImport:  r.NetImport,
		Tents:      make([]TentStay, 0, len(r.Tents)),
		OccurredAt: time.Now().UTC(),
	}
	if r.CanceledReason != nil {
		e.CanceledReason = *r.CanceledReason
	}
	for _, t := range r.Tents {
		e.Tents = append(e.Tents, TentStay{
			TentID:   t.TentID,
			Name:     t.Name,
			DateFrom: t.DateFrom.Format(domain.DateLayout),
			DateTo:   t.DateTo.Format(domain.DateLayout),
		})
	}

	return e
}

// LogNotifier writes events to the global logger. It is used when rabbitmq
// is disabled.
type LogNotifier struct{}

func (LogNotifier) log(event string, r domain.Reserve) {
	zap.L().Info("reserve event",
		zap.String("event", event),
		zap.Uint("reserve_id", r.ID),
		zap.String("external_id", r.ExternalID),
		zap.String("status", string(r.Status)),
	)
}

func (n LogNotifier) ReserveCreated(_ context.Context, r domain.Reserve) error {
	n.log(RoutingCreated, r)
	return nil
}

func (n LogNotifier) ReserveConfirmed(_ context.Context, r domain.Reserve) error {
	n.log(RoutingConfirmed, r)
	return nil
}

func (n LogNotifier) ReserveCanceled(_ context.Context, r domain.Reserve) error {
	n.log(RoutingCanceled, r)
	return nil
}

func (LogNotifier) RenderBill(_ context.Context, doc domain.BillingDocument) error {
	zap.L().Info("billing document",
		zap.Uint("reserve_id", doc.ReserveID),
		zap.String("external_id", doc.ExternalID),
		zap.Int("lines", len(doc.Lines)),
		zap.String("net_import", doc.NetImport.StringFixed(2)),
	)
	return nil
}
