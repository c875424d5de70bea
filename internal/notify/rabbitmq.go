package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

const (
	RoutingCreated   = "reserve.created"
	RoutingConfirmed = "reserve.confirmed"
	RoutingCanceled  = "reserve.canceled"
	RoutingBilling   = "reserve.billing"
)

// Publisher sends reserve events and billing documents to a topic exchange.
// A closed channel or connection is reopened on the next publish.
type Publisher struct {
	url      string
	exchange string

	// amqp channels must not be shared by concurrent publishers.
	mu     sync.Mutex
	conn   *amqp.Connection
	ch     *amqp.Channel
	closed chan *amqp.Error
}

func Dial(url, exchange string) (*Publisher, error) {
	p := &Publisher{
		url:      url,
		exchange: exchange,
	}
	if err := p.open(); err != nil {
		if p.conn != nil {
			_ = p.conn.Close()
		}
		return nil, err
	}

	zap.L().Info("rabbitmq ready", zap.String("exchange", exchange))

	return p, nil
}

// open (re)creates the channel, and the connection when it is gone. Callers
// other than Dial must hold p.mu.
func (p *Publisher) open() error {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return fmt.Errorf("amqp.Dial -> %w", err)
		}
		p.conn = conn
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("p.conn.Channel -> %w", err)
	}

	if err = ch.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("ch.ExchangeDeclare -> %w", err)
	}

	p.ch = ch
	p.closed = ch.NotifyClose(make(chan *amqp.Error, 1))

	return nil
}

// channel returns a live channel, reopening it after a close notification.
func (p *Publisher) channel() (*amqp.Channel, error) {
	select {
	case amqpErr := <-p.closed:
		reason := "closed by client"
		if amqpErr != nil {
			reason = amqpErr.Error()
		}
		zap.L().Warn("rabbitmq channel closed, reopening", zap.String("exchange", p.exchange), zap.String("reason", reason))
		if err := p.open(); err != nil {
			return nil, err
		}
	default:
	}

	return p.ch, nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ch.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		_ = p.conn.Close()
		return fmt.Errorf("p.ch.Close -> %w", err)
	}
	if err := p.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("p.conn.Close -> %w", err)
	}

	return nil
}

func (p *Publisher) publish(ctx context.Context, routingKey string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		Type:         routingKey,
		Body:         body,
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		return fmt.Errorf("p.channel -> %w", err)
	}
	if err = ch.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("ch.PublishWithContext -> %w", err)
	}

	return nil
}

func (p *Publisher) ReserveCreated(ctx context.Context, reserve domain.Reserve) error {
	return p.publish(ctx, RoutingCreated, NewReserveEvent(RoutingCreated, reserve))
}

func (p *Publisher) ReserveConfirmed(ctx context.Context, reserve domain.Reserve) error {
	return p.publish(ctx, RoutingConfirmed, NewReserveEvent(RoutingConfirmed, reserve))
}

func (p *Publisher) ReserveCanceled(ctx context.Context, reserve domain.Reserve) error {
	return p.publish(ctx, RoutingCanceled, NewReserveEvent(RoutingCanceled, reserve))
}

// RenderBill hands the document to the external renderer listening on
// reserve.billing.
func (p *Publisher) RenderBill(ctx context.Context, doc domain.BillingDocument) error {
	return p.publish(ctx, RoutingBilling, doc)
}
