package notify

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

var brokerURL string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err == nil {
		err = pool.Client.Ping()
	}
	if err != nil {
		log.Printf("docker unavailable, skipping rabbitmq tests: %v", err)
		os.Exit(m.Run())
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "rabbitmq",
		Tag:        "3-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("could not start rabbitmq: %v", err)
	}
	_ = resource.Expire(180)

	url := fmt.Sprintf("amqp://guest:guest@%s/", resource.GetHostPort("5672/tcp"))
	pool.MaxWait = 120 * time.Second
	if err = pool.Retry(func() error {
		conn, err := amqp.Dial(url)
		if err != nil {
			return err
		}
		return conn.Close()
	}); err != nil {
		log.Fatalf("could not connect to rabbitmq: %v", err)
	}
	brokerURL = url

	code := m.Run()

	if err = pool.Purge(resource); err != nil {
		log.Printf("could not purge rabbitmq: %v", err)
	}
	os.Exit(code)
}

func sampleReserve() domain.Reserve {
	reason := "rain"
	return domain.Reserve{
		ID:             12,
		ExternalID:     "RSV00000C",
		Name:           "Guest",
		Email:          "guest@example.com",
		Status:         domain.ReserveCanceled,
		NetImport:      decimal.NewFromInt(270),
		CanceledReason: &reason,
		Tents: []domain.ReserveTent{{
			TentID:   1,
			Name:     "Bell tent",
			DateFrom: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			DateTo:   time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC),
		}},
	}
}

func TestNewReserveEvent(t *testing.T) {
	e := NewReserveEvent(RoutingCanceled, sampleReserve())

	assert.Equal(t, "reserve.canceled", e.Event)
	assert.Equal(t, "RSV00000C", e.ExternalID)
	assert.Equal(t, "rain", e.CanceledReason)
	require.Len(t, e.Tents, 1)
	assert.Equal(t, "2024-03-10", e.Tents[0].DateFrom)
	assert.Equal(t, "2024-03-13", e.Tents[0].DateTo)

	raw, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"net_import":"270"`)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	n := LogNotifier{}
	ctx := context.Background()
	require.NoError(t, n.ReserveCreated(ctx, sampleReserve()))
	require.NoError(t, n.RenderBill(ctx, domain.NewBillingDocument(sampleReserve())))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "reserve event", entries[0].Message)
	assert.Equal(t, "reserve.created", entries[0].ContextMap()["event"])
	assert.Equal(t, "billing document", entries[1].Message)
	assert.Equal(t, "270.00", entries[1].ContextMap()["net_import"])
}

func TestPublisher(t *testing.T) {
	if brokerURL == "" {
		t.Skip("rabbitmq not available")
	}

	p, err := Dial(brokerURL, "campsite.test")
	require.NoError(t, err)
	defer p.Close()

	conn, err := amqp.Dial(brokerURL)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, "reserve.*", "campsite.test", false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, p.ReserveConfirmed(ctx, sampleReserve()))
	require.NoError(t, p.RenderBill(ctx, domain.NewBillingDocument(sampleReserve())))

	got := map[string]amqp.Delivery{}
	timeout := time.After(10 * time.Second)
	for len(got) < 2 {
		select {
		case d := <-deliveries:
			got[d.RoutingKey] = d
		case <-timeout:
			t.Fatalf("received %d of 2 messages", len(got))
		}
	}

	confirmed := got[RoutingConfirmed]
	assert.Equal(t, "application/json", confirmed.ContentType)
	assert.NotEmpty(t, confirmed.MessageId)
	var event ReserveEvent
	require.NoError(t, json.Unmarshal(confirmed.Body, &event))
	assert.Equal(t, uint(12), event.ReserveID)

	var doc domain.BillingDocument
	require.NoError(t, json.Unmarshal(got[RoutingBilling].Body, &doc))
	assert.Equal(t, "RSV00000C", doc.ExternalID)
}

func TestPublisher_Reopens(t *testing.T) {
	if brokerURL == "" {
		t.Skip("rabbitmq not available")
	}

	p, err := Dial(brokerURL, "campsite.reopen")
	require.NoError(t, err)
	defer p.Close()

	conn, err := amqp.Dial(brokerURL)
	require.NoError(t, err)
	defer conn.Close()
	ch, err := conn.Channel()
	require.NoError(t, err)
	q, err := ch.QueueDeclare("", false, true, true, false, nil)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, RoutingCreated, "campsite.reopen", false, nil))
	deliveries, err := ch.Consume(q.Name, "", true, true, false, false, nil)
	require.NoError(t, err)

	ctx := context.Background()
	receive := func() {
		t.Helper()
		select {
		case d := <-deliveries:
			assert.Equal(t, RoutingCreated, d.RoutingKey)
		case <-time.After(10 * time.Second):
			t.Fatal("no message received")
		}
	}

	require.NoError(t, p.ch.Close())
	require.NoError(t, p.ReserveCreated(ctx, sampleReserve()))
	receive()

	require.NoError(t, p.conn.Close())
	require.NoError(t, p.ReserveCreated(ctx, sampleReserve()))
	receive()
	assert.False(t, p.conn.IsClosed())
}
