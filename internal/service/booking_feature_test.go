package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cucumber/godog"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type bookingFeature struct {
	f       *fixture
	reserve domain.Reserve
	err     error
	results []error
}

func (b *bookingFeature) reset() {
	b.f = newFixture()
	b.reserve = domain.Reserve{}
	b.err = nil
	b.results = nil
}

func (b *bookingFeature) book(req domain.ReserveRequest) {
	r, err := b.f.svc.CreateReserve(context.Background(), guest, req)
	b.err = err
	if err == nil {
		b.reserve = r
	}
}

func (b *bookingFeature) tentIsBooked(tentID int, from, to string) error {
	b.book(domain.ReserveRequest{Tents: []domain.TentRequest{tentReq(uint(tentID), from, to)}})
	return b.err
}

func (b *bookingFeature) tentIsBookedWithProduct(tentID int, from, to string, qty, productID int) error {
	b.book(domain.ReserveRequest{
		Tents:    []domain.TentRequest{tentReq(uint(tentID), from, to)},
		Products: []domain.ProductRequest{{ProductID: uint(productID), Quantity: qty}},
	})
	return b.err
}

func (b *bookingFeature) reserveIsCanceled(reason string) error {
	_, err := b.f.svc.CancelReserve(context.Background(), b.reserve.ID, reason)
	return err
}

func (b *bookingFeature) guestBooks(tentID int, from, to string) error {
	b.book(domain.ReserveRequest{Tents: []domain.TentRequest{tentReq(uint(tentID), from, to)}})
	return nil
}

func (b *bookingFeature) guestBooksWithCode(tentID int, from, to, code string) error {
	b.book(domain.ReserveRequest{Tents: []domain.TentRequest{tentReq(uint(tentID), from, to)}, DiscountCode: code})
	return nil
}

func (b *bookingFeature) reserveIsConfirmed() error {
	r, err := b.f.svc.ConfirmEntity(context.Background(), domain.EntityTypeReserve, b.reserve.ID, b.reserve.ID)
	if err != nil {
		return err
	}
	b.reserve = r
	return nil
}

func (b *bookingFeature) race(n int, req func(i int) domain.ReserveRequest) {
	b.results = make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, b.results[i] = b.f.svc.CreateReserve(context.Background(), guest, req(i))
		}(i)
	}
	wg.Wait()
}

func (b *bookingFeature) guestsBookSameTent(n, tentID int, from, to string) error {
	b.race(n, func(int) domain.ReserveRequest {
		return domain.ReserveRequest{Tents: []domain.TentRequest{tentReq(uint(tentID), from, to)}}
	})
	return nil
}

func (b *bookingFeature) guestsBookDifferentTentsWithCode(n int, from, to, code string) error {
	b.race(n, func(i int) domain.ReserveRequest {
		return domain.ReserveRequest{Tents: []domain.TentRequest{tentReq(uint(i+1), from, to)}, DiscountCode: code}
	})
	return nil
}

func (b *bookingFeature) bookingSucceeds() error {
	if b.err != nil {
		return fmt.Errorf("expected success, got %w", b.err)
	}
	return nil
}

func errorKind(err error) string {
	var de *domain.Error
	if errors.As(err, &de) {
		return string(de.Kind)
	}
	return ""
}

func (b *bookingFeature) bookingFails(kind string) error {
	if got := errorKind(b.err); got != kind {
		return fmt.Errorf("expected %s, got %v", kind, b.err)
	}
	return nil
}

func (b *bookingFeature) imports(gross, net string) error {
	if !b.reserve.GrossImport.Equal(dec(gross)) || !b.reserve.NetImport.Equal(dec(net)) {
		return fmt.Errorf("expected %s/%s, got %s/%s", gross, net, b.reserve.GrossImport, b.reserve.NetImport)
	}
	return nil
}

func (b *bookingFeature) reserveStatus(status string) error {
	if string(b.reserve.Status) != status {
		return fmt.Errorf("expected status %s, got %s", status, b.reserve.Status)
	}
	return nil
}

func (b *bookingFeature) externalID(id string) error {
	if b.reserve.ExternalID != id {
		return fmt.Errorf("expected external id %s, got %s", id, b.reserve.ExternalID)
	}
	return nil
}

func (b *bookingFeature) codeUsesLeft(code string, left int) error {
	stock := b.f.store.code(code).Stock
	if stock == nil || *stock != left {
		return fmt.Errorf("expected %d uses of %s left, got %v", left, code, stock)
	}
	return nil
}

func (b *bookingFeature) everyLineConfirmed() error {
	stored, err := b.f.svc.GetReserve(context.Background(), b.reserve.ID)
	if err != nil {
		return err
	}
	if !stored.AllLinesConfirmed() {
		return errors.New("some lines are still unconfirmed")
	}
	return nil
}

func (b *bookingFeature) raceOutcome(ok, failed int, kind string) error {
	var gotOK, gotFailed int
	for _, err := range b.results {
		switch {
		case err == nil:
			gotOK++
		case errorKind(err) == kind:
			gotFailed++
		default:
			return fmt.Errorf("unexpected error %w", err)
		}
	}
	if gotOK != ok || gotFailed != failed {
		return fmt.Errorf("expected %d ok and %d %s, got %d and %d", ok, failed, kind, gotOK, gotFailed)
	}
	return nil
}

func initializeBookingScenario(ctx *godog.ScenarioContext) {
	b := &bookingFeature{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		b.reset()
		return ctx, nil
	})

	ctx.Step(`^tent (\d+) is booked from "([^"]*)" to "([^"]*)"$`, b.tentIsBooked)
	ctx.Step(`^tent (\d+) is booked from "([^"]*)" to "([^"]*)" with (\d+) units of product (\d+)$`, b.tentIsBookedWithProduct)
	ctx.Step(`^that reserve is canceled because "([^"]*)"$`, b.reserveIsCanceled)

	ctx.Step(`^a guest books tent (\d+) from "([^"]*)" to "([^"]*)"$`, b.guestBooks)
	ctx.Step(`^a guest books tent (\d+) from "([^"]*)" to "([^"]*)" with code "([^"]*)"$`, b.guestBooksWithCode)
	ctx.Step(`^the reserve is confirmed$`, b.reserveIsConfirmed)
	ctx.Step(`^(\d+) guests book tent (\d+) from "([^"]*)" to "([^"]*)" at the same time$`, b.guestsBookSameTent)
	ctx.Step(`^(\d+) guests book different tents from "([^"]*)" to "([^"]*)" with code "([^"]*)" at the same time$`, b.guestsBookDifferentTentsWithCode)

	ctx.Step(`^the booking succeeds$`, b.bookingSucceeds)
	ctx.Step(`^the booking fails with "([^"]*)"$`, b.bookingFails)
	ctx.Step(`^the gross import is "([^"]*)" and the net import is "([^"]*)"$`, b.imports)
	ctx.Step(`^the reserve status is "([^"]*)"$`, b.reserveStatus)
	ctx.Step(`^the external id is "([^"]*)"$`, b.externalID)
	ctx.Step(`^code "([^"]*)" has (\d+) uses left$`, b.codeUsesLeft)
	ctx.Step(`^every line is confirmed$`, b.everyLineConfirmed)
	ctx.Step(`^exactly (\d+) booking succeeds and (\d+) fail with "([^"]*)"$`, b.raceOutcome)
}

func TestBookingFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeBookingScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/booking.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
