package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type catalogRepo struct {
	CatalogRepository
	tents    []domain.Tent
	statuses map[domain.EntityType]domain.Status
}

func (r *catalogRepo) CreateTent(_ context.Context, tent domain.Tent) (domain.Tent, error) {
	tent.ID = uint(len(r.tents) + 1)
	r.tents = append(r.tents, tent)
	return tent, nil
}

func (r *catalogRepo) CreateProduct(_ context.Context, product domain.Product) (domain.Product, error) {
	product.ID = 1
	return product, nil
}

func (r *catalogRepo) SetStatus(_ context.Context, kind domain.EntityType, _ uint, status domain.Status) error {
	r.statuses[kind] = status
	return nil
}

type countingFlusher struct {
	flushes int
}

func (f *countingFlusher) FlushCalendar(context.Context) {
	f.flushes++
}

func TestCatalogService_FlushesCalendarOnTentChanges(t *testing.T) {
	repo := &catalogRepo{statuses: map[domain.EntityType]domain.Status{}}
	calendar := &countingFlusher{}
	svc := NewCatalogService(repo, calendar)
	ctx := context.Background()

	tent, err := svc.CreateTent(ctx, domain.Tent{Name: "Bell tent", Price: decimal.NewFromInt(90)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, tent.Status)
	assert.Equal(t, 1, calendar.flushes)

	_, err = svc.CreateTent(ctx, domain.Tent{Name: "Spare", Price: decimal.NewFromInt(50), Status: domain.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, 1, calendar.flushes)

	require.NoError(t, svc.SetStatus(ctx, domain.EntityTypeTent, tent.ID, domain.StatusInactive))
	assert.Equal(t, 2, calendar.flushes)

	_, err = svc.CreateProduct(ctx, domain.Product{Name: "Firewood", Price: decimal.NewFromInt(8)})
	require.NoError(t, err)
	require.NoError(t, svc.SetStatus(ctx, domain.EntityTypeProduct, 1, domain.StatusInactive))
	assert.Equal(t, 2, calendar.flushes)

	err = svc.SetStatus(ctx, domain.EntityTypeTent, tent.ID, "ARCHIVED")
	assertKind(t, domain.ErrBadRequest, err)
	assert.Equal(t, 2, calendar.flushes)
}

func TestCatalogService_NilCalendar(t *testing.T) {
	svc := NewCatalogService(&catalogRepo{statuses: map[domain.EntityType]domain.Status{}}, nil)

	_, err := svc.CreateTent(context.Background(), domain.Tent{Name: "Bell tent", Price: decimal.NewFromInt(90)})
	require.NoError(t, err)

	_, err = svc.CreateTent(context.Background(), domain.Tent{Name: "Broken", Price: decimal.NewFromInt(-1)})
	assertKind(t, domain.ErrBadRequest, err)
}
