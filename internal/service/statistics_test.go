package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

type completedList struct {
	reserves []domain.Reserve
	from, to time.Time
}

func (c *completedList) ListCompleted(_ context.Context, from, to time.Time) ([]domain.Reserve, error) {
	c.from, c.to = from, to

	var out []domain.Reserve
	for _, r := range c.reserves {
		if !r.DateSale.Before(from) && r.DateSale.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func sale(id uint, at string, net string) domain.Reserve {
	return domain.Reserve{ID: id, Status: domain.ReserveComplete, DateSale: day(at).Add(10 * time.Hour), NetImport: dec(net)}
}

func TestSeries_Year(t *testing.T) {
	repo := &completedList{reserves: []domain.Reserve{
		sale(1, "2024-04-05", "100"),
		sale(2, "2024-05-05", "200"),
		sale(3, "2024-06-05", "300"),
		sale(4, "2023-06-30", "999"),
	}}
	svc := NewStatisticsService(repo, func() time.Time { return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC) })

	points, err := svc.Series(context.Background(), domain.StepYear, domain.ModeAccumulated)
	require.NoError(t, err)
	require.Len(t, points, 12)
	assert.Equal(t, "2023-07", points[0].Label)
	assert.Equal(t, "2024-06", points[11].Label)
	assertDecimal(t, "0", points[8].Amount)
	assertDecimal(t, "100", points[9].Amount)
	assertDecimal(t, "300", points[10].Amount)
	assertDecimal(t, "600", points[11].Amount)
	assert.Equal(t, 3, points[11].Quantity)

	assert.Equal(t, time.Date(2023, time.July, 1, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), repo.to)

	points, err = svc.Series(context.Background(), domain.StepYear, domain.ModePeriodic)
	require.NoError(t, err)
	assertDecimal(t, "200", points[10].Amount)
	assertDecimal(t, "300", points[11].Amount)
	assert.Equal(t, 1, points[11].Quantity)
}

func TestSeries_Week(t *testing.T) {
	repo := &completedList{reserves: []domain.Reserve{
		sale(1, "2024-06-04", "50"),
		sale(1, "2024-06-04", "50"),
		sale(2, "2024-06-10", "25.5"),
	}}
	svc := NewStatisticsService(repo, func() time.Time { return time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC) })

	points, err := svc.Series(context.Background(), domain.StepWeek, domain.ModePeriodic)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "2024-06-04", points[0].Label)
	assertDecimal(t, "50", points[0].Amount)
	assert.Equal(t, 1, points[0].Quantity)
	assertDecimal(t, "25.5", points[6].Amount)
}

func TestSeries_BookingTimezone(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	repo := &completedList{reserves: []domain.Reserve{
		{ID: 1, Status: domain.ReserveComplete, DateSale: time.Date(2024, 6, 9, 22, 15, 0, 0, time.UTC), NetImport: dec("40")},
		{ID: 2, Status: domain.ReserveComplete, DateSale: time.Date(2024, 6, 9, 21, 45, 0, 0, time.UTC), NetImport: dec("10")},
	}}
	svc := NewStatisticsService(repo, func() time.Time { return time.Date(2024, 6, 10, 0, 30, 0, 0, paris) })

	points, err := svc.Series(context.Background(), domain.StepWeek, domain.ModePeriodic)
	require.NoError(t, err)
	require.Len(t, points, 7)
	assert.Equal(t, "2024-06-10", points[6].Label)
	assertDecimal(t, "40", points[6].Amount)
	assert.Equal(t, 1, points[6].Quantity)
	assertDecimal(t, "10", points[5].Amount)
}

func TestSeries_Invalid(t *testing.T) {
	svc := NewStatisticsService(&completedList{}, fixedNow)

	_, err := svc.Series(context.Background(), "DECADE", domain.ModePeriodic)
	assertKind(t, domain.ErrBadRequest, err)

	_, err = svc.Series(context.Background(), domain.StepWeek, "AVERAGE")
	assertKind(t, domain.ErrBadRequest, err)
}
