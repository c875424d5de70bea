package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalReserveID(t *testing.T) {
	assert.Equal(t, "RSV000001", ExternalReserveID(1))
	assert.Equal(t, "RSV00000Z", ExternalReserveID(35))
	assert.Equal(t, "RSV000010", ExternalReserveID(36))
	assert.Equal(t, "RSV1NJCHR", ExternalReserveID(99999999))
	assert.Equal(t, ExternalReserveID(42), ExternalReserveID(42))
}

func TestPlaceholderExternalID(t *testing.T) {
	a, b := PlaceholderExternalID(), PlaceholderExternalID()
	assert.True(t, strings.HasPrefix(a, "TMP-"))
	assert.NotEqual(t, a, b)
}

func TestUnitPrice_CustomSchedule(t *testing.T) {
	from := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC)
	schedule := []CustomPrice{
		{DateFrom: &from, DateTo: &to, Price: decimal.NewFromInt(150)},
		{MinQuantity: 10, Price: decimal.NewFromInt(8)},
	}
	base := decimal.NewFromInt(100)

	summer := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)
	spring := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, UnitPrice(base, schedule, &summer, 1).Equal(decimal.NewFromInt(150)))
	assert.True(t, UnitPrice(base, schedule, &spring, 1).Equal(base))
	assert.True(t, UnitPrice(base, schedule, nil, 12).Equal(decimal.NewFromInt(8)))
	assert.True(t, UnitPrice(base, schedule, nil, 3).Equal(base))
}

func TestDiscountCode_Redeemable(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	zero, five := 0, 5

	tests := []struct {
		name string
		code DiscountCode
		msg  string
	}{
		{"ok", DiscountCode{Code: "SUMMER10", Status: StatusActive, Stock: &five}, ""},
		{"unlimited", DiscountCode{Code: "FREE", Status: StatusActive}, ""},
		{"inactive", DiscountCode{Code: "OFF", Status: StatusInactive}, MsgInactive},
		{"expired", DiscountCode{Code: "OLD", Status: StatusActive, ExpiredDate: &past}, MsgExpired},
		{"empty stock", DiscountCode{Code: "GONE", Status: StatusActive, Stock: &zero}, MsgOutOfStock},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.code.Redeemable(now)
			if tt.msg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadRequest))
			var de *Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.msg, de.Message)
			assert.Equal(t, []string{tt.code.Code}, de.Refs)
		})
	}
}

func TestConsume(t *testing.T) {
	one := 1
	left, err := Consume(EntityDiscountCode, "X", &one, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, *left)

	_, err = Consume(EntityDiscountCode, "X", left, 1)
	assert.True(t, errors.Is(err, ErrBadRequest))

	unlimited, err := Consume(EntityDiscountCode, "X", nil, 3)
	require.NoError(t, err)
	assert.Nil(t, unlimited)
}

func TestError_IsMatchesKind(t *testing.T) {
	err := Conflict(EntityTent, "not available", []uint{3, 7})
	assert.True(t, errors.Is(err, ErrConflict))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "conflict: tent [3,7]: not available", err.Error())
}

func TestReserve_ConfirmationHelpers(t *testing.T) {
	r := Reserve{
		Tents:    []ReserveTent{{Confirmed: true}},
		Products: []ReserveProduct{{Confirmed: false}},
	}
	assert.True(t, r.HasConfirmedLines())
	assert.False(t, r.AllLinesConfirmed())

	r.Products[0].Confirmed = true
	assert.True(t, r.AllLinesConfirmed())
	assert.False(t, Reserve{}.AllLinesConfirmed())
}

func TestBuckets(t *testing.T) {
	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)

	week, err := Buckets(StepWeek, now)
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, "2024-06-04", week[0].Label)
	assert.Equal(t, "2024-06-10", week[6].Label)

	month, err := Buckets(StepMonth, now)
	require.NoError(t, err)
	require.Len(t, month, 5)
	assert.Equal(t, "2024-06-04", month[4].Label)
	assert.Equal(t, month[3].End, month[4].Start)
	assert.True(t, month[4].Contains(time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC)))

	year, err := Buckets(StepYear, now)
	require.NoError(t, err)
	require.Len(t, year, 12)
	assert.Equal(t, "2023-07", year[0].Label)
	assert.Equal(t, "2024-06", year[11].Label)

	_, err = Buckets("DAY", now)
	assert.True(t, errors.Is(err, ErrBadRequest))
}

func TestBuckets_LocalDay(t *testing.T) {
	paris := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2024, 6, 10, 0, 30, 0, 0, paris)

	week, err := Buckets(StepWeek, now)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", week[6].Label)
	assert.True(t, week[6].Start.Equal(time.Date(2024, 6, 9, 22, 0, 0, 0, time.UTC)))

	saleUTC := time.Date(2024, 6, 9, 22, 15, 0, 0, time.UTC)
	assert.True(t, week[6].Contains(saleUTC))
	assert.False(t, week[5].Contains(saleUTC))

	year, err := Buckets(StepYear, now)
	require.NoError(t, err)
	assert.True(t, year[11].Start.Equal(time.Date(2024, 5, 31, 22, 0, 0, 0, time.UTC)))
}
