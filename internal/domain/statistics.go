package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type StatisticsStep string

const (
	StepWeek  StatisticsStep = "WEEK"
	StepMonth StatisticsStep = "MONTH"
	StepYear  StatisticsStep = "YEAR"
)

type StatisticsMode string

const (
	ModeAccumulated StatisticsMode = "ACCUMULATED"
	ModePeriodic    StatisticsMode = "PERIODIC"
)

type StatisticsPoint struct {
	Label    string          `json:"label"`
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity"`
}

// Bucket is a half-open interval [Start, End) of sale dates.
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Buckets materialises the full bucket range for step, oldest first. Bounds
// are midnights in now's location, so sale instants are bucketed by the local
// calendar day.
func Buckets(step StatisticsStep, now time.Time) ([]Bucket, error) {
	loc := now.Location()
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, loc)
	switch step {
	case StepWeek:
		out := make([]Bucket, 7)
		for i := 0; i < 7; i++ {
			start := today.AddDate(0, 0, i-6)
			out[i] = Bucket{Label: start.Format(DateLayout), Start: start, End: start.AddDate(0, 0, 1)}
		}
		return out, nil
	case StepMonth:
		out := make([]Bucket, 5)
		for i := 0; i < 5; i++ {
			end := today.AddDate(0, 0, 1-7*(4-i))
			start := end.AddDate(0, 0, -7)
			out[i] = Bucket{Label: start.Format(DateLayout), Start: start, End: end}
		}
		return out, nil
	case StepYear:
		first := time.Date(y, m, 1, 0, 0, 0, 0, loc)
		out := make([]Bucket, 12)
		for i := 0; i < 12; i++ {
			start := first.AddDate(0, i-11, 0)
			out[i] = Bucket{Label: start.Format("2006-01"), Start: start, End: start.AddDate(0, 1, 0)}
		}
		return out, nil
	default:
		return nil, BadRequest("statistics", "unknown step", step)
	}
}
