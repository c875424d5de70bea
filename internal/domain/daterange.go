package domain

import "time"

const DateLayout = "2006-01-02"

// Day truncates t to the calendar date in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}

	return t, nil
}

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

func NewDateRange(from, to time.Time) (DateRange, error) {
	r := DateRange{From: Day(from), To: Day(to)}
	if r.To.Before(r.From) {
		return DateRange{}, BadRequest("", MsgInvalidDateRange, r.From.Format(DateLayout), r.To.Format(DateLayout))
	}

	return r, nil
}

// Overlaps uses inclusive bounds: ranges touching on a single day overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.From.After(other.To) && !r.To.Before(other.From)
}

func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(r.From) && !d.After(r.To)
}

// Nights counts stay nights; an equal-bounds range is a one-night stay.
func (r DateRange) Nights() int {
	n := int(r.To.Sub(r.From).Hours() / 24)
	if n < 1 {
		return 1
	}

	return n
}

// NightDates lists the date each night starts on.
func (r DateRange) NightDates() []time.Time {
	n := r.Nights()
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		out[i] = r.From.AddDate(0, 0, i)
	}

	return out
}

// Months lists the first day of every calendar month the range touches.
func (r DateRange) Months() []time.Time {
	var out []time.Time
	cur := time.Date(r.From.Year(), r.From.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(r.To) {
		out = append(out, cur)
		cur = cur.AddDate(0, 1, 0)
	}

	return out
}
