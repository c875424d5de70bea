package request

import (
	"errors"
	"time"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/shopspring/decimal"

	"github.com/vietanh2810/campsite-api/internal/domain"
)

const (
	// A code needs at least one letter so it cannot be confused with an id.
	codeRegexPattern  = `^(?=.*[A-Z])[A-Z0-9_-]{3,32}$`
	phoneRegexPattern = `^\+?[0-9 ()-]{6,20}$`
)

var (
	codeExp  = regexp2.MustCompile(codeRegexPattern, regexp2.None)
	phoneExp = regexp2.MustCompile(phoneRegexPattern, regexp2.None)

	errInvalidCode   = errors.New("must be 3 to 32 letters, digits, '-' or '_' with at least one letter")
	errInvalidPhone  = errors.New("must be a phone number")
	errNegative      = errors.New("must not be negative")
	errPercentRange  = errors.New("must be between 0 and 100")
	errDateRangeFlip = errors.New("date_to must not be before date_from")

	errEmptyReserve     = errors.New("at least one tent, product or experience is required")
	errEntityIDRequired = errors.New("cannot be blank")
)

var dateRule = validation.Date(domain.DateLayout)

func matches(exp *regexp2.Regexp, normalize func(string) string, fail error) validation.Rule {
	return validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		ok, err := exp.MatchString(normalize(s))
		if err != nil {
			return err
		}
		if !ok {
			return fail
		}

		return nil
	})
}

var (
	codeRule  = matches(codeExp, domain.NormalizeCode, errInvalidCode)
	phoneRule = matches(phoneExp, func(s string) string { return s }, errInvalidPhone)
)

var nonNegative = validation.By(func(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return errNegative
	}

	return nil
})

var percent = validation.By(func(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100)) {
		return errPercentRange
	}

	return nil
})

var optionalNonNegative = validation.By(func(value interface{}) error {
	n, _ := value.(*int)
	if n != nil && *n < 0 {
		return errNegative
	}

	return nil
})

// day parses a date that has already passed dateRule.
func day(s string) time.Time {
	t, _ := domain.ParseDay(s)
	return t
}

func optionalDay(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t := day(*s)

	return &t
}

func ordered(from, to string) error {
	if from == "" || to == "" {
		return nil
	}
	if day(to).Before(day(from)) {
		return errDateRangeFlip
	}

	return nil
}
