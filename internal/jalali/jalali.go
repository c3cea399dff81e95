// Package jalali converts between the Jalali (solar-hijri) calendar used by
// the exchange and the Gregorian calendar.
//
// Conversion is pure arithmetic (the 33-year cycle used by the upstream
// feeds) and round-trip exact: FromGregorian(d.ToGregorian()) == d for every
// valid date. Every date-range filter and cross-day join in the pipeline
// depends on this package.
package jalali

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tsedata/tsetmc/internal/errs"
)

// Supported year range. Exchange data does not predate 1300 and the cycle
// arithmetic is only vetted inside this window.
const (
	MinYear = 1300
	MaxYear = 1450
)

// Cumulative Gregorian days before each month (non-leap).
var gregDaysBefore = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// Date is a Jalali calendar date.
type Date struct {
	Year  int
	Month int
	Day   int
}

// New builds a validated Date.
func New(year, month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := d.validate("date", d.String()); err != nil {
		return Date{}, err
	}
	return d, nil
}

// Parse validates and normalizes a Jalali date string. Accepted separators
// are "-", "/" and ".". The field name is carried into validation errors so
// callers can report which input was bad.
func Parse(field, s string) (Date, error) {
	raw := s
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, errs.Validation(field, raw, "date string cannot be empty")
	}

	s = strings.NewReplacer("/", "-", ".", "-").Replace(s)
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return Date{}, errs.Validation(field, raw, "expected format YYYY-MM-DD, got %q", raw)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Date{}, errs.Validation(field, raw, "non-numeric date part %q", p)
		}
		nums[i] = n
	}

	d := Date{Year: nums[0], Month: nums[1], Day: nums[2]}
	if err := d.validate(field, raw); err != nil {
		return Date{}, err
	}
	return d, nil
}

func (d Date) validate(field, raw string) error {
	if d.Year < MinYear || d.Year > MaxYear {
		return errs.Validation(field, raw, "year %d is out of range [%d, %d]", d.Year, MinYear, MaxYear)
	}
	if d.Month < 1 || d.Month > 12 {
		return errs.Validation(field, raw, "month %d is out of range [1, 12]", d.Month)
	}
	if max := DaysInMonth(d.Year, d.Month); d.Day < 1 || d.Day > max {
		return errs.Validation(field, raw, "day %d is out of range [1, %d] for month %d of %d", d.Day, max, d.Month, d.Year)
	}
	return nil
}

// String returns the canonical zero-padded YYYY-MM-DD form.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// Compare orders two dates chronologically: -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

// Before reports whether d is chronologically before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is chronologically after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// IsLeapYear reports whether the Jalali year has a 30-day Esfand.
func IsLeapYear(year int) bool {
	r := (year + 1595) % 33
	return r%4 == 0 && r != 32
}

// DaysInMonth returns the number of days in the given Jalali month.
func DaysInMonth(year, month int) int {
	switch {
	case month <= 6:
		return 31
	case month <= 11:
		return 30
	default:
		if IsLeapYear(year) {
			return 30
		}
		return 29
	}
}

// ToGregorian converts d to the equivalent Gregorian date at midnight UTC.
func (d Date) ToGregorian() time.Time {
	jy := d.Year + 1595
	days := -355668 + 365*jy + (jy/33)*8 + ((jy%33)+3)/4 + d.Day
	if d.Month < 7 {
		days += (d.Month - 1) * 31
	} else {
		days += (d.Month-7)*30 + 186
	}

	gy := 400 * (days / 146097)
	days %= 146097
	if days > 36524 {
		days--
		gy += 100 * (days / 36524)
		days %= 36524
		if days >= 365 {
			days++
		}
	}
	gy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		gy += (days - 1) / 365
		days = (days - 1) % 365
	}
	gd := days + 1

	leap := 0
	if gy%4 == 0 && (gy%100 != 0 || gy%400 == 0) {
		leap = 1
	}
	monthLens := [12]int{31, 28 + leap, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}
	gm := 0
	for gm < 12 && gd > monthLens[gm] {
		gd -= monthLens[gm]
		gm++
	}

	return time.Date(gy, time.Month(gm+1), gd, 0, 0, 0, 0, time.UTC)
}

// FromGregorian converts a Gregorian date to its Jalali equivalent.
func FromGregorian(t time.Time) Date {
	gy, gm, gd := t.Year(), int(t.Month()), t.Day()

	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + gregDaysBefore[gm-1]

	jy := -1595 + 33*(days/12053)
	days %= 12053
	jy += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		jy += (days - 1) / 365
		days = (days - 1) % 365
	}

	if days < 186 {
		return Date{Year: jy, Month: 1 + days/31, Day: 1 + days%31}
	}
	return Date{Year: jy, Month: 7 + (days-186)/30, Day: 1 + (days-186)%30}
}

// FromGregorianParts converts Gregorian year/month/day numbers, as they
// appear in 8-digit upstream date fields.
func FromGregorianParts(year, month, day int) Date {
	return FromGregorian(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}

// Weekday returns the weekday of d.
func (d Date) Weekday() time.Weekday {
	return d.ToGregorian().Weekday()
}

// Gregorian8 returns the Gregorian equivalent in the upstream's 8-digit
// YYYYMMDD form.
func (d Date) Gregorian8() string {
	return d.ToGregorian().Format("20060102")
}

// ValidateRange parses both ends of a date range and checks start <= end.
// The comparison runs on normalized dates, so "1403/01/01" and "1403-01-01"
// compare equal.
func ValidateRange(start, end string) (Date, Date, error) {
	s, err := Parse("start_date", start)
	if err != nil {
		return Date{}, Date{}, err
	}
	e, err := Parse("end_date", end)
	if err != nil {
		return Date{}, Date{}, err
	}
	if s.After(e) {
		return Date{}, Date{}, errs.Validation("start_date", s.String(),
			"start date (%s) must be before or equal to end date (%s)", s, e)
	}
	return s, e, nil
}
