package timezone

import (
	"errors"
	"fmt"
	"time"
)

// DefaultName is the IANA name the pet shop operates in. The offset is applied as a
// constant because Brazil no longer observes DST.
const (
	DefaultName        = "America/Sao_Paulo"
	DefaultOffsetHours = -3
	DateLayout         = "2006-01-02"
	Placeholder        = "N/A"
)

var ErrInvalidCivilTime = errors.New("invalid civil time")

// Zone converts between civil wall-clock values and UTC instants using a fixed offset.
type Zone struct {
	offset time.Duration
	loc    *time.Location
}

// Parts are the civil wall-clock components of an instant. Month is 1-indexed and
// Weekday follows time.Weekday (0 = Sunday).
type Parts struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Weekday time.Weekday
}

var Default = New(DefaultOffsetHours)

func New(offsetHours int) Zone {
	offset := time.Duration(offsetHours) * time.Hour
	return Zone{
		offset: offset,
		loc:    time.FixedZone(fmt.Sprintf("UTC%+d", offsetHours), int(offset.Seconds())),
	}
}

// Location is a fixed-offset location, useful only for display formatting.
func (z Zone) Location() *time.Location {
	if z.loc == nil {
		return Default.loc
	}
	return z.loc
}

func (z Zone) Instant(year int, month time.Month, day, hour, minute, second int) (time.Time, error) {
	if month < time.January || month > time.December {
		return time.Time{}, fmt.Errorf("%w: month %d", ErrInvalidCivilTime, month)
	}
	if day < 1 || day > DaysIn(year, month) {
		return time.Time{}, fmt.Errorf("%w: day %d of %04d-%02d", ErrInvalidCivilTime, day, year, month)
	}
	if hour < 0 || hour > 23 {
		return time.Time{}, fmt.Errorf("%w: hour %d", ErrInvalidCivilTime, hour)
	}
	if minute < 0 || minute > 59 || second < 0 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: %02d:%02d", ErrInvalidCivilTime, minute, second)
	}

	naive := time.Date(year, month, day, hour, minute, second, 0, time.UTC)
	return naive.Add(-z.offset), nil
}

func (z Zone) MustInstant(year int, month time.Month, day, hour, minute, second int) time.Time {
	t, err := z.Instant(year, month, day, hour, minute, second)
	if err != nil {
		panic(err)
	}
	return t
}

func (z Zone) Parts(instant time.Time) Parts {
	c := z.shift(instant)
	return Parts{
		Year:    c.Year(),
		Month:   c.Month(),
		Day:     c.Day(),
		Hour:    c.Hour(),
		Minute:  c.Minute(),
		Weekday: c.Weekday(),
	}
}

func (z Zone) SameDay(a, b time.Time) bool {
	return z.DateString(a) == z.DateString(b)
}

// IsPastDate reports whether the civil date of instant is strictly before the civil
// date of now.
func (z Zone) IsPastDate(instant, now time.Time) bool {
	return z.StartOfDay(instant).Before(z.StartOfDay(now))
}

func (z Zone) IsWeekend(instant time.Time) bool {
	wd := z.Parts(instant).Weekday
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDateNoon parses YYYY-MM-DD as civil noon of that date.
func (z Zone) ParseDateNoon(isoDate string) (time.Time, error) {
	d, err := time.Parse(DateLayout, isoDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidCivilTime, isoDate)
	}
	return z.Instant(d.Year(), d.Month(), d.Day(), 12, 0, 0)
}

// StartOfDay is the instant of civil midnight on the civil date of instant.
func (z Zone) StartOfDay(instant time.Time) time.Time {
	p := z.Parts(instant)
	return time.Date(p.Year, p.Month, p.Day, 0, 0, 0, 0, time.UTC).Add(-z.offset)
}

// AddDays moves n civil calendar days keeping the civil wall-clock time.
func (z Zone) AddDays(instant time.Time, n int) time.Time {
	return z.shift(instant).AddDate(0, 0, n).Add(-z.offset)
}

func (z Zone) DateString(instant time.Time) string {
	return z.shift(instant).Format(DateLayout)
}

// FormatOrPlaceholder renders a stored instant in civil time, or Placeholder when the
// value is missing.
func (z Zone) FormatOrPlaceholder(instant *time.Time, layout string) string {
	if instant == nil || instant.IsZero() {
		return Placeholder
	}
	return z.shift(*instant).Format(layout)
}

func (z Zone) Now() time.Time {
	return time.Now().UTC()
}

// shift returns a UTC-labelled time whose fields equal the civil wall clock.
func (z Zone) shift(instant time.Time) time.Time {
	return instant.UTC().Add(z.offset)
}

func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Clock supplies the current instant; use cases take one so tests can pin time.
type Clock func() time.Time

func SystemClock() time.Time {
	return time.Now().UTC()
}

func Now() time.Time {
	return Default.Now()
}
