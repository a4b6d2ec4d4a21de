package recurrence

import (
	"errors"
	"fmt"
	"time"

	"github.com/sandyspetshop/petshop-scheduler/internal/timezone"
)

type Type string

const (
	Weekly   Type = "weekly"
	BiWeekly Type = "bi-weekly"
	Monthly  Type = "monthly"
)

var ErrInvalidRule = errors.New("invalid recurrence rule")

// Rule is the (type, day, hour) triple of a subscription. Day is an ISO weekday
// (1 = Monday .. 5 = Friday) for weekly rules and a day of month for monthly ones.
type Rule struct {
	Type Type `json:"type"`
	Day  int  `json:"day"`
	Hour int  `json:"hour"`
}

func (r Rule) Validate() error {
	if r.Hour < 0 || r.Hour > 23 {
		return fmt.Errorf("%w: hour %d", ErrInvalidRule, r.Hour)
	}

	switch r.Type {
	case Weekly, BiWeekly:
		if r.Day < 1 || r.Day > 5 {
			return fmt.Errorf("%w: weekday %d", ErrInvalidRule, r.Day)
		}
	case Monthly:
		if r.Day < 1 || r.Day > 31 {
			return fmt.Errorf("%w: day of month %d", ErrInvalidRule, r.Day)
		}
	default:
		return fmt.Errorf("%w: type %q", ErrInvalidRule, r.Type)
	}
	return nil
}

// Generate expands the rule into civil-time instants from ref up to and including
// horizon.
func Generate(zone timezone.Zone, rule Rule, ref, horizon time.Time) ([]time.Time, error) {
	if err := rule.Validate(); err != nil {
		return nil, err
	}

	if rule.Type == Monthly {
		return monthly(zone, rule, ref, horizon), nil
	}

	step := 7
	if rule.Type == BiWeekly {
		step = 14
	}
	return weekly(zone, rule, ref, horizon, step), nil
}

func weekly(zone timezone.Zone, rule Rule, ref, horizon time.Time, step int) []time.Time {
	p := zone.Parts(ref)

	iso := int(p.Weekday)
	if iso == 0 {
		iso = 7
	}

	offset := (rule.Day - iso + 7) % 7
	if offset == 0 && p.Hour >= rule.Hour {
		offset = 7
	}

	var out []time.Time
	for d := civilDate(p.Year, p.Month, p.Day+offset); ; d = d.AddDate(0, 0, step) {
		instant := zone.MustInstant(d.Year(), d.Month(), d.Day(), rule.Hour, 0, 0)
		if instant.After(horizon) {
			return out
		}
		out = append(out, instant)
	}
}

func monthly(zone timezone.Zone, rule Rule, ref, horizon time.Time) []time.Time {
	p := zone.Parts(ref)
	refDate := civilDate(p.Year, p.Month, p.Day)

	month := civilDate(p.Year, p.Month, 1)
	if clamped(month, rule.Day).Before(refDate) {
		month = month.AddDate(0, 1, 0)
	}

	var out []time.Time
	for ; ; month = month.AddDate(0, 1, 0) {
		d := clamped(month, rule.Day)
		instant := zone.MustInstant(d.Year(), d.Month(), d.Day(), rule.Hour, 0, 0)
		if instant.After(horizon) {
			return out
		}
		// ref's own day only counts while its slot is still ahead, as in weekly
		if !instant.After(ref) {
			continue
		}
		out = append(out, instant)
	}
}

// clamped is the day-th of the month holding first, or its last day when shorter.
func clamped(first time.Time, day int) time.Time {
	last := timezone.DaysIn(first.Year(), first.Month())
	if day > last {
		day = last
	}
	return civilDate(first.Year(), first.Month(), day)
}

func civilDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Horizon is the last instant occurrences may be generated for: the end of the fixed
// date when one is configured, else the end of the calendar year after ref.
func Horizon(zone timezone.Zone, ref time.Time, fixed string) (time.Time, error) {
	if fixed != "" {
		d, err := time.Parse(timezone.DateLayout, fixed)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: horizon %q", ErrInvalidRule, fixed)
		}
		return zone.Instant(d.Year(), d.Month(), d.Day(), 23, 59, 59)
	}
	return zone.Instant(zone.Parts(ref).Year+1, time.December, 31, 23, 59, 59)
}

// ExcludeExisting drops instants already present in existing.
func ExcludeExisting(instants, existing []time.Time) []time.Time {
	seen := make(map[int64]struct{}, len(existing))
	for _, e := range existing {
		seen[e.Unix()] = struct{}{}
	}

	out := make([]time.Time, 0, len(instants))
	for _, t := range instants {
		if _, dup := seen[t.Unix()]; dup {
			continue
		}
		out = append(out, t)
	}
	return out
}
