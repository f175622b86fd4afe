package value

import (
	"fmt"
	"strings"
	"time"
)

// Datetime wraps a calendar date/time, optionally missing its clock
// component (a date-only value), mirroring spec.md's `datetime` kind.
type Datetime struct {
	t        time.Time
	hasClock bool
}

// NewDate builds a date-only Datetime.
func NewDate(year int, month time.Month, day int) Datetime {
	return Datetime{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// NewDatetime builds a full date+time Datetime.
func NewDatetime(year int, month time.Month, day, hour, min, sec int) Datetime {
	return Datetime{t: time.Date(year, month, day, hour, min, sec, 0, time.UTC), hasClock: true}
}

func (Datetime) Kind() Kind { return KindDatetime }

func (d Datetime) Repr() string {
	if d.hasClock {
		return fmt.Sprintf("datetime(year: %d, month: %d, day: %d, hour: %d, minute: %d, second: %d)",
			d.t.Year(), d.t.Month(), d.t.Day(), d.t.Hour(), d.t.Minute(), d.t.Second())
	}
	return fmt.Sprintf("datetime(year: %d, month: %d, day: %d)", d.t.Year(), d.t.Month(), d.t.Day())
}

func (d Datetime) Equal(o Value) bool {
	od, ok := o.(Datetime)
	return ok && od.t.Equal(d.t) && od.hasClock == d.hasClock
}

// Display formats the datetime using a strftime-like pattern subset
// ([year], [month], [day], [hour], [minute], [second]).
func (d Datetime) Display(pattern string) string {
	r := strings.NewReplacer(
		"[year]", fmt.Sprintf("%04d", d.t.Year()),
		"[month]", fmt.Sprintf("%02d", int(d.t.Month())),
		"[day]", fmt.Sprintf("%02d", d.t.Day()),
		"[hour]", fmt.Sprintf("%02d", d.t.Hour()),
		"[minute]", fmt.Sprintf("%02d", d.t.Minute()),
		"[second]", fmt.Sprintf("%02d", d.t.Second()),
	)
	return r.Replace(pattern)
}

// Duration wraps a span of time (spec.md's `duration` kind).
type Duration time.Duration

func (Duration) Kind() Kind { return KindDuration }
func (d Duration) Repr() string {
	return fmt.Sprintf("duration(seconds: %g)", time.Duration(d).Seconds())
}
func (d Duration) Equal(o Value) bool {
	od, ok := o.(Duration)
	return ok && od == d
}
