// Package temporal adds calendar dates and times of day, which the time
// package only models as instants.
package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
	_ "time/tzdata" // zones in documents must resolve on hosts without zoneinfo
)

const (
	dateLayout = "2006-01-02"
	clockMicro = "15:04:05.000000"
	clockNano  = "15:04:05.000000000"
)

// Date is a calendar date without a time or zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the normalized date for year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the date t falls on in its own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("temporal: invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool {
	return d.In(time.UTC).Before(other.In(time.UTC))
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// TimeOfDay is a wall-clock time with an optional zone.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Location   *time.Location // nil when the time is naive
}

// NewTimeOfDay builds a time of day. loc may be nil.
func NewTimeOfDay(hour, minute, second, nsec int, loc *time.Location) TimeOfDay {
	return TimeOfDay{Hour: hour, Minute: minute, Second: second, Nanosecond: nsec, Location: loc}
}

// TimeOfDayOf returns the clock reading of t, keeping its location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay{
		Hour:       t.Hour(),
		Minute:     t.Minute(),
		Second:     t.Second(),
		Nanosecond: t.Nanosecond(),
		Location:   t.Location(),
	}
}

// ParseTimeOfDay parses "HH:MM:SS" with an optional fraction of up to nine
// digits. loc may be nil.
func ParseTimeOfDay(s string, loc *time.Location) (TimeOfDay, error) {
	t, err := time.Parse("15:04:05.999999999", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("temporal: invalid time of day %q: %w", s, err)
	}
	tod := TimeOfDayOf(t)
	tod.Location = loc
	return tod, nil
}

// On places the clock reading on date d. A naive time is placed in UTC.
func (t TimeOfDay) On(d Date) time.Time {
	loc := t.Location
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, t.Second, t.Nanosecond, loc)
}

// Equal compares clock readings and zone names.
func (t TimeOfDay) Equal(other TimeOfDay) bool {
	return t.Hour == other.Hour && t.Minute == other.Minute && t.Second == other.Second &&
		t.Nanosecond == other.Nanosecond && ZoneName(t.Location) == ZoneName(other.Location)
}

// Clock renders the clock reading with microseconds, or nanoseconds when
// the reading is finer than a microsecond.
func (t TimeOfDay) Clock() string {
	return FormatClock(time.Date(2000, 1, 1, t.Hour, t.Minute, t.Second, t.Nanosecond, time.UTC))
}

func (t TimeOfDay) String() string {
	if t.Location == nil {
		return t.Clock()
	}
	return t.Clock() + " " + ZoneName(t.Location)
}

// FormatClock renders the clock part of tm like TimeOfDay.Clock.
func FormatClock(tm time.Time) string {
	if tm.Nanosecond()%1000 != 0 {
		return tm.Format(clockNano)
	}
	return tm.Format(clockMicro)
}

// ZoneName returns the name a location is written under: its IANA key, or
// "UTC+HH:MM" for zones whose name cannot be loaded back. nil yields "".
func ZoneName(loc *time.Location) string {
	if loc == nil {
		return ""
	}
	return ZoneNameAt(loc, time.Now())
}

// ZoneNameAt is ZoneName with unloadable zones written as their offset in
// effect at instant. A name that loads to a zone with a different offset at
// instant counts as unloadable.
func ZoneNameAt(loc *time.Location, instant time.Time) string {
	_, offset := instant.In(loc).Zone()
	if known := knownZone(loc.String()); known != nil {
		if _, want := instant.In(known).Zone(); want == offset {
			return loc.String()
		}
	}
	return FormatOffset(offset)
}

var knownZones sync.Map // zone name -> *time.Location, nil when unknown

// knownZone returns the zone time.LoadLocation finds for name. Offset forms
// are excluded so they are always rewritten from the actual offset.
func knownZone(name string) *time.Location {
	if name == "" || name == "Local" || isOffsetName(name) {
		return nil
	}
	if loc, hit := knownZones.Load(name); hit {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		loc = nil
	}
	knownZones.Store(name, loc)
	return loc
}

func isOffsetName(name string) bool {
	return strings.HasPrefix(name, "UTC+") || strings.HasPrefix(name, "UTC-")
}

// FormatOffset renders a UTC offset in seconds as "UTC+HH:MM", adding ":SS"
// when the offset is not a whole minute.
func FormatOffset(offset int) string {
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	if offset%60 != 0 {
		return fmt.Sprintf("UTC%c%02d:%02d:%02d", sign, offset/3600, (offset%3600)/60, offset%60)
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, offset/3600, (offset%3600)/60)
}

// LoadZone resolves a name produced by ZoneName. "UTC+HH:MM" forms become
// fixed zones.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, nil
	}
	if isOffsetName(name) {
		offset, err := parseOffset(name[4:])
		if err != nil {
			return nil, fmt.Errorf("temporal: invalid offset zone %q: %w", name, err)
		}
		if name[3] == '-' {
			offset = -offset
		}
		return time.FixedZone(name, offset), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("temporal: unknown zone %q: %w", name, err)
	}
	return loc, nil
}

// parseOffset reads "HH:MM" or "HH:MM:SS" as seconds.
func parseOffset(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("want HH:MM or HH:MM:SS")
	}
	offset := 0
	for i, unit := range []int{3600, 60, 1}[:len(parts)] {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 || (i > 0 && n > 59) {
			return 0, fmt.Errorf("bad component %q", parts[i])
		}
		offset += n * unit
	}
	return offset, nil
}
