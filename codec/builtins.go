package codec

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/temporal"
)

const dateTimeLayout = "2006-01-02 15:04:05.999999999"

// RegisterBuiltins adds the codecs for time values, dates, times of day,
// durations, zones, byte slices and big numbers.
func RegisterBuiltins(r interfaces.CodecRegistry) {
	must(RegisterFor(r, encodeDateTime, decodeDateTime))
	must(RegisterFor(r, encodeDate, decodeDate))
	must(RegisterFor(r, encodeTimeOfDay, decodeTimeOfDay))
	must(RegisterFor(r, encodeDuration, decodeDuration))
	must(RegisterFor(r, encodeZone, decodeZone))
	must(RegisterFor(r, encodeBytes, decodeBytes))
	must(RegisterFor(r, encodeBigInt, decodeBigInt))
	must(RegisterFor(r, encodeBigRat, decodeBigRat))
	must(RegisterFor(r, encodeBigFloat, decodeBigFloat))
}

func must(_ bool, err error) {
	if err != nil {
		panic(err)
	}
}

func encodeDateTime(t time.Time) (interfaces.Mapping, error) {
	return interfaces.Mapping{
		"datetime": t.Format("2006-01-02 ") + temporal.FormatClock(t),
		"tzinfo":   nullable(zoneOf(t)),
	}, nil
}

func decodeDateTime(m interfaces.Mapping) (time.Time, error) {
	s, err := StringField(m, "datetime")
	if err != nil {
		return time.Time{}, err
	}
	loc, err := zoneField(m, "tzinfo")
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(dateTimeLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	return t, nil
}

// zoneOf names the zone of t. Local zones and zones whose name cannot be
// loaded back are written as the offset in effect at t.
func zoneOf(t time.Time) string {
	return temporal.ZoneNameAt(t.Location(), t)
}

func encodeDate(d temporal.Date) (interfaces.Mapping, error) {
	return interfaces.Mapping{"date": d.String()}, nil
}

func decodeDate(m interfaces.Mapping) (temporal.Date, error) {
	s, err := StringField(m, "date")
	if err != nil {
		return temporal.Date{}, err
	}
	return temporal.ParseDate(s)
}

func encodeTimeOfDay(t temporal.TimeOfDay) (interfaces.Mapping, error) {
	return interfaces.Mapping{
		"time":   t.Clock(),
		"tzinfo": nullable(temporal.ZoneName(t.Location)),
	}, nil
}

func decodeTimeOfDay(m interfaces.Mapping) (temporal.TimeOfDay, error) {
	s, err := StringField(m, "time")
	if err != nil {
		return temporal.TimeOfDay{}, err
	}
	loc, err := zoneField(m, "tzinfo")
	if err != nil {
		return temporal.TimeOfDay{}, err
	}
	return temporal.ParseTimeOfDay(s, loc)
}

// encodeDuration writes d as float64 seconds. The value keeps 53 significant
// bits, so long durations come back with a relative error below 2^-50
// rather than to the nanosecond.
func encodeDuration(d time.Duration) (interfaces.Mapping, error) {
	return interfaces.Mapping{"seconds": d.Seconds()}, nil
}

func decodeDuration(m interfaces.Mapping) (time.Duration, error) {
	secs, err := FloatField(m, "seconds")
	if err != nil {
		return 0, err
	}
	return time.Duration(math.Round(secs * float64(time.Second))), nil
}

func encodeZone(loc *time.Location) (interfaces.Mapping, error) {
	if loc == nil {
		return nil, fmt.Errorf("nil location")
	}
	return interfaces.Mapping{"zone": temporal.ZoneName(loc)}, nil
}

func decodeZone(m interfaces.Mapping) (*time.Location, error) {
	loc, err := zoneField(m, "zone")
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("field %q is empty", "zone")
	}
	return loc, nil
}

func encodeBytes(b []byte) (interfaces.Mapping, error) {
	return interfaces.Mapping{"base64": base64.StdEncoding.EncodeToString(b)}, nil
}

func decodeBytes(m interfaces.Mapping) ([]byte, error) {
	s, err := StringField(m, "base64")
	if err != nil {
		return nil, err
	}
	return base64.StdEncoding.DecodeString(s)
}

func encodeBigInt(n *big.Int) (interfaces.Mapping, error) {
	if n == nil {
		return nil, fmt.Errorf("nil big.Int")
	}
	return interfaces.Mapping{"int": n.String()}, nil
}

func decodeBigInt(m interfaces.Mapping) (*big.Int, error) {
	s, err := StringField(m, "int")
	if err != nil {
		return nil, err
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}

func encodeBigRat(r *big.Rat) (interfaces.Mapping, error) {
	if r == nil {
		return nil, fmt.Errorf("nil big.Rat")
	}
	return interfaces.Mapping{"rat": r.RatString()}, nil
}

func decodeBigRat(m interfaces.Mapping) (*big.Rat, error) {
	s, err := StringField(m, "rat")
	if err != nil {
		return nil, err
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return nil, fmt.Errorf("invalid rational %q", s)
	}
	return r, nil
}

func encodeBigFloat(f *big.Float) (interfaces.Mapping, error) {
	if f == nil {
		return nil, fmt.Errorf("nil big.Float")
	}
	return interfaces.Mapping{"float": f.Text('g', -1), "prec": int64(f.Prec())}, nil
}

func decodeBigFloat(m interfaces.Mapping) (*big.Float, error) {
	s, err := StringField(m, "float")
	if err != nil {
		return nil, err
	}
	prec, err := FloatField(m, "prec")
	if err != nil {
		return nil, err
	}
	f, _, err := big.ParseFloat(s, 10, uint(prec), big.ToNearestEven)
	if err != nil {
		return nil, fmt.Errorf("invalid float %q: %w", s, err)
	}
	return f, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func zoneField(m interfaces.Mapping, key string) (*time.Location, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("field %q must be a string, got %T", key, raw)
	}
	return temporal.LoadZone(s)
}

// StringField returns m[key] as a string.
func StringField(m interfaces.Mapping, key string) (string, error) {
	raw, ok := m[key]
	if !ok {
		return "", fmt.Errorf("missing field %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("field %q must be a string, got %T", key, raw)
	}
	return s, nil
}

// FloatField returns m[key] as a float64, accepting any decoded number.
func FloatField(m interfaces.Mapping, key string) (float64, error) {
	raw, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("missing field %q", key)
	}
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("field %q must be a number, got %T", key, raw)
	}
}
