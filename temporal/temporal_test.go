package temporal_test

import (
	"testing"
	"time"

	"github.com/MichaelAJay/go-typejson/temporal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate(t *testing.T) {
	d := temporal.NewDate(2024, time.February, 30)
	assert.Equal(t, "2024-03-01", d.String())

	parsed, err := temporal.ParseDate("2023-12-25")
	require.NoError(t, err)
	assert.Equal(t, temporal.Date{Year: 2023, Month: time.December, Day: 25}, parsed)
	assert.Equal(t, temporal.NewDate(2024, time.January, 1), parsed.AddDays(7))
	assert.True(t, parsed.Before(parsed.AddDays(1)))

	_, err = temporal.ParseDate("2023-13-01")
	require.Error(t, err)
}

func TestTimeOfDay_ClockPrecision(t *testing.T) {
	micro := temporal.NewTimeOfDay(14, 30, 45, 123456000, nil)
	assert.Equal(t, "14:30:45.123456", micro.Clock())

	nano := temporal.NewTimeOfDay(14, 30, 45, 123456789, nil)
	assert.Equal(t, "14:30:45.123456789", nano.Clock())

	back, err := temporal.ParseTimeOfDay(nano.Clock(), nil)
	require.NoError(t, err)
	assert.True(t, nano.Equal(back))

	back, err = temporal.ParseTimeOfDay("09:00:00", nil)
	require.NoError(t, err)
	assert.Equal(t, 9, back.Hour)
	assert.Zero(t, back.Nanosecond)
}

func TestTimeOfDay_On(t *testing.T) {
	tod := temporal.NewTimeOfDay(8, 15, 0, 0, time.UTC)
	got := tod.On(temporal.NewDate(2020, time.May, 4))
	assert.Equal(t, time.Date(2020, time.May, 4, 8, 15, 0, 0, time.UTC), got)
	assert.Equal(t, "08:15:00.000000 UTC", tod.String())
}

func TestZones(t *testing.T) {
	assert.Equal(t, "", temporal.ZoneName(nil))
	assert.Equal(t, "UTC", temporal.ZoneName(time.UTC))
	assert.Equal(t, "UTC-05:30", temporal.FormatOffset(-(5*3600 + 1800)))

	loc, err := temporal.LoadZone("UTC+02:00")
	require.NoError(t, err)
	_, offset := time.Date(2020, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 7200, offset)
	assert.Equal(t, "UTC+02:00", temporal.ZoneName(loc))

	loc, err = temporal.LoadZone("UTC-03:30")
	require.NoError(t, err)
	_, offset = time.Date(2020, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, -(3*3600 + 1800), offset)

	loc, err = temporal.LoadZone("")
	require.NoError(t, err)
	assert.Nil(t, loc)

	_, err = temporal.LoadZone("Not/AZone")
	require.Error(t, err)
}

func TestZones_UnloadableNamesFallBackToOffset(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "UTC+01:00", temporal.ZoneNameAt(time.FixedZone("XYZ", 3600), at))
	assert.Equal(t, "UTC+01:00:30", temporal.ZoneNameAt(time.FixedZone("LMT", 3630), at))
	assert.Equal(t, "UTC+01:00", temporal.ZoneNameAt(time.FixedZone("EST", 3600), at))
	assert.Equal(t, "EST", temporal.ZoneNameAt(time.FixedZone("EST", -5*3600), at))
	assert.Equal(t, "UTC-00:00:15", temporal.FormatOffset(-15))
	assert.Equal(t, "Europe/Paris", temporal.ZoneNameAt(mustLoad(t, "Europe/Paris"), at))

	loc, err := temporal.LoadZone("UTC+01:00:30")
	require.NoError(t, err)
	_, offset := time.Date(2020, 1, 1, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 3630, offset)

	_, err = temporal.LoadZone("UTC+01:60")
	require.Error(t, err)
	_, err = temporal.LoadZone("UTC+01:00:75")
	require.Error(t, err)
}

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	require.NoError(t, err)
	return loc
}
