package codec_test

import (
	"fmt"
	"math/big"
	"reflect"
	"testing"
	"time"

	"github.com/MichaelAJay/go-typejson/codec"
	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/temporal"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Money struct {
	Cents int64
}

type Priced struct {
	Money
	Label string
}

type DeepPriced struct {
	*Priced
	Note string
}

type hidden struct{ N int }

type HiddenHolder struct {
	hidden
}

type Shouter interface{ Shout() string }

type Loud string

func (l Loud) Shout() string { return string(l) + "!" }

func moneyCodec(t *testing.T, r *codec.Registry) {
	t.Helper()
	_, err := codec.RegisterFor(r,
		func(m Money) (interfaces.Mapping, error) { return interfaces.Mapping{"cents": m.Cents}, nil },
		func(m interfaces.Mapping) (Money, error) {
			c, err := codec.FloatField(m, "cents")
			return Money{Cents: int64(c)}, err
		})
	require.NoError(t, err)
}

func TestRegister_Validation(t *testing.T) {
	r := codec.New()

	_, err := r.Register(nil, func(any) (interfaces.Mapping, error) { return nil, nil }, nil)
	require.ErrorIs(t, err, typejsonErrors.ErrInvalidRegistration)

	_, err = r.Register(reflect.TypeFor[Money](), nil, nil)
	require.ErrorIs(t, err, typejsonErrors.ErrInvalidRegistration)
}

func TestRegister_ReplaceReportsPrevious(t *testing.T) {
	r := codec.New()
	moneyCodec(t, r)
	replaced, err := codec.RegisterFor[Money](r, func(Money) (interfaces.Mapping, error) {
		return interfaces.Mapping{"v": 2}, nil
	}, nil)
	require.NoError(t, err)
	assert.True(t, replaced)

	enc, owner, ok := r.LookupEncoder(reflect.TypeFor[Money]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Money](), owner)
	m, err := enc(Money{})
	require.NoError(t, err)
	assert.Equal(t, interfaces.Mapping{"v": 2}, m)

	_, _, ok = r.LookupDecoder(reflect.TypeFor[Money]())
	assert.False(t, ok, "replacement without decoder drops the old decoder")
}

func TestUnregister(t *testing.T) {
	r := codec.New()
	moneyCodec(t, r)
	assert.True(t, r.Has(reflect.TypeFor[Money]()))
	assert.True(t, r.Unregister(reflect.TypeFor[Money]()))
	assert.False(t, r.Unregister(reflect.TypeFor[Money]()))
	_, _, ok := r.LookupEncoder(reflect.TypeFor[Money]())
	assert.False(t, ok)
}

func TestLookupEncoder_PointerVariant(t *testing.T) {
	r := codec.New()
	moneyCodec(t, r)

	enc, owner, ok := r.LookupEncoder(reflect.TypeFor[*Money]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Money](), owner)
	m, err := enc(&Money{Cents: 5})
	require.NoError(t, err)
	assert.Equal(t, interfaces.Mapping{"cents": int64(5)}, m)
}

func TestLookupEncoder_AncestorFallback(t *testing.T) {
	r := codec.New()
	moneyCodec(t, r)

	enc, owner, ok := r.LookupEncoder(reflect.TypeFor[Priced]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Money](), owner)
	m, err := enc(Priced{Money: Money{Cents: 250}, Label: "x"})
	require.NoError(t, err)
	assert.Equal(t, interfaces.Mapping{"cents": int64(250)}, m)

	enc, _, ok = r.LookupEncoder(reflect.TypeFor[*DeepPriced]())
	require.True(t, ok)
	m, err = enc(&DeepPriced{Priced: &Priced{Money: Money{Cents: 9}}})
	require.NoError(t, err)
	assert.Equal(t, interfaces.Mapping{"cents": int64(9)}, m)

	_, err = enc(&DeepPriced{})
	require.Error(t, err, "nil embedded pointer cannot be encoded")
}

func TestLookupEncoder_SkipsUnexportedEmbedding(t *testing.T) {
	r := codec.New()
	_, err := codec.RegisterFor[hidden](r, func(hidden) (interfaces.Mapping, error) { return nil, nil }, nil)
	require.NoError(t, err)

	_, _, ok := r.LookupEncoder(reflect.TypeFor[HiddenHolder]())
	assert.False(t, ok)
}

func TestLookupEncoder_Interface(t *testing.T) {
	r := codec.New()
	_, err := codec.RegisterFor[Shouter](r, func(s Shouter) (interfaces.Mapping, error) {
		return interfaces.Mapping{"shout": s.Shout()}, nil
	}, nil)
	require.NoError(t, err)

	enc, owner, ok := r.LookupEncoder(reflect.TypeFor[Loud]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Shouter](), owner)
	m, err := enc(Loud("hey"))
	require.NoError(t, err)
	assert.Equal(t, "hey!", m["shout"])
}

func TestLookupDecoder_Variants(t *testing.T) {
	r := codec.New()
	moneyCodec(t, r)

	dec, _, ok := r.LookupDecoder(reflect.TypeFor[*Money]())
	require.True(t, ok)
	v, err := dec(interfaces.Mapping{"cents": int64(7)})
	require.NoError(t, err)
	assert.Equal(t, &Money{Cents: 7}, v)

	dec, owner, ok := r.LookupDecoder(reflect.TypeFor[*DeepPriced]())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[Money](), owner)
	v, err = dec(interfaces.Mapping{"cents": int64(3)})
	require.NoError(t, err)
	assert.Equal(t, &DeepPriced{Priced: &Priced{Money: Money{Cents: 3}}}, v)
}

func TestTypes_Sorted(t *testing.T) {
	r := codec.NewWithBuiltins()
	types := r.Types()
	require.NotEmpty(t, types)
	for i := 1; i < len(types); i++ {
		assert.LessOrEqual(t, types[i-1].String(), types[i].String())
	}
	assert.True(t, r.Has(reflect.TypeFor[time.Time]()))
}

func TestRegisterFor_RejectsWrongValue(t *testing.T) {
	r := codec.New()
	moneyCodec(t, r)
	enc, _, _ := r.LookupEncoder(reflect.TypeFor[Money]())
	_, err := enc("not money")
	require.ErrorIs(t, err, typejsonErrors.ErrIncompatibleValue)
}

func roundTrip[T any](t *testing.T, v T) T {
	t.Helper()
	r := codec.NewWithBuiltins()
	typ := reflect.TypeFor[T]()
	enc, _, ok := r.LookupEncoder(typ)
	require.True(t, ok, "no encoder for %v", typ)
	dec, _, ok := r.LookupDecoder(typ)
	require.True(t, ok, "no decoder for %v", typ)

	m, err := enc(v)
	require.NoError(t, err)
	out, err := dec(m)
	require.NoError(t, err)
	return out.(T)
}

func TestBuiltins_RoundTrip(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	dt := time.Date(2023, 12, 25, 14, 30, 45, 123456000, ny)
	got := roundTrip(t, dt)
	assert.True(t, dt.Equal(got))
	assert.Equal(t, "America/New_York", got.Location().String())

	nano := time.Date(2023, 1, 1, 0, 0, 0, 1, time.UTC)
	assert.True(t, nano.Equal(roundTrip(t, nano)))

	fixed := time.Date(2023, 1, 1, 9, 0, 0, 0, time.FixedZone("", 5*3600+1800))
	assert.True(t, fixed.Equal(roundTrip(t, fixed)))

	named := time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.FixedZone("XYZ", 3600))
	gotNamed := roundTrip(t, named)
	assert.True(t, named.Equal(gotNamed))
	_, offset := gotNamed.Zone()
	assert.Equal(t, 3600, offset)

	lmt := time.Date(1850, 3, 1, 12, 0, 0, 0, time.FixedZone("LMT", 3600+30))
	gotLMT := roundTrip(t, lmt)
	assert.True(t, lmt.Equal(gotLMT))
	_, offset = gotLMT.Zone()
	assert.Equal(t, 3630, offset)

	d := temporal.NewDate(2024, time.February, 29)
	assert.Equal(t, d, roundTrip(t, d))

	tod := temporal.NewTimeOfDay(14, 30, 45, 123456000, time.UTC)
	assert.True(t, tod.Equal(roundTrip(t, tod)))
	naive := temporal.NewTimeOfDay(1, 2, 3, 0, nil)
	assert.True(t, naive.Equal(roundTrip(t, naive)))

	dur := 26*time.Hour + 3*time.Minute + 4*time.Second + 500*time.Millisecond
	assert.Equal(t, dur, roundTrip(t, dur))
	assert.Equal(t, -time.Nanosecond, roundTrip(t, -time.Nanosecond))

	long := 200*24*time.Hour + 123456789*time.Nanosecond
	gotLong := roundTrip(t, long)
	assert.InDelta(t, float64(long), float64(gotLong), float64(long)/(1<<50))
	assert.Equal(t, long.Truncate(time.Microsecond), gotLong.Truncate(time.Microsecond))

	assert.Equal(t, ny.String(), roundTrip(t, ny).String())
	assert.Equal(t, []byte{0, 1, 2, 255}, roundTrip(t, []byte{0, 1, 2, 255}))

	bi, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, 0, bi.Cmp(roundTrip(t, bi)))

	rat := big.NewRat(1, 3)
	assert.Equal(t, 0, rat.Cmp(roundTrip(t, rat)))

	bf := new(big.Float).SetPrec(200).SetFloat64(1.25)
	gotF := roundTrip(t, bf)
	assert.Equal(t, 0, bf.Cmp(gotF))
	assert.Equal(t, uint(200), gotF.Prec())
}

func TestBuiltins_WireFormat(t *testing.T) {
	r := codec.NewWithBuiltins()
	enc, _, _ := r.LookupEncoder(reflect.TypeFor[time.Time]())
	m, err := enc(time.Date(2023, 12, 25, 14, 30, 45, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, interfaces.Mapping{"datetime": "2023-12-25 14:30:45.000000", "tzinfo": "UTC"}, m)

	m, err = enc(time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("XYZ", 3600)))
	require.NoError(t, err)
	assert.Equal(t, "UTC+01:00", m["tzinfo"])

	enc, _, _ = r.LookupEncoder(reflect.TypeFor[time.Duration]())
	m, err = enc(90 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, interfaces.Mapping{"seconds": 90.0}, m)
}

func TestBuiltins_DecodeErrors(t *testing.T) {
	r := codec.NewWithBuiltins()
	dec, _, _ := r.LookupDecoder(reflect.TypeFor[time.Time]())
	_, err := dec(interfaces.Mapping{})
	require.Error(t, err)
	_, err = dec(interfaces.Mapping{"datetime": "nope"})
	require.Error(t, err)
	_, err = dec(interfaces.Mapping{"datetime": "2023-01-01 00:00:00.000000", "tzinfo": "Nowhere/Land"})
	require.Error(t, err)

	dec, _, _ = r.LookupDecoder(reflect.TypeFor[*big.Int]())
	_, err = dec(interfaces.Mapping{"int": "12x"})
	require.Error(t, err)

	dec, _, _ = r.LookupDecoder(reflect.TypeFor[time.Duration]())
	_, err = dec(interfaces.Mapping{"seconds": "5"})
	require.EqualError(t, err, fmt.Sprintf("field %q must be a number, got string", "seconds"))
}
