package structs_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/MichaelAJay/go-typejson/internal/structs"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Audit struct {
	CreatedBy string `json:"created_by"`
	Version   int    `json:"version"`
}

type Meta struct {
	Version string `json:"version"`
	Source  string `json:"source"`
}

type Doc struct {
	*Audit
	Title    string            `json:"title" validate:"required"`
	Body     string            `json:"body,omitempty"`
	Secret   string            `json:"-"`
	Labels   map[string]string `json:"labels,omitempty"`
	Score    float64
	internal int
}

type Nested struct {
	Doc
	Meta `json:"meta"`
}

type Account struct {
	Name    string   `json:"name" validate:"required,min=3"`
	Age     int      `json:"age" validate:"min=0,max=150"`
	Email   string   `json:"email" validate:"omitempty,email"`
	Tags    []string `json:"tags" validate:"max=2"`
	Address *Address `json:"address"`
}

type Address struct {
	City string `json:"city" validate:"required"`
}

type Range struct {
	Lo int `json:"lo"`
	Hi int `json:"hi"`
}

func (r *Range) Validate() error {
	if r.Lo > r.Hi {
		return errors.New("lo must not exceed hi")
	}
	return nil
}

type Shape interface{ Area() float64 }

type Square struct {
	Side float64 `json:"side"`
}

func (s *Square) Area() float64 { return s.Side * s.Side }

type Canvas struct {
	Main   Shape          `json:"main"`
	Counts map[int]uint8  `json:"counts"`
	Grid   [2][]int       `json:"grid"`
	Extra  map[string]any `json:"extra"`
	Ptr    *int           `json:"ptr"`
}

func names(fields []structs.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

func TestFields_TagsAndFlattening(t *testing.T) {
	fields := structs.Fields(reflect.TypeFor[Doc]())
	assert.Equal(t, []string{"created_by", "version", "title", "body", "labels", "Score"}, names(fields))

	body, ok := structs.FieldByName(reflect.TypeFor[Doc](), "body")
	require.True(t, ok)
	assert.True(t, body.OmitEmpty)

	_, ok = structs.FieldByName(reflect.TypeFor[Doc](), "Secret")
	assert.False(t, ok)

	score, ok := structs.FieldByName(reflect.TypeFor[Doc](), "score")
	require.True(t, ok, "case-insensitive fallback")
	assert.Equal(t, "Score", score.GoName)
}

func TestFields_NamedEmbeddingStaysNested(t *testing.T) {
	fields := structs.Fields(reflect.TypeFor[Nested]())
	assert.Equal(t, []string{"created_by", "version", "title", "body", "labels", "Score", "meta"}, names(fields))
}

func TestValue_NilEmbeddedPointer(t *testing.T) {
	f, _ := structs.FieldByName(reflect.TypeFor[Doc](), "created_by")
	_, ok := structs.Value(reflect.ValueOf(Doc{}), f)
	assert.False(t, ok)

	v, ok := structs.Value(reflect.ValueOf(Doc{Audit: &Audit{CreatedBy: "me"}}), f)
	require.True(t, ok)
	assert.Equal(t, "me", v.String())
}

func TestIsEmpty(t *testing.T) {
	assert.True(t, structs.IsEmpty(reflect.ValueOf("")))
	assert.True(t, structs.IsEmpty(reflect.ValueOf(map[string]int{})))
	assert.True(t, structs.IsEmpty(reflect.ValueOf((*int)(nil))))
	assert.False(t, structs.IsEmpty(reflect.ValueOf(1.5)))
	assert.False(t, structs.IsEmpty(reflect.ValueOf(Audit{})))
}

func TestAssigner_New(t *testing.T) {
	a := structs.Assigner{}
	v, err := a.New(reflect.TypeFor[*Doc](), map[string]any{
		"created_by": "alice",
		"version":    int64(3),
		"title":      "Hello",
		"labels":     map[string]any{"k": "v"},
		"Score":      int64(7),
		"unknown":    true,
	})
	require.NoError(t, err)

	doc := v.Interface().(*Doc)
	assert.Equal(t, "alice", doc.CreatedBy)
	assert.Equal(t, 3, doc.Version)
	assert.Equal(t, "Hello", doc.Title)
	assert.Equal(t, map[string]string{"k": "v"}, doc.Labels)
	assert.Equal(t, 7.0, doc.Score)
}

func TestAssigner_Strict(t *testing.T) {
	a := structs.Assigner{Strict: true}
	_, err := a.New(reflect.TypeFor[Doc](), map[string]any{"nope": 1})
	require.ErrorIs(t, err, typejsonErrors.ErrUnreconstructable)
	assert.Contains(t, err.Error(), `unknown field "nope"`)

	_, err = a.New(reflect.TypeFor[[]int](), map[string]any{})
	require.ErrorIs(t, err, typejsonErrors.ErrUnreconstructable)
}

func TestAssigner_Conversions(t *testing.T) {
	a := structs.Assigner{}
	v, err := a.New(reflect.TypeFor[Canvas](), map[string]any{
		"main":   Square{Side: 2},
		"counts": map[string]any{"1": int64(10), "20": 2.0},
		"grid":   []any{[]any{int64(1)}, []any{}},
		"extra":  map[string]any{"x": []any{true}},
		"ptr":    int64(5),
	})
	require.NoError(t, err)

	c := v.Interface().(Canvas)
	require.IsType(t, &Square{}, c.Main)
	assert.Equal(t, 4.0, c.Main.Area())
	assert.Equal(t, map[int]uint8{1: 10, 20: 2}, c.Counts)
	assert.Equal(t, [2][]int{{1}, {}}, c.Grid)
	assert.Equal(t, map[string]any{"x": []any{true}}, c.Extra)
	require.NotNil(t, c.Ptr)
	assert.Equal(t, 5, *c.Ptr)
}

func TestAssigner_Errors(t *testing.T) {
	a := structs.Assigner{}
	tests := []struct {
		name string
		in   map[string]any
		msg  string
	}{
		{"fraction into int", map[string]any{"ptr": 1.5}, `field "ptr": 1.5 is not an integer`},
		{"overflow", map[string]any{"counts": map[string]any{"1": int64(300)}}, `overflows uint8`},
		{"uint64 overflow", map[string]any{"counts": map[string]any{"1": uint64(1 << 63)}}, `overflows uint8`},
		{"uint64 into int", map[string]any{"ptr": uint64(1 << 63)}, `overflows int`},
		{"bad key", map[string]any{"counts": map[string]any{"x": int64(1)}}, `invalid int key "x"`},
		{"wrong element", map[string]any{"grid": []any{[]any{"a"}, []any{}}}, `field "grid[0][0]": cannot use string as int`},
		{"array length", map[string]any{"grid": []any{}}, `expected 2 elements, got 0`},
		{"interface mismatch", map[string]any{"main": "square"}, `cannot use string as structs_test.Shape`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.New(reflect.TypeFor[Canvas](), tt.in)
			require.ErrorIs(t, err, typejsonErrors.ErrIncompatibleValue)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestKeyString(t *testing.T) {
	s, ok := structs.KeyString(reflect.ValueOf(int8(-3)))
	require.True(t, ok)
	assert.Equal(t, "-3", s)

	_, ok = structs.KeyString(reflect.ValueOf(struct{}{}))
	assert.False(t, ok)
}

func TestValidator_FieldViolations(t *testing.T) {
	v := structs.NewValidator()

	violations, err := v.Check(&Account{Name: "Al", Age: -1, Tags: []string{"a", "b", "c"}, Address: &Address{}})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 4)

	byPath := map[string]typejsonErrors.FieldViolation{}
	for _, fv := range violations {
		byPath[fv.Path] = fv
	}
	require.Len(t, byPath, 4)
	assert.Equal(t, "must be at least 3 characters", byPath["name"].Message)
	assert.Equal(t, "must be at least 0", byPath["age"].Message)
	assert.Equal(t, "max", byPath["tags"].Rule)
	assert.Equal(t, "is required", byPath["address.city"].Message)
}

func TestValidator_Passes(t *testing.T) {
	v := structs.NewValidator()
	violations, err := v.Check(Account{Name: "Alice", Age: 30, Email: "a@example.com"})
	require.NoError(t, err)
	assert.Empty(t, violations)

	violations, err = v.Check(42)
	require.NoError(t, err)
	assert.Empty(t, violations)
}

func TestValidator_ValidateHook(t *testing.T) {
	v := structs.NewValidator()
	_, err := v.Check(Range{Lo: 5, Hi: 1})
	require.EqualError(t, err, "lo must not exceed hi")

	_, err = v.Check(&Range{Lo: 1, Hi: 5})
	require.NoError(t, err)
}
