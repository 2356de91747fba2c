package structs

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MichaelAJay/go-typejson/interfaces"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// Validator checks `validate` struct tags and the Validatable hook.
type Validator struct {
	tags *validator.Validate
}

// NewValidator creates a validator reporting fields by their JSON names.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "-" {
			return ""
		}
		if idx := strings.Index(name, ","); idx != -1 {
			name = name[:idx]
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return &Validator{tags: v}
}

// Engine exposes the underlying validator for registering custom tags.
func (v *Validator) Engine() *validator.Validate {
	return v.tags
}

// Check validates value, a struct or pointer to one. It returns the failed
// field constraints along with the validator's own error, or the error of the
// value's own Validate method.
func (v *Validator) Check(value any) ([]typejsonErrors.FieldViolation, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, nil
	}

	if err := v.tags.Struct(value); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		out := make([]typejsonErrors.FieldViolation, 0, len(verrs))
		for _, e := range verrs {
			out = append(out, typejsonErrors.FieldViolation{
				Path:    fieldPath(e),
				Rule:    e.Tag(),
				Message: tagMessage(e),
			})
		}
		return out, err
	}

	if hook, ok := As[interfaces.Validatable](rv); ok {
		if err := hook.Validate(); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// As returns rv as an I, trying its pointer when only the pointer method
// set satisfies I.
func As[I any](rv reflect.Value) (I, bool) {
	var zero I
	if !rv.IsValid() {
		return zero, false
	}
	if rv.CanInterface() {
		if h, ok := rv.Interface().(I); ok {
			return h, true
		}
	}
	if !rv.CanInterface() || rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		return zero, false
	}
	var p reflect.Value
	if rv.CanAddr() {
		p = rv.Addr()
	} else {
		p = reflect.New(rv.Type())
		p.Elem().Set(rv)
	}
	h, ok := p.Interface().(I)
	return h, ok
}

// fieldPath strips the top-level struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if idx := strings.Index(ns, "."); idx != -1 {
		return ns[idx+1:]
	}
	return ns
}

func tagMessage(e validator.FieldError) string {
	isString := e.Type().Kind() == reflect.String
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min", "gte":
		if isString {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max", "lte":
		if isString {
			return fmt.Sprintf("must be at most %s characters", e.Param())
		}
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "len":
		return fmt.Sprintf("must have length %s", e.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", e.Param())
	default:
		return fmt.Sprintf("failed validation (%s)", e.Tag())
	}
}

// NewValidatorFrom wraps a caller-configured validator. Field paths use
// whatever tag name function v was set up with.
func NewValidatorFrom(v *validator.Validate) *Validator {
	if v == nil {
		return NewValidator()
	}
	return &Validator{tags: v}
}
