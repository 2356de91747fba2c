package typejson_errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error categories. Every error returned by the encoder, decoder and the
// registries matches at least one of these with errors.Is.
var (
	ErrSyntax = errors.New("typejson: syntax error")
	ErrDecode = errors.New("typejson: decode error")
	ErrEncode = errors.New("typejson: encode error")
)

// Specific failure kinds.
var (
	ErrUnencodable         = errors.New("typejson: unencodable type")
	ErrUnresolvable        = errors.New("typejson: unresolvable type")
	ErrUnreconstructable   = errors.New("typejson: unreconstructable type")
	ErrValidation          = errors.New("typejson: validation failed")
	ErrHookFailed          = errors.New("typejson: hook failed")
	ErrCodecFailed         = errors.New("typejson: codec function failed")
	ErrClassNotFound       = errors.New("typejson: class not found")
	ErrClassInheritance    = errors.New("typejson: class does not satisfy expected base")
	ErrInvalidRegistration = errors.New("typejson: invalid registration")
	ErrNotInitialized      = errors.New("typejson: manager is not initialized")
	ErrAlreadyInitialized  = errors.New("typejson: manager is already initialized")
	ErrInvalidDestination  = errors.New("typejson: destination must be a non-nil pointer")
	ErrIncompatibleValue   = errors.New("typejson: value is not assignable to destination")
	ErrInvalidKey          = errors.New("typejson: invalid key")
	ErrStoreClosed         = errors.New("typejson: store is closed")
	ErrContextCanceled     = errors.New("typejson: operation canceled")
)

// SyntaxError reports malformed JSON text. It never matches ErrDecode so
// callers can tell bad JSON from bad types.
type SyntaxError struct {
	Msg    string
	Offset int64 // 1-based byte position where parsing failed, 0 if unknown
}

func (e *SyntaxError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("typejson: syntax error at offset %d: %s", e.Offset, e.Msg)
	}
	return "typejson: syntax error: " + e.Msg
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// FieldViolation is one structured-type constraint that failed.
type FieldViolation struct {
	Path    string // JSON path of the field, e.g. "owner.age"
	Rule    string // constraint that failed, e.g. "min"
	Message string
}

func (v FieldViolation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return fmt.Sprintf("field %q: %s", v.Path, v.Message)
}

// DecodeError is returned when a tagged object cannot be turned back into a
// value. Kind is one of ErrUnresolvable, ErrUnreconstructable, ErrValidation,
// ErrHookFailed, ErrCodecFailed or ErrIncompatibleValue.
type DecodeError struct {
	Class      string
	Module     string
	Kind       error
	Msg        string
	Violations []FieldViolation
	Err        error
}

func (e *DecodeError) Error() string {
	var b strings.Builder
	b.WriteString("typejson: decode error")
	if e.Class != "" {
		b.WriteString(" for ")
		if e.Module != "" {
			b.WriteString(e.Module)
			b.WriteByte('.')
		}
		b.WriteString(e.Class)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if len(e.Violations) > 0 {
		parts := make([]string, len(e.Violations))
		for i, v := range e.Violations {
			parts[i] = v.String()
		}
		b.WriteString(": ")
		b.WriteString(strings.Join(parts, "; "))
	}
	if e.Err != nil && len(e.Violations) == 0 {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap exposes the category, the kind and the original cause.
func (e *DecodeError) Unwrap() []error {
	errs := []error{ErrDecode}
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// EncodeError is returned when a value cannot be turned into a mapping.
type EncodeError struct {
	Type string
	Kind error
	Msg  string
	Err  error
}

func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("typejson: encode error for type %s", e.Type)
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap exposes the category, the kind and the original cause.
func (e *EncodeError) Unwrap() []error {
	errs := []error{ErrEncode}
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// ClassNotFound builds the error returned by required registry lookups.
func ClassNotFound(name string) error {
	return fmt.Errorf("class '%s' not found in registry: %w", name, ErrClassNotFound)
}

// ClassInheritance builds the error returned when a registered class does not
// satisfy the expected base.
func ClassInheritance(name, found, base string) error {
	return fmt.Errorf("class '%s' (%s) is not a subclass of %s: %w", name, found, base, ErrClassInheritance)
}
