package typejson

//go:generate go run tools/generate_exports.go

import (
	"github.com/MichaelAJay/go-typejson/interfaces"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

type (
	RegisterOption  = interfaces.RegisterOption
	RegisterOptions = interfaces.RegisterOptions
)

// =============================================================================
// CONSTANTS
// =============================================================================

const (
	ClassKey     = interfaces.ClassKey
	EnumNameKey  = interfaces.EnumNameKey
	EnumValueKey = interfaces.EnumValueKey
	ModuleKey    = interfaces.ModuleKey
)

// =============================================================================
// ERRORS
// =============================================================================

type (
	DecodeError    = typejsonErrors.DecodeError
	EncodeError    = typejsonErrors.EncodeError
	FieldViolation = typejsonErrors.FieldViolation
	SyntaxError    = typejsonErrors.SyntaxError
)

var (
	ErrAlreadyInitialized  = typejsonErrors.ErrAlreadyInitialized
	ErrClassInheritance    = typejsonErrors.ErrClassInheritance
	ErrClassNotFound       = typejsonErrors.ErrClassNotFound
	ErrCodecFailed         = typejsonErrors.ErrCodecFailed
	ErrContextCanceled     = typejsonErrors.ErrContextCanceled
	ErrDecode              = typejsonErrors.ErrDecode
	ErrEncode              = typejsonErrors.ErrEncode
	ErrHookFailed          = typejsonErrors.ErrHookFailed
	ErrIncompatibleValue   = typejsonErrors.ErrIncompatibleValue
	ErrInvalidDestination  = typejsonErrors.ErrInvalidDestination
	ErrInvalidKey          = typejsonErrors.ErrInvalidKey
	ErrInvalidRegistration = typejsonErrors.ErrInvalidRegistration
	ErrNotInitialized      = typejsonErrors.ErrNotInitialized
	ErrStoreClosed         = typejsonErrors.ErrStoreClosed
	ErrSyntax              = typejsonErrors.ErrSyntax
	ErrUnencodable         = typejsonErrors.ErrUnencodable
	ErrUnreconstructable   = typejsonErrors.ErrUnreconstructable
	ErrUnresolvable        = typejsonErrors.ErrUnresolvable
	ErrValidation          = typejsonErrors.ErrValidation
	ClassInheritance       = typejsonErrors.ClassInheritance
	ClassNotFound          = typejsonErrors.ClassNotFound
)

// =============================================================================
// FUNCTIONS
// =============================================================================

var (
	ApplyRegisterOptions    = interfaces.ApplyRegisterOptions
	WithName                = interfaces.WithName
	WithoutDuplicateWarning = interfaces.WithoutDuplicateWarning
)

// =============================================================================
// HOOKS
// =============================================================================

type (
	MapMarshaler   = interfaces.MapMarshaler
	MapUnmarshaler = interfaces.MapUnmarshaler
	Validatable    = interfaces.Validatable
)

// =============================================================================
// INTERFACES
// =============================================================================

type (
	ClassRegistry         = interfaces.ClassRegistry
	ClassRegistryProvider = interfaces.ClassRegistryProvider
	CodecRegistry         = interfaces.CodecRegistry
	RegistryMiddleware    = interfaces.RegistryMiddleware
)

// =============================================================================
// TYPES
// =============================================================================

type (
	DecodeFunc = interfaces.DecodeFunc
	EncodeFunc = interfaces.EncodeFunc
	Mapping    = interfaces.Mapping
	TypeTag    = interfaces.TypeTag
)

// =============================================================================
// COMPILE-TIME VALIDATION
// =============================================================================
// Ensure re-exported types maintain compatibility

var (
	_ RegisterOption = interfaces.WithName("")
	_ RegisterOption = interfaces.WithoutDuplicateWarning()
	_ error          = (*DecodeError)(nil)
	_ error          = (*EncodeError)(nil)
	_ error          = (*SyntaxError)(nil)
)
