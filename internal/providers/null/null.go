package null

import (
	"fmt"
	"reflect"

	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/interfaces"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// nullRegistry implements the ClassRegistry interface but doesn't store anything
// Useful when decoding must only resolve types through the type index
type nullRegistry struct {
	logger logger.Logger
}

// NullRegistry exposes the null registry implementation
type NullRegistry struct {
	*nullRegistry
}

// NewNullRegistry creates a new null class registry
func NewNullRegistry(log logger.Logger) interfaces.ClassRegistry {
	return &NullRegistry{&nullRegistry{logger: log}}
}

func (r *nullRegistry) Setup() error { return nil }

func (r *nullRegistry) Teardown() {}

func (r *nullRegistry) SetLogger(log logger.Logger) {
	r.logger = log
}

// RegisterClass validates t and discards it
func (r *nullRegistry) RegisterClass(t reflect.Type, opts ...interfaces.RegisterOption) error {
	if t == nil {
		return fmt.Errorf("%w: class type is nil", typejsonErrors.ErrInvalidRegistration)
	}
	if r.logger != nil {
		r.logger.Debug("Null registry discarding class", logger.Field{Key: "type", Value: t.String()})
	}
	return nil
}

func (r *nullRegistry) RegisterClasses(types []reflect.Type) error {
	for _, t := range types {
		if err := r.RegisterClass(t); err != nil {
			return err
		}
	}
	return nil
}

func (r *nullRegistry) RegisterClassesMap(classes map[string]reflect.Type) error {
	for name, t := range classes {
		if err := r.RegisterClass(t, interfaces.WithName(name)); err != nil {
			return err
		}
	}
	return nil
}

func (r *nullRegistry) UnregisterClass(t reflect.Type) error {
	if t == nil {
		return fmt.Errorf("%w: class type is nil", typejsonErrors.ErrInvalidRegistration)
	}
	return typejsonErrors.ClassNotFound(t.Name())
}

func (r *nullRegistry) UnregisterClassByName(name string) error {
	return typejsonErrors.ClassNotFound(name)
}

// GetClass always misses
func (r *nullRegistry) GetClass(name string) (reflect.Type, bool) {
	return nil, false
}

func (r *nullRegistry) GetRequiredClass(name string) (reflect.Type, error) {
	return nil, typejsonErrors.ClassNotFound(name)
}

func (r *nullRegistry) GetRequiredSubclass(name string, base reflect.Type) (reflect.Type, error) {
	return nil, typejsonErrors.ClassNotFound(name)
}

func (r *nullRegistry) GetRequiredStruct(name string) (reflect.Type, error) {
	return nil, typejsonErrors.ClassNotFound(name)
}

func (r *nullRegistry) HasClass(name string) bool { return false }

func (r *nullRegistry) HasSubclass(name string, base reflect.Type) bool { return false }

func (r *nullRegistry) Names() []string { return []string{} }

func (r *nullRegistry) Len() int { return 0 }
