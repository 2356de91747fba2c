package memory

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/lineage"
	typejsonErrors "github.com/MichaelAJay/go-typejson/typejson_errors"
)

// classRegistry implements the ClassRegistry interface using an in-memory map
type classRegistry struct {
	classes map[string]reflect.Type
	mu      sync.RWMutex
	logger  logger.Logger
}

// ClassRegistry exposes the in-memory class registry implementation
type ClassRegistry struct {
	*classRegistry
}

// NewClassRegistry creates an empty in-memory class registry. log may be nil.
func NewClassRegistry(log logger.Logger) interfaces.ClassRegistry {
	if log == nil {
		log = logger.New(logger.DefaultConfig)
	}
	return &ClassRegistry{&classRegistry{
		classes: make(map[string]reflect.Type),
		logger:  log,
	}}
}

// Setup prepares the registry. The in-memory registry needs nothing.
func (r *classRegistry) Setup() error {
	return nil
}

// Teardown removes every registered class. It is safe to call repeatedly.
func (r *classRegistry) Teardown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.classes = make(map[string]reflect.Type)
}

// SetLogger replaces the registry logger
func (r *classRegistry) SetLogger(log logger.Logger) {
	if log == nil {
		return
	}
	r.mu.Lock()
	r.logger = log
	r.mu.Unlock()
}

// RegisterClass registers t under its class name, or the name given with
// interfaces.WithName. Generic instantiations register under their base
// name. Re-registering a name overwrites it with a warning.
func (r *classRegistry) RegisterClass(t reflect.Type, opts ...interfaces.RegisterOption) error {
	if t == nil {
		return fmt.Errorf("%w: class type is nil", typejsonErrors.ErrInvalidRegistration)
	}
	o := interfaces.ApplyRegisterOptions(opts...)
	name := o.Name
	if name == "" {
		name = lineage.RegistryName(t)
	}
	if name == "" {
		return fmt.Errorf("%w: cannot derive a class name for %v", typejsonErrors.ErrInvalidRegistration, t)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists && o.WarnIfDuplicate {
		r.logger.Warn("Class already exists in registry, overwriting",
			logger.Field{Key: "class", Value: name},
			logger.Field{Key: "type", Value: t.String()})
	}
	r.classes[name] = t
	return nil
}

// RegisterClasses registers every type under its class name. Names already
// present are skipped.
func (r *classRegistry) RegisterClasses(types []reflect.Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	added := 0
	for _, t := range types {
		if t == nil {
			return fmt.Errorf("%w: class type is nil", typejsonErrors.ErrInvalidRegistration)
		}
		name := lineage.RegistryName(t)
		if _, exists := r.classes[name]; exists {
			r.logger.Debug("Class already exists in registry, skipping",
				logger.Field{Key: "class", Value: name})
			continue
		}
		r.classes[name] = t
		added++
	}
	r.logger.Debug("Registered classes",
		logger.Field{Key: "count", Value: added},
		logger.Field{Key: "total", Value: len(r.classes)})
	return nil
}

// RegisterClassesMap registers each type under its map key.
func (r *classRegistry) RegisterClassesMap(classes map[string]reflect.Type) error {
	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := r.RegisterClass(classes[name], interfaces.WithName(name)); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterClass removes t, registered under its class name.
func (r *classRegistry) UnregisterClass(t reflect.Type) error {
	if t == nil {
		return fmt.Errorf("%w: class type is nil", typejsonErrors.ErrInvalidRegistration)
	}
	return r.UnregisterClassByName(lineage.RegistryName(t))
}

// UnregisterClassByName removes the class registered under name.
func (r *classRegistry) UnregisterClassByName(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; !exists {
		return typejsonErrors.ClassNotFound(name)
	}
	delete(r.classes, name)
	return nil
}

// GetClass returns the class registered under name.
func (r *classRegistry) GetClass(name string) (reflect.Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.classes[name]
	return t, ok
}

// GetRequiredClass is GetClass that fails with ErrClassNotFound.
func (r *classRegistry) GetRequiredClass(name string) (reflect.Type, error) {
	t, ok := r.GetClass(name)
	if !ok {
		return nil, typejsonErrors.ClassNotFound(name)
	}
	return t, nil
}

// GetRequiredSubclass also demands that the class is-a base.
func (r *classRegistry) GetRequiredSubclass(name string, base reflect.Type) (reflect.Type, error) {
	t, err := r.GetRequiredClass(name)
	if err != nil {
		return nil, err
	}
	if !lineage.IsSubtype(t, base) {
		return nil, typejsonErrors.ClassInheritance(name, t.String(), base.String())
	}
	return t, nil
}

// GetRequiredStruct also demands a struct type (or pointer to one).
func (r *classRegistry) GetRequiredStruct(name string) (reflect.Type, error) {
	t, err := r.GetRequiredClass(name)
	if err != nil {
		return nil, err
	}
	if base, _ := lineage.Base(t); base.Kind() != reflect.Struct {
		return nil, typejsonErrors.ClassInheritance(name, t.String(), "a struct type")
	}
	return t, nil
}

// HasClass reports whether name is registered.
func (r *classRegistry) HasClass(name string) bool {
	_, ok := r.GetClass(name)
	return ok
}

// HasSubclass reports whether name is registered and is-a base.
func (r *classRegistry) HasSubclass(name string, base reflect.Type) bool {
	t, ok := r.GetClass(name)
	return ok && lineage.IsSubtype(t, base)
}

// Names returns the registered names in sorted order.
func (r *classRegistry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Len returns the number of registered classes.
func (r *classRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.classes)
}
