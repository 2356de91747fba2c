package testutil

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

// MockClassRegistry is a ClassRegistry for tests. Every method can be
// overridden with a callback; without one it behaves like a plain map.
type MockClassRegistry struct {
	classes map[string]reflect.Type
	lookups []string
	logger  logger.Logger
	mu      sync.RWMutex

	OnRegisterClassCallback func(t reflect.Type, opts ...interfaces.RegisterOption) error
	OnGetClassCallback      func(name string) (reflect.Type, bool)
	OnUnregisterCallback    func(name string) error
	OnTeardownCallback      func()
}

// NewMockClassRegistry creates an empty mock registry
func NewMockClassRegistry() *MockClassRegistry {
	return &MockClassRegistry{classes: make(map[string]reflect.Type)}
}

// Setup implements ClassRegistry.
func (m *MockClassRegistry) Setup() error { return nil }

// Teardown implements ClassRegistry.
func (m *MockClassRegistry) Teardown() {
	if m.OnTeardownCallback != nil {
		m.OnTeardownCallback()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes = make(map[string]reflect.Type)
}

// SetLogger implements ClassRegistry.
func (m *MockClassRegistry) SetLogger(log logger.Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = log
}

// Logger returns the logger the registry was given
func (m *MockClassRegistry) Logger() logger.Logger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.logger
}

// RegisterClass implements ClassRegistry.
func (m *MockClassRegistry) RegisterClass(t reflect.Type, opts ...interfaces.RegisterOption) error {
	if m.OnRegisterClassCallback != nil {
		return m.OnRegisterClassCallback(t, opts...)
	}
	if t == nil {
		return typejsonErrors.ErrInvalidRegistration
	}
	o := interfaces.ApplyRegisterOptions(opts...)
	name := o.Name
	if name == "" {
		name = lineage.RegistryName(t)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[name] = t
	return nil
}

// RegisterClasses implements ClassRegistry.
func (m *MockClassRegistry) RegisterClasses(types []reflect.Type) error {
	for _, t := range types {
		if err := m.RegisterClass(t); err != nil {
			return err
		}
	}
	return nil
}

// RegisterClassesMap implements ClassRegistry.
func (m *MockClassRegistry) RegisterClassesMap(classes map[string]reflect.Type) error {
	for name, t := range classes {
		if err := m.RegisterClass(t, interfaces.WithName(name)); err != nil {
			return err
		}
	}
	return nil
}

// UnregisterClass implements ClassRegistry.
func (m *MockClassRegistry) UnregisterClass(t reflect.Type) error {
	return m.UnregisterClassByName(lineage.RegistryName(t))
}

// UnregisterClassByName implements ClassRegistry.
func (m *MockClassRegistry) UnregisterClassByName(name string) error {
	if m.OnUnregisterCallback != nil {
		return m.OnUnregisterCallback(name)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.classes[name]; !ok {
		return typejsonErrors.ClassNotFound(name)
	}
	delete(m.classes, name)
	return nil
}

// GetClass implements ClassRegistry. Every name asked for is recorded.
func (m *MockClassRegistry) GetClass(name string) (reflect.Type, bool) {
	m.mu.Lock()
	m.lookups = append(m.lookups, name)
	m.mu.Unlock()

	if m.OnGetClassCallback != nil {
		return m.OnGetClassCallback(name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.classes[name]
	return t, ok
}

// GetRequiredClass implements ClassRegistry.
func (m *MockClassRegistry) GetRequiredClass(name string) (reflect.Type, error) {
	if t, ok := m.GetClass(name); ok {
		return t, nil
	}
	return nil, typejsonErrors.ClassNotFound(name)
}

// GetRequiredSubclass implements ClassRegistry.
func (m *MockClassRegistry) GetRequiredSubclass(name string, base reflect.Type) (reflect.Type, error) {
	t, err := m.GetRequiredClass(name)
	if err != nil {
		return nil, err
	}
	if !lineage.IsSubtype(t, base) {
		return nil, typejsonErrors.ClassInheritance(name, t.String(), base.String())
	}
	return t, nil
}

// GetRequiredStruct implements ClassRegistry.
func (m *MockClassRegistry) GetRequiredStruct(name string) (reflect.Type, error) {
	t, err := m.GetRequiredClass(name)
	if err != nil {
		return nil, err
	}
	if base, _ := lineage.Base(t); base.Kind() != reflect.Struct {
		return nil, typejsonErrors.ClassInheritance(name, t.String(), "a struct type")
	}
	return t, nil
}

// HasClass implements ClassRegistry.
func (m *MockClassRegistry) HasClass(name string) bool {
	_, ok := m.GetClass(name)
	return ok
}

// HasSubclass implements ClassRegistry.
func (m *MockClassRegistry) HasSubclass(name string, base reflect.Type) bool {
	_, err := m.GetRequiredSubclass(name, base)
	return err == nil
}

// Names implements ClassRegistry.
func (m *MockClassRegistry) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.classes))
	for name := range m.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len implements ClassRegistry.
func (m *MockClassRegistry) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.classes)
}

// Lookups returns the names passed to GetClass, in call order
func (m *MockClassRegistry) Lookups() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.lookups...)
}

func (m *MockClassRegistry) String() string {
	return fmt.Sprintf("MockClassRegistry(%d classes)", m.Len())
}

var _ interfaces.ClassRegistry = (*MockClassRegistry)(nil)

// MockProvider implements ClassRegistryProvider for testing
type MockProvider struct {
	createCallback func(log logger.Logger) (interfaces.ClassRegistry, error)
	Registry       *MockClassRegistry
}

// NewMockProvider creates a provider handing out one shared mock registry
func NewMockProvider() *MockProvider {
	return &MockProvider{Registry: NewMockClassRegistry()}
}

// Create implements ClassRegistryProvider.
func (p *MockProvider) Create(log logger.Logger) (interfaces.ClassRegistry, error) {
	if p.createCallback != nil {
		return p.createCallback(log)
	}
	p.Registry.SetLogger(log)
	return p.Registry, nil
}

// SetCreateCallback overrides Create
func (p *MockProvider) SetCreateCallback(callback func(log logger.Logger) (interfaces.ClassRegistry, error)) {
	p.createCallback = callback
}

var _ interfaces.ClassRegistryProvider = (*MockProvider)(nil)
