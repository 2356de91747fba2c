package middleware

import (
	"reflect"
	"time"

	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/interfaces"
)

// loggingRegistry wraps a ClassRegistry with logging capabilities
type loggingRegistry struct {
	interfaces.ClassRegistry
	logger logger.Logger
}

// NewLoggingMiddleware creates a new logging middleware
func NewLoggingMiddleware(logger logger.Logger) interfaces.RegistryMiddleware {
	return func(next interfaces.ClassRegistry) interfaces.ClassRegistry {
		return &loggingRegistry{
			ClassRegistry: next,
			logger:        logger,
		}
	}
}

// RegisterClass registers a class with logging
func (r *loggingRegistry) RegisterClass(t reflect.Type, opts ...interfaces.RegisterOption) error {
	start := time.Now()
	err := r.ClassRegistry.RegisterClass(t, opts...)
	duration := time.Since(start)

	if err != nil {
		r.logger.Error("Class registration error", logger.Field{Key: "type", Value: typeName(t)}, logger.Field{Key: "error", Value: err})
	} else {
		r.logger.Debug("Class registered", logger.Field{Key: "type", Value: typeName(t)}, logger.Field{Key: "duration", Value: duration})
	}

	return err
}

// RegisterClasses registers several classes with logging
func (r *loggingRegistry) RegisterClasses(types []reflect.Type) error {
	start := time.Now()
	err := r.ClassRegistry.RegisterClasses(types)
	duration := time.Since(start)

	if err != nil {
		r.logger.Error("Class registration error", logger.Field{Key: "count", Value: len(types)}, logger.Field{Key: "error", Value: err})
	} else {
		r.logger.Debug("Classes registered", logger.Field{Key: "count", Value: len(types)}, logger.Field{Key: "duration", Value: duration})
	}

	return err
}

// RegisterClassesMap registers named classes with logging
func (r *loggingRegistry) RegisterClassesMap(classes map[string]reflect.Type) error {
	err := r.ClassRegistry.RegisterClassesMap(classes)
	if err != nil {
		r.logger.Error("Class registration error", logger.Field{Key: "count", Value: len(classes)}, logger.Field{Key: "error", Value: err})
	} else {
		r.logger.Debug("Classes registered", logger.Field{Key: "count", Value: len(classes)})
	}
	return err
}

// UnregisterClass removes a class with logging
func (r *loggingRegistry) UnregisterClass(t reflect.Type) error {
	err := r.ClassRegistry.UnregisterClass(t)
	if err != nil {
		r.logger.Error("Class unregister error", logger.Field{Key: "type", Value: typeName(t)}, logger.Field{Key: "error", Value: err})
	} else {
		r.logger.Debug("Class unregistered", logger.Field{Key: "type", Value: typeName(t)})
	}
	return err
}

// UnregisterClassByName removes a class with logging
func (r *loggingRegistry) UnregisterClassByName(name string) error {
	err := r.ClassRegistry.UnregisterClassByName(name)
	if err != nil {
		r.logger.Error("Class unregister error", logger.Field{Key: "class", Value: name}, logger.Field{Key: "error", Value: err})
	} else {
		r.logger.Debug("Class unregistered", logger.Field{Key: "class", Value: name})
	}
	return err
}

// GetClass looks a class up with logging
func (r *loggingRegistry) GetClass(name string) (reflect.Type, bool) {
	start := time.Now()
	t, ok := r.ClassRegistry.GetClass(name)
	duration := time.Since(start)

	if ok {
		r.logger.Debug("Class registry hit", logger.Field{Key: "class", Value: name}, logger.Field{Key: "duration", Value: duration})
	} else {
		r.logger.Debug("Class registry miss", logger.Field{Key: "class", Value: name}, logger.Field{Key: "duration", Value: duration})
	}

	return t, ok
}

// GetRequiredClass looks a class up with logging
func (r *loggingRegistry) GetRequiredClass(name string) (reflect.Type, error) {
	t, err := r.ClassRegistry.GetRequiredClass(name)
	if err != nil {
		r.logger.Error("Required class lookup error", logger.Field{Key: "class", Value: name}, logger.Field{Key: "error", Value: err})
	}
	return t, err
}

// GetRequiredSubclass looks a class up with logging
func (r *loggingRegistry) GetRequiredSubclass(name string, base reflect.Type) (reflect.Type, error) {
	t, err := r.ClassRegistry.GetRequiredSubclass(name, base)
	if err != nil {
		r.logger.Error("Required class lookup error", logger.Field{Key: "class", Value: name}, logger.Field{Key: "base", Value: typeName(base)}, logger.Field{Key: "error", Value: err})
	}
	return t, err
}

// GetRequiredStruct looks a class up with logging
func (r *loggingRegistry) GetRequiredStruct(name string) (reflect.Type, error) {
	t, err := r.ClassRegistry.GetRequiredStruct(name)
	if err != nil {
		r.logger.Error("Required class lookup error", logger.Field{Key: "class", Value: name}, logger.Field{Key: "error", Value: err})
	}
	return t, err
}

// Teardown clears the registry with logging
func (r *loggingRegistry) Teardown() {
	count := r.ClassRegistry.Len()
	r.ClassRegistry.Teardown()
	r.logger.Info("Class registry torn down", logger.Field{Key: "removed", Value: count})
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
