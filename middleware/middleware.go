package middleware

import (
	"github.com/MichaelAJay/go-typejson/interfaces"
)

// Chain applies multiple middleware functions to a class registry in order
// The middleware are applied from right to left (last to first)
// so the rightmost middleware wraps the registry directly
func Chain(registry interfaces.ClassRegistry, middlewares ...interfaces.RegistryMiddleware) interfaces.ClassRegistry {
	// Apply middleware in reverse order so the first middleware in the list
	// is the outermost (executed first)
	for i := len(middlewares) - 1; i >= 0; i-- {
		registry = middlewares[i](registry)
	}
	return registry
}

// Compose creates a single middleware from multiple middleware functions
// This is useful when you want to create a reusable middleware stack
func Compose(middlewares ...interfaces.RegistryMiddleware) interfaces.RegistryMiddleware {
	return func(registry interfaces.ClassRegistry) interfaces.ClassRegistry {
		return Chain(registry, middlewares...)
	}
}
