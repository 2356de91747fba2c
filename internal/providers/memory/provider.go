package memory

import (
	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/interfaces"
)

// memoryProvider implements the ClassRegistryProvider interface
type memoryProvider struct{}

// NewProvider creates a new in-memory class registry provider
func NewProvider() interfaces.ClassRegistryProvider {
	return &memoryProvider{}
}

// Create creates a new in-memory class registry
func (p *memoryProvider) Create(log logger.Logger) (interfaces.ClassRegistry, error) {
	r := NewClassRegistry(log)
	if err := r.Setup(); err != nil {
		return nil, err
	}
	return r, nil
}
