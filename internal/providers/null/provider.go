package null

import (
	"github.com/MichaelAJay/go-logger"

	"github.com/MichaelAJay/go-typejson/interfaces"
)

// nullProvider implements the ClassRegistryProvider interface
type nullProvider struct{}

// NewProvider creates a new null class registry provider
func NewProvider() interfaces.ClassRegistryProvider {
	return &nullProvider{}
}

// Create creates a new null class registry
func (p *nullProvider) Create(log logger.Logger) (interfaces.ClassRegistry, error) {
	return NewNullRegistry(log), nil
}
