package typejson

import (
	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/providers/memory"
	"github.com/MichaelAJay/go-typejson/internal/providers/null"
)

// NewMemoryProvider creates a new in-memory class registry provider
func NewMemoryProvider() interfaces.ClassRegistryProvider {
	return memory.NewProvider()
}

// NewNullProvider creates a class registry provider whose registries never
// store anything
func NewNullProvider() interfaces.ClassRegistryProvider {
	return null.NewProvider()
}
