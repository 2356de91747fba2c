package providers

import (
	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/providers/null"
)

// NewNullProvider creates a new null class registry provider
// This provides a clean public API while keeping the implementation internal
func NewNullProvider() interfaces.ClassRegistryProvider {
	return null.NewProvider()
}
