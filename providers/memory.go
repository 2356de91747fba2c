package providers

import (
	"github.com/MichaelAJay/go-typejson/docstore"
	memorystore "github.com/MichaelAJay/go-typejson/docstore/memory"
	"github.com/MichaelAJay/go-typejson/interfaces"
	"github.com/MichaelAJay/go-typejson/internal/providers/memory"
)

// NewMemoryProvider creates a new in-memory class registry provider
// This provides a clean public API while keeping the implementation internal
func NewMemoryProvider() interfaces.ClassRegistryProvider {
	return memory.NewProvider()
}

// NewMemoryStore creates an in-process document store
func NewMemoryStore(opts ...docstore.Option) (docstore.Store, error) {
	return memorystore.New(opts...)
}
