// Package providers implements embedding service providers for campusrag.
// Providers convert chunk text into vector representations; the registry
// lets stores and retrievers pick a provider by name from configuration.
package providers

import (
	"context"
	"fmt"
	"sync"
)

// Embedder is the contract for embedding implementations.
type Embedder interface {
	// Embed generates one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the size of the vectors produced by the current model.
	Dimension() (int, error)
}

// EmbedderFactory creates a new Embedder from provider-specific options.
type EmbedderFactory func(config map[string]interface{}) (Embedder, error)

var (
	embedderFactories = make(map[string]EmbedderFactory)
	mu                sync.RWMutex
)

// RegisterEmbedder registers a new embedder factory under the given name.
// Registering an existing name overwrites the previous factory.
func RegisterEmbedder(name string, factory EmbedderFactory) {
	mu.Lock()
	defer mu.Unlock()
	embedderFactories[name] = factory
}

// GetEmbedderFactory returns the factory for the given embedder name.
func GetEmbedderFactory(name string) (EmbedderFactory, error) {
	mu.RLock()
	defer mu.RUnlock()
	factory, ok := embedderFactories[name]
	if !ok {
		return nil, fmt.Errorf("embedder not found: %s", name)
	}
	return factory, nil
}

// List returns the names of all registered embedder providers.
func List() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(embedderFactories))
	for name := range embedderFactories {
		names = append(names, name)
	}
	return names
}
