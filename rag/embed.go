package rag

import (
	"fmt"
	"time"

	"github.com/askcampus/campusrag/rag/providers"
)

// EmbedderConfig holds the configuration for creating an Embedder.
type EmbedderConfig struct {
	Provider string
	Options  map[string]interface{}
}

// EmbedderOption configures the EmbedderConfig.
type EmbedderOption func(*EmbedderConfig)

// SetProvider sets the provider for the Embedder.
func SetProvider(provider string) EmbedderOption {
	return func(c *EmbedderConfig) {
		c.Provider = provider
	}
}

// SetModel sets the model for the Embedder.
func SetModel(model string) EmbedderOption {
	return func(c *EmbedderConfig) {
		c.Options["model"] = model
	}
}

// SetAPIKey sets the API key for the Embedder.
func SetAPIKey(apiKey string) EmbedderOption {
	return func(c *EmbedderConfig) {
		c.Options["api_key"] = apiKey
	}
}

// SetBaseURL points the Embedder at an OpenAI-compatible endpoint.
func SetBaseURL(url string) EmbedderOption {
	return func(c *EmbedderConfig) {
		c.Options["api_url"] = url
	}
}

// SetDimension overrides the embedding dimension reported by the provider.
func SetDimension(dim int) EmbedderOption {
	return func(c *EmbedderConfig) {
		c.Options["dimension"] = dim
	}
}

// SetEmbedderTimeout sets the per-request timeout for the Embedder.
func SetEmbedderTimeout(timeout time.Duration) EmbedderOption {
	return func(c *EmbedderConfig) {
		c.Options["timeout"] = timeout
	}
}

// SetOption sets a custom option for the Embedder.
func SetOption(key string, value interface{}) EmbedderOption {
	return func(c *EmbedderConfig) {
		c.Options[key] = value
	}
}

// NewEmbedder creates an Embedder instance from the registered provider
// matching the configured name.
func NewEmbedder(opts ...EmbedderOption) (providers.Embedder, error) {
	config := &EmbedderConfig{
		Options: make(map[string]interface{}),
	}
	for _, opt := range opts {
		opt(config)
	}
	if config.Provider == "" {
		return nil, fmt.Errorf("provider must be specified")
	}
	factory, err := providers.GetEmbedderFactory(config.Provider)
	if err != nil {
		return nil, err
	}
	return factory(config.Options)
}
