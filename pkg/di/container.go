// Package di provides dependency injection container
package di

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/neurago/asagraph/pkg/config"
	"github.com/neurago/asagraph/pkg/neuro"
	"github.com/neurago/asagraph/pkg/registry"
)

// RegistryFactory builds a sensor registry from configuration
type RegistryFactory func(cfg *config.Config, log zerolog.Logger) (*registry.Manager, error)

// Container holds all the dependencies for the application
type Container struct {
	registryFactory RegistryFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		registryFactory: BuildRegistry,
	}
}

// GetRegistryFactory returns the registry factory
func (c *Container) GetRegistryFactory() RegistryFactory {
	return c.registryFactory
}

// SetRegistryFactory allows overriding the registry factory (for testing)
func (c *Container) SetRegistryFactory(factory RegistryFactory) {
	c.registryFactory = factory
}

// BuildRegistry creates the sensors declared by the configuration
func BuildRegistry(cfg *config.Config, log zerolog.Logger) (*registry.Manager, error) {
	manager := registry.NewManager(log)
	for _, sensor := range cfg.Sensors {
		category, err := neuro.ParseDataCategory(sensor.Category)
		if err != nil {
			return nil, fmt.Errorf("sensor %q: %w", sensor.Name, err)
		}
		if _, err := manager.Create(sensor.Name, category, sensor.Order); err != nil {
			return nil, fmt.Errorf("sensor %q: %w", sensor.Name, err)
		}
	}
	return manager, nil
}
