// Package di provides a lightweight wrapper around uber's dig dependency
// injection framework. It simplifies container setup and provides type-safe
// dependency retrieval with generics.
package di

import (
	"go.uber.org/dig"
)

// Container defines a dependency injection container based on uber's dig.
// This interface allows for easy testing and mocking of the DI container.
type Container interface {
	// Invoke executes a function, injecting its dependencies from the container.
	Invoke(function any, opts ...dig.InvokeOption) error

	// Provide registers a constructor function in the container.
	Provide(constructor any, opts ...dig.ProvideOption) error
}

// MustGet returns an instance constructed via dependency injection or panics.
// This is a convenience function for retrieving a dependency from the
// container when you're certain it exists.
//
// Example:
//
//	d := MustGet[*deployer.Deployer](container)
func MustGet[T any](container Container) (want T) {
	callback := func(got T) {
		want = got
	}
	if err := container.Invoke(callback); err != nil {
		panic(err)
	}
	return want
}

// New creates a new dependency injection container for the given AWS region.
// The region is registered as a string dependency so providers can request it
// as a plain string parameter.
func New(region string, opts ...Option) (Container, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	container := dig.New()
	if err := container.Provide(func() string { return region }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() RuleTable { return o.ruleTable }); err != nil {
		return nil, err
	}
	if err := container.Provide(func() EnrichmentTable { return o.enrichmentTable }); err != nil {
		return nil, err
	}
	if err := container.Provide(o.logger); err != nil {
		return nil, err
	}

	for _, provider := range core {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	for _, provider := range o.providers {
		if err := container.Provide(provider); err != nil {
			return nil, err
		}
	}

	return container, nil
}

var core = []any{
	ProvideContext,
	ProvideAWSConfig,
	ProvideSSMClient,
	ProvideSTSClient,
	ProvideDynamoDB,
	ProvideParameterStore,
	ProvideCredentialCheck,
	ProvideRuleDAO,
	ProvideEnrichmentDAO,
	ProvideDeployer,
}
