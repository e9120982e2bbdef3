package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// DescriptorValidator validates a Data-Package or Resource descriptor.
type DescriptorValidator interface {
	Validate(map[string]interface{}) error
}

// NewRegistry returns a registry where users could get descriptor validators.
// Without loaders, the profiles shipped with the library are used.
func NewRegistry(loaders ...RegistryLoader) (Registry, error) {
	if len(loaders) == 0 {
		loaders = append(loaders, InMemoryLoader())
	}
	registry, err := FallbackRegistryLoader(loaders...)()
	if err != nil {
		return nil, fmt.Errorf("could not load registry: %w", err)
	}
	return registry, nil
}

// New returns a new descriptor validator for the passed-in profile.
func New(profile string, loaders ...RegistryLoader) (DescriptorValidator, error) {
	// Third-party schema, directly referenced by URL or local file.
	if strings.HasPrefix(profile, "http") || strings.HasPrefix(profile, "file") {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewReferenceLoader(profile))
		if err != nil {
			return nil, err
		}
		return &jsonSchema{schema: schema}, nil
	}
	registry, err := NewRegistry(loaders...)
	if err != nil {
		return nil, err
	}
	return registry.GetValidator(profile)
}

// IsValid checks the passed-in descriptor against the passed-in profile.
func IsValid(profile string, descriptor map[string]interface{}, loaders ...RegistryLoader) bool {
	v, err := New(profile, loaders...)
	if err != nil {
		return false
	}
	return v.Validate(descriptor) == nil
}

// Validate checks whether the descriptor is valid against the passed-in profile/registry.
// If the validation process generates multiple errors, their messages are coalesced.
func Validate(descriptor map[string]interface{}, profile string, registry Registry) error {
	v, err := registry.GetValidator(profile)
	if err != nil {
		return err
	}
	if err := v.Validate(descriptor); err != nil {
		return fmt.Errorf("invalid %s descriptor: %w", profile, err)
	}
	return nil
}

// MustInMemoryRegistry returns the registry of profiles shipped with the library.
// It panics if there are errors loading the registry.
func MustInMemoryRegistry() Registry {
	reg, err := InMemoryLoader()()
	if err != nil {
		panic(err)
	}
	return reg
}

func coalesce(msgs []string) error {
	return errors.New(strings.Join(msgs, "\n"))
}
