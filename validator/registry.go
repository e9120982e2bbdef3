package validator

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// RegistryFileName is the name of the file listing the profiles of a registry.
const RegistryFileName = "registry.json"

//go:embed profiles/*.json
var profilesFS embed.FS

// Registry represents a set of registered validators, which could be used to
// validate descriptors.
type Registry interface {
	GetValidator(profile string) (DescriptorValidator, error)
}

// RegistryLoader builds a Registry.
type RegistryLoader func() (Registry, error)

type profileSpec struct {
	ID            string `json:"id,omitempty"`
	Title         string `json:"title,omitempty"`
	Schema        string `json:"schema,omitempty"`
	SchemaPath    string `json:"schema_path,omitempty"`
	Specification string `json:"specification,omitempty"`
}

// fsRegistry serves profiles whose schemas live next to a registry.json file.
type fsRegistry struct {
	mu       sync.Mutex
	fsys     fs.FS
	registry map[string]profileSpec
	cache    map[string]*gojsonschema.Schema
}

func (r *fsRegistry) GetValidator(profile string) (DescriptorValidator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.cache[profile]; ok {
		return &jsonSchema{schema: s}, nil
	}
	spec, ok := r.registry[profile]
	if !ok {
		return nil, fmt.Errorf("invalid profile:%s", profile)
	}
	schemaPath := spec.Schema
	if spec.SchemaPath != "" {
		schemaPath = spec.SchemaPath
	}
	b, err := fs.ReadFile(r.fsys, schemaPath)
	if err != nil {
		return nil, fmt.Errorf("error reading schema of profile %s: %w", profile, err)
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return nil, fmt.Errorf("error compiling schema of profile %s: %w", profile, err)
	}
	r.cache[profile] = s
	return &jsonSchema{schema: s}, nil
}

// FSRegistryLoader loads the registry file at registryPath from fsys. Schema
// paths listed in the registry are resolved against fsys.
func FSRegistryLoader(fsys fs.FS, registryPath string) RegistryLoader {
	return func() (Registry, error) {
		buf, err := fs.ReadFile(fsys, registryPath)
		if err != nil {
			return nil, fmt.Errorf("error reading profile registry (%s): %w", registryPath, err)
		}
		var specs []profileSpec
		if err := json.Unmarshal(buf, &specs); err != nil {
			return nil, fmt.Errorf("error parsing profile registry (%s): %w", registryPath, err)
		}
		m := make(map[string]profileSpec, len(specs))
		for _, s := range specs {
			m[s.ID] = s
		}
		return &fsRegistry{fsys: fsys, registry: m, cache: make(map[string]*gojsonschema.Schema)}, nil
	}
}

// LocalRegistryLoader loads a registry from a directory containing a
// registry.json file and the schemas it lists.
func LocalRegistryLoader(dir string) RegistryLoader {
	return FSRegistryLoader(os.DirFS(dir), RegistryFileName)
}

// InMemoryLoader returns a loader which points to the profiles shipped with the library.
func InMemoryLoader() RegistryLoader {
	sub, err := fs.Sub(profilesFS, "profiles")
	if err != nil {
		return func() (Registry, error) { return nil, err }
	}
	return FSRegistryLoader(sub, RegistryFileName)
}

// fallbackRegistry asks each registry in turn, returning the first validator found.
type fallbackRegistry struct {
	registries []Registry
}

func (r *fallbackRegistry) GetValidator(profile string) (DescriptorValidator, error) {
	var msgs []string
	for _, reg := range r.registries {
		v, err := reg.GetValidator(profile)
		if err == nil {
			return v, nil
		}
		msgs = append(msgs, err.Error())
	}
	return nil, fmt.Errorf("profile %s not found: %s", profile, strings.Join(msgs, "; "))
}

// FallbackRegistryLoader returns a loader which combines every registry that
// could be loaded, in the passed-in order. Profiles are looked up in the first
// registry first. It fails only if no registry could be loaded.
func FallbackRegistryLoader(loaders ...RegistryLoader) RegistryLoader {
	return func() (Registry, error) {
		if len(loaders) == 0 {
			return nil, fmt.Errorf("there should be at least one registry loader to fallback")
		}
		var registries []Registry
		var msgs []string
		for _, l := range loaders {
			reg, err := l()
			if err != nil {
				msgs = append(msgs, err.Error())
				continue
			}
			registries = append(registries, reg)
		}
		if len(registries) == 0 {
			return nil, fmt.Errorf("all registry loaders failed: %s", strings.Join(msgs, "; "))
		}
		if len(registries) == 1 {
			return registries[0], nil
		}
		return &fallbackRegistry{registries: registries}, nil
	}
}
