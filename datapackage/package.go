// Package datapackage builds, validates and saves Frictionless data packages
// (https://specs.frictionlessdata.io/data-package/).
package datapackage

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/code4sa/inventory2datapackage/clone"
	"github.com/code4sa/inventory2datapackage/validator"
)

const (
	resourcePropName              = "resources"
	profilePropName               = "profile"
	encodingPropName              = "encoding"
	defaultDataPackageProfile     = "data-package"
	defaultResourceEncoding       = "utf-8"
	defaultResourceProfile        = "data-resource"
	tabularDataPackageProfileName = "tabular-data-package"
	descriptorFileNameWithinZip   = "datapackage.json"
)

// Package represents a https://specs.frictionlessdata.io/data-package/
type Package struct {
	resources []*Resource

	basePath    string
	descriptor  map[string]interface{}
	valRegistry validator.Registry
}

// GetResource return the resource which the passed-in name or nil if the resource is not part of the package.
func (p *Package) GetResource(name string) *Resource {
	for _, r := range p.resources {
		if r.name == name {
			return r
		}
	}
	return nil
}

// ResourceNames return a slice containing the name of the resources.
func (p *Package) ResourceNames() []string {
	s := make([]string, len(p.resources))
	for i, r := range p.resources {
		s[i] = r.name
	}
	return s
}

// Resources returns a copy of data package resources.
func (p *Package) Resources() []*Resource {
	// NOTE: Ignoring errors because we are not changing anything. Just cloning a valid package descriptor and building
	// its resources.
	cpy, _ := clone.Descriptor(p.descriptor)
	res, _ := buildResources(cpy[resourcePropName], p.basePath, p.valRegistry)
	return res
}

// Name returns the package name, or an empty string if it has none.
func (p *Package) Name() string {
	n, _ := p.descriptor[nameProp].(string)
	return n
}

// Profile returns the profile the package descriptor was validated against.
func (p *Package) Profile() string {
	pr, _ := p.descriptor[profilePropName].(string)
	return pr
}

// BasePath returns the directory resource paths are relative to.
func (p *Package) BasePath() string {
	return p.basePath
}

// Descriptor returns a deep copy of the underlying descriptor which describes the package.
func (p *Package) Descriptor() map[string]interface{} {
	// Package descriptor is always valid. Don't need to make the interface overcomplicated.
	c, _ := clone.Descriptor(p.descriptor)
	return c
}

// Update the package with the passed-in descriptor. The package will only be updated if the
// the new descriptor is valid, otherwise the error will be returned.
func (p *Package) Update(newDescriptor map[string]interface{}) error {
	newP, err := newPackage(newDescriptor, p.basePath, p.valRegistry)
	if err != nil {
		return err
	}
	*p = *newP
	return nil
}

func (p *Package) write(w io.Writer) error {
	b, err := json.MarshalIndent(p.descriptor, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// SaveDescriptor saves the data package descriptor to the passed-in file path.
// It create creates the named file with mode 0666 (before umask), truncating
// it if it already exists.
func (p *Package) SaveDescriptor(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// New creates a new data package based on the descriptor.
func New(descriptor map[string]interface{}, basePath string, loaders ...validator.RegistryLoader) (*Package, error) {
	registry, err := validator.NewRegistry(loaders...)
	if err != nil {
		return nil, err
	}
	return newPackage(descriptor, basePath, registry)
}

func newPackage(descriptor map[string]interface{}, basePath string, registry validator.Registry) (*Package, error) {
	cpy, err := clone.Descriptor(descriptor)
	if err != nil {
		return nil, err
	}
	fillPackageDescriptorWithDefaultValues(cpy)
	profile, ok := cpy[profilePropName].(string)
	if !ok {
		return nil, fmt.Errorf("%s property MUST be a string", profilePropName)
	}
	if err := validator.Validate(cpy, profile, registry); err != nil {
		return nil, err
	}
	resources, err := buildResources(cpy[resourcePropName], basePath, registry)
	if err != nil {
		return nil, err
	}
	return &Package{
		resources:   resources,
		descriptor:  cpy,
		valRegistry: registry,
		basePath:    basePath,
	}, nil
}

// FromReader creates a data package from an io.Reader.
func FromReader(r io.Reader, basePath string, loaders ...validator.RegistryLoader) (*Package, error) {
	// JSON doesn't differentiate between floats and integers. When parsed from JSON, large integers
	// get converted into scientific notation.
	d := json.NewDecoder(bufio.NewReader(r))
	d.UseNumber()

	var descriptor map[string]interface{}
	if err := d.Decode(&descriptor); err != nil {
		return nil, err
	}
	return New(descriptor, basePath, loaders...)
}

// FromString creates a data package from a string representation of the package descriptor.
func FromString(in string, basePath string, loaders ...validator.RegistryLoader) (*Package, error) {
	return FromReader(strings.NewReader(in), basePath, loaders...)
}

// Load the data package descriptor from the specified file path.
// If path has the ".zip" extension, it will be decompressed to a temporary
// directory before loading.
func Load(path string, loaders ...validator.RegistryLoader) (*Package, error) {
	if !strings.HasSuffix(path, ".zip") {
		contents, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading path contents (%s): %w", path, err)
		}
		return FromReader(bytes.NewBuffer(contents), getBasepath(path), loaders...)
	}
	// Special case for zip paths. BasePath will be the temporary directory.
	dir, err := os.MkdirTemp("", "datapackage_decompress")
	if err != nil {
		return nil, fmt.Errorf("error creating temporary directory: %w", err)
	}
	fNames, err := unzip(path, dir)
	if err != nil {
		return nil, fmt.Errorf("error unzipping path contents (%s): %w", path, err)
	}
	if _, ok := fNames[descriptorFileNameWithinZip]; ok {
		return Load(filepath.Join(dir, descriptorFileNameWithinZip), loaders...)
	}
	return nil, fmt.Errorf("zip file %s does not contain a file called %s", path, descriptorFileNameWithinZip)
}

func fillPackageDescriptorWithDefaultValues(descriptor map[string]interface{}) {
	if descriptor[profilePropName] == nil {
		descriptor[profilePropName] = defaultDataPackageProfile
	}
	rSlice, ok := descriptor[resourcePropName].([]interface{})
	if ok {
		for i := range rSlice {
			r, ok := rSlice[i].(map[string]interface{})
			if ok {
				fillResourceDescriptorWithDefaultValues(r)
			}
		}
	}
}

func buildResources(resI interface{}, basePath string, reg validator.Registry) ([]*Resource, error) {
	rSlice, ok := resI.([]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid resources property. Value:\"%v\" Type:\"%v\"", resI, reflect.TypeOf(resI))
	}
	resources := make([]*Resource, len(rSlice))
	for pos, rInt := range rSlice {
		rDesc, ok := rInt.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("resources must be a json object. got:%v", rInt)
		}
		r, err := NewResource(rDesc, reg)
		if err != nil {
			return nil, err
		}
		r.basePath = basePath
		resources[pos] = r
	}
	return resources, nil
}
