package datapackage

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/code4sa/inventory2datapackage/clone"
	"github.com/code4sa/inventory2datapackage/validator"
)

const (
	tabularDataResourceProfile = "tabular-data-resource"
)

type pathType byte

const (
	urlPath      pathType = 0
	relativePath pathType = 1
)

const (
	schemaProp    = "schema"
	nameProp      = "name"
	formatProp    = "format"
	mediaTypeProp = "mediatype"
	pathProp      = "path"
	dataProp      = "data"
	profileProp   = "profile"
)

// Resource describes a data resource such as an individual file or table.
type Resource struct {
	descriptor map[string]interface{}
	name       string
	path       []string
	basePath   string
}

// Name returns the resource name.
func (r *Resource) Name() string {
	return r.name
}

// Path returns the resource paths, as written in the descriptor.
func (r *Resource) Path() []string {
	return append([]string{}, r.path...)
}

// Descriptor returns a copy of the underlying descriptor which describes the resource.
func (r *Resource) Descriptor() (map[string]interface{}, error) {
	return clone.Descriptor(r.descriptor)
}

// Tabular checks whether the resource is tabular.
func (r *Resource) Tabular() bool {
	pStr, ok := r.descriptor[profileProp].(string)
	return ok && pStr == tabularDataResourceProfile
}

// NewResourceWithDefaultRegistry creates a new Resource from the passed-in descriptor.
// It uses the default registry to validate the resource descriptor.
func NewResourceWithDefaultRegistry(d map[string]interface{}) (*Resource, error) {
	reg, err := validator.NewRegistry()
	if err != nil {
		return nil, err
	}
	return NewResource(d, reg)
}

// NewResource creates a new Resource from the passed-in descriptor, if valid. The
// passed-in validator.Registry will be the source of profiles used in the validation.
func NewResource(d map[string]interface{}, registry validator.Registry) (*Resource, error) {
	cpy, err := clone.Descriptor(d)
	if err != nil {
		return nil, err
	}
	fillResourceDescriptorWithDefaultValues(cpy)
	profile, ok := cpy[profilePropName].(string)
	if !ok {
		return nil, fmt.Errorf("profile property MUST be a string:\"%v\"", cpy[profilePropName])
	}
	if err := validator.Validate(cpy, profile, registry); err != nil {
		return nil, err
	}
	name, ok := cpy[nameProp].(string)
	if !ok {
		return nil, fmt.Errorf("resource name MUST be a string. Descriptor:%v", cpy)
	}
	r := Resource{
		descriptor: cpy,
		name:       name,
	}
	pathI := cpy[pathProp]
	if pathI != nil {
		p, err := parsePath(pathI, cpy)
		if err != nil {
			return nil, err
		}
		r.path = append([]string{}, p...)
		return &r, nil
	}
	if err := parseData(cpy[dataProp], cpy); err != nil {
		return nil, err
	}
	return &r, nil
}

func fillResourceDescriptorWithDefaultValues(r map[string]interface{}) {
	if r[profilePropName] == nil {
		r[profilePropName] = defaultResourceProfile
	}
	if r[encodingPropName] == nil {
		r[encodingPropName] = defaultResourceEncoding
	}
}

func parseData(dataI interface{}, d map[string]interface{}) error {
	switch dataI.(type) {
	case string:
		if d[formatProp] == nil && d[mediaTypeProp] == nil {
			return fmt.Errorf("format or mediatype properties MUST be provided for JSON data strings. Descriptor:%v", d)
		}
		return nil
	case []interface{}, map[string]interface{}:
		return nil
	}
	return fmt.Errorf("data property must be either a JSON array/object OR a JSON string. Descriptor:%v", d)
}

func parsePath(pathI interface{}, d map[string]interface{}) ([]string, error) {
	var returned []string
	switch p := pathI.(type) {
	case string:
		returned = append(returned, p)
	case []string:
		returned = append(returned, p...)
	case []interface{}:
		for _, i := range p {
			s, ok := i.(string)
			if !ok {
				return nil, fmt.Errorf("path MUST be a string or an array of strings. Descriptor:%v", d)
			}
			returned = append(returned, s)
		}
	default:
		return nil, fmt.Errorf("path MUST be a string or an array of strings. Descriptor:%v", d)
	}
	var lastType pathType
	for index, p := range returned {
		var currType pathType
		u, err := url.Parse(p)
		if err != nil || u.Scheme == "" {
			if path.IsAbs(p) || strings.HasPrefix(path.Clean(p), "..") {
				return nil, fmt.Errorf("absolute paths (/) and relative parent paths (../) MUST NOT be used. Descriptor:%v", d)
			}
			currType = relativePath
		} else {
			if u.Scheme != "http" && u.Scheme != "https" {
				return nil, fmt.Errorf("URLs MUST be fully qualified. MUST be using either http or https scheme. Descriptor:%v", d)
			}
			currType = urlPath
		}
		if index > 0 && currType != lastType {
			return nil, fmt.Errorf("it is NOT permitted to mix fully qualified URLs and relative paths in a single resource. Descriptor:%v", d)
		}
		lastType = currType
	}
	return returned, nil
}
