package datapackage

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/code4sa/inventory2datapackage/validator"
	"github.com/frictionlessdata/tableschema-go/csv"
	"github.com/frictionlessdata/tableschema-go/schema"
)

const (
	csvFormat    = "csv"
	csvMediaType = "text/csv"
)

var invalidResourceNameChars = regexp.MustCompile(`[^-a-z0-9._]+`)

// Infer creates a tabular data package with a single resource describing the
// CSV file at csvPath. csvPath uses forward slashes and is relative to basePath;
// it is kept as-is as the resource path.
func Infer(csvPath, basePath string, loaders ...validator.RegistryLoader) (*Package, error) {
	res, err := InferResource(csvPath, basePath)
	if err != nil {
		return nil, err
	}
	return New(map[string]interface{}{
		profilePropName:  tabularDataPackageProfileName,
		resourcePropName: []interface{}{res},
	}, basePath, loaders...)
}

// InferResource returns a tabular-data-resource descriptor for the CSV file at
// csvPath, with its table schema inferred from the file contents.
func InferResource(csvPath, basePath string) (map[string]interface{}, error) {
	if _, err := parsePath(csvPath, nil); err != nil {
		return nil, err
	}
	if isRemotePath(csvPath) {
		return nil, fmt.Errorf("can not infer remote resource %s", csvPath)
	}
	fPath := joinPaths(basePath, csvPath)
	if _, err := os.Stat(fPath); err != nil {
		return nil, fmt.Errorf("error inferring resource (%s): %w", csvPath, err)
	}
	tab, err := csv.NewTable(csv.FromFile(fPath), csv.LoadHeaders(), csv.ConsiderInitialSpace())
	if err != nil {
		return nil, fmt.Errorf("error reading table (%s): %w", csvPath, err)
	}
	sch, err := schema.Infer(tab)
	if err != nil {
		return nil, fmt.Errorf("error inferring table schema (%s): %w", csvPath, err)
	}
	return map[string]interface{}{
		nameProp:         resourceName(csvPath),
		pathProp:         csvPath,
		profileProp:      tabularDataResourceProfile,
		formatProp:       csvFormat,
		mediaTypeProp:    csvMediaType,
		encodingPropName: defaultResourceEncoding,
		schemaProp:       schemaDescriptor(sch),
	}, nil
}

// resourceName derives a valid resource name from the file name.
func resourceName(p string) string {
	base := strings.TrimSuffix(path.Base(p), path.Ext(p))
	return strings.Trim(invalidResourceNameChars.ReplaceAllString(strings.ToLower(base), "-"), "-")
}

func schemaDescriptor(sch *schema.Schema) map[string]interface{} {
	fields := make([]interface{}, 0, len(sch.Fields))
	for _, f := range sch.Fields {
		fd := map[string]interface{}{"name": f.Name, "type": string(f.Type)}
		if format := string(f.Format); format != "" && format != "default" {
			fd["format"] = format
		}
		fields = append(fields, fd)
	}
	return map[string]interface{}{"fields": fields}
}
