package convert

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/code4sa/inventory2datapackage/datapackage"
	"github.com/code4sa/inventory2datapackage/inventory"
	"github.com/code4sa/inventory2datapackage/validator"
)

const (
	// CreationDateLayout is the layout of the inventory "Creation Date" column.
	CreationDateLayout = "01/02/2006 03:04:05 PM -0700"
	createdLayout      = "2006-01-02T15:04:05-07:00"

	tabularDataPackageProfile = "tabular-data-package"
)

// RawCSVPath returns the slash-separated path of the asset's raw data,
// relative to the base directory.
func RawCSVPath(rawDir, uid string) string {
	return path.Join(rawDir, uid+".csv")
}

// ParseCreated converts an inventory creation date to an ISO 8601 timestamp
// with a numeric offset.
func ParseCreated(s string) (string, error) {
	t, err := time.Parse(CreationDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid creation date %q: %w", s, err)
	}
	return t.Format(createdLayout), nil
}

// BuildPackage creates the data package describing a dataset row. The table
// schema is inferred from the raw CSV file of the row's asset, found under
// rawDir within basePath.
func BuildPackage(row inventory.Row, basePath, rawDir string, loaders ...validator.RegistryLoader) (*datapackage.Package, error) {
	if !inventory.IsDataset(row) {
		return nil, fmt.Errorf("asset %s is a %q, not a dataset", row.UID, row.Type)
	}
	csvPath := RawCSVPath(rawDir, row.UID)
	pkg, err := datapackage.Infer(csvPath, basePath, loaders...)
	if err != nil {
		return nil, fmt.Errorf("error inferring package of asset %s: %w", row.UID, err)
	}

	d := pkg.Descriptor()
	if err := describe(d, row); err != nil {
		return nil, fmt.Errorf("error describing asset %s: %w", row.UID, err)
	}
	if err := pkg.Update(d); err != nil {
		return nil, fmt.Errorf("invalid package for asset %s: %w", row.UID, err)
	}
	if err := checkPackage(pkg, csvPath); err != nil {
		return nil, fmt.Errorf("unexpected package for asset %s: %w", row.UID, err)
	}
	return pkg, nil
}

// describe copies the row metadata into the package descriptor.
func describe(d map[string]interface{}, row inventory.Row) error {
	d["name"] = DeriveName(row.Name)
	d["title"] = row.Name
	d["description"] = row.Description

	// Sources require a title: fall back to the link, otherwise omit them.
	sourceTitle := row.DataProvidedBy
	if sourceTitle == "" {
		sourceTitle = row.SourceLink
	}
	if sourceTitle != "" {
		source := map[string]interface{}{"title": sourceTitle}
		if row.SourceLink != "" {
			source["path"] = row.SourceLink
		}
		d["sources"] = []interface{}{source}
	}

	contributor := map[string]interface{}{"title": row.Owner}
	if row.ContactEmail != "" {
		contributor["email"] = row.ContactEmail
	}
	d["contributors"] = []interface{}{contributor}

	keywords := []interface{}{}
	for _, k := range strings.Split(row.Keywords, ",") {
		keywords = append(keywords, k)
	}
	d["keywords"] = keywords

	created, err := ParseCreated(row.CreationDate)
	if err != nil {
		return err
	}
	d["created"] = created

	if row.License != "" {
		d["x_license_name"] = row.License
	}
	if row.Category != "" {
		d["x_category"] = row.Category
	}
	return nil
}

func checkPackage(pkg *datapackage.Package, csvPath string) error {
	if pkg.Profile() != tabularDataPackageProfile {
		return fmt.Errorf("profile is %q, want %q", pkg.Profile(), tabularDataPackageProfile)
	}
	resources := pkg.Resources()
	if len(resources) != 1 {
		return fmt.Errorf("package has %d resources, want 1", len(resources))
	}
	if p := resources[0].Path(); len(p) != 1 || p[0] != csvPath {
		return fmt.Errorf("resource path is %q, want %q", p, csvPath)
	}
	return nil
}
