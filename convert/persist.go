package convert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/code4sa/inventory2datapackage/datapackage"
)

// Persister writes packages as JSON descriptors and zip bundles, both named
// after the package.
type Persister struct {
	JSONDir string
	ZipDir  string
}

// Save writes pkg to JSONDir/<name>.json and ZipDir/<name>.zip, creating the
// directories if needed. It returns the paths written.
func (p Persister) Save(pkg *datapackage.Package) (jsonPath, zipPath string, err error) {
	for _, dir := range []string{p.JSONDir, p.ZipDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", "", fmt.Errorf("error creating output directory: %w", err)
		}
	}
	jsonPath = filepath.Join(p.JSONDir, pkg.Name()+".json")
	if err := pkg.SaveDescriptor(jsonPath); err != nil {
		return "", "", fmt.Errorf("error saving descriptor %s: %w", jsonPath, err)
	}
	zipPath = filepath.Join(p.ZipDir, pkg.Name()+".zip")
	if err := pkg.Zip(zipPath); err != nil {
		return "", "", fmt.Errorf("error saving bundle %s: %w", zipPath, err)
	}
	return jsonPath, zipPath, nil
}
