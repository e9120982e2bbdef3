package convert

import (
	"fmt"
	"log/slog"

	"github.com/code4sa/inventory2datapackage/inventory"
	"github.com/code4sa/inventory2datapackage/validator"
)

// Rows iterates over inventory rows. *inventory.Reader implements it.
type Rows interface {
	Next() bool
	Row() inventory.Row
	Err() error
}

// Summary counts what a run did.
type Summary struct {
	Read     int
	Selected int
	Written  int
}

// Converter converts the published datasets of an inventory.
type Converter struct {
	// BaseDir is the directory raw CSV paths are relative to.
	BaseDir string
	// RawDir holds the raw CSV file of each asset, relative to BaseDir.
	RawDir    string
	Persister Persister
	Logger    *slog.Logger

	registry validator.Registry
}

// NewConverter returns a converter validating packages with the profiles
// provided by loaders, or the built-in profiles when there are none.
func NewConverter(baseDir, rawDir string, persister Persister, logger *slog.Logger, loaders ...validator.RegistryLoader) (*Converter, error) {
	registry, err := validator.NewRegistry(loaders...)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		BaseDir:   baseDir,
		RawDir:    rawDir,
		Persister: persister,
		Logger:    logger,
		registry:  registry,
	}, nil
}

func (c *Converter) loader() (validator.Registry, error) {
	return c.registry, nil
}

// ConvertFile converts the inventory export at path.
func (c *Converter) ConvertFile(path string) (Summary, error) {
	r, err := inventory.Open(path)
	if err != nil {
		return Summary{}, err
	}
	defer r.Close()
	return c.Run(r)
}

// Run converts every selected row, one at a time. It stops at the first
// error; packages written before it are left in place.
func (c *Converter) Run(rows Rows) (Summary, error) {
	var sum Summary
	names := NewNameRegistry()
	for rows.Next() {
		sum.Read++
		row := rows.Row()
		if !inventory.Selected(row) {
			continue
		}
		sum.Selected++
		logRow(c.Logger, row)
		if err := c.convert(row, names); err != nil {
			return sum, err
		}
		sum.Written++
	}
	if err := rows.Err(); err != nil {
		return sum, err
	}
	c.Logger.Info("conversion complete", "read", sum.Read, "selected", sum.Selected, "written", sum.Written)
	return sum, nil
}

func (c *Converter) convert(row inventory.Row, names *NameRegistry) error {
	pkg, err := BuildPackage(row, c.BaseDir, c.RawDir, c.loader)
	if err != nil {
		return err
	}
	if err := names.Claim(pkg, row); err != nil {
		return err
	}
	jsonPath, zipPath, err := c.Persister.Save(pkg)
	if err != nil {
		return fmt.Errorf("error saving package of asset %s: %w", row.UID, err)
	}
	c.Logger.Debug("package saved", "name", pkg.Name(), "json", jsonPath, "zip", zipPath)
	return nil
}

func logRow(logger *slog.Logger, row inventory.Row) {
	logger.Info("dataset",
		"uid", row.UID,
		"public", row.Public,
		"derived", row.DerivedView,
		"parent", row.ParentUID,
		"type", row.Type,
		"category", row.Category,
		"stage", row.PublicationStage,
		"published", row.PublishedVersionUID,
		"name", row.Name,
	)
}
