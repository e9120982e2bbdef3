// Package convert turns selected asset inventory rows into data packages and
// writes them as JSON descriptors and zip bundles.
package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/code4sa/inventory2datapackage/datapackage"
	"github.com/code4sa/inventory2datapackage/inventory"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]`)

// DeriveName returns the package name for an asset name: lowercase words of
// ASCII letters and digits joined by "-". Names without any such character
// derive the empty name.
func DeriveName(name string) string {
	return strings.Join(strings.Fields(nonAlphanumeric.ReplaceAllString(strings.ToLower(name), " ")), "-")
}

// NameCollisionError is returned when a package name is still taken after
// the "-2" rename.
type NameCollisionError struct {
	Name    string
	UID     string
	SeenUID string
	Row     inventory.Row
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("name %q (UID %s) already seen as UID %s\nrow: %+v", e.Name, e.UID, e.SeenUID, e.Row)
}

// NameRegistry maps the package names claimed during a run to the UID of the
// asset which claimed them.
type NameRegistry struct {
	uids map[string]string
}

// NewNameRegistry returns an empty registry.
func NewNameRegistry() *NameRegistry {
	return &NameRegistry{uids: make(map[string]string)}
}

// UID returns the asset which claimed name.
func (r *NameRegistry) UID(name string) (string, bool) {
	uid, ok := r.uids[name]
	return uid, ok
}

// Len returns the number of claimed names.
func (r *NameRegistry) Len() int {
	return len(r.uids)
}

// Claim records the package name for the row's asset. A name that is
// already taken gets a single "-2" suffix, applied to the package and
// validated again. If that name is taken too, Claim fails with a
// *NameCollisionError and records nothing.
func (r *NameRegistry) Claim(pkg *datapackage.Package, row inventory.Row) error {
	if _, seen := r.uids[pkg.Name()]; seen {
		d := pkg.Descriptor()
		d["name"] = pkg.Name() + "-2"
		if err := pkg.Update(d); err != nil {
			return fmt.Errorf("error renaming package %q (UID %s): %w", pkg.Name(), row.UID, err)
		}
	}
	name := pkg.Name()
	if seenUID, seen := r.uids[name]; seen {
		return &NameCollisionError{Name: name, UID: row.UID, SeenUID: seenUID, Row: row}
	}
	r.uids[name] = row.UID
	return nil
}
