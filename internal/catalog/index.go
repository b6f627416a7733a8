package catalog

import "sort"

// Index is the read-only lookup over a parsed catalog. It is built once per
// run and never mutated afterwards.
type Index struct {
	addons map[string]*Addon
}

// Get returns the definition for an addon id.
func (x *Index) Get(id string) (*Addon, bool) {
	a, ok := x.addons[id]
	return a, ok
}

// PackagePath returns the archive path for an addon id, relative to the
// catalog directory.
func (x *Index) PackagePath(id string) (string, bool) {
	a, ok := x.addons[id]
	if !ok {
		return "", false
	}
	return a.PackagePath, true
}

// Dependencies returns the declared imports for an addon id. Missing ids
// yield an empty slice.
func (x *Index) Dependencies(id string) []Import {
	a, ok := x.addons[id]
	if !ok {
		return nil
	}
	return a.Requires
}

// Len returns the number of addons in the catalog.
func (x *Index) Len() int { return len(x.addons) }

// IDs returns all addon ids in sorted order.
func (x *Index) IDs() []string {
	ids := make([]string, 0, len(x.addons))
	for id := range x.addons {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
