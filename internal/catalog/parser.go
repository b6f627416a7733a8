package catalog

import (
	"encoding/xml"
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// ParseError reports a malformed catalog document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parsing addon catalog: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// Wire structures for addons.xml. Only the attributes and elements the
// installer needs are mapped.
type xmlCatalog struct {
	XMLName xml.Name   `xml:"addons"`
	Addons  []xmlAddon `xml:"addon"`
}

type xmlAddon struct {
	ID         string         `xml:"id,attr"`
	Version    string         `xml:"version,attr"`
	Requires   xmlRequires    `xml:"requires"`
	Extensions []xmlExtension `xml:"extension"`
}

type xmlRequires struct {
	Imports []xmlImport `xml:"import"`
}

type xmlImport struct {
	Addon    string `xml:"addon,attr"`
	Version  string `xml:"version,attr"`
	Optional bool   `xml:"optional,attr"`
}

type xmlExtension struct {
	Point string `xml:"point,attr"`
	Path  string `xml:"path"`
}

// Parse decodes an addons.xml document into an Index. When the catalog lists
// the same addon id more than once, the entry with the highest version wins
// (Kodi versions are semver with build metadata, e.g. "1.1.0+matrix.1").
func Parse(data []byte) (*Index, error) {
	var doc xmlCatalog
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}

	idx := &Index{addons: make(map[string]*Addon, len(doc.Addons))}
	for _, entry := range doc.Addons {
		if entry.ID == "" {
			continue
		}
		addon := &Addon{
			ID:          entry.ID,
			Version:     entry.Version,
			PackagePath: packagePath(entry),
		}
		for _, imp := range entry.Requires.Imports {
			if imp.Addon == "" {
				continue
			}
			addon.Requires = append(addon.Requires, Import{
				Addon:    imp.Addon,
				Version:  imp.Version,
				Optional: imp.Optional,
			})
		}

		existing, ok := idx.addons[addon.ID]
		if !ok || newerVersion(addon.Version, existing.Version) {
			idx.addons[addon.ID] = addon
		}
	}

	return idx, nil
}

// packagePath returns the archive path declared in the entry's extension
// block, falling back to the standard repository layout <id>/<id>-<version>.zip
// when the catalog does not carry one.
func packagePath(entry xmlAddon) string {
	for _, ext := range entry.Extensions {
		if ext.Path != "" {
			return ext.Path
		}
	}
	return fmt.Sprintf("%s/%s-%s.zip", entry.ID, entry.ID, entry.Version)
}

// newerVersion reports whether a is strictly newer than b. Unparseable
// versions never win.
func newerVersion(a, b string) bool {
	va, err := semver.NewVersion(a)
	if err != nil {
		return false
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return true
	}
	return va.GreaterThan(vb)
}
