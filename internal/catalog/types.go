package catalog

import "strings"

// platformPrefixes are the import namespaces that denote the Kodi runtime
// itself rather than an installable addon.
var platformPrefixes = map[string]bool{
	"xbmc": true,
	"kodi": true,
}

// Addon is one parsed catalog entry.
type Addon struct {
	ID          string
	Version     string
	PackagePath string   // archive path relative to the catalog directory
	Requires    []Import // declared dependencies, in catalog order
}

// Import is a single declared dependency of an addon.
type Import struct {
	Addon    string
	Version  string
	Optional bool
}

// Platform reports whether the import names a Kodi runtime pseudo-addon
// (xbmc.* or kodi.*). Platform imports are never resolved or installed.
func (i Import) Platform() bool {
	prefix, _, _ := strings.Cut(i.Addon, ".")
	return platformPrefixes[prefix]
}
