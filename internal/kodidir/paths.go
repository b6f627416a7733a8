// Package kodidir centralizes the path conventions of a Kodi data directory:
// where addons live, where downloaded packages are staged, and where the
// Addons database sits under userdata.
package kodidir

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kodictl/kodictl/internal/platform"
)

// Directory and file name constants for the Kodi data layout.
const (
	AddonsDir   = "addons"
	PackagesDir = "packages"
	UserdataDir = "userdata"
	DatabaseDir = "Database"
	HomeDirName = ".kodi"
)

// DefaultHome returns the default Kodi data directory for the given OS user
// (~user/.kodi). It checks the KODICTL_HOME environment variable first.
func DefaultHome(user string) (string, error) {
	if v := os.Getenv("KODICTL_HOME"); v != "" {
		return v, nil
	}
	home, err := platform.HomeDir(user)
	if err != nil {
		return "", fmt.Errorf("resolving home directory for %s: %w", user, err)
	}
	return filepath.Join(home, HomeDirName), nil
}

// AddonsRoot returns the directory that holds one subdirectory per addon.
func AddonsRoot(home string) string {
	return filepath.Join(home, AddonsDir)
}

// AddonPath returns the installation directory for a single addon.
func AddonPath(home, addonID string) string {
	return filepath.Join(home, AddonsDir, addonID)
}

// PackagesRoot returns the staging directory for downloaded archives.
func PackagesRoot(home string) string {
	return filepath.Join(home, AddonsDir, PackagesDir)
}

// DatabasePath returns the path to an Addons database file under userdata.
func DatabasePath(home, dbName string) string {
	return filepath.Join(home, UserdataDir, DatabaseDir, dbName)
}
