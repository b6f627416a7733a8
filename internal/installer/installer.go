// Package installer ensures a single resolved addon is present in the Kodi
// addons directory: it downloads the package archive, extracts it, applies
// ownership, and records the result in the state store.
package installer

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/kodictl/kodictl/internal/catalog"
	"github.com/kodictl/kodictl/internal/kodidir"
	"github.com/kodictl/kodictl/internal/platform"
	"github.com/kodictl/kodictl/internal/store"
)

// EnablePolicy selects how the state-store record is written after an
// addon is ensured present.
type EnablePolicy int

const (
	// EnableDefault leaves an existing record untouched; a new record takes
	// the store's insert default. Used for pulled-in dependencies.
	EnableDefault EnablePolicy = iota
	// Enable asserts the enabled flag.
	Enable
	// Disable clears the enabled flag.
	Disable
)

// Installer ensures individual addons are present on disk and in the store.
// It is built once per run from immutable context (catalog, base URL, home,
// owner) and never mutated during installation.
type Installer struct {
	BaseURL string // catalog directory; package paths resolve against it
	Home    string
	Owner   platform.Owner
	Store   *store.Store
	Client  *http.Client
}

// EnsureInstalled makes one addon present under the addons directory and
// records it in the store according to the policy.
//
// When the addon directory already exists: Enable rewrites only the store
// flag (covers a store that lost track of an installed addon) and
// EnableDefault leaves both disk and store alone. Disable re-acquires the
// package before clearing the flag, matching the target-state machine's
// expectations.
func (inst *Installer) EnsureInstalled(def *catalog.Addon, policy EnablePolicy) error {
	addonDir := kodidir.AddonPath(inst.Home, def.ID)

	if dirExists(addonDir) {
		switch policy {
		case Enable:
			return inst.Store.Upsert(def.ID, true)
		case EnableDefault:
			return nil
		}
	}

	if err := inst.acquire(def, addonDir); err != nil {
		return err
	}

	switch policy {
	case Enable:
		return inst.Store.Upsert(def.ID, true)
	case Disable:
		return inst.Store.Upsert(def.ID, false)
	default:
		return inst.Store.EnsurePresent(def.ID)
	}
}

// acquire downloads and unpacks the addon package and applies ownership.
// The store is not touched here: a failed unpack must not leave a record
// claiming the addon is installed.
func (inst *Installer) acquire(def *catalog.Addon, addonDir string) error {
	pkgURL := strings.TrimRight(inst.BaseURL, "/") + "/" + def.PackagePath
	archive := filepath.Join(kodidir.PackagesRoot(inst.Home), filepath.Base(def.PackagePath))

	if err := inst.download(pkgURL, archive); err != nil {
		return err
	}

	if err := extractZip(archive, kodidir.AddonsRoot(inst.Home)); err != nil {
		return err
	}

	return inst.Owner.ChownTree(addonDir)
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
