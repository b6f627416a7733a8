// Package ensure drives an addon toward a requested target state. It decides
// whether any work is needed at all, and either runs the resolve-and-install
// pass or the removal path, reporting a single changed/unchanged verdict.
// Check mode computes the same verdict without mutating disk or store.
package ensure

import (
	"fmt"
	"net/http"
	"os"

	"github.com/kodictl/kodictl/internal/catalog"
	"github.com/kodictl/kodictl/internal/installer"
	"github.com/kodictl/kodictl/internal/kodidir"
	"github.com/kodictl/kodictl/internal/platform"
	"github.com/kodictl/kodictl/internal/release"
	"github.com/kodictl/kodictl/internal/resolver"
	"github.com/kodictl/kodictl/internal/store"
)

// State is the requested target state for an addon.
type State string

const (
	StatePresent  State = "present"
	StateEnabled  State = "enabled"
	StateDisabled State = "disabled"
	StateAbsent   State = "absent"
)

// ParseState validates a state name. Present and enabled are equivalent:
// both require the addon to exist with the enabled flag set.
func ParseState(s string) (State, error) {
	switch State(s) {
	case StatePresent, StateEnabled, StateDisabled, StateAbsent:
		return State(s), nil
	}
	return "", fmt.Errorf("invalid state %q (one of: present, enabled, disabled, absent)", s)
}

// Request carries the full context of one run. It is assembled once by the
// caller and passed by value; nothing in the apply path mutates it.
type Request struct {
	Addon   string
	State   State
	User    string
	Release string
	Home    string // empty means ~user/.kodi
	Mirror  string // empty means the default Kodi mirror
	Check   bool   // simulate only, no disk or store mutation

	Client *http.Client // nil means http.DefaultClient
}

// Apply drives the addon to the requested state and reports whether anything
// changed (or, in check mode, whether anything would change).
func Apply(req Request) (bool, error) {
	ch, err := release.Lookup(req.Release)
	if err != nil {
		return false, err
	}

	home := req.Home
	if home == "" {
		home, err = kodidir.DefaultHome(req.User)
		if err != nil {
			return false, err
		}
	}

	st := store.New(kodidir.DatabasePath(home, ch.Database))

	if req.State == StateAbsent {
		return remove(req, home, st)
	}
	return install(req, home, st)
}

// install handles the present/enabled/disabled targets.
func install(req Request, home string, st *store.Store) (bool, error) {
	wantEnabled := req.State != StateDisabled
	addonDir := kodidir.AddonPath(home, req.Addon)

	// Idempotency fast path: directory present and flag already as requested
	// means there is nothing to do. This runs before any network access.
	if dirExists(addonDir) {
		enabled, err := st.IsEnabled(req.Addon)
		if err != nil {
			return false, err
		}
		if enabled == wantEnabled {
			return false, nil
		}
	}

	if req.Check {
		return true, nil
	}

	mirror := req.Mirror
	if mirror == "" {
		mirror = catalog.DefaultMirror
	}
	catalogURL := catalog.URL(mirror, req.Release)

	idx, err := catalog.Fetch(req.Client, catalogURL)
	if err != nil {
		return false, err
	}

	plan, err := resolver.Resolve(req.Addon, idx)
	if err != nil {
		return false, err
	}

	owner, err := platform.LookupOwner(req.User)
	if err != nil {
		return false, err
	}

	inst := &installer.Installer{
		BaseURL: catalog.BaseURL(catalogURL),
		Home:    home,
		Owner:   owner,
		Store:   st,
		Client:  req.Client,
	}

	for _, id := range plan {
		def, ok := idx.Get(id)
		if !ok {
			return false, &resolver.UnknownAddonError{ID: id}
		}

		// Only the explicitly requested addon has its enabled flag asserted.
		// Newly installed dependencies take the store default; dependencies
		// already on disk are left untouched.
		policy := installer.EnableDefault
		if id == req.Addon {
			policy = installer.Enable
			if !wantEnabled {
				policy = installer.Disable
			}
		}

		if err := inst.EnsureInstalled(def, policy); err != nil {
			return false, err
		}
	}

	// Taking the install pass at all counts as a change; per-dependency
	// diffing is deliberately not attempted.
	return true, nil
}

// remove handles the absent target. Directory and store record are
// independent signals: either one alone still means removal does something.
func remove(req Request, home string, st *store.Store) (bool, error) {
	addonDir := kodidir.AddonPath(home, req.Addon)

	if req.Check {
		if dirExists(addonDir) {
			return true, nil
		}
		installed, err := st.IsInstalled(req.Addon)
		if err != nil {
			return false, err
		}
		return installed, nil
	}

	changed := false
	if dirExists(addonDir) {
		if err := os.RemoveAll(addonDir); err != nil {
			return false, fmt.Errorf("removing %s: %w", addonDir, err)
		}
		changed = true
	}

	deleted, err := st.Delete(req.Addon)
	if err != nil {
		return false, err
	}
	return changed || deleted, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
