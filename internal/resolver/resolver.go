// Package resolver expands a requested addon into the ordered list of addons
// that must be present for it to work. The order is dependency-first: every
// dependency appears before any addon that requires it, so installing in plan
// order never leaves a dependent without its imports.
package resolver

import (
	"fmt"
	"strings"

	"github.com/kodictl/kodictl/internal/catalog"
)

// UnknownAddonError reports an id (requested or imported) that the catalog
// does not contain.
type UnknownAddonError struct {
	ID string
}

func (e *UnknownAddonError) Error() string {
	return fmt.Sprintf("addon %q not found in the catalog", e.ID)
}

// CycleError reports a dependency cycle in the catalog.
type CycleError struct {
	Stack []string // resolution path up to and including the re-entered id
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %s", strings.Join(e.Stack, " -> "))
}

// Visit marks for the DFS cycle guard.
type mark int

const (
	unvisited mark = iota
	resolving
	resolved
)

// Resolve returns the ids to ensure present for rootID, deepest dependency
// first. Platform pseudo-imports (xbmc.*, kodi.*) are skipped entirely: they
// are never looked up and never appear in the plan. An import re-entering the
// "resolving" state means the catalog declares a cycle, which is fatal.
func Resolve(rootID string, idx *catalog.Index) ([]string, error) {
	marks := make(map[string]mark)
	var plan []string
	var stack []string

	var walk func(id string) error
	walk = func(id string) error {
		switch marks[id] {
		case resolved:
			return nil
		case resolving:
			return &CycleError{Stack: append(append([]string(nil), stack...), id)}
		}

		addon, ok := idx.Get(id)
		if !ok {
			return &UnknownAddonError{ID: id}
		}

		marks[id] = resolving
		stack = append(stack, id)
		for _, imp := range addon.Requires {
			if imp.Platform() {
				continue
			}
			if err := walk(imp.Addon); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		marks[id] = resolved

		plan = append(plan, id)
		return nil
	}

	if err := walk(rootID); err != nil {
		return nil, err
	}
	return plan, nil
}
