// Package platform wraps the OS-specific glue kodictl needs: user account
// lookup and recursive ownership changes.
package platform

import (
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strconv"
)

// Owner identifies the account that should own installed addon files.
type Owner struct {
	Name string
	UID  int
	GID  int
}

// OwnershipError reports a failed user lookup or ownership change.
type OwnershipError struct {
	Path string
	Err  error
}

func (e *OwnershipError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("ownership: %v", e.Err)
	}
	return fmt.Sprintf("ownership of %s: %v", e.Path, e.Err)
}

func (e *OwnershipError) Unwrap() error { return e.Err }

// LookupOwner resolves a username to its uid and primary gid.
func LookupOwner(name string) (Owner, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return Owner{}, &OwnershipError{Err: fmt.Errorf("looking up user %s: %w", name, err)}
	}
	uid, err := strconv.Atoi(u.Uid)
	if err != nil {
		return Owner{}, &OwnershipError{Err: fmt.Errorf("parsing uid %q: %w", u.Uid, err)}
	}
	gid, err := strconv.Atoi(u.Gid)
	if err != nil {
		return Owner{}, &OwnershipError{Err: fmt.Errorf("parsing gid %q: %w", u.Gid, err)}
	}
	return Owner{Name: name, UID: uid, GID: gid}, nil
}

// CurrentOwner returns the invoking user as an Owner. Used by tests and as a
// fallback when no explicit user is configured.
func CurrentOwner() Owner {
	name := ""
	if u, err := user.Current(); err == nil {
		name = u.Username
	}
	return Owner{Name: name, UID: os.Getuid(), GID: os.Getgid()}
}

// HomeDir returns the home directory of the given OS user.
func HomeDir(name string) (string, error) {
	u, err := user.Lookup(name)
	if err != nil {
		return "", err
	}
	return u.HomeDir, nil
}

// ChownTree assigns ownership of root and everything under it to the owner.
// On Windows this is a no-op because Windows does not support Unix-style
// ownership.
func (o Owner) ChownTree(root string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		return os.Chown(path, o.UID, o.GID)
	})
	if err != nil {
		return &OwnershipError{Path: root, Err: err}
	}
	return nil
}
