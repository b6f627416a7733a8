package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"testing"
)

func TestCurrentOwner(t *testing.T) {
	o := CurrentOwner()
	if o.UID != os.Getuid() {
		t.Errorf("UID = %d, want %d", o.UID, os.Getuid())
	}
	if o.GID != os.Getgid() {
		t.Errorf("GID = %d, want %d", o.GID, os.Getgid())
	}
}

func TestLookupOwnerUnknownUser(t *testing.T) {
	_, err := LookupOwner("no-such-user-kodictl")
	if err == nil {
		t.Fatal("expected an error for an unknown user")
	}
	if _, ok := err.(*OwnershipError); !ok {
		t.Errorf("error type = %T, want *OwnershipError", err)
	}
}

func TestChownTree(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("ownership is a no-op on windows")
	}

	root := t.TempDir()
	sub := filepath.Join(root, "resources", "lib")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	file := filepath.Join(sub, "addon.py")
	if err := os.WriteFile(file, []byte("pass"), 0644); err != nil {
		t.Fatal(err)
	}

	// Chown to the invoking identity works unprivileged and exercises the
	// full walk.
	o := CurrentOwner()
	if err := o.ChownTree(root); err != nil {
		t.Fatalf("ChownTree: %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatal(err)
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		t.Skip("no syscall.Stat_t on this platform")
	}
	if int(stat.Uid) != o.UID {
		t.Errorf("file uid = %d, want %d", stat.Uid, o.UID)
	}
}

func TestChownTreeMissingRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("ownership is a no-op on windows")
	}

	o := CurrentOwner()
	err := o.ChownTree(filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatal("expected an error for a missing root")
	}
	if _, ok := err.(*OwnershipError); !ok {
		t.Errorf("error type = %T, want *OwnershipError", err)
	}
}
