package kodidir

import (
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	home := filepath.Join("/home", "kodi", ".kodi")

	if got := AddonsRoot(home); got != filepath.Join(home, "addons") {
		t.Errorf("AddonsRoot = %q", got)
	}
	if got := AddonPath(home, "plugin.audio.soundcloud"); got != filepath.Join(home, "addons", "plugin.audio.soundcloud") {
		t.Errorf("AddonPath = %q", got)
	}
	if got := PackagesRoot(home); got != filepath.Join(home, "addons", "packages") {
		t.Errorf("PackagesRoot = %q", got)
	}
	if got := DatabasePath(home, "Addons27.db"); got != filepath.Join(home, "userdata", "Database", "Addons27.db") {
		t.Errorf("DatabasePath = %q", got)
	}
}

func TestDefaultHomeEnvOverride(t *testing.T) {
	t.Setenv("KODICTL_HOME", "/srv/kodi-data")

	home, err := DefaultHome("whoever")
	if err != nil {
		t.Fatalf("DefaultHome: %v", err)
	}
	if home != "/srv/kodi-data" {
		t.Errorf("DefaultHome = %q, want the env override", home)
	}
}

func TestDefaultHomeUnknownUser(t *testing.T) {
	t.Setenv("KODICTL_HOME", "")

	if _, err := DefaultHome("no-such-user-kodictl"); err == nil {
		t.Fatal("expected an error for an unknown user")
	}
}
