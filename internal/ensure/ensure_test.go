package ensure

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/kodictl/kodictl/internal/kodidir"
	"github.com/kodictl/kodictl/internal/platform"
	"github.com/kodictl/kodictl/internal/store"
)

const testCatalog = `<addons>
  <addon id="plugin.audio.soundcloud" version="2.4.0">
    <requires>
      <import addon="xbmc.python" version="2.25.0"/>
      <import addon="script.module.requests" version="2.22.0"/>
    </requires>
  </addon>
  <addon id="script.module.requests" version="2.22.0">
    <requires>
      <import addon="xbmc.python" version="2.25.0"/>
    </requires>
  </addon>
  <addon id="plugin.standalone" version="1.0.0">
    <requires>
      <import addon="xbmc.python" version="2.25.0"/>
    </requires>
  </addon>
</addons>`

func addonZip(t *testing.T, addonID string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(addonID + "/addon.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte("<addon id=\"" + addonID + "\"/>")); err != nil {
		t.Fatal(err)
	}
	zw.Close()
	return buf.Bytes()
}

// mirror serves a release catalog and addon packages the way a Kodi mirror
// does, counting catalog and package hits separately.
type mirror struct {
	server      *httptest.Server
	catalogHits atomic.Int64
	packageHits map[string]*atomic.Int64
}

func newMirror(t *testing.T, addonIDs ...string) *mirror {
	t.Helper()
	m := &mirror{packageHits: make(map[string]*atomic.Int64)}

	var gzCatalog bytes.Buffer
	gz := gzip.NewWriter(&gzCatalog)
	if _, err := gz.Write([]byte(testCatalog)); err != nil {
		t.Fatal(err)
	}
	gz.Close()

	archives := make(map[string][]byte)
	for _, id := range addonIDs {
		archives[id] = addonZip(t, id)
		m.packageHits[id] = &atomic.Int64{}
	}

	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/addons.xml.gz") {
			m.catalogHits.Add(1)
			w.Write(gzCatalog.Bytes())
			return
		}
		for id, archive := range archives {
			if strings.HasSuffix(r.URL.Path, "/"+id+"-"+versionOf(id)+".zip") {
				m.packageHits[id].Add(1)
				w.Write(archive)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(m.server.Close)
	return m
}

func versionOf(id string) string {
	switch id {
	case "plugin.audio.soundcloud":
		return "2.4.0"
	case "script.module.requests":
		return "2.22.0"
	default:
		return "1.0.0"
	}
}

func testRequest(t *testing.T, m *mirror, addon string, state State) Request {
	t.Helper()
	return Request{
		Addon:   addon,
		State:   state,
		User:    platform.CurrentOwner().Name,
		Release: "leia",
		Home:    t.TempDir(),
		Mirror:  m.server.URL,
		Client:  m.server.Client(),
	}
}

func testStore(req Request) *store.Store {
	return store.New(kodidir.DatabasePath(req.Home, "Addons27.db"))
}

func TestInstallRoundTrip(t *testing.T) {
	m := newMirror(t, "plugin.audio.soundcloud", "script.module.requests")
	req := testRequest(t, m, "plugin.audio.soundcloud", StateEnabled)

	changed, err := Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("first apply should report changed")
	}

	for _, id := range []string{"plugin.audio.soundcloud", "script.module.requests"} {
		if _, err := os.Stat(kodidir.AddonPath(req.Home, id)); err != nil {
			t.Errorf("%s not on disk: %v", id, err)
		}
	}

	st := testStore(req)
	rootEnabled, err := st.IsEnabled("plugin.audio.soundcloud")
	if err != nil || !rootEnabled {
		t.Errorf("root IsEnabled = %v, %v; want true", rootEnabled, err)
	}
	depInstalled, err := st.IsInstalled("script.module.requests")
	if err != nil || !depInstalled {
		t.Errorf("dependency IsInstalled = %v, %v; want true", depInstalled, err)
	}

	// Second run with the same target is a no-op before any network access.
	catalogHits := m.catalogHits.Load()
	changed, err = Apply(req)
	if err != nil {
		t.Fatalf("second Apply: %v", err)
	}
	if changed {
		t.Error("second apply should report unchanged")
	}
	if m.catalogHits.Load() != catalogHits {
		t.Error("idempotent run fetched the catalog")
	}
}

func TestEnabledAlreadySatisfiedSkipsNetwork(t *testing.T) {
	m := newMirror(t, "plugin.standalone")
	req := testRequest(t, m, "plugin.standalone", StateEnabled)

	if err := os.MkdirAll(kodidir.AddonPath(req.Home, req.Addon), 0755); err != nil {
		t.Fatal(err)
	}
	if err := testStore(req).Upsert(req.Addon, true); err != nil {
		t.Fatal(err)
	}

	changed, err := Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if changed {
		t.Error("satisfied target should report unchanged")
	}
	if m.catalogHits.Load() != 0 {
		t.Error("satisfied target fetched the catalog")
	}
}

func TestEnableFlipsFlagWithoutRedownload(t *testing.T) {
	m := newMirror(t, "plugin.standalone")
	req := testRequest(t, m, "plugin.standalone", StateEnabled)

	// Directory present but the flag is off: only the store needs fixing.
	if err := os.MkdirAll(kodidir.AddonPath(req.Home, req.Addon), 0755); err != nil {
		t.Fatal(err)
	}
	if err := testStore(req).Upsert(req.Addon, false); err != nil {
		t.Fatal(err)
	}

	changed, err := Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("flag flip should report changed")
	}
	if m.packageHits["plugin.standalone"].Load() != 0 {
		t.Error("flag flip re-downloaded the package")
	}

	enabled, err := testStore(req).IsEnabled(req.Addon)
	if err != nil || !enabled {
		t.Errorf("IsEnabled = %v, %v; want true", enabled, err)
	}
}

func TestDisabledInstallsRootDisabled(t *testing.T) {
	m := newMirror(t, "plugin.audio.soundcloud", "script.module.requests")
	req := testRequest(t, m, "plugin.audio.soundcloud", StateDisabled)

	changed, err := Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("install should report changed")
	}

	st := testStore(req)
	rootEnabled, err := st.IsEnabled("plugin.audio.soundcloud")
	if err != nil || rootEnabled {
		t.Errorf("root IsEnabled = %v, %v; want false", rootEnabled, err)
	}

	// The dependency was newly installed; it takes the store default rather
	// than the root's requested flag.
	depEnabled, err := st.IsEnabled("script.module.requests")
	if err != nil || !depEnabled {
		t.Errorf("dependency IsEnabled = %v, %v; want the store default (true)", depEnabled, err)
	}
}

func TestCheckInstallPredictsWithoutMutating(t *testing.T) {
	m := newMirror(t, "plugin.standalone")
	req := testRequest(t, m, "plugin.standalone", StateEnabled)
	req.Check = true

	changed, err := Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("check against an empty home should predict a change")
	}

	if m.catalogHits.Load() != 0 {
		t.Error("check mode touched the network")
	}
	if _, err := os.Stat(kodidir.AddonPath(req.Home, req.Addon)); !os.IsNotExist(err) {
		t.Error("check mode created the addon directory")
	}
	if _, err := os.Stat(testStore(req).Path()); !os.IsNotExist(err) {
		t.Error("check mode created the Addons database")
	}
}

func TestAbsentNothingToDo(t *testing.T) {
	m := newMirror(t)
	req := testRequest(t, m, "plugin.standalone", StateAbsent)

	for _, check := range []bool{true, false} {
		req.Check = check
		changed, err := Apply(req)
		if err != nil {
			t.Fatalf("Apply(check=%t): %v", check, err)
		}
		if changed {
			t.Errorf("Apply(check=%t) = true with neither directory nor record", check)
		}
	}
}

func TestAbsentRemovesRecordOnly(t *testing.T) {
	m := newMirror(t)
	req := testRequest(t, m, "plugin.standalone", StateAbsent)

	// Record without a directory: the directory was deleted out-of-band.
	if err := testStore(req).Upsert(req.Addon, true); err != nil {
		t.Fatal(err)
	}

	req.Check = true
	changed, err := Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("check should predict a change from the record alone")
	}

	req.Check = false
	changed, err = Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("removal of the record should report changed")
	}

	installed, err := testStore(req).IsInstalled(req.Addon)
	if err != nil {
		t.Fatal(err)
	}
	if installed {
		t.Error("record still present after absent")
	}
}

func TestAbsentRemovesDirectoryAndRecord(t *testing.T) {
	m := newMirror(t)
	req := testRequest(t, m, "plugin.standalone", StateAbsent)

	addonDir := kodidir.AddonPath(req.Home, req.Addon)
	if err := os.MkdirAll(filepath.Join(addonDir, "resources"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := testStore(req).Upsert(req.Addon, true); err != nil {
		t.Fatal(err)
	}

	changed, err := Apply(req)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !changed {
		t.Error("removal should report changed")
	}
	if _, err := os.Stat(addonDir); !os.IsNotExist(err) {
		t.Error("addon directory still present after absent")
	}
}

func TestUnsupportedRelease(t *testing.T) {
	m := newMirror(t)
	req := testRequest(t, m, "plugin.standalone", StateEnabled)
	req.Release = "omega"

	if _, err := Apply(req); err == nil {
		t.Fatal("expected an unsupported-release error")
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		in      string
		want    State
		wantErr bool
	}{
		{"present", StatePresent, false},
		{"enabled", StateEnabled, false},
		{"disabled", StateDisabled, false},
		{"absent", StateAbsent, false},
		{"installed", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseState(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseState(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseState(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseState(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
