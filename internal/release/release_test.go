package release

import (
	"strings"
	"testing"
)

func TestLookupSupported(t *testing.T) {
	for _, name := range []string{"krypton", "leia", "matrix"} {
		ch, err := Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if ch.Name != name {
			t.Errorf("Lookup(%q).Name = %q", name, ch.Name)
		}
		if ch.Database != "Addons27.db" {
			t.Errorf("Lookup(%q).Database = %q, want Addons27.db", name, ch.Database)
		}
	}
}

func TestLookupUnsupported(t *testing.T) {
	_, err := Lookup("omega")
	if err == nil {
		t.Fatal("expected an error for an unsupported release")
	}
	// The error should name the allow-list so the caller can fix the input.
	for _, name := range []string{"krypton", "leia", "matrix"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention supported release %q", err, name)
		}
	}
}

func TestNames(t *testing.T) {
	names := Names()
	want := []string{"krypton", "leia", "matrix"}
	if len(names) != len(want) {
		t.Fatalf("Names() = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestValidateChannels(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		valid bool
	}{
		{
			name:  "embedded table",
			data:  string(channelsBytes),
			valid: true,
		},
		{
			name:  "missing database",
			data:  "channels:\n  - name: leia\n",
			valid: false,
		},
		{
			name:  "bad database name",
			data:  "channels:\n  - name: leia\n    database: addons.sqlite\n",
			valid: false,
		},
		{
			name:  "empty channel list",
			data:  "channels: []\n",
			valid: false,
		},
		{
			name:  "unknown key",
			data:  "channels:\n  - name: leia\n    database: Addons27.db\n    mirror: x\n",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validateChannels([]byte(tt.data))
			if err != nil {
				t.Fatalf("validateChannels: %v", err)
			}
			if result.Valid != tt.valid {
				t.Errorf("Valid = %t, want %t (issues: %v)", result.Valid, tt.valid, result.Issues)
			}
			if !result.Valid && len(result.Issues) == 0 {
				t.Error("invalid result carries no issues")
			}
		})
	}
}
