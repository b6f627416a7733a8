// Package release defines the allow-list of supported Kodi release channels.
// The channel table ships embedded in the binary and is validated against a
// JSON schema at first use; each channel maps to the Addons database file the
// state store operates on.
package release

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

// Channel describes one supported Kodi release.
type Channel struct {
	Name     string `yaml:"name"`
	Database string `yaml:"database"`
}

type channelTable struct {
	Channels []Channel `yaml:"channels"`
}

var (
	loadOnce sync.Once
	loaded   []Channel
	loadErr  error
)

// load parses and validates the embedded channel table once.
func load() ([]Channel, error) {
	loadOnce.Do(func() {
		result, err := validateChannels(channelsBytes)
		if err != nil {
			loadErr = err
			return
		}
		if !result.Valid {
			msgs := make([]string, 0, len(result.Issues))
			for _, issue := range result.Issues {
				msgs = append(msgs, issue.Path+": "+issue.Message)
			}
			loadErr = fmt.Errorf("embedded channel table is invalid: %s", strings.Join(msgs, "; "))
			return
		}

		var table channelTable
		if err := yaml.Unmarshal(channelsBytes, &table); err != nil {
			loadErr = fmt.Errorf("parsing channel table: %w", err)
			return
		}
		loaded = table.Channels
	})
	return loaded, loadErr
}

// Lookup returns the channel for a release name, or an error naming the
// supported releases when the name is not on the allow-list.
func Lookup(name string) (Channel, error) {
	channels, err := load()
	if err != nil {
		return Channel{}, err
	}
	for _, ch := range channels {
		if ch.Name == name {
			return ch, nil
		}
	}
	return Channel{}, fmt.Errorf("unsupported kodi release %q (supported: %s)", name, strings.Join(Names(), ", "))
}

// Names returns the supported release names in sorted order.
func Names() []string {
	channels, err := load()
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.Name)
	}
	sort.Strings(names)
	return names
}
