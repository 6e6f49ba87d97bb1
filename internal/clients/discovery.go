package clients

import (
	"os"
	"path/filepath"
)

// seat is one well-known (client, default path, default key) tuple.
type seat struct {
	name string
	path []string // joined under the home directory
	key  string
}

// wellKnown is the fixed, ordered discovery list.
var wellKnown = []seat{
	{name: "cursor", path: []string{".cursor", "mcp.json"}, key: "mcpServers"},
	{name: "gemini", path: []string{".gemini", "settings.json"}, key: "mcpServers"},
	{name: "opencode", path: []string{".config", "opencode", "opencode.json"}, key: "mcp"},
	{name: "claude", path: []string{".claude", "config.json"}, key: "mcpServers"},
}

// Discover scans the well-known client locations and returns a descriptor
// for each config file that exists on disk.
func Discover() ([]Descriptor, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	return discoverIn(home), nil
}

func discoverIn(home string) []Descriptor {
	var found []Descriptor

	for _, w := range wellKnown {
		path := filepath.Join(append([]string{home}, w.path...)...)
		if _, err := os.Stat(path); err != nil {
			continue
		}

		found = append(found, Descriptor{
			Name:           w.name,
			Path:           path,
			Key:            w.key,
			AutoDiscovered: true,
			Enabled:        true,
		})
	}

	return found
}

// Resolve runs discovery, merges the results into the store, and persists
// the registry when anything new appeared. It is safe to call on every
// invocation: the merge never touches existing descriptors.
func (s *Store) Resolve() error {
	discovered, err := Discover()
	if err != nil {
		return err
	}

	if s.Merge(discovered) > 0 {
		return s.Save()
	}

	return nil
}
