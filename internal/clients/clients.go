// Package clients manages the registry of AI-assistant clients and their
// configuration files.
//
// Each client stores its MCP servers in its own file, under its own
// top-level key ("mcpServers" for most, "mcp" for OpenCode). A Descriptor
// captures that addressing so sync and import can treat every client
// uniformly instead of branching on client identity.
package clients

import (
	"os"
	"sort"
	"strings"

	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/jsonfile"
)

// DefaultKey is the top-level field most clients use for their server map.
const DefaultKey = "mcpServers"

// Descriptor is one registered AI-assistant client.
type Descriptor struct {
	Name string `json:"name"`

	// Path is the absolute path to the client's own configuration file.
	Path string `json:"path"`

	// Key is the top-level field holding the client's server map.
	Key string `json:"key"`

	// AutoDiscovered marks descriptors found via well-known default paths.
	// They cannot be removed, only disabled, so re-running discovery stays
	// idempotent.
	AutoDiscovered bool `json:"auto_discovered"`

	Enabled bool `json:"enabled"`
}

// document is the on-disk shape of the client registry.
type document struct {
	Clients map[string]Descriptor `json:"clients"`
}

// Store is the client registry backed by a single JSON file.
type Store struct {
	path    string
	clients map[string]Descriptor
}

// Load reads the client registry at path. A missing file yields an empty
// registry; unparseable JSON is an InvalidDocument error.
func Load(path string) (*Store, error) {
	s := &Store{
		path:    path,
		clients: make(map[string]Descriptor),
	}

	var doc document
	if err := jsonfile.Read(path, &doc); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}

		return nil, clierrors.InvalidDocument(path, err)
	}

	if doc.Clients != nil {
		s.clients = doc.Clients
	}

	return s, nil
}

// Save writes the client registry back to its file.
func (s *Store) Save() error {
	if err := jsonfile.Write(s.path, document{Clients: s.clients}); err != nil {
		return clierrors.ConfigFailed("save client registry", err)
	}

	return nil
}

// Get returns the descriptor for name.
func (s *Store) Get(name string) (Descriptor, bool) {
	d, ok := s.clients[strings.ToLower(name)]
	return d, ok
}

// Len returns the number of registered clients.
func (s *Store) Len() int {
	return len(s.clients)
}

// All returns every descriptor in sorted name order.
func (s *Store) All() []Descriptor {
	names := make([]string, 0, len(s.clients))
	for name := range s.clients {
		names = append(names, name)
	}

	sort.Strings(names)

	all := make([]Descriptor, 0, len(names))
	for _, name := range names {
		all = append(all, s.clients[name])
	}

	return all
}

// Enabled returns the enabled descriptors in sorted name order. Both sync
// and import walk this list.
func (s *Store) Enabled() []Descriptor {
	enabled := make([]Descriptor, 0, len(s.clients))
	for _, d := range s.All() {
		if d.Enabled {
			enabled = append(enabled, d)
		}
	}

	return enabled
}

// Register adds or replaces a user-registered client. Names are lowercased.
// An empty key falls back to DefaultKey.
func (s *Store) Register(name, path, key string) Descriptor {
	name = strings.ToLower(name)
	if key == "" {
		key = DefaultKey
	}

	d := Descriptor{
		Name:           name,
		Path:           path,
		Key:            key,
		AutoDiscovered: false,
		Enabled:        true,
	}
	s.clients[name] = d

	return d
}

// Remove deletes a user-registered client. Auto-discovered clients are
// protected: removing one would only make the next discovery pass re-add
// it, so the caller is directed to disable instead.
func (s *Store) Remove(name string) error {
	name = strings.ToLower(name)

	d, ok := s.clients[name]
	if !ok {
		return clierrors.ClientNotFound(name)
	}

	if d.AutoDiscovered {
		return clierrors.ClientProtected(name)
	}

	delete(s.clients, name)

	return nil
}

// SetEnabled flips a client's enabled flag.
func (s *Store) SetEnabled(name string, enabled bool) error {
	name = strings.ToLower(name)

	d, ok := s.clients[name]
	if !ok {
		return clierrors.ClientNotFound(name)
	}

	d.Enabled = enabled
	s.clients[name] = d

	return nil
}

// Merge folds discovered descriptors into the registry. Only names absent
// from the stored registry are added; existing descriptors keep whatever
// path, key, and enabled flag the user has, so discovery never re-enables
// a client the user disabled.
func (s *Store) Merge(discovered []Descriptor) (added int) {
	for _, d := range discovered {
		if _, exists := s.clients[d.Name]; exists {
			continue
		}

		s.clients[d.Name] = d
		added++
	}

	return added
}
