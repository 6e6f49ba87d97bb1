package registry

import (
	"os"
	"sort"
	"time"

	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/jsonfile"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// document is the on-disk shape of the central registry.
type document struct {
	Servers map[string]ServerRecord `json:"servers"`
}

// Store is the central server registry backed by a single JSON file.
type Store struct {
	path    string
	servers map[string]ServerRecord
}

// Load reads the registry at path. A missing file yields an empty registry;
// a file that is not valid JSON is an InvalidDocument error.
func Load(path string) (*Store, error) {
	s := &Store{
		path:    path,
		servers: make(map[string]ServerRecord),
	}

	var doc document
	if err := jsonfile.Read(path, &doc); err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}

		return nil, clierrors.InvalidDocument(path, err)
	}

	if doc.Servers != nil {
		s.servers = doc.Servers
	}

	return s, nil
}

// Save writes the registry back to its file.
func (s *Store) Save() error {
	if err := jsonfile.Write(s.path, document{Servers: s.servers}); err != nil {
		return clierrors.ConfigFailed("save central registry", err)
	}

	return nil
}

// ExportTo writes the registry document to a different path, leaving the
// backing file alone.
func (s *Store) ExportTo(path string) error {
	if err := jsonfile.Write(path, document{Servers: s.servers}); err != nil {
		return clierrors.ConfigFailed("export central registry", err)
	}

	return nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of registered servers.
func (s *Store) Len() int {
	return len(s.servers)
}

// Has reports whether a server with the given name exists.
func (s *Store) Has(name string) bool {
	_, ok := s.servers[name]
	return ok
}

// Get returns the record for name.
func (s *Store) Get(name string) (ServerRecord, bool) {
	rec, ok := s.servers[name]
	return rec, ok
}

// Names returns all server names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.servers))
	for name := range s.servers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// All returns the full name -> record mapping.
func (s *Store) All() map[string]ServerRecord {
	return s.servers
}

// Add registers a new record under name, stamping both timestamps.
// Adding a name that already exists is rejected.
func (s *Store) Add(name string, rec ServerRecord) error {
	if s.Has(name) {
		return clierrors.ServerExists(name)
	}

	now := timeNow()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.servers[name] = rec

	return nil
}

// Update replaces the record under name, preserving created_at and
// refreshing updated_at.
func (s *Store) Update(name string, rec ServerRecord) error {
	existing, ok := s.servers[name]
	if !ok {
		return clierrors.ServerNotFound(name)
	}

	rec.CreatedAt = existing.CreatedAt
	rec.UpdatedAt = timeNow()
	s.servers[name] = rec

	return nil
}

// SetEnabled pins the record's enabled flag and refreshes updated_at.
func (s *Store) SetEnabled(name string, enabled bool) error {
	rec, ok := s.servers[name]
	if !ok {
		return clierrors.ServerNotFound(name)
	}

	rec.Enabled = &enabled
	rec.UpdatedAt = timeNow()
	s.servers[name] = rec

	return nil
}

// Toggle flips the record's effective enabled state and returns the new
// state. A record with the flag unset counts as enabled, so its first
// toggle disables it.
func (s *Store) Toggle(name string) (bool, error) {
	rec, ok := s.servers[name]
	if !ok {
		return false, clierrors.ServerNotFound(name)
	}

	enabled := !rec.IsEnabled()
	if err := s.SetEnabled(name, enabled); err != nil {
		return false, err
	}

	return enabled, nil
}

// Remove deletes the record under name.
func (s *Store) Remove(name string) error {
	if !s.Has(name) {
		return clierrors.ServerNotFound(name)
	}

	delete(s.servers, name)

	return nil
}
