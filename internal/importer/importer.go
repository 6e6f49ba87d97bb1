// Package importer promotes entries found in client files into the central
// registry.
//
// Import is the inverse of sync: it walks each enabled client's file and
// offers every entry the registry does not know about to the operator.
// Entries whose name already exists centrally are skipped without a prompt;
// the central registry is authoritative for names it holds and import never
// overwrites it.
package importer

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/5LV10/damngood/internal/clients"
	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/jsonfile"
	"github.com/5LV10/damngood/internal/registry"
)

// Decision is the operator's answer for one import candidate.
type Decision int

const (
	// Yes imports the candidate.
	Yes Decision = iota
	// No skips this candidate only.
	No
	// SkipAll aborts the remaining candidates across all clients.
	SkipAll
)

// Decider asks the operator what to do with one candidate entry.
type Decider interface {
	Decide(serverName, clientName string) (Decision, error)
}

// Run walks the enabled clients in order and imports the entries the
// operator accepts, attributing each to the client it came from. It mutates
// reg in memory and returns the imported names; the caller persists the
// registry once afterwards. A SkipAll answer returns immediately with
// whatever was imported up to that point.
func Run(reg *registry.Store, enabled []clients.Descriptor, decider Decider) ([]string, error) {
	var imported []string

	for _, client := range enabled {
		names, section, err := readSection(client)
		if err != nil {
			return imported, err
		}

		for _, name := range names {
			if reg.Has(name) {
				continue
			}

			decision, err := decider.Decide(name, client.Name)
			if err != nil {
				return imported, err
			}

			switch decision {
			case SkipAll:
				return imported, nil
			case No:
				continue
			case Yes:
			}

			var rec registry.ServerRecord
			if err := json.Unmarshal(section[name], &rec); err != nil {
				return imported, clierrors.InvalidDocument(client.Path, err)
			}

			rec.Clients = []string{client.Name}
			if err := reg.Add(name, rec); err != nil {
				return imported, err
			}

			imported = append(imported, name)
		}
	}

	return imported, nil
}

// readSection loads the entries under a client's key, in sorted name order.
// A missing file means the client simply has nothing to offer.
func readSection(client clients.Descriptor) ([]string, map[string]json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)
	if err := jsonfile.Read(client.Path, &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}

		return nil, nil, clierrors.InvalidDocument(client.Path, err)
	}

	raw, ok := doc[client.Key]
	if !ok {
		return nil, nil, nil
	}

	section := make(map[string]json.RawMessage)
	if err := json.Unmarshal(raw, &section); err != nil {
		return nil, nil, clierrors.InvalidDocument(client.Path, err)
	}

	names := make([]string, 0, len(section))
	for name := range section {
		names = append(names, name)
	}

	sort.Strings(names)

	return names, section, nil
}
