// Package syncer pushes central server records into client configuration files.
//
// Sync is one-directional and deliberately non-destructive: it overwrites
// entries it manages (the central registry is authoritative for those) but
// never deletes entries it did not write, and never touches any top-level
// field of a client file other than the client's designated key. Removing a
// client from a server's clients list does not retract a previously synced
// copy; that asymmetry is inherited behavior, kept on purpose.
package syncer

import (
	"encoding/json"
	"os"

	"github.com/5LV10/damngood/internal/clients"
	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/jsonfile"
	"github.com/5LV10/damngood/internal/registry"
)

// Result reports the outcome of syncing one client.
type Result struct {
	Client string `json:"client"`
	Path   string `json:"path"`
	Synced int    `json:"synced"`

	// Err is set when the client's file could not be processed and the
	// engine was told to continue past failures. Error mirrors it as text
	// so JSON consumers see the failure too.
	Err   error  `json:"-"`
	Error string `json:"error,omitempty"`
}

// Options control engine behavior.
type Options struct {
	// SkipInvalid continues with the remaining clients when one client's
	// file is unreadable, recording the failure in its Result. The default
	// (false) aborts the whole run on the first bad file.
	SkipInvalid bool
}

// Run merges every addressed server record into each enabled client's file.
// With no servers or no enabled clients it returns (nil, nil) without
// writing anything; a no-op is a valid success outcome.
func Run(reg *registry.Store, enabled []clients.Descriptor, opts Options) ([]Result, error) {
	if reg.Len() == 0 || len(enabled) == 0 {
		return nil, nil
	}

	results := make([]Result, 0, len(enabled))

	for _, client := range enabled {
		res, err := syncClient(reg, client)
		if err != nil {
			if !opts.SkipInvalid {
				return results, err
			}

			res = Result{Client: client.Name, Path: client.Path, Err: err, Error: err.Error()}
		}

		results = append(results, res)
	}

	return results, nil
}

// syncClient loads one client's file, merges addressed records under the
// client's key, and writes the document back. Each client is independent.
func syncClient(reg *registry.Store, client clients.Descriptor) (Result, error) {
	res := Result{Client: client.Name, Path: client.Path}

	// The document is decoded at the top level only; sibling fields stay
	// raw bytes so they survive the round trip untouched.
	doc := make(map[string]json.RawMessage)
	if err := jsonfile.Read(client.Path, &doc); err != nil && !os.IsNotExist(err) {
		return res, clierrors.InvalidDocument(client.Path, err)
	}

	section := make(map[string]json.RawMessage)
	if raw, ok := doc[client.Key]; ok {
		if err := json.Unmarshal(raw, &section); err != nil {
			return res, clierrors.InvalidDocument(client.Path, err)
		}
	}

	for _, name := range reg.Names() {
		rec, _ := reg.Get(name)
		if !rec.TargetsClient(client.Name) {
			continue
		}

		entry, err := rec.ClientEntry()
		if err != nil {
			return res, clierrors.ConfigFailed("project server "+name, err)
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return res, clierrors.ConfigFailed("encode server "+name, err)
		}

		// Last sync wins for entries the registry addresses here;
		// everything else under the key is left alone.
		section[name] = data
		res.Synced++
	}

	sectionData, err := json.Marshal(section)
	if err != nil {
		return res, clierrors.ConfigFailed("encode "+client.Key+" section", err)
	}

	doc[client.Key] = sectionData

	if err := jsonfile.Write(client.Path, doc); err != nil {
		return res, clierrors.ConfigFailed("write client file "+client.Path, err)
	}

	return res, nil
}
