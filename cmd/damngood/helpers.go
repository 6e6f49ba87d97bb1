package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/5LV10/damngood/internal/clients"
	"github.com/5LV10/damngood/internal/config"
	"github.com/5LV10/damngood/internal/paths"
	"github.com/5LV10/damngood/internal/registry"
)

// openRegistry loads the central server registry from the configured data
// directory.
func openRegistry() (*registry.Store, error) {
	dir, err := config.Load().DataDir()
	if err != nil {
		return nil, err
	}

	return registry.Load(paths.RegistryFile(dir))
}

// openClients loads the client registry and resolves well-known clients
// installed on this machine.
func openClients() (*clients.Store, error) {
	dir, err := config.Load().DataDir()
	if err != nil {
		return nil, err
	}

	store, err := clients.Load(paths.ClientsFile(dir))
	if err != nil {
		return nil, err
	}

	if err := store.Resolve(); err != nil {
		return nil, err
	}

	return store, nil
}

// expandHome resolves a leading ~ in a user-supplied path.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}

	return path
}
