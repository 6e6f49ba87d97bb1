// Package doctor provides diagnostic checks for damngood health.
//
// The check framework validates the pieces a working setup needs:
//   - the data directory exists and is writable
//   - the central registry and client registry parse
//   - each enabled client's own file parses
//   - an editor can be resolved for the add/edit flows
//   - the CLI version against the cached release check
package doctor

import (
	"context"
	"fmt"
	"os"

	"github.com/5LV10/damngood/internal/buildinfo"
	"github.com/5LV10/damngood/internal/clients"
	"github.com/5LV10/damngood/internal/config"
	"github.com/5LV10/damngood/internal/editor"
	"github.com/5LV10/damngood/internal/jsonfile"
	"github.com/5LV10/damngood/internal/paths"
	"github.com/5LV10/damngood/internal/registry"
	"github.com/5LV10/damngood/internal/update"
)

// Status represents the result of a diagnostic check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical failure.
	StatusFail
)

// Symbol returns a plain-text marker for the status.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "ok"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "?"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name    string
	Status  Status
	Message string
	Detail  string // Optional additional detail
}

// Check is a diagnostic check function.
type Check func(ctx context.Context) Result

// Runner executes diagnostic checks.
type Runner struct {
	checks []namedCheck
}

type namedCheck struct {
	name  string
	check Check
}

// New creates a runner with the default checks registered.
func New() *Runner {
	r := &Runner{}

	r.AddCheck("Data directory", checkDataDir)
	r.AddCheck("Central registry", checkRegistry)
	r.AddCheck("Client registry", checkClients)
	r.AddCheck("Client files", checkClientFiles)
	r.AddCheck("Editor", checkEditor)
	r.AddCheck("CLI version", checkCLIVersion)

	return r
}

// AddCheck registers a diagnostic check.
func (r *Runner) AddCheck(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

// Run executes all registered checks and returns the results.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.checks))

	for _, nc := range r.checks {
		res := nc.check(ctx)
		res.Name = nc.name
		results = append(results, res)
	}

	return results
}

// Summary tallies results by status.
func Summary(results []Result) (passed, failed, warnings int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusWarn:
			warnings++
		}
	}

	return passed, failed, warnings
}

func dataDir() (string, error) {
	return config.Load().DataDir()
}

func checkDataDir(_ context.Context) Result {
	dir, err := dataDir()
	if err != nil {
		return Result{Status: StatusFail, Message: "Cannot resolve data directory", Detail: err.Error()}
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Status: StatusFail, Message: "Data directory not writable", Detail: err.Error()}
	}

	return Result{Status: StatusPass, Message: dir}
}

func checkRegistry(_ context.Context) Result {
	dir, err := dataDir()
	if err != nil {
		return Result{Status: StatusFail, Message: "Cannot resolve data directory", Detail: err.Error()}
	}

	reg, err := registry.Load(paths.RegistryFile(dir))
	if err != nil {
		return Result{Status: StatusFail, Message: "Central registry unreadable", Detail: err.Error()}
	}

	if reg.Len() == 0 {
		return Result{Status: StatusWarn, Message: "No servers registered", Detail: "Run 'damngood add <name>' or 'damngood import'"}
	}

	return Result{Status: StatusPass, Message: fmt.Sprintf("%d server(s)", reg.Len())}
}

func checkClients(_ context.Context) Result {
	dir, err := dataDir()
	if err != nil {
		return Result{Status: StatusFail, Message: "Cannot resolve data directory", Detail: err.Error()}
	}

	store, err := clients.Load(paths.ClientsFile(dir))
	if err != nil {
		return Result{Status: StatusFail, Message: "Client registry unreadable", Detail: err.Error()}
	}

	discovered, err := clients.Discover()
	if err != nil {
		return Result{Status: StatusWarn, Message: "Discovery unavailable", Detail: err.Error()}
	}

	store.Merge(discovered)

	if store.Len() == 0 {
		return Result{Status: StatusWarn, Message: "No clients found", Detail: "Run 'damngood client register <name> --path <file>'"}
	}

	return Result{Status: StatusPass, Message: fmt.Sprintf("%d client(s), %d enabled", store.Len(), len(store.Enabled()))}
}

func checkClientFiles(_ context.Context) Result {
	dir, err := dataDir()
	if err != nil {
		return Result{Status: StatusFail, Message: "Cannot resolve data directory", Detail: err.Error()}
	}

	store, err := clients.Load(paths.ClientsFile(dir))
	if err != nil {
		return Result{Status: StatusFail, Message: "Client registry unreadable", Detail: err.Error()}
	}

	checked := 0

	for _, client := range store.Enabled() {
		var doc map[string]any
		if err := jsonfile.Read(client.Path, &doc); err != nil {
			if os.IsNotExist(err) {
				continue
			}

			return Result{
				Status:  StatusFail,
				Message: fmt.Sprintf("Invalid JSON in %s config", client.Name),
				Detail:  client.Path,
			}
		}

		checked++
	}

	return Result{Status: StatusPass, Message: fmt.Sprintf("%d file(s) valid", checked)}
}

func checkEditor(_ context.Context) Result {
	cmd, err := editor.Resolve(config.Load().Editor())
	if err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "No editor found",
			Detail:  "Set EDITOR or 'damngood config set editor <cmd>'; add/edit will not work without one",
		}
	}

	return Result{Status: StatusPass, Message: cmd}
}

func checkCLIVersion(_ context.Context) Result {
	current := buildinfo.Version
	if current == "dev" {
		return Result{Status: StatusWarn, Message: "Development build", Detail: "Version checks are skipped for dev builds"}
	}

	state, err := update.LoadState()
	if err != nil || state.LatestVersion == "" {
		return Result{Status: StatusPass, Message: fmt.Sprintf("v%s (no cached release info)", current)}
	}

	if state.HasUpdate(current) {
		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("v%s (v%s available)", current, state.LatestVersion),
			Detail:  "Run 'damngood update'",
		}
	}

	return Result{Status: StatusPass, Message: fmt.Sprintf("v%s (up to date)", current)}
}
