package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/5LV10/damngood/internal/config"
	"github.com/5LV10/damngood/internal/output"
	"github.com/5LV10/damngood/internal/paths"
)

// PathsInfo holds all resolved paths for JSON output.
type PathsInfo struct {
	ConfigRoot   string `json:"config_root"`
	StateRoot    string `json:"state_root"`
	ConfigFile   string `json:"config_file"`
	DataDir      string `json:"data_dir"`
	RegistryFile string `json:"registry_file"`
	ClientsFile  string `json:"clients_file"`
	LogFile      string `json:"log_file"`
	UpdateState  string `json:"update_state"`
}

func newPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Show where damngood stores files",
		Long: `Display all file and directory paths used by damngood.

Useful for debugging, scripting, and understanding where the central
registry, client registry, configuration, and state files live on this
system.`,
		Example: `  damngood paths
  damngood paths --json`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			info := resolvePathsInfo()

			if out.JSON {
				return out.PrintJSON(info)
			}

			out.Print("Config root:    %s\n", info.ConfigRoot)
			out.Print("State root:     %s\n", info.StateRoot)
			out.Print("\n")
			out.Print("Config file:    %s\n", info.ConfigFile)
			out.Print("Data dir:       %s\n", info.DataDir)
			out.Print("Registry file:  %s\n", info.RegistryFile)
			out.Print("Clients file:   %s\n", info.ClientsFile)
			out.Print("Log file:       %s\n", info.LogFile)
			out.Print("Update state:   %s\n", info.UpdateState)

			return nil
		},
	}
}

func resolvePathsInfo() PathsInfo {
	info := PathsInfo{}

	info.ConfigRoot = resolveOrError(paths.ConfigRoot)
	info.StateRoot = resolveOrError(paths.StateRoot)
	info.LogFile = resolveOrError(paths.DefaultLogFile)
	info.UpdateState = resolveOrError(paths.UpdateStateFile)

	if cr := info.ConfigRoot; cr != "" {
		info.ConfigFile = filepath.Join(cr, "config.yaml")
	} else {
		info.ConfigFile = "<error: config root unavailable>"
	}

	info.DataDir = resolveOrError(config.Load().DataDir)
	if info.DataDir != "" {
		info.RegistryFile = paths.RegistryFile(info.DataDir)
		info.ClientsFile = paths.ClientsFile(info.DataDir)
	}

	return info
}

// resolveOrError calls a path resolver, substituting an error marker so one
// unresolvable root does not hide the rest of the listing.
func resolveOrError(resolve func() (string, error)) string {
	path, err := resolve()
	if err != nil {
		return fmt.Sprintf("<error: %v>", err)
	}

	return path
}
