package main

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/5LV10/damngood/internal/config"
	"github.com/5LV10/damngood/internal/editor"
	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/output"
	"github.com/5LV10/damngood/internal/registry"
)

// serverView is the JSON shape of one server record in list/show output.
type serverView struct {
	Name    string                 `json:"name"`
	Type    string                 `json:"type"`
	Command string                 `json:"command"`
	Clients []string               `json:"clients"`
	Record  *registry.ServerRecord `json:"record,omitempty"`
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List servers in the central registry",
		Long:    `List every MCP server definition in the central registry.`,
		Example: `  damngood list`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			if out.JSON {
				views := make([]serverView, 0, reg.Len())
				for _, name := range reg.Names() {
					rec, _ := reg.Get(name)
					views = append(views, serverView{
						Name:    name,
						Type:    rec.EffectiveType(),
						Command: rec.Command,
						Clients: rec.Clients,
					})
				}

				return out.PrintJSON(views)
			}

			if reg.Len() == 0 {
				out.Info("No servers in the central registry")
				out.Muted("  Run 'damngood add <name>' to add one")

				return nil
			}

			out.Println()
			out.Print("%-24s %-8s %-24s %s\n", "NAME", "TYPE", "COMMAND", "CLIENTS")
			out.Print("%-24s %-8s %-24s %s\n", "----", "----", "-------", "-------")

			for _, name := range reg.Names() {
				rec, _ := reg.Get(name)

				command := rec.Command
				if len(command) > 22 {
					command = command[:19] + "..."
				}

				targets := strings.Join(rec.Clients, ", ")
				if targets == "" {
					targets = "-"
				}

				out.Print("%-24s %-8s %-24s %s\n", name, rec.EffectiveType(), command, targets)
			}

			return nil
		},
	}
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <name>",
		Short:   "Show a server record",
		Long:    `Display the full record for one server in the central registry.`,
		Example: `  damngood show filesystem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			rec, ok := reg.Get(name)
			if !ok {
				return clierrors.ServerNotFound(name)
			}

			if out.JSON {
				return out.PrintJSON(serverView{
					Name:    name,
					Type:    rec.EffectiveType(),
					Command: rec.Command,
					Clients: rec.Clients,
					Record:  &rec,
				})
			}

			pretty, err := json.MarshalIndent(rec, "", "  ")
			if err != nil {
				return err
			}

			out.Print("%s\n", name)
			out.Print("%s\n", pretty)

			return nil
		},
	}
}

func newAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a server to the central registry",
		Long: `Add a new MCP server definition to the central registry.

Opens your editor on a JSON template. Fill in the command, arguments, and
the clients the server should sync to, then save and quit.`,
		Example: `  damngood add filesystem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			if reg.Has(name) {
				return clierrors.ServerExists(name)
			}

			rec, err := editRecord(registry.Template())
			if err != nil {
				return err
			}

			if err := reg.Add(name, rec); err != nil {
				return err
			}

			if err := reg.Save(); err != nil {
				return err
			}

			out.Success("Added server '%s'", name)
			out.Muted("  Run 'damngood sync' to push it to your clients")

			return nil
		},
	}
}

func newEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <name>",
		Short: "Edit a server record",
		Long: `Open your editor on an existing server record.

The record's created_at timestamp is preserved; updated_at is refreshed
on save.`,
		Example: `  damngood edit filesystem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			current, ok := reg.Get(name)
			if !ok {
				return clierrors.ServerNotFound(name)
			}

			rec, err := editRecord(current)
			if err != nil {
				return err
			}

			if err := reg.Update(name, rec); err != nil {
				return err
			}

			if err := reg.Save(); err != nil {
				return err
			}

			out.Success("Updated server '%s'", name)

			return nil
		},
	}
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a server from the central registry",
		Long: `Delete a server definition from the central registry.

Entries already written into client files are left in place; sync never
deletes from client files.`,
		Example: `  damngood remove filesystem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			if err := reg.Remove(name); err != nil {
				return err
			}

			if err := reg.Save(); err != nil {
				return err
			}

			out.Success("Removed server '%s'", name)

			return nil
		},
	}
}

func newEnableCmd(enable bool) *cobra.Command {
	use, short, done := "enable <name>", "Enable a server for sync", "Enabled"
	example := "  damngood enable filesystem"
	if !enable {
		use, short, done = "disable <name>", "Disable a server without removing it", "Disabled"
		example = "  damngood disable filesystem"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Long: `Pin a server record's enabled flag.

Disabled servers stay in the central registry and keep syncing with
"enabled": false, so clients see them but do not start them.`,
		Example: example,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			if err := reg.SetEnabled(name, enable); err != nil {
				return err
			}

			if err := reg.Save(); err != nil {
				return err
			}

			out.Success("%s server '%s'", done, name)
			out.Muted("  Run 'damngood sync' to push the change to your clients")

			return nil
		},
	}
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle <name>",
		Short:   "Flip a server's enabled state",
		Long:    `Flip a server record's enabled flag. A record that never had the flag set counts as enabled, so its first toggle disables it.`,
		Example: `  damngood toggle filesystem`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			enabled, err := reg.Toggle(name)
			if err != nil {
				return err
			}

			if err := reg.Save(); err != nil {
				return err
			}

			state := "enabled"
			if !enabled {
				state = "disabled"
			}

			if out.JSON {
				return out.PrintJSON(map[string]interface{}{
					"name":    name,
					"enabled": enabled,
				})
			}

			out.Success("Server '%s' %s", name, state)

			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export the central registry to a file",
		Long: `Write a copy of the central registry document to the given path.

Useful for backups or for moving a registry between machines; the file can
be dropped into another data directory as-is.`,
		Example: `  damngood export ./registry-backup.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			path := expandHome(args[0])

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			if err := reg.ExportTo(path); err != nil {
				return err
			}

			out.Success("Exported %d server(s) to %s", reg.Len(), path)

			return nil
		},
	}
}

// editRecord round-trips a record through the user's editor and parses the
// result back into a ServerRecord. Timestamps are stripped before editing so
// they never show up as editable fields.
func editRecord(rec registry.ServerRecord) (registry.ServerRecord, error) {
	draft := rec
	draft.CreatedAt = time.Time{}
	draft.UpdatedAt = time.Time{}

	initial, err := json.MarshalIndent(draft, "", "  ")
	if err != nil {
		return registry.ServerRecord{}, err
	}

	initial = append(initial, '\n')

	ed, err := editor.New(config.Load().Editor())
	if err != nil {
		return registry.ServerRecord{}, err
	}

	edited, err := ed.Edit(initial)
	if err != nil {
		return registry.ServerRecord{}, err
	}

	var parsed registry.ServerRecord
	if err := json.Unmarshal(edited, &parsed); err != nil {
		return registry.ServerRecord{}, &clierrors.CLIError{
			Message: "Edited document is not valid JSON",
			Hint:    "Nothing was saved; run the command again to retry",
			Cause:   err,
			Code:    clierrors.ExitDocument,
		}
	}

	return parsed, nil
}
