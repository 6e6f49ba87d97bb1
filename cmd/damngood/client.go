package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/5LV10/damngood/internal/clients"
	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/output"
)

func newClientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Manage AI-assistant clients",
		Long: `Commands for listing and managing the clients damngood syncs to.

Well-known clients (Cursor, Gemini CLI, OpenCode, Claude) are discovered
automatically when their config file exists. Additional clients can be
registered by hand with a file path and a top-level key.`,
	}

	cmd.AddCommand(newClientListCmd())
	cmd.AddCommand(newClientRegisterCmd())
	cmd.AddCommand(newClientRemoveCmd())
	cmd.AddCommand(newClientEnableCmd(true))
	cmd.AddCommand(newClientEnableCmd(false))

	return cmd
}

func newClientListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Short:   "List registered clients",
		Long:    `Discover well-known clients, then list every registered client.`,
		Example: `  damngood client list`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			store, err := openClients()
			if err != nil {
				return err
			}

			all := store.All()

			if out.JSON {
				return out.PrintJSON(all)
			}

			if len(all) == 0 {
				out.Info("No clients registered")
				out.Muted("  Run 'damngood client register <name> --path <file>' to add one")

				return nil
			}

			out.Println()
			out.Print("%-12s %-9s %-12s %-10s %s\n", "NAME", "ENABLED", "KEY", "SOURCE", "PATH")
			out.Print("%-12s %-9s %-12s %-10s %s\n", "----", "-------", "---", "------", "----")

			for _, d := range all {
				enabled := "yes"
				if !d.Enabled {
					enabled = "no"
				}

				source := "manual"
				if d.AutoDiscovered {
					source = "discovered"
				}

				out.Print("%-12s %-9s %-12s %-10s %s\n", d.Name, enabled, d.Key, source, d.Path)
			}

			return nil
		},
	}
}

func newClientRegisterCmd() *cobra.Command {
	var (
		path string
		key  string
	)

	cmd := &cobra.Command{
		Use:   "register <name>",
		Short: "Register a client by hand",
		Long: `Register a client that discovery does not know about.

The path is the client's own config file; the key is the top-level field
that holds its server map (defaults to "mcpServers").`,
		Example: `  damngood client register windsurf --path ~/.windsurf/mcp.json
  damngood client register zed --path ~/.config/zed/settings.json --key context_servers`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			abs, err := filepath.Abs(expandHome(path))
			if err != nil {
				return clierrors.Wrap(clierrors.ExitUsage, "Invalid client path", err)
			}

			store, err := openClients()
			if err != nil {
				return err
			}

			d := store.Register(name, abs, key)
			if err := store.Save(); err != nil {
				return err
			}

			out.Success("Registered client '%s'", d.Name)
			out.Muted("  %s (key %q)", d.Path, d.Key)

			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Path to the client's config file (required)")
	cmd.Flags().StringVar(&key, "key", clients.DefaultKey, "Top-level key holding the client's server map")
	_ = cmd.MarkFlagRequired("path")

	return cmd
}

func newClientRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a manually registered client",
		Long: `Remove a client from the registry.

Auto-discovered clients cannot be removed (discovery would re-add them on
the next run); disable them instead.`,
		Example: `  damngood client remove windsurf`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			store, err := openClients()
			if err != nil {
				return err
			}

			if err := store.Remove(name); err != nil {
				return err
			}

			if err := store.Save(); err != nil {
				return err
			}

			out.Success("Removed client '%s'", name)

			return nil
		},
	}
}

func newClientEnableCmd(enable bool) *cobra.Command {
	use, short, done := "enable <name>", "Enable a client for sync and import", "Enabled"
	if !enable {
		use, short, done = "disable <name>", "Exclude a client from sync and import", "Disabled"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			name := args[0]

			store, err := openClients()
			if err != nil {
				return err
			}

			if err := store.SetEnabled(name, enable); err != nil {
				return err
			}

			if err := store.Save(); err != nil {
				return err
			}

			out.Success("%s client '%s'", done, name)

			return nil
		},
	}
}
