package main

import (
	"github.com/spf13/cobra"

	clierrors "github.com/5LV10/damngood/internal/errors"
	"github.com/5LV10/damngood/internal/importer"
	"github.com/5LV10/damngood/internal/output"
	"github.com/5LV10/damngood/internal/prompt"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "Pull existing client entries into the central registry",
		Long: `Walk every enabled client's config file and offer each server
entry not yet in the central registry for import.

Each candidate is prompted individually: yes imports it (attributed to
the client it came from), no skips it, and skip all ends the session.
Entries whose name already exists centrally are skipped without a
prompt. Client files are never modified by import.`,
		Example: `  damngood import`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			reg, err := openRegistry()
			if err != nil {
				return err
			}

			store, err := openClients()
			if err != nil {
				return err
			}

			enabled := store.Enabled()
			if len(enabled) == 0 {
				out.Info("No enabled clients; nothing to import")
				return nil
			}

			p := prompt.New(out)
			if !p.CanPrompt() {
				return clierrors.CannotPrompt()
			}

			imported, err := importer.Run(reg, enabled, p)
			if err != nil {
				return err
			}

			if len(imported) == 0 {
				out.Info("Nothing imported")
				return nil
			}

			if err := reg.Save(); err != nil {
				return err
			}

			if out.JSON {
				return out.PrintJSON(map[string]any{"imported": imported})
			}

			out.Println()
			out.Success("Imported %d server(s):", len(imported))

			for _, name := range imported {
				out.Muted("  %s", name)
			}

			return nil
		},
	}
}
