package main

import (
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/5LV10/damngood/internal/observability"
	"github.com/5LV10/damngood/internal/output"
	"github.com/5LV10/damngood/internal/syncer"
)

func newSyncCmd() *cobra.Command {
	var skipInvalid bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Push central servers into client config files",
		Long: `Write every central server into the config files of the enabled
clients it targets.

Sync is non-destructive: entries a client file carries that the central
registry does not manage are left untouched, and nothing is ever deleted
from a client file. The central definition wins for servers it manages.

By default a client file that is not valid JSON aborts the whole run
before anything is written. With --skip-invalid the broken client is
reported and skipped while the rest still sync.`,
		Example: `  damngood sync
  damngood sync --skip-invalid`,
		Args: noArgs,
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

			_, span := observability.Tracer("damngood.sync").Start(cmd.Context(), "sync.run",
				trace.WithAttributes(
					attribute.Int("sync.servers", reg.Len()),
					attribute.Int("sync.clients", len(enabled)),
				))
			defer span.End()

			if reg.Len() == 0 {
				out.Info("No servers in the central registry; nothing to sync")
				return nil
			}

			if len(enabled) == 0 {
				out.Info("No enabled clients; nothing to sync")
				out.Muted("  Run 'damngood client list' to see what was discovered")

				return nil
			}

			spin := out.Spinner("Syncing clients")
			spin.Start()

			results, err := syncer.Run(reg, enabled, syncer.Options{SkipInvalid: skipInvalid})
			if err != nil {
				spin.StopWithFailure("Sync aborted")
				return err
			}

			spin.StopWithSuccess("Sync complete")

			if out.JSON {
				return out.PrintJSON(results)
			}

			for _, res := range results {
				if res.Err != nil {
					out.Warning("%s: skipped (%v)", res.Client, res.Err)
					continue
				}

				out.Success("%s: %d server(s) -> %s", res.Client, res.Synced, res.Path)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipInvalid, "skip-invalid", false, "Skip clients whose config file is not valid JSON instead of aborting")

	return cmd
}
