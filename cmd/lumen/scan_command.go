package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lumen/internal/catalog"
	"lumen/internal/logging"
	"lumen/internal/watch"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "List the settled media files a scan would pick up",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg.Paths.CatalogPath)
			if err != nil {
				return err
			}
			defer store.Close()

			scanner := watch.NewScanner(cfg, store, logging.NewNop())
			candidates, err := scanner.Scan(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No new media files found.")
				return nil
			}

			rows := make([][]string, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, []string{
					c.Path,
					string(c.Kind),
					c.ModTime.Format(time.RFC3339),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Path", "Kind", "Modified"}, rows))
			return nil
		},
	}
}
