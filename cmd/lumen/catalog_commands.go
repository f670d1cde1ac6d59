package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"lumen/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect the processed-file catalog",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogStatsCommand(ctx))
	catalogCmd.AddCommand(newCatalogClearCommand(ctx))
	return catalogCmd
}

func withCatalog(ctx *commandContext, fn func(cmd *cobra.Command, store *catalog.Store) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := ctx.ensureConfig()
		if err != nil {
			return err
		}
		if cfg.Paths.CatalogPath == "" {
			return fmt.Errorf("catalog is in-memory (paths.catalog_path is empty); nothing persisted to inspect")
		}
		store, err := catalog.Open(cfg.Paths.CatalogPath)
		if err != nil {
			return err
		}
		defer store.Close()
		return fn(cmd, store)
	}
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var stateFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked files",
		RunE: withCatalog(ctx, func(cmd *cobra.Command, store *catalog.Store) error {
			var states []catalog.State
			if stateFlag != "" {
				states = append(states, catalog.State(stateFlag))
			}
			entries, err := store.List(cmd.Context(), states...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Catalog is empty.")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				detail := e.FinalPath
				if e.State == catalog.StateFailed {
					detail = e.ErrorMessage
				}
				rows = append(rows, []string{e.Path, string(e.Kind), string(e.State), detail})
			}
			fmt.Fprintln(out, renderTable([]string{"Path", "Kind", "State", "Detail"}, rows))
			return nil
		}),
	}

	cmd.Flags().StringVar(&stateFlag, "state", "", "Filter by state (in_flight, done, failed)")
	return cmd
}

func newCatalogStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show catalog counters",
		RunE: withCatalog(ctx, func(cmd *cobra.Command, store *catalog.Store) error {
			stats, err := store.Counts(cmd.Context())
			if err != nil {
				return err
			}
			rows := [][]string{
				{"in_flight", strconv.Itoa(stats.InFlight)},
				{"done", strconv.Itoa(stats.Done)},
				{"failed", strconv.Itoa(stats.Failed)},
				{"total", strconv.Itoa(stats.Total())},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"State", "Count"}, rows))
			return nil
		}),
	}
}

func newCatalogClearCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Forget every tracked file",
		RunE: withCatalog(ctx, func(cmd *cobra.Command, store *catalog.Store) error {
			if !force {
				return fmt.Errorf("clearing makes every previously processed file eligible again; re-run with --force")
			}
			n, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d catalog entries.\n", n)
			return nil
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation guard")
	return cmd
}
