package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lumen/internal/logging"
	"lumen/internal/media"
	"lumen/internal/metadata"
	"lumen/internal/organizer"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize <file>...",
		Short: "File media into the dated library immediately",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			meta := metadata.NewService(cfg, logging.NewNop())
			org := organizer.New(cfg, meta, logging.NewNop())
			out := cmd.OutOrStdout()

			for _, path := range args {
				kind := media.DetectKind(path)
				if kind == media.KindOther {
					fmt.Fprintf(out, "%s: not a recognized media file, skipping\n", path)
					continue
				}
				if dryRun {
					fmt.Fprintf(out, "%s -> %s\n", path, org.Plan(cmd.Context(), path, kind))
					continue
				}
				result, err := org.Organize(cmd.Context(), path, kind)
				if err != nil {
					return err
				}
				switch {
				case result.Skipped:
					fmt.Fprintf(out, "%s: destination occupied, left in place\n", path)
				default:
					fmt.Fprintf(out, "%s -> %s\n", path, result.FinalPath)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show destinations without moving anything")
	return cmd
}
