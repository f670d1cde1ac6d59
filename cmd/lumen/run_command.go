package main

import (
	"github.com/spf13/cobra"

	"lumen/internal/config"
	"lumen/internal/daemonrun"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var logLevel string
	var simulate bool
	var workers int
	var watchDir, imageDir, videoDir string
	var disableOrganizer, disableMetadata bool
	disabled := map[string]*bool{}
	for _, name := range []string{"tagging", "description", "ocr", "objects", "faces", "colors", "geotagging", "transcription"} {
		disabled[name] = new(bool)
	}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if simulate {
				cfg.Scheduler.Simulate = true
			}
			if workers > 0 {
				cfg.Scheduler.Workers = workers
			}
			overrides := []struct {
				value  string
				target *string
			}{
				{watchDir, &cfg.Paths.WatchDir},
				{imageDir, &cfg.Paths.ImageDir},
				{videoDir, &cfg.Paths.VideoDir},
			}
			for _, o := range overrides {
				if o.value == "" {
					continue
				}
				expanded, err := config.ExpandPath(o.value)
				if err != nil {
					return err
				}
				*o.target = expanded
			}
			if disableOrganizer {
				cfg.Organizer.Enabled = false
			}
			if disableMetadata {
				cfg.Metadata.Write = false
			}
			applyCapabilityOverrides(cfg, disabled)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return daemonrun.Run(cmd.Context(), cfg, daemonrun.Options{LogLevel: logLevel})
		},
	}

	cmd.Flags().StringVar(&logLevel, "log-level", "", "Override the configured log level")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Log intended actions without moving or enriching files")
	cmd.Flags().IntVar(&workers, "workers", 0, "Override the worker count")
	cmd.Flags().StringVar(&watchDir, "watch-dir", "", "Override the watch directory")
	cmd.Flags().StringVar(&imageDir, "image-dir", "", "Override the image library root")
	cmd.Flags().StringVar(&videoDir, "video-dir", "", "Override the video library root")
	cmd.Flags().BoolVar(&disableOrganizer, "disable-organizer", false, "Leave files where they were found")
	cmd.Flags().BoolVar(&disableMetadata, "disable-metadata", false, "Skip metadata writes")
	for name, target := range disabled {
		cmd.Flags().BoolVar(target, "disable-"+name, false, "Disable the "+name+" capability for all media kinds")
	}
	return cmd
}

// applyCapabilityOverrides turns off a capability for both media kinds
// when its --disable-* flag is set.
func applyCapabilityOverrides(cfg *config.Config, disabled map[string]*bool) {
	toggles := map[string][]*bool{
		"tagging":       {&cfg.Images.Tagging, &cfg.Videos.Tagging},
		"description":   {&cfg.Images.Description, &cfg.Videos.Description},
		"ocr":           {&cfg.Images.OCR, &cfg.Videos.OCR},
		"objects":       {&cfg.Images.Objects, &cfg.Videos.Objects},
		"faces":         {&cfg.Images.Faces, &cfg.Videos.Faces},
		"colors":        {&cfg.Images.Colors, &cfg.Videos.Colors},
		"geotagging":    {&cfg.Images.Geotagging, &cfg.Videos.Geotagging},
		"transcription": {&cfg.Videos.Transcription},
	}
	for name, flag := range disabled {
		if !*flag {
			continue
		}
		for _, toggle := range toggles[name] {
			*toggle = false
		}
	}
}
