// Command lumend runs the media pipeline as a long-lived daemon.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"lumen/internal/config"
	"lumen/internal/daemonrun"
)

func main() {
	cfg, _, _, err := config.Load(os.Getenv("LUMEN_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{}); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
}
