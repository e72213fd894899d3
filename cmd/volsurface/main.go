// Command volsurface generates, prints, charts and serves a synthetic
// implied volatility surface.
package main

import (
	"fmt"
	"os"

	"volsurface/internal/cli"
	"volsurface/internal/config"
	"volsurface/internal/logging"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v; using built-in defaults\n", err)
		cfg = config.Default()
	}

	logger := logging.NewLoggerWithConfig(cfg.Logging.LogConfig())

	if err := cli.NewRootCmd(cfg, logger).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
