package main

import (
	"errors"
	"os"

	"github.com/eps1lon/esquery-cli/internal/logging"
	"github.com/eps1lon/esquery-cli/internal/queryerr"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Per-file failures were already logged during the run; the
		// sentinel only carries the exit status.
		if !errors.Is(err, queryerr.ErrRunFailed) {
			logger := logging.NewLogger(logging.Config{
				Format: logging.HumanFormat,
				Level:  logging.InfoLevel,
			})
			logger.Error("Command execution failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
		os.Exit(1)
	}
}
