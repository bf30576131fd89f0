// Command insightctl inspects PDFs, bulk-imports them as insights, runs
// migrations and mints API tokens.
package main

import (
	"os"

	"insights-backend/internal/shared/telemetry"
)

func main() {
	defer telemetry.Sync()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
