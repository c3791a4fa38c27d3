// Package main implements the entry point for the Anatomia study API server,
// which schedules spaced-repetition reviews over the platform's deck catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
)

func main() {
	migrateCmd := flag.String(
		"migrate",
		"",
		"run database migrations and exit (up, down, status)",
	)
	flag.Parse()

	if err := run(*migrateCmd); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

// run drives startup so main stays a thin exit-code shim.
func run(migrateCmd string) error {
	app, err := initializeApp()
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if migrateCmd != "" {
		if err := runMigrations(app.config, migrateCmd); err != nil {
			return fmt.Errorf("migration %q failed: %w", migrateCmd, err)
		}
		slog.Info("migrations completed", "command", migrateCmd)
		return nil
	}

	return app.Run(context.Background())
}
