package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"cardiostat/app"
	"cardiostat/internal/config"
	"cardiostat/internal/errors"
)

// main runs the full report with settings from the environment. The cardiostat
// CLI in cmd/cli exposes the individual steps.
func main() {
	// Load environment variables from .env file
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Ignoring .env file: %v", err)
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		os.Exit(errors.ExitCode(err))
	}
	logger := appConfig.Logger()

	if appConfig.Data.File != "" {
		logger.Info("Using data source: %s", appConfig.Data.File)
	}
	svc := app.NewAnalysisService(app.SourceFor(appConfig, logger), appConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	r, files, err := svc.Report(ctx)
	stop()
	if err != nil {
		logger.Error("Report failed [%s]: %v", errors.GetCode(err), err)
		os.Exit(errors.ExitCode(err))
	}

	r.Print(os.Stdout)
	fmt.Printf("\nreport: %s\nhtml:   %s\n", files.Markdown, files.HTML)
}
