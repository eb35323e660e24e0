// Package main provides the entry point for the kondate API server
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/kondate/mealplanner/internal/infrastructure/config"
	"github.com/kondate/mealplanner/internal/infrastructure/container"
)

const (
	startTimeout = 30 * time.Second
	stopTimeout  = 30 * time.Second
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	app := fx.New(
		container.Module,
		fx.Supply(container.ConfigPath(os.Getenv("KONDATE_CONFIG"))),
		fx.StartTimeout(startTimeout),
		fx.StopTimeout(stopTimeout),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start application: %v\n", err)
		os.Exit(1)
	}

	// Wait returns on SIGINT, SIGTERM or an fx.Shutdowner call
	signal := <-app.Wait()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), stopTimeout)
	defer stopCancel()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stop application gracefully: %v\n", err)
		os.Exit(1)
	}

	os.Exit(signal.ExitCode)
}
