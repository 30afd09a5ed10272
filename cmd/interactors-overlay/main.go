package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/interactors-overlay/internal/cli"
	"github.com/interactors-overlay/internal/config"
	"github.com/interactors-overlay/internal/domain"
)

func main() {
	configFile := flag.String("config", "", "path to a configuration file")
	flag.Parse()

	// Load configuration
	var (
		configManager *config.Manager
		err           error
	)
	if *configFile != "" {
		configManager, err = config.NewManagerFromFile(*configFile)
	} else {
		configManager, err = config.NewManager()
	}
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	cfg := configManager.GetConfig()
	logger := config.NewLogger(cfg.Logging)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	err = cli.NewCLI(cfg, logger, os.Stdout).Run(ctx, flag.Args())
	if err == nil {
		return
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		for _, m := range verr.Messages {
			fmt.Fprintln(os.Stderr, m.Text)
		}
	case errors.Is(err, cli.ErrUsage):
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	default:
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(1)
}
