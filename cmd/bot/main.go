package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/Jacobbrewer1/warden/pkg/logging"
)

func main() {
	cfg, err := LoadConfig(os.Args[1:], os.Getenv)
	if errors.Is(err, errHelp) {
		return
	} else if err != nil {
		slog.Error("Error loading configuration", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}

	a, err := InitializeApp(cfg)
	if err != nil {
		slog.Error("Error initializing application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}

	a.Info("Starting application", slog.String("store", cfg.StoreBackend))
	if err := a.Run(); err != nil {
		a.Error("Error running application", slog.String(logging.KeyError, err.Error()))
		os.Exit(1)
	}
}
