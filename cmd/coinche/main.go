package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

func main() {
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelInfo,
		TimeFormat: time.Kitchen,
	}))

	if err := newApp(os.Stdout, logger).Run(os.Args); err != nil {
		logger.Error("coinche failed", "error", err)
		os.Exit(1)
	}
}
